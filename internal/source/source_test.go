package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/git"
	"github.com/thoreinstein/skillthief/internal/manifest"
)

type mockCloner struct {
	mock.Mock
}

func (m *mockCloner) Clone(ctx context.Context, url, dest, ref string) error {
	args := m.Called(ctx, url, dest, ref)
	if fn, ok := args.Get(1).(func(string)); ok {
		fn(dest)
	}
	return args.Error(0)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Git, Classify("git+https://example.com/x"))
	assert.Equal(t, Git, Classify("git@example.com:x.git"))
	assert.Equal(t, Local, Classify("./vendor/x"))
	assert.Equal(t, "git", Git.String())
	assert.Equal(t, "local", Local.String())
}

func TestResolve_Local(t *testing.T) {
	base := t.TempDir()
	cloner := &mockCloner{}
	r := NewResolver(cloner, WithBaseDir(base))

	res, err := r.Resolve(context.Background(), manifest.SkillEntry{Name: "alpha", Source: "vendor/alpha"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "vendor", "alpha"), res.Root)
	assert.Empty(t, res.Staging)
	assert.Equal(t, Local, res.Kind)
	assert.NoError(t, res.Release())
	cloner.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_Git(t *testing.T) {
	tmp := t.TempDir()
	cloner := &mockCloner{}
	cloner.On("Clone", mock.Anything, "https://example.com/skills", mock.Anything, "v1").
		Return(nil, func(dest string) {
			_ = os.WriteFile(filepath.Join(dest, "SKILL.md"), []byte("x"), 0o644)
		}).Once()

	r := NewResolver(cloner, WithTempDir(tmp))
	res, err := r.Resolve(context.Background(), manifest.SkillEntry{
		Name:   "alpha",
		Source: "git+https://example.com/skills",
		Ref:    "v1",
	})
	require.NoError(t, err)
	cloner.AssertExpectations(t)

	assert.Equal(t, Git, res.Kind)
	assert.Equal(t, tmp, filepath.Dir(res.Staging))
	assert.True(t, strings.HasPrefix(filepath.Base(res.Staging), "skillthief-"), res.Staging)
	assert.FileExists(t, filepath.Join(res.Root, "SKILL.md"))

	require.NoError(t, res.Release())
	assert.NoDirExists(t, res.Staging)
	assert.NoError(t, res.Release(), "second release is a no-op")
}

func TestResolve_GitFailureRemovesStaging(t *testing.T) {
	tmp := t.TempDir()
	cloner := &mockCloner{}
	fetchErr := &git.FetchError{Op: "clone", URL: "git@example.com:x.git", Output: "fatal: repository not found"}
	cloner.On("Clone", mock.Anything, "git@example.com:x.git", mock.Anything, "").Return(fetchErr, nil)

	r := NewResolver(cloner, WithTempDir(tmp))
	res, err := r.Resolve(context.Background(), manifest.SkillEntry{Name: "x", Source: "git@example.com:x.git"})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrGitFetch))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory must be removed on failure")
}

func TestRelease_Nil(t *testing.T) {
	var r *Resolved
	assert.NoError(t, r.Release())
}
