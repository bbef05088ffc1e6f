package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/skillthief/internal/cli/prompt"
	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/manifest"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbosity, quiet, logFormat, logFile, projectDir = 0, false, "text", "", ""
	installInteractive, updateInteractive, validateStrict, initForce = false, false, false, false
	listFormat = "table"

	// Keep the external validator out of command tests.
	t.Setenv("SKILL_THIEF_VALIDATOR_ENABLED", "false")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProject lays out a manifest with a valid skill "alpha" and a skill
// "beta" that has no SKILL.md.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".skill-thief.yaml"), `version: 1
install_path: ./skills
skills:
  - name: alpha
    source: ./vendor/alpha
  - name: beta
    source: ./vendor/beta
`)
	writeFile(t, filepath.Join(dir, "vendor", "alpha", "SKILL.md"),
		"---\nname: alpha\ndescription: First skill\n---\n# Alpha\n")
	writeFile(t, filepath.Join(dir, "vendor", "beta", "README.md"), "# Beta\n")
	return dir
}

func requireExitError(t *testing.T, err error, label string) *errors.ExitError {
	t.Helper()
	require.Error(t, err)
	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %T: %v", err, err)
	assert.Equal(t, label, exitErr.Label)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	return exitErr
}

func TestInstall(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "install", "-C", dir)
	require.NoError(t, err)

	assert.Equal(t, "alpha installed successfully\n"+
		"beta installed with warnings:\n"+
		" - Missing SKILL.md in skill root\n", out)
	assert.FileExists(t, filepath.Join(dir, "skills", "alpha", "SKILL.md"))
	assert.FileExists(t, filepath.Join(dir, "skills", "beta", "README.md"))
}

func TestInstall_Quiet(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "install", "-q", "-C", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.DirExists(t, filepath.Join(dir, "skills", "alpha"))
}

func TestInstall_MissingManifest(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "install", "-C", dir)
	exitErr := requireExitError(t, err, errors.LabelConfig)
	assert.Contains(t, exitErr.Err.Error(), ".skill-thief.yaml")
	assert.Equal(t, "Run: skill-thief init", exitErr.Suggestion)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestInstall_InvalidManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".skill-thief.yaml"), "version: 2\nskills: []\n")

	_, err := execute(t, "install", "-C", dir)
	exitErr := requireExitError(t, err, errors.LabelConfig)
	assert.Contains(t, exitErr.Err.Error(), "version")
	assert.Contains(t, exitErr.Suggestion, ".skill-thief.yaml")
}

func TestInstall_IgnoresProjectConfigYAML(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "config.yaml"), "version: \"3.8\"\nservices: {}\n")
	t.Chdir(dir)

	out, err := execute(t, "install", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha installed successfully\n", out)
}

func TestInstall_UnknownName(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "install", "-C", dir, "alpha", "nope")
	exitErr := requireExitError(t, err, errors.LabelConfig)
	assert.Contains(t, exitErr.Err.Error(), `"nope"`)
	assert.Empty(t, exitErr.Suggestion)
	assert.NoDirExists(t, filepath.Join(dir, "skills"))
}

func TestInstall_SelectedNames(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "install", "-C", dir, "beta")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "beta installed with warnings:"))
	assert.NoDirExists(t, filepath.Join(dir, "skills", "alpha"))
}

func TestInstall_MissingSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".skill-thief.yaml"), `version: 1
skills:
  - name: gone
    source: ./vendor/gone
`)

	_, err := execute(t, "install", "-C", dir)
	exitErr := requireExitError(t, err, errors.LabelInstall)
	assert.Contains(t, exitErr.Err.Error(), "Local source does not exist: ./vendor/gone")
	assert.True(t, errors.Is(err, errors.ErrSourceNotFound))
}

func TestInstall_Interactive(t *testing.T) {
	orig := newSelector
	t.Cleanup(func() { newSelector = orig })
	newSelector = func(_ *cobra.Command) *prompt.Selector {
		return prompt.NewSelectorWithIO(strings.NewReader("1\n"), io.Discard)
	}

	dir := newProject(t)
	out, err := execute(t, "install", "-i", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "alpha installed successfully\n", out)
	assert.NoDirExists(t, filepath.Join(dir, "skills", "beta"))
}

func TestInstall_InteractiveCancelled(t *testing.T) {
	orig := newSelector
	t.Cleanup(func() { newSelector = orig })
	newSelector = func(_ *cobra.Command) *prompt.Selector {
		return prompt.NewSelectorWithIO(strings.NewReader(""), io.Discard)
	}

	dir := newProject(t)
	out, err := execute(t, "install", "-i", "-C", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoDirExists(t, filepath.Join(dir, "skills"))
}

func TestInstall_InteractiveWithNames(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "install", "-i", "-C", dir, "alpha")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestUpdate_Overwrites(t *testing.T) {
	dir := newProject(t)
	_, err := execute(t, "install", "-C", dir, "alpha")
	require.NoError(t, err)

	stale := filepath.Join(dir, "skills", "alpha", "stale.txt")
	writeFile(t, stale, "old")

	out, err := execute(t, "update", "-C", dir, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha installed successfully\n", out)
	assert.NoFileExists(t, stale)
}

func TestList(t *testing.T) {
	dir := newProject(t)
	_, err := execute(t, "install", "-C", dir, "alpha")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "list", "-C", dir)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Skills", lines[0])
		assert.Equal(t, []string{"alpha", "./vendor/alpha", "skills/alpha", "ok"}, strings.Fields(lines[2]))
		assert.True(t, strings.HasSuffix(lines[3], "not installed"))
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "list", "-C", dir, "--format", "json")
		require.NoError(t, err)

		var doc struct {
			Skills []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"skills"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		require.Len(t, doc.Skills, 2)
		assert.Equal(t, "ok", doc.Skills[0].Status)
		assert.Equal(t, "not installed", doc.Skills[1].Status)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "list", "-C", dir, "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "skills:\n  - name: alpha\n")
	})

	t.Run("toml", func(t *testing.T) {
		out, err := execute(t, "list", "-C", dir, "-o", "toml")
		require.NoError(t, err)
		assert.Contains(t, out, "[[skills]]")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "list", "-C", dir, "-o", "xml")
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	})
}

func TestValidate(t *testing.T) {
	dir := newProject(t)
	_, err := execute(t, "install", "-C", dir, "alpha")
	require.NoError(t, err)

	out, err := execute(t, "validate", "-C", dir, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha ok\n", out)

	out, err = execute(t, "validate", "-C", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Equal(t, "alpha ok\nbeta has warnings:\n - not installed\n", out)
}

func TestValidate_Strict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".skill-thief.yaml"), `version: 1
skills:
  - name: blank
    source: ./vendor/blank
`)
	writeFile(t, filepath.Join(dir, "vendor", "blank", "SKILL.md"),
		"---\nname: blank\ndescription: \"   \"\n---\n")

	_, err := execute(t, "install", "-C", dir)
	require.NoError(t, err)

	_, err = execute(t, "validate", "-C", dir)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--strict", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, out, "blank has warnings:")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".skill-thief.yaml")

	out, err := execute(t, "init", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "Created "+path+"\n", out)

	cfg, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"example-skill"}, cfg.Names())

	_, err = execute(t, "init", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	writeFile(t, path, "garbage")
	_, err = execute(t, "init", "--force", "-C", dir)
	require.NoError(t, err)
	_, err = manifest.Load(dir)
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	for _, want := range []string{"skill-thief version", "commit:", "built:", "go:"} {
		assert.Contains(t, out, want)
	}
}

func TestGenDoc(t *testing.T) {
	t.Cleanup(func() { genDocOut, genDocFormat = "", "markdown" })

	t.Run("markdown", func(t *testing.T) {
		dir := t.TempDir()
		genDocOut, genDocFormat = "", "markdown"
		_, err := execute(t, "gen-doc", "--out", dir)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "skill-thief_install.md"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "---\ntitle: \"skill-thief install\"\n"))
		assert.Contains(t, string(data), "/docs/reference/skill-thief/")
	})

	t.Run("man", func(t *testing.T) {
		dir := t.TempDir()
		genDocOut, genDocFormat = "", "markdown"
		_, err := execute(t, "gen-doc", "--out", dir, "--format", "man")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "skill-thief-list.1"))
	})

	t.Run("missing out", func(t *testing.T) {
		genDocOut, genDocFormat = "", "markdown"
		_, err := execute(t, "gen-doc")
		require.Error(t, err)
	})
}
