// Package source turns a manifest entry's source string into a directory on
// disk, cloning git sources into an exclusively owned staging directory.
package source

import (
	"context"
	"os"
	"sync"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/git"
	"github.com/thoreinstein/skillthief/internal/logging"
	"github.com/thoreinstein/skillthief/internal/manifest"
	"github.com/thoreinstein/skillthief/internal/paths"
)

// Kind classifies a source string.
type Kind int

const (
	// Local is a path on the file system.
	Local Kind = iota
	// Git is a repository fetched with git.
	Git
)

func (k Kind) String() string {
	if k == Git {
		return "git"
	}
	return "local"
}

// Classify reports how source will be fetched.
func Classify(source string) Kind {
	if git.IsURL(source) {
		return Git
	}
	return Local
}

// Cloner fetches a repository into dest. *git.Client satisfies it.
type Cloner interface {
	Clone(ctx context.Context, url, dest, ref string) error
}

// Resolved is a source materialized on disk.
type Resolved struct {
	// Root is the directory holding the source tree.
	Root string
	// Staging is the temporary directory owned by this resolution, empty
	// for local sources.
	Staging string
	// Kind is how the source was fetched.
	Kind Kind

	once sync.Once
}

// Release removes the staging directory. It is safe to call more than once
// and on a nil receiver.
func (r *Resolved) Release() error {
	if r == nil || r.Staging == "" {
		return nil
	}
	var err error
	r.once.Do(func() {
		err = os.RemoveAll(r.Staging)
	})
	return err
}

// Resolver resolves manifest entries.
type Resolver struct {
	cloner  Cloner
	baseDir string
	tempDir string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseDir sets the directory local sources resolve against. Defaults to
// the working directory.
func WithBaseDir(dir string) Option {
	return func(r *Resolver) { r.baseDir = dir }
}

// WithTempDir sets where staging directories are created. Defaults to
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Resolver) { r.tempDir = dir }
}

// NewResolver returns a Resolver that clones with cloner.
func NewResolver(cloner Cloner, opts ...Option) *Resolver {
	r := &Resolver{cloner: cloner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve materializes entry's source. Git sources are cloned into a fresh
// staging directory which the caller must Release; on failure the staging
// directory is already gone. Local sources are only made absolute; their
// existence is the caller's concern.
func (r *Resolver) Resolve(ctx context.Context, entry manifest.SkillEntry) (*Resolved, error) {
	if Classify(entry.Source) == Local {
		root, err := paths.Resolve(r.baseDir, entry.Source)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", entry.Source)
		}
		return &Resolved{Root: root, Kind: Local}, nil
	}

	staging, err := os.MkdirTemp(r.tempDir, paths.StagingPrefix+"*")
	if err != nil {
		return nil, errors.Wrap(err, "creating staging directory")
	}

	url := git.CloneURL(entry.Source)
	logging.FromContext(ctx).Debug("cloning source",
		"skill", entry.Name, "url", url, "ref", entry.Ref, "staging", staging)

	if err := r.cloner.Clone(ctx, url, staging, entry.Ref); err != nil {
		_ = os.RemoveAll(staging)
		return nil, err
	}

	return &Resolved{Root: staging, Staging: staging, Kind: Git}, nil
}
