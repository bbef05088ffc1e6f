// Package install materializes the skills declared in a manifest: it
// resolves each source, replaces the installed copy, and validates it.
package install

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/git"
	"github.com/thoreinstein/skillthief/internal/logging"
	"github.com/thoreinstein/skillthief/internal/manifest"
	"github.com/thoreinstein/skillthief/internal/paths"
	"github.com/thoreinstein/skillthief/internal/skill/validator"
	"github.com/thoreinstein/skillthief/internal/source"
	"github.com/thoreinstein/skillthief/pkg/fileutil"
)

// Status states other than the joined warning text.
const (
	StateOK           = "ok"
	StateNotInstalled = "not installed"
)

// Result is the outcome of installing one skill.
type Result struct {
	Name     string
	Target   string
	Warnings []string
}

// OK reports whether the skill installed without warnings.
func (r Result) OK() bool {
	return len(r.Warnings) == 0
}

// Status describes the installed state of a configured skill.
type Status struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Source   string   `json:"source" yaml:"source" toml:"source"`
	Ref      string   `json:"ref" yaml:"ref" toml:"ref"`
	Path     string   `json:"install_path" yaml:"install_path" toml:"install_path"`
	Target   string   `json:"target" yaml:"target" toml:"target"`
	State    string   `json:"status" yaml:"status" toml:"status"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
}

// SourceError reports a local source path that does not exist.
type SourceError struct {
	Name   string
	Source string
	Path   string
}

func (e *SourceError) Error() string {
	return "Local source does not exist: " + e.Source
}

// Unwrap classifies the error as errors.ErrSourceNotFound.
func (e *SourceError) Unwrap() error {
	return errors.ErrSourceNotFound
}

// SubdirError reports a declared subdir missing from the resolved source.
type SubdirError struct {
	Name   string
	Subdir string
}

func (e *SubdirError) Error() string {
	return "Subdir not found: " + e.Subdir
}

// Unwrap classifies the error as errors.ErrSubdirNotFound.
func (e *SubdirError) Unwrap() error {
	return errors.ErrSubdirNotFound
}

// Validator inspects an installed skill. *validator.Validator satisfies it.
type Validator interface {
	Validate(dir, expectedName string) []string
}

// Hook is an external check run after validation. *hook.Hook satisfies it.
type Hook interface {
	Run(ctx context.Context, dir string) []string
}

// Installer installs skills sequentially.
type Installer struct {
	cloner    source.Cloner
	validator Validator
	hook      Hook
	tempDir   string
	onResult  func(Result)
}

// Option configures an Installer.
type Option func(*Installer)

// WithCloner sets how git sources are fetched. Defaults to git.New("").
func WithCloner(c source.Cloner) Option {
	return func(i *Installer) { i.cloner = c }
}

// WithValidator replaces the default SKILL.md validator.
func WithValidator(v Validator) Option {
	return func(i *Installer) { i.validator = v }
}

// WithHook adds an external check whose output becomes warnings.
func WithHook(h Hook) Option {
	return func(i *Installer) { i.hook = h }
}

// WithTempDir sets where git staging directories are created.
func WithTempDir(dir string) Option {
	return func(i *Installer) { i.tempDir = dir }
}

// WithProgress registers fn to be called after each skill installs.
func WithProgress(fn func(Result)) Option {
	return func(i *Installer) { i.onResult = fn }
}

// New returns an Installer with the given options.
func New(opts ...Option) *Installer {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}
	if i.cloner == nil {
		i.cloner = git.New("")
	}
	if i.validator == nil {
		i.validator = validator.New()
	}
	return i
}

// Install installs the entries of cfg named in names, or all of them when
// names is empty, in manifest order. The first fatal error stops the run;
// the results of skills already installed are returned with it.
// Validation findings are never fatal.
func (i *Installer) Install(ctx context.Context, cfg *manifest.Config, names []string) ([]Result, error) {
	entries, err := cfg.Select(names)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx).With("run_id", uuid.NewString())
	ctx = logging.NewContext(ctx, logger)
	logger.Info("starting install", "skills", len(entries), "install_path", cfg.InstallDir())

	resolver := source.NewResolver(i.cloner,
		source.WithBaseDir(cfg.Dir),
		source.WithTempDir(i.tempDir),
	)

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		res, err := i.installOne(ctx, resolver, cfg, entry)
		if err != nil {
			logger.Debug("install failed", "skill", entry.Name, "error", err)
			return results, errors.Wrapf(err, "installing %s", entry.Name)
		}
		results = append(results, res)
		if i.onResult != nil {
			i.onResult(res)
		}
	}
	return results, nil
}

func (i *Installer) installOne(ctx context.Context, resolver *source.Resolver, cfg *manifest.Config, entry manifest.SkillEntry) (Result, error) {
	logger := logging.FromContext(ctx).With("skill", entry.Name)

	base := cfg.InstallDir()
	if err := paths.EnsureDir(base, paths.DefaultDirPerm); err != nil {
		return Result{}, errors.Wrapf(err, "creating install path %s", base)
	}

	resolved, err := resolver.Resolve(ctx, entry)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := resolved.Release(); err != nil {
			logger.Warn("removing staging directory", "path", resolved.Staging, "error", err)
		}
	}()

	if resolved.Kind == source.Local {
		if _, err := os.Stat(resolved.Root); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Result{}, &SourceError{Name: entry.Name, Source: entry.Source, Path: resolved.Root}
			}
			return Result{}, errors.Wrapf(err, "checking source %s", entry.Source)
		}
	} else {
		i.logCommit(ctx, logger, resolved.Root)
	}

	src := resolved.Root
	if entry.Subdir != "" {
		src = filepath.Join(src, filepath.FromSlash(entry.Subdir))
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			return Result{}, &SubdirError{Name: entry.Name, Subdir: entry.Subdir}
		}
	}

	target := cfg.Target(entry.Name)
	files := 0
	opts := fileutil.CopyOptions{
		Exclude: entry.Exclude,
		OnFile: func(rel string) {
			files++
			logger.Log(ctx, logging.LevelTrace, "copied file", "file", rel)
		},
	}
	if err := fileutil.ReplaceDir(src, target, opts); err != nil {
		return Result{}, errors.Wrapf(err, "copying %s to %s", src, target)
	}

	warnings := i.validator.Validate(target, entry.Name)
	if i.hook != nil {
		warnings = append(warnings, i.hook.Run(ctx, target)...)
	}

	logger.Info("installed skill", "target", target, "files", files, "warnings", len(warnings))
	return Result{Name: entry.Name, Target: target, Warnings: warnings}, nil
}

func (i *Installer) logCommit(ctx context.Context, logger *slog.Logger, dir string) {
	h, ok := i.cloner.(interface {
		Head(ctx context.Context, dir string) (string, error)
	})
	if !ok {
		return
	}
	if commit, err := h.Head(ctx, dir); err == nil {
		logger.Debug("resolved commit", "commit", commit)
	}
}

// Status reports the installed state of every skill in cfg. A present
// target is validated but never modified.
func (i *Installer) Status(cfg *manifest.Config) []Status {
	out := make([]Status, 0, len(cfg.Skills))
	for _, entry := range cfg.Skills {
		target := cfg.Target(entry.Name)
		st := Status{
			Name:   entry.Name,
			Source: entry.Source,
			Ref:    entry.Ref,
			Path:   filepath.Join(cfg.InstallPath, entry.Name),
			Target: target,
		}

		info, err := os.Stat(target)
		switch {
		case err != nil || !info.IsDir():
			st.State = StateNotInstalled
		default:
			st.Warnings = i.validator.Validate(target, entry.Name)
			if len(st.Warnings) == 0 {
				st.State = StateOK
			} else {
				st.State = strings.Join(st.Warnings, "; ")
			}
		}
		out = append(out, st)
	}
	return out
}

// Check validates the installed copies of the named skills without
// copying anything. Skills that are not installed report StateNotInstalled
// as their only warning.
func (i *Installer) Check(ctx context.Context, cfg *manifest.Config, names []string) ([]Result, error) {
	entries, err := cfg.Select(names)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		target := cfg.Target(entry.Name)
		res := Result{Name: entry.Name, Target: target}
		if info, err := os.Stat(target); err != nil || !info.IsDir() {
			res.Warnings = []string{StateNotInstalled}
		} else {
			res.Warnings = i.validator.Validate(target, entry.Name)
			if i.hook != nil {
				res.Warnings = append(res.Warnings, i.hook.Run(ctx, target)...)
			}
		}
		results = append(results, res)
	}
	return results, nil
}
