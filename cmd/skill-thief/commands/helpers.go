package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/cli/prompt"
	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/git"
	"github.com/thoreinstein/skillthief/internal/hook"
	"github.com/thoreinstein/skillthief/internal/install"
	"github.com/thoreinstein/skillthief/internal/manifest"
)

// newSelector builds the interactive skill picker. Tests replace it.
var newSelector = func(_ *cobra.Command) *prompt.Selector {
	return prompt.NewSelector()
}

// loadManifest reads the project manifest from --dir or the working
// directory.
func loadManifest() (*manifest.Config, error) {
	cfg, err := manifest.LoadFile(projectDir, tools().Manifest)
	if err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// configError labels a manifest problem. Only a missing manifest suggests
// running init.
func configError(err error) error {
	e := errors.NewConfigError(err)
	var merr *manifest.Error
	if errors.As(err, &merr) && merr.Path != "" {
		if _, statErr := os.Stat(merr.Path); statErr == nil {
			e.Suggestion = "Check " + merr.Path
		}
		return e
	}
	e.Suggestion = ""
	return e
}

// newInstaller wires the installer from tool settings.
func newInstaller(opts ...install.Option) *install.Installer {
	t := tools()
	all := []install.Option{install.WithCloner(git.New(t.Git.Binary))}
	if t.Validator.Enabled {
		all = append(all, install.WithHook(hook.New(t.Validator.Command)))
	}
	return install.New(append(all, opts...)...)
}
