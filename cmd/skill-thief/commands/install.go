package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/cli/prompt"
	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/install"
	"github.com/thoreinstein/skillthief/internal/ui"
)

var installInteractive bool

func init() {
	installCmd.Flags().BoolVarP(&installInteractive, "interactive", "i", false,
		"choose skills to install from a fuzzy finder")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install [name...]",
	Short: "Install skills declared in the manifest",
	Long: `Install skills declared in .skill-thief.yaml.

With no arguments every skill is installed, in manifest order. Naming skills
installs only those. Each skill is copied into <install_path>/<name>,
replacing any previous copy, then its SKILL.md is checked. Problems found
by the check are reported as warnings and never undo the install.

The first skill that cannot be installed stops the run.`,
	Example: `  # Install everything
  skill-thief install

  # Install two skills
  skill-thief install alpha beta

  # Pick skills interactively
  skill-thief install -i

  See Also: skill-thief update, skill-thief list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return installSkills(cmd, args, installInteractive)
	},
}

// installSkills backs both install and update.
func installSkills(cmd *cobra.Command, names []string, interactive bool) error {
	cfg, err := loadManifest()
	if err != nil {
		return err
	}

	if interactive {
		if len(names) > 0 {
			return errors.NewUserError(
				errors.New("--interactive cannot be combined with skill names"),
				"Pass either skill names or --interactive")
		}
		names, err = newSelector(cmd).SelectSkills(cfg.Skills)
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Selection cancelled")
			return nil
		}
		if err != nil {
			return errors.NewUserError(err, "")
		}
	}

	// Unknown names fail before anything is touched on disk.
	if _, err := cfg.Select(names); err != nil {
		return configError(err)
	}

	p := ui.NewPrinter(out(cmd))
	inst := newInstaller(install.WithProgress(p.Installed))
	if _, err := inst.Install(cmd.Context(), cfg, names); err != nil {
		return errors.NewInstallError(err)
	}
	return nil
}
