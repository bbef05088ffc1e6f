package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/install"
	"github.com/thoreinstein/skillthief/internal/skill/validator"
	"github.com/thoreinstein/skillthief/internal/ui"
)

var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"also check name length and blank descriptions")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [name...]",
	Short: "Check installed skills without reinstalling",
	Long: `Check the installed copy of each skill.

Runs the SKILL.md check, and the external validator when it is available,
against <install_path>/<name>. Nothing is fetched or copied.

Exit codes:
  0 - No warnings
  1 - At least one skill reported warnings or is not installed`,
	RunE: runValidate,
}

// errValidationFailed signals a non-zero exit after warnings were printed.
var errValidationFailed = errors.New("validation failed")

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadManifest()
	if err != nil {
		return err
	}

	inst := newInstaller(install.WithValidator(validator.New(validator.WithStrict(validateStrict))))
	results, err := inst.Check(cmd.Context(), cfg, args)
	if err != nil {
		return configError(err)
	}

	p := ui.NewPrinter(out(cmd))
	failed := 0
	for _, r := range results {
		p.Checked(r)
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return &errors.ExitError{
			Err:        errors.Wrapf(errValidationFailed, "%d of %d skills reported warnings", failed, len(results)),
			Code:       errors.ExitUser,
			Suggestion: "Run: skill-thief update",
		}
	}
	return nil
}
