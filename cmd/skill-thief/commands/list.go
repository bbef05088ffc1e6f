package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/install"
	"github.com/thoreinstein/skillthief/internal/ui"
)

var listFormat string

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "o", string(ui.FormatTable),
		"output format: "+strings.Join(ui.Formats(), ", "))
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared skills and their install status",
	Long: `List every skill declared in the manifest with its source, ref, install
path and status.

Status is "ok" when the installed copy passes the SKILL.md check,
"not installed" when the target directory is absent, and otherwise the
warnings joined by "; ". The external validator is not run.`,
	Example: `  # Show a table
  skill-thief list

  # Machine-readable output
  skill-thief list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	format, err := ui.ParseFormat(listFormat)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	cfg, err := loadManifest()
	if err != nil {
		return err
	}

	statuses := install.New().Status(cfg)
	if format == ui.FormatTable {
		return ui.NewPrinter(cmd.OutOrStdout()).StatusTable(statuses)
	}
	return ui.EncodeStatuses(cmd.OutOrStdout(), format, statuses)
}
