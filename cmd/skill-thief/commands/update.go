package commands

import (
	"github.com/spf13/cobra"
)

var updateInteractive bool

func init() {
	updateCmd.Flags().BoolVarP(&updateInteractive, "interactive", "i", false,
		"choose skills to update from a fuzzy finder")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [name...]",
	Short: "Re-fetch and reinstall skills",
	Long: `Re-fetch skills and replace their installed copies.

Update behaves exactly like install: every run fetches the source again and
overwrites the target. Git sources without a ref pick up the latest commit
of the default branch.`,
	Example: `  # Update everything
  skill-thief update

  # Update one skill
  skill-thief update alpha

  See Also: skill-thief install`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return installSkills(cmd, args, updateInteractive)
	},
}
