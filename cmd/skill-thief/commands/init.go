package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/manifest"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing manifest")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter manifest",
	Long: `Write a starter .skill-thief.yaml in the project directory.

The starter declares one local skill under ./vendor/example-skill and the
default install path ./skills. An existing manifest is left alone unless
--force is given.`,
	Example: `  # Create .skill-thief.yaml here
  skill-thief init

  # Replace an existing manifest
  skill-thief init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", projectDir)
	}
	path := filepath.Join(dir, tools().Manifest)

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite")
	}

	if err := manifest.Write(path, manifest.Starter()); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	fmt.Fprintf(out(cmd), "Created %s\n", path)
	return nil
}
