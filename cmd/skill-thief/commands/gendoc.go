package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/skillthief/internal/errors"
)

var (
	genDocOut    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if genDocOut == "" {
			return errors.NewUserError(errors.New("output directory is required"), "Pass --out <dir>")
		}

		if err := os.MkdirAll(genDocOut, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		switch genDocFormat {
		case "markdown":
			// Frontmatter makes the pages usable as static-site content
			if err := doc.GenMarkdownTreeCustom(rootCmd, genDocOut, filePrepender, linkHandler); err != nil {
				return errors.Wrap(err, "generating markdown")
			}
		case "man":
			header := &doc.GenManHeader{Title: "SKILL-THIEF", Section: "1"}
			if err := doc.GenManTree(rootCmd, header, genDocOut); err != nil {
				return errors.Wrap(err, "generating man pages")
			}
		default:
			return errors.NewUserError(errors.Newf("unknown doc format %q", genDocFormat), "Use markdown or man")
		}

		fmt.Fprintf(out(cmd), "Documentation generated in %s\n", genDocOut)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocOut, "out", "o", "", "Output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "Documentation format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// skill-thief_install.md -> skill-thief install
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
