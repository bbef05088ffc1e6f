// Package main is the entry point for the skill-thief CLI.
package main

import (
	"os"

	"github.com/thoreinstein/skillthief/cmd/skill-thief/commands"
	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		report(ui.NewPrinter(os.Stderr), err)
		os.Exit(errors.ExitCode(err))
	}
}

func report(p *ui.Printer, err error) {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		p.Error(exitErr.Label, exitErr.Err)
		p.Hint(exitErr.Suggestion)
		return
	}
	p.Error("", err)
}
