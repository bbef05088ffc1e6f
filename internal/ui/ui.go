// Package ui renders command output: install reports, the status table and
// machine-readable listings.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/skillthief/internal/install"
	"github.com/thoreinstein/skillthief/internal/logging"
)

// Printer writes human-oriented output, colored when the writer is a
// terminal that supports it.
type Printer struct {
	out io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

// NewPrinter returns a Printer for w, detecting color support.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, logging.SupportsColor(w))
}

// NewPrinterWithColor returns a Printer with color forced on or off.
func NewPrinterWithColor(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		out:    w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.green, p.yellow, p.red, p.bold} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Installed reports the outcome of one install.
func (p *Printer) Installed(r install.Result) {
	if r.OK() {
		p.green.Fprintf(p.out, "%s installed successfully\n", r.Name)
		return
	}
	p.yellow.Fprintf(p.out, "%s installed with warnings:\n", r.Name)
	p.warnings(r.Warnings)
}

// Checked reports the outcome of validating an installed skill.
func (p *Printer) Checked(r install.Result) {
	if r.OK() {
		p.green.Fprintf(p.out, "%s ok\n", r.Name)
		return
	}
	p.yellow.Fprintf(p.out, "%s has warnings:\n", r.Name)
	p.warnings(r.Warnings)
}

func (p *Printer) warnings(ws []string) {
	for _, w := range ws {
		fmt.Fprintf(p.out, " - %s\n", w)
	}
}

// Error writes a labeled fatal error, e.g. "Config error: ...".
func (p *Printer) Error(label string, err error) {
	if label == "" {
		label = "Error"
	}
	p.red.Fprintf(p.out, "%s:", label)
	fmt.Fprintf(p.out, " %v\n", err)
}

// Hint writes an indented suggestion line.
func (p *Printer) Hint(s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(p.out, "  %s\n", s)
}
