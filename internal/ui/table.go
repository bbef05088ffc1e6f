package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/thoreinstein/skillthief/internal/install"
)

// statusColumns are the headers of the list table.
var statusColumns = []string{"Name", "Source", "Ref", "Install Path", "Status"}

// StatusTable writes statuses as an aligned table under a "Skills" title.
func (p *Printer) StatusTable(statuses []install.Status) error {
	p.bold.Fprintln(p.out, "Skills")

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(statusColumns, "\t"))
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Source, s.Ref, s.Path, p.state(s.State))
	}
	return tw.Flush()
}

// state colors the status cell. Only the last column is colored: escape
// codes would skew tabwriter widths anywhere else.
func (p *Printer) state(s string) string {
	switch s {
	case install.StateOK:
		return p.green.Sprint(s)
	case install.StateNotInstalled:
		return s
	default:
		return p.yellow.Sprint(s)
	}
}
