// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/logging"
	"github.com/thoreinstein/skillthief/internal/manifest"
)

// Sentinel errors for skill selection.
var (
	ErrNoSkills           = errors.New("no skills to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// finder picks indexes out of entries. The terminal implementation wraps
// go-fuzzyfinder.
type finder func(entries []manifest.SkillEntry) ([]int, error)

// Selector handles interactive skill selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	find   finder
}

// NewSelector creates a Selector using stdin and stdout. When both are
// terminals the fuzzy finder is used, otherwise a numbered prompt.
func NewSelector() *Selector {
	s := &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
	if logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout) {
		s.find = fuzzyFind
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
// It always uses the numbered prompt.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectSkills prompts the user to choose skills from entries and returns
// their names.
//
// Returns:
//   - ErrNoSkills if entries is empty
//   - The only name if a single entry exists (no prompt)
//   - ErrInvalidSelection if a number is malformed or out of range
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) SelectSkills(entries []manifest.SkillEntry) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrNoSkills
	}
	if len(entries) == 1 {
		return []string{entries[0].Name}, nil
	}

	var idxs []int
	var err error
	if s.find != nil {
		idxs, err = s.find(entries)
	} else {
		idxs, err = s.numbered(entries)
	}
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, ErrSelectionCancelled
	}

	names := make([]string, 0, len(idxs))
	for _, i := range idxs {
		names = append(names, entries[i].Name)
	}
	return names, nil
}

func (s *Selector) numbered(entries []manifest.SkillEntry) ([]int, error) {
	fmt.Fprintln(s.writer, "Skills declared in the manifest:")
	for i, e := range entries {
		fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, e.Name, e.Source)
	}
	fmt.Fprintf(s.writer, "Select skills, comma separated [all]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "all") {
		all := make([]int, len(entries))
		for i := range entries {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var idxs []int
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", field)
		}
		if n < 1 || n > len(entries) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(entries))
		}
		if !seen[n-1] {
			seen[n-1] = true
			idxs = append(idxs, n-1)
		}
	}
	return idxs, nil
}

func fuzzyFind(entries []manifest.SkillEntry) ([]int, error) {
	idxs, err := fuzzyfinder.FindMulti(
		entries,
		func(i int) string {
			return entries[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(entries[i])
		}),
		fuzzyfinder.WithHeader("Tab to mark, Enter to install"),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return idxs, nil
}

// preview renders the details pane for one entry.
func preview(e manifest.SkillEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:   %s\n", e.Name)
	fmt.Fprintf(&sb, "Source: %s\n", logging.RedactURL(e.Source))
	if e.Ref != "" {
		fmt.Fprintf(&sb, "Ref:    %s\n", e.Ref)
	}
	if e.Subdir != "" {
		fmt.Fprintf(&sb, "Subdir: %s\n", e.Subdir)
	}
	if len(e.Exclude) > 0 {
		fmt.Fprintf(&sb, "Exclude:\n")
		for _, p := range e.Exclude {
			fmt.Fprintf(&sb, "  - %s\n", p)
		}
	}
	return sb.String()
}
