// Package validator checks installed skill directories against the SKILL.md
// conventions. Findings are warnings: they never fail an install.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/paths"
	"github.com/thoreinstein/skillthief/pkg/fileutil"
	"github.com/thoreinstein/skillthief/pkg/frontmatter"
)

// Warning texts. Callers compare against these in tests and tooling.
const (
	WarnMissingSkillFile = "Missing SKILL.md in skill root"
	WarnMissingHeader    = "SKILL.md missing YAML frontmatter"
	WarnHeaderNotClosed  = "SKILL.md frontmatter not closed"
	WarnHeaderNotMapping = "SKILL.md frontmatter must be a mapping"
	WarnMissingName      = "SKILL.md frontmatter missing name"
	WarnMissingDesc      = "SKILL.md frontmatter missing description"
	WarnNameRules        = "Skill name in frontmatter violates naming rules"
	WarnNameMismatch     = "Skill name in frontmatter does not match directory name"
	WarnNameTooLong      = "Skill name in frontmatter exceeds 64 characters"
	WarnDescriptionBlank = "SKILL.md frontmatter description is only whitespace"
	readFailurePrefix    = "Failed to read SKILL.md: "
	parseFailurePrefix   = "Failed to parse SKILL.md frontmatter: "
	maxNameLength        = 64
)

// nameRegex accepts lowercase alphanumerics with single internal hyphens.
var nameRegex = regexp.MustCompile(`^[a-z0-9](-?[a-z0-9])*$`)

// Option configures a Validator.
type Option func(*Validator)

// Validator inspects skill directories.
type Validator struct {
	strict bool
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithStrict adds the length and whitespace checks on top of the
// structural ones.
func WithStrict(strict bool) Option {
	return func(v *Validator) {
		v.strict = strict
	}
}

// Validate checks dir with a default Validator.
func Validate(dir, expectedName string) []string {
	return New().Validate(dir, expectedName)
}

// ValidName reports whether name satisfies the skill naming rules.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// Validate returns the warnings for the skill rooted at dir, in a stable
// order. An empty result means the skill is clean. expectedName is the
// install name; an empty value skips the mismatch check.
func (v *Validator) Validate(dir, expectedName string) []string {
	skillFile := filepath.Join(dir, paths.SkillFile)
	if _, err := os.Stat(skillFile); errors.Is(err, os.ErrNotExist) {
		return []string{WarnMissingSkillFile}
	}

	content, err := fileutil.ReadLimited(skillFile, fileutil.MaxManifestSize)
	if err != nil {
		return []string{readFailurePrefix + err.Error()}
	}

	meta, err := frontmatter.Extract(content)
	if err != nil {
		return []string{headerWarning(err)}
	}

	var warnings []string
	name := scalarText(meta["name"])
	description := scalarText(meta["description"])

	if name == "" {
		warnings = append(warnings, WarnMissingName)
	}
	if description == "" {
		warnings = append(warnings, WarnMissingDesc)
	}
	if name != "" && !ValidName(name) {
		warnings = append(warnings, WarnNameRules)
	}
	if name != "" && expectedName != "" && name != expectedName {
		warnings = append(warnings, WarnNameMismatch)
	}

	if v.strict {
		if len(name) > maxNameLength {
			warnings = append(warnings, WarnNameTooLong)
		}
		if description != "" && strings.TrimSpace(description) == "" {
			warnings = append(warnings, WarnDescriptionBlank)
		}
	}

	return warnings
}

func headerWarning(err error) string {
	var syn *frontmatter.SyntaxError
	switch {
	case errors.Is(err, frontmatter.ErrMissing):
		return WarnMissingHeader
	case errors.Is(err, frontmatter.ErrNotClosed):
		return WarnHeaderNotClosed
	case errors.Is(err, frontmatter.ErrNotMapping):
		return WarnHeaderNotMapping
	case errors.As(err, &syn):
		return parseFailurePrefix + syn.Error()
	default:
		return parseFailurePrefix + err.Error()
	}
}

// scalarText renders YAML scalars as text. Collections and null are treated
// as absent.
func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
