// Package frontmatter extracts the YAML block at the top of a SKILL.md file.
//
// A header opens with a line containing exactly "---" and closes at the next
// "\n---". Only the delimiter scan lives here; the enclosed slice is handed
// to gopkg.in/yaml.v3.
//
//	meta, err := frontmatter.Extract(content)
//	switch {
//	case errors.Is(err, frontmatter.ErrMissing):
//	case errors.Is(err, frontmatter.ErrNotClosed):
//	}
//
// [Extract] returns a generic mapping so callers can report each missing
// field independently. [Decode] unmarshals into a typed value.
package frontmatter
