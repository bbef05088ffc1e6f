// Package frontmatter extracts the YAML header of SKILL.md files.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/skillthief/internal/errors"
)

var (
	// ErrMissing is returned when content does not open with a "---" line.
	ErrMissing = errors.New("missing YAML frontmatter")

	// ErrNotClosed is returned when no "\n---" follows the opening delimiter.
	ErrNotClosed = errors.New("frontmatter not closed")

	// ErrNotMapping is returned when the header is valid YAML but not a mapping.
	ErrNotMapping = errors.New("frontmatter must be a mapping")
)

// SyntaxError wraps a YAML decoding failure of the header.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return e.Err.Error() }

func (e *SyntaxError) Unwrap() error { return e.Err }

var closing = []byte("\n---")

// Split separates content into the raw header between the delimiters and
// the body following the closing delimiter line.
func Split(content []byte) (header, body []byte, err error) {
	var start int
	switch {
	case bytes.HasPrefix(content, []byte("---\n")):
		start = 4
	case bytes.HasPrefix(content, []byte("---\r\n")):
		start = 5
	default:
		return nil, nil, ErrMissing
	}

	// The closing "\n---" is searched for after the opening line, so
	// "---\n---\n" is unclosed; an empty header needs a blank line.
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return nil, nil, ErrNotClosed
	}
	end := start + idx
	header = content[start:end]

	rest := content[end+len(closing):]
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
		body = rest[nl+1:]
	}
	return header, body, nil
}

// Extract parses the frontmatter of content into a generic mapping. An empty
// header yields an empty, non-nil map.
func Extract(content []byte) (map[string]any, error) {
	header, _, err := Split(content)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(header, &doc); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	m, ok := StringMap(doc)
	if !ok {
		return nil, ErrNotMapping
	}
	return m, nil
}

// StringMap returns v as a map with string keys. yaml.v3 decodes a mapping
// with any non-string key as map[any]any; its keys are formatted with
// fmt.Sprint. Other values report false.
func StringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// Decode parses the frontmatter of content into v, typically a struct with
// yaml tags.
func Decode(content []byte, v any) error {
	header, _, err := Split(content)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(header, v); err != nil {
		return &SyntaxError{Err: err}
	}
	return nil
}
