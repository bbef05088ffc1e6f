package ui

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/install"
)

// Format names an output format for listings.
type Format string

// Supported listing formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

// Formats lists the accepted --format values.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	}
	return "", errors.Newf("unknown format %q (valid: table, json, yaml, toml)", s)
}

// listing is the document shape of machine-readable list output. TOML
// needs a table at the root, so every format uses the same wrapper.
type listing struct {
	Skills []install.Status `json:"skills" yaml:"skills" toml:"skills"`
}

// EncodeStatuses writes statuses to w in a machine-readable format.
func EncodeStatuses(w io.Writer, format Format, statuses []install.Status) error {
	doc := listing{Skills: statuses}
	if doc.Skills == nil {
		doc.Skills = []install.Status{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encoding JSON")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(doc), "encoding TOML")
	default:
		return errors.Newf("format %q is not machine-readable", format)
	}
}
