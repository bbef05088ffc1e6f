// Package manifest loads and writes the project manifest, .skill-thief.yaml,
// which declares the skills to install and where to put them.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/paths"
	"github.com/thoreinstein/skillthief/pkg/fileutil"
	"github.com/thoreinstein/skillthief/pkg/frontmatter"
)

// Version is the only manifest schema version understood.
const Version = 1

// EnvInstallPath overrides install_path when set.
const EnvInstallPath = "SKILL_THIEF_INSTALL_PATH"

// SkillEntry declares one skill to install.
type SkillEntry struct {
	Name    string   `yaml:"name" json:"name" toml:"name"`
	Source  string   `yaml:"source" json:"source" toml:"source"`
	Ref     string   `yaml:"ref,omitempty" json:"ref,omitempty" toml:"ref,omitempty"`
	Subdir  string   `yaml:"subdir,omitempty" json:"subdir,omitempty" toml:"subdir,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`
}

// Config is a validated project manifest.
type Config struct {
	Version     int          `yaml:"version"`
	InstallPath string       `yaml:"install_path"`
	Skills      []SkillEntry `yaml:"skills"`

	// Dir is the directory the manifest was loaded from. Relative install
	// paths and local sources resolve against it.
	Dir string `yaml:"-"`
}

// Error reports an invalid or missing manifest.
type Error struct {
	Path   string // manifest file, when known
	Detail string
	Err    error // underlying cause, e.g. a YAML parse error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

// Unwrap classifies every manifest Error as errors.ErrInvalidConfig.
func (e *Error) Unwrap() error {
	return errors.ErrInvalidConfig
}

// Load reads and validates dir/.skill-thief.yaml. No partial Config is ever
// returned.
func Load(dir string) (*Config, error) {
	return LoadFile(dir, paths.ManifestFilename)
}

// LoadFile is Load with a custom manifest file name.
func LoadFile(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", dir)
	}
	path := filepath.Join(absDir, name)

	raw, err := fileutil.ReadLimited(path, fileutil.MaxManifestSize)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, &Error{Path: path, Detail: fmt.Sprintf("Config file %s not found in %s", name, absDir)}
	case err != nil:
		return nil, &Error{Path: path, Detail: "Failed to read config", Err: err}
	}

	cfg, err := parse(raw)
	if err != nil {
		var merr *Error
		if errors.As(err, &merr) {
			merr.Path = path
		}
		return nil, err
	}
	cfg.Dir = absDir
	return cfg, nil
}

func parse(raw []byte) (*Config, error) {
	// Fields are read from the decoded YAML so key case is significant;
	// viper would fold "Version" into "version".
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &Error{Detail: "Failed to parse YAML", Err: err}
	}
	if root == nil {
		root = map[string]any{}
	}
	doc, ok := frontmatter.StringMap(root)
	if !ok {
		return nil, invalid("Config root must be a mapping")
	}

	cfg := &Config{InstallPath: paths.DefaultInstallPath}

	version, set := doc["version"]
	if !set || version == nil {
		return nil, invalid("Config must include version")
	}
	if n, ok := version.(int); !ok || n != Version {
		return nil, invalid("Unsupported config version; expected 1")
	}
	cfg.Version = Version

	if val, set := doc["install_path"]; set {
		s, ok := val.(string)
		if !ok || s == "" {
			return nil, invalid("install_path must be a non-empty string")
		}
		cfg.InstallPath = s
	}

	// The environment override goes through viper, as tool settings do.
	v := viper.New()
	if err := v.BindEnv("install_path", EnvInstallPath); err != nil {
		return nil, errors.Wrap(err, "binding install_path override")
	}
	if s := v.GetString("install_path"); s != "" {
		cfg.InstallPath = s
	}

	items, ok := doc["skills"].([]any)
	if !ok || len(items) == 0 {
		return nil, invalid("skills must be a non-empty list")
	}

	seen := make(map[string]int, len(items))
	for idx, item := range items {
		entry, err := parseEntry(idx, item)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[entry.Name]; dup {
			return nil, invalid(fmt.Sprintf("skills[%d].name %q duplicates skills[%d]", idx, entry.Name, prev))
		}
		seen[entry.Name] = idx
		cfg.Skills = append(cfg.Skills, entry)
	}

	return cfg, nil
}

func parseEntry(idx int, item any) (SkillEntry, error) {
	m, ok := frontmatter.StringMap(item)
	if !ok {
		return SkillEntry{}, invalid(fmt.Sprintf("skills[%d] must be a mapping", idx))
	}

	var entry SkillEntry
	var err error
	if entry.Name, err = requiredString(m, idx, "name"); err != nil {
		return SkillEntry{}, err
	}
	if !paths.ValidSkillName(entry.Name) {
		return SkillEntry{}, invalid(fmt.Sprintf("skills[%d].name must not contain path separators", idx))
	}
	if entry.Source, err = requiredString(m, idx, "source"); err != nil {
		return SkillEntry{}, err
	}
	if entry.Ref, err = optionalString(m, idx, "ref"); err != nil {
		return SkillEntry{}, err
	}
	if entry.Subdir, err = optionalString(m, idx, "subdir"); err != nil {
		return SkillEntry{}, err
	}
	if entry.Subdir != "" && !paths.ValidSubdir(entry.Subdir) {
		return SkillEntry{}, invalid(fmt.Sprintf("skills[%d].subdir must be a relative path inside the source", idx))
	}

	if raw, set := m["exclude"]; set && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return SkillEntry{}, invalid(fmt.Sprintf("skills[%d].exclude must be a list of strings", idx))
		}
		for _, p := range list {
			s, ok := p.(string)
			if !ok || s == "" {
				return SkillEntry{}, invalid(fmt.Sprintf("skills[%d].exclude must be a list of strings", idx))
			}
			entry.Exclude = append(entry.Exclude, s)
		}
		if err := fileutil.ValidatePatterns(entry.Exclude); err != nil {
			return SkillEntry{}, &Error{Detail: fmt.Sprintf("skills[%d].exclude", idx), Err: err}
		}
	}

	return entry, nil
}

func requiredString(m map[string]any, idx int, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", invalid(fmt.Sprintf("skills[%d].%s must be a non-empty string", idx, key))
	}
	return s, nil
}

func optionalString(m map[string]any, idx int, key string) (string, error) {
	raw, set := m[key]
	if !set || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid(fmt.Sprintf("skills[%d].%s must be a string if set", idx, key))
	}
	return s, nil
}

func invalid(detail string) *Error {
	return &Error{Detail: detail}
}

// InstallDir returns the absolute install base.
func (c *Config) InstallDir() string {
	dir, err := paths.Resolve(c.Dir, c.InstallPath)
	if err != nil {
		return filepath.Clean(c.InstallPath)
	}
	return dir
}

// Target returns the install directory for the named skill.
func (c *Config) Target(name string) string {
	return filepath.Join(c.InstallDir(), name)
}

// SourcePath resolves a local source against the manifest directory.
func (c *Config) SourcePath(source string) string {
	p, err := paths.Resolve(c.Dir, source)
	if err != nil {
		return source
	}
	return p
}

// Names returns the skill names in manifest order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		names[i] = s.Name
	}
	return names
}

// Select returns the entries named in names, in manifest order. An empty
// names selects every entry. Unknown names are an error.
func (c *Config) Select(names []string) ([]SkillEntry, error) {
	if len(names) == 0 {
		return c.Skills, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var selected []SkillEntry
	for _, s := range c.Skills {
		if wanted[s.Name] {
			selected = append(selected, s)
			delete(wanted, s.Name)
		}
	}

	for _, n := range names {
		if wanted[n] {
			return nil, &Error{Detail: fmt.Sprintf("Unknown skill %q; not declared in %s", n, paths.ManifestFilename)}
		}
	}
	return selected, nil
}

// Write stores cfg at path atomically. Optional fields are omitted.
func Write(path string, cfg *Config) error {
	out := *cfg
	if out.Version == 0 {
		out.Version = Version
	}
	if out.InstallPath == "" {
		out.InstallPath = paths.DefaultInstallPath
	}
	return fileutil.AtomicWriteYAML(path, &out)
}

// Starter returns the manifest written by init.
func Starter() *Config {
	return &Config{
		Version:     Version,
		InstallPath: paths.DefaultInstallPath,
		Skills: []SkillEntry{
			{Name: "example-skill", Source: "./vendor/example-skill"},
		},
	}
}
