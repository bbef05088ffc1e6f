// Package config provides configuration management for skill-thief using Viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/paths"
)

// Default values for tool settings.
const (
	DefaultGitBinary        = "git"
	DefaultValidatorCommand = "skills-ref"
)

// Config represents the tool's own settings. The project manifest lives in
// package manifest.
type Config struct {
	Version   int             `mapstructure:"version" yaml:"version"`
	Git       GitConfig       `mapstructure:"git" yaml:"git"`
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator"`
	Manifest  string          `mapstructure:"manifest" yaml:"manifest"`
}

// GitConfig controls how git sources are fetched.
type GitConfig struct {
	Binary string `mapstructure:"binary" yaml:"binary"`
}

// ValidatorConfig controls the external validator hook.
type ValidatorConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Only the user config dir: a config.yaml in the project belongs to
	// the project.
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("SKILL_THIEF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("git.binary", DefaultGitBinary)
	viper.SetDefault("validator.command", DefaultValidatorCommand)
	viper.SetDefault("validator.enabled", true)
	viper.SetDefault("manifest", paths.ManifestFilename)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(combine(errs), "invalid tool config")
	}

	return &cfg, nil
}

func combine(errs []error) error {
	var err error
	for _, e := range errs {
		err = errors.CombineErrors(err, e)
	}
	return err
}
