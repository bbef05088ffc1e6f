package config

import (
	"strings"

	"github.com/thoreinstein/skillthief/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not 1.
	ErrUnsupportedVersion = errors.New("unsupported config version; expected 1")

	// ErrEmptyValue indicates a required string setting is blank.
	ErrEmptyValue = errors.New("value must not be empty")

	// ErrInvalidName indicates a file name setting contains a path separator.
	ErrInvalidName = errors.New("must be a file name, not a path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, ErrUnsupportedVersion)
	}

	if strings.TrimSpace(cfg.Git.Binary) == "" {
		errs = append(errs, &FieldError{Field: "git.binary", Err: ErrEmptyValue})
	}

	if cfg.Validator.Enabled && strings.TrimSpace(cfg.Validator.Command) == "" {
		errs = append(errs, &FieldError{Field: "validator.command", Err: ErrEmptyValue})
	}

	switch {
	case strings.TrimSpace(cfg.Manifest) == "":
		errs = append(errs, &FieldError{Field: "manifest", Err: ErrEmptyValue})
	case strings.ContainsAny(cfg.Manifest, `/\`):
		errs = append(errs, &FieldError{Field: "manifest", Value: cfg.Manifest, Err: ErrInvalidName})
	}

	return errs
}

// FieldError represents an error for a specific setting.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
