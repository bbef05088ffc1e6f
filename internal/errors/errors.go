package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid manifest, missing source, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidConfig indicates the project manifest is missing or malformed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrSourceNotFound indicates a local skill source does not exist.
	ErrSourceNotFound = crdb.New("source not found")

	// ErrGitFetch indicates a git clone or checkout failed.
	ErrGitFetch = crdb.New("git fetch failed")

	// ErrSubdirNotFound indicates the declared subdir is absent from the resolved source.
	ErrSubdirNotFound = crdb.New("subdirectory not found")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")
)

// Re-exported helpers from github.com/cockroachdb/errors so callers only
// import this package.
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	WithHint      = crdb.WithHint
	GetAllHints   = crdb.GetAllHints
	CombineErrors = crdb.CombineErrors
)

// Labels printed in front of fatal errors.
const (
	LabelConfig  = "Config error"
	LabelInstall = "Install error"
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Label is printed before the message, e.g. "Config error".
	Label string

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError labels err as a manifest problem.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Label:      LabelConfig,
		Suggestion: "Run: skill-thief init",
	}
}

// NewInstallError labels err as a failure while installing a skill.
func NewInstallError(err error) *ExitError {
	e := &ExitError{
		Err:   err,
		Code:  ExitUser,
		Label: LabelInstall,
	}
	if Is(err, ErrGitFetch) {
		e.Suggestion = "Check the repository URL and ref, and that git can reach it"
	}
	return e
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the process exit code for err. Errors that carry no
// ExitError map to ExitSystem.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}
