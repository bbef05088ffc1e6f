// Package errors provides error handling conventions for the skill-thief CLI.
//
// It re-exports the constructors and inspectors of
// github.com/cockroachdb/errors, defines the sentinel errors that classify
// fatal install failures, and an ExitError type carrying the process exit
// code and the label used when rendering the failure.
//
// # Sentinel Errors
//
// Each fatal failure kind unwraps to one sentinel, checkable with [Is]:
//
//	if errors.Is(err, errors.ErrGitFetch) {
//	    // clone or checkout failed
//	}
//
//   - [ErrInvalidConfig]: the project manifest is missing or malformed
//   - [ErrSourceNotFound]: a local source path does not exist
//   - [ErrGitFetch]: git clone or checkout failed
//   - [ErrSubdirNotFound]: the declared subdir is absent
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): Manifest or install failure
//   - ExitSystem (2): Unexpected system failure
package errors
