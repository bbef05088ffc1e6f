// Package git wraps the git command line for fetching skill sources.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/logging"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

const urlPrefix = "git+"

// IsURL reports whether source names a git repository rather than a local
// path: a "git+" prefix, a ".git" suffix, an ssh:// URL or an scp-style
// git@ locator.
func IsURL(source string) bool {
	return strings.HasPrefix(source, urlPrefix) ||
		strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "ssh://") ||
		strings.HasPrefix(source, "git@")
}

// CloneURL returns the locator handed to git, with any "git+" prefix removed.
func CloneURL(source string) string {
	return strings.TrimPrefix(source, urlPrefix)
}

// IsCommitHash reports whether ref is a full 40-character hex object id.
func IsCommitHash(ref string) bool {
	if len(ref) != 40 {
		return false
	}
	for _, c := range strings.ToLower(ref) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ValidateURL rejects locators git would interpret as options or as
// command-executing transports.
func ValidateURL(url string) error {
	switch {
	case url == "":
		return errors.New("empty repository URL")
	case strings.HasPrefix(url, "-"):
		return errors.Newf("repository URL %q must not start with '-'", url)
	case strings.HasPrefix(url, "ext::"), strings.HasPrefix(url, "fd::"):
		return errors.Newf("repository transport not allowed: %q", url)
	}
	return nil
}

// FetchError describes a failed git invocation.
type FetchError struct {
	Op     string // clone, checkout or fetch
	URL    string
	Ref    string
	Output string // trimmed stderr, or stdout when stderr was empty
	Err    error
}

func (e *FetchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "git %s %s", e.Op, logging.RedactURL(e.URL))
	if e.Ref != "" {
		fmt.Fprintf(&sb, " at %s", e.Ref)
	}
	sb.WriteString(" failed")
	switch {
	case e.Output != "":
		sb.WriteString(": " + logging.RedactURL(e.Output))
	case e.Err != nil:
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

// Unwrap classifies every FetchError as errors.ErrGitFetch.
func (e *FetchError) Unwrap() error {
	return errors.ErrGitFetch
}

// Client runs git commands with a configurable binary.
type Client struct {
	binary string
}

// New returns a Client using binary, or DefaultBinary when empty.
func New(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{binary: binary}
}

// Binary returns the git executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// Clone fetches url into dest, which must not exist or be empty.
//
// Branch and tag refs are cloned with --depth 1 --branch. A commit hash is
// checked out after a depth-1 clone; when the commit is not the tip, it is
// fetched by id first.
func (c *Client) Clone(ctx context.Context, url, dest, ref string) error {
	if err := ValidateURL(url); err != nil {
		return &FetchError{Op: "clone", URL: url, Ref: ref, Err: err}
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" && !IsCommitHash(ref) {
		args = append(args, "--branch", ref)
	}
	args = append(args, "--", url, dest)
	if err := c.run(ctx, "clone", url, ref, args...); err != nil {
		return err
	}

	if !IsCommitHash(ref) {
		return nil
	}

	if err := c.run(ctx, "checkout", url, ref, "-C", dest, "checkout", "--quiet", ref); err == nil {
		return nil
	}
	logging.FromContext(ctx).Debug("commit not in shallow history, fetching", "ref", ref)
	if err := c.run(ctx, "fetch", url, ref, "-C", dest, "fetch", "--quiet", "--depth", "1", "origin", ref); err != nil {
		return err
	}
	return c.run(ctx, "checkout", url, ref, "-C", dest, "checkout", "--quiet", ref)
}

// Head returns the commit checked out in dir.
func (c *Client) Head(ctx context.Context, dir string) (string, error) {
	out, err := c.output(ctx, "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.Wrapf(err, "reading HEAD of %s", dir)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) run(ctx context.Context, op, url, ref string, args ...string) error {
	var stdout, stderr bytes.Buffer
	cmd := c.command(ctx, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "running git",
		"binary", c.binary, "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return &FetchError{Op: op, URL: url, Ref: ref, Output: output, Err: err}
	}
	return nil
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := c.command(ctx, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Newf("%s", msg)
		}
		return "", err
	}
	return string(out), nil
}

// command never prompts: a fetch that needs credentials fails instead of
// blocking on the terminal.
func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	return cmd
}
