// Package hook runs an optional external validator, skills-ref by default,
// against installed skills and turns its failures into warnings.
package hook

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/logging"
)

// DefaultCommand is the external validator looked up on PATH.
const DefaultCommand = "skills-ref"

// Hook invokes an external validator command.
type Hook struct {
	command string

	once      sync.Once
	available bool
}

// New returns a hook for command, or DefaultCommand when empty.
func New(command string) *Hook {
	if command == "" {
		command = DefaultCommand
	}
	return &Hook{command: command}
}

// Command returns the executable name.
func (h *Hook) Command() string {
	return h.command
}

// Discover reports whether the command exists and answers "--help"
// successfully. The lookup runs once per Hook; absence is silent.
func (h *Hook) Discover(ctx context.Context) bool {
	h.once.Do(func() {
		path, err := exec.LookPath(h.command)
		if err != nil {
			logging.FromContext(ctx).Debug("external validator not found", "command", h.command)
			return
		}
		cmd := exec.CommandContext(ctx, path, "--help")
		if err := cmd.Run(); err != nil {
			logging.FromContext(ctx).Debug("external validator lookup failed", "command", h.command, "error", err)
			return
		}
		h.available = true
	})
	return h.available
}

// Run executes "<command> validate <dir>" and returns at most one warning:
// the tool's stderr, else its stdout, else a generic failure message.
// A successful run, or an undiscovered command, yields nothing.
func (h *Hook) Run(ctx context.Context, dir string) []string {
	if !h.Discover(ctx) {
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, h.command, "validate", dir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return []string{h.command + " validation error: " + err.Error()}
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return []string{msg}
	}
	if msg := strings.TrimSpace(stdout.String()); msg != "" {
		return []string{msg}
	}
	return []string{h.command + " validation failed"}
}
