// Package capture defines the core capture interfaces and types.
//
// Every capture source (active window, idle state, input counts) implements the same
// Capturer interface so the tracker can treat them uniformly.
package capture

import (
	"context"
	"os/exec"
	"time"
)

// Capturer is the interface that all capture sources must implement.
type Capturer interface {
	// Name returns the capturer identifier (e.g., "window", "idle")
	Name() string

	// Available checks if this capturer can run on the current system.
	Available() bool

	// Capture takes a snapshot and returns the capture result.
	Capture(ctx context.Context) (*Result, error)
}

// Result holds the output of a capture operation.
type Result struct {
	// Source identifies which capturer produced this (e.g., "window")
	Source string

	// Timestamp when the capture was taken
	Timestamp time.Time

	// Metadata holds source-specific key-value data.
	// Window: app_class, window_title, pid, is_browser.
	// Idle: idle_seconds, is_idle.
	// Input: keystrokes, mouse_clicks.
	Metadata map[string]string
}

// NewResult creates a Result with the timestamp set to now.
func NewResult(source string) *Result {
	return &Result{
		Source:    source,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// SetMetadata sets a metadata key-value pair and returns r for chaining.
func (r *Result) SetMetadata(key, value string) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec; the process is killed when ctx ends.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
