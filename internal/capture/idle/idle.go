// Package idle detects whether the user is interacting with the machine.
//
// Wayland does not expose input events to ordinary clients, so on Hyprland
// activity is inferred from cursor movement and active window switches. On
// X11 xprintidle reports the idle time directly; without it the cursor
// position from xdotool is used the same way.
package idle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Atharva-Kanherkar/cadence/internal/capture"
	"github.com/Atharva-Kanherkar/cadence/internal/platform"
)

// DefaultThreshold is how long without input before the user counts as idle.
const DefaultThreshold = 60 * time.Second

// Capturer captures user idle state.
type Capturer struct {
	platform  *platform.Platform
	run       capture.Runner
	now       func() time.Time
	threshold time.Duration

	mu sync.Mutex
	// previous state, to detect changes
	lastCursor       string
	lastWindowAddr   string
	lastActivityTime time.Time
}

// New creates a new idle Capturer.
func New(plat *platform.Platform) *Capturer {
	return NewWithRunner(plat, capture.ExecRunner, time.Now)
}

// NewWithRunner creates a Capturer with injected command runner and clock.
func NewWithRunner(plat *platform.Platform, run capture.Runner, now func() time.Time) *Capturer {
	return &Capturer{
		platform:         plat,
		run:              run,
		now:              now,
		threshold:        DefaultThreshold,
		lastActivityTime: now(),
	}
}

// Name returns the capturer identifier.
func (c *Capturer) Name() string {
	return "idle"
}

// Available checks if idle detection is possible.
func (c *Capturer) Available() bool {
	return c.platform.CanDetectIdle()
}

// HyprlandCursorPos represents cursor position from hyprctl.
type HyprlandCursorPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Capture reports idle_seconds and is_idle.
func (c *Capturer) Capture(ctx context.Context) (*capture.Result, error) {
	var idle time.Duration
	var err error

	switch {
	case c.platform.DisplayServer == platform.DisplayServerHyprland:
		idle, err = c.hyprlandIdle(ctx)
	case c.platform.DisplayServer == platform.DisplayServerX11 && c.platform.HasXprintidle:
		idle, err = c.xprintidle(ctx)
	case c.platform.DisplayServer == platform.DisplayServerX11:
		idle, err = c.xdotoolIdle(ctx)
	default:
		return nil, fmt.Errorf("idle detection not supported on %s", c.platform.DisplayServer)
	}
	if err != nil {
		return nil, err
	}

	result := capture.NewResult("idle")
	result.Timestamp = c.now()
	result.SetMetadata("idle_seconds", fmt.Sprintf("%.0f", idle.Seconds()))
	result.SetMetadata("is_idle", strconv.FormatBool(idle >= c.threshold))
	return result, nil
}

func (c *Capturer) hyprlandIdle(ctx context.Context) (time.Duration, error) {
	cursorOutput, err := c.run(ctx, "hyprctl", "cursorpos", "-j")
	if err != nil {
		return 0, fmt.Errorf("hyprctl cursorpos failed: %w", err)
	}
	var pos HyprlandCursorPos
	if err := json.Unmarshal(cursorOutput, &pos); err != nil {
		return 0, fmt.Errorf("failed to parse cursor position: %w", err)
	}

	// a failed window lookup only loses the switch signal
	var window struct {
		Address string `json:"address"`
	}
	if out, err := c.run(ctx, "hyprctl", "activewindow", "-j"); err == nil {
		_ = json.Unmarshal(out, &window)
	}

	return c.observe(fmt.Sprintf("%d,%d", pos.X, pos.Y), window.Address), nil
}

func (c *Capturer) xdotoolIdle(ctx context.Context) (time.Duration, error) {
	out, err := c.run(ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return 0, fmt.Errorf("xdotool getmouselocation failed: %w", err)
	}

	// X=..., Y=..., SCREEN=..., WINDOW=...
	var x, y, window string
	for _, line := range strings.Split(string(out), "\n") {
		k, v, _ := strings.Cut(strings.TrimSpace(line), "=")
		switch k {
		case "X":
			x = v
		case "Y":
			y = v
		case "WINDOW":
			window = v
		}
	}
	return c.observe(x+","+y, window), nil
}

func (c *Capturer) xprintidle(ctx context.Context) (time.Duration, error) {
	out, err := c.run(ctx, "xprintidle")
	if err != nil {
		return 0, fmt.Errorf("xprintidle failed: %w", err)
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// observe updates the last activity time when the cursor moved or the
// active window changed, and returns the time since then.
func (c *Capturer) observe(cursor, windowAddr string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if cursor != c.lastCursor || windowAddr != c.lastWindowAddr {
		c.lastCursor = cursor
		c.lastWindowAddr = windowAddr
		c.lastActivityTime = now
	}
	return now.Sub(c.lastActivityTime)
}
