// Package window captures the active window.
//
// It extracts the application class (e.g. "firefox", "code", "kitty"), the
// window title and the owning process ID. Browsers do not expose the page
// URL to other clients, so for them the URL is taken from the title when the
// title carries one (URL-in-title extensions, pages titled by their address).
package window

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Atharva-Kanherkar/cadence/internal/capture"
	"github.com/Atharva-Kanherkar/cadence/internal/platform"
)

// Capturer captures active window information.
// It implements the capture.Capturer interface.
type Capturer struct {
	platform *platform.Platform
	run      capture.Runner
}

// New creates a new window Capturer.
func New(plat *platform.Platform) *Capturer {
	return NewWithRunner(plat, capture.ExecRunner)
}

// NewWithRunner creates a Capturer that runs commands through run.
func NewWithRunner(plat *platform.Platform, run capture.Runner) *Capturer {
	return &Capturer{
		platform: plat,
		run:      run,
	}
}

// Name returns the capturer identifier.
func (c *Capturer) Name() string {
	return "window"
}

// Available checks if window capture is possible on this system.
func (c *Capturer) Available() bool {
	return c.platform.CanCaptureWindow()
}

// Capture gets the current active window information.
func (c *Capturer) Capture(ctx context.Context) (*capture.Result, error) {
	switch c.platform.DisplayServer {
	case platform.DisplayServerHyprland:
		return c.captureHyprland(ctx)
	case platform.DisplayServerX11:
		return c.captureX11(ctx)
	default:
		return nil, fmt.Errorf("unsupported display server: %s", c.platform.DisplayServer)
	}
}

// HyprlandWindow is the subset of `hyprctl activewindow -j` we use.
type HyprlandWindow struct {
	Address string `json:"address"`
	Class   string `json:"class"`
	Title   string `json:"title"`
	PID     int    `json:"pid"`
}

func (c *Capturer) captureHyprland(ctx context.Context) (*capture.Result, error) {
	output, err := c.run(ctx, "hyprctl", "activewindow", "-j")
	if err != nil {
		return nil, fmt.Errorf("hyprctl failed: %w", err)
	}

	var window HyprlandWindow
	if err := json.Unmarshal(output, &window); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}

	return newResult(window.Class, window.Title, window.PID), nil
}

// captureX11 uses xdotool for the title and pid and xprop for WM_CLASS.
func (c *Capturer) captureX11(ctx context.Context) (*capture.Result, error) {
	idOut, err := c.run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return nil, fmt.Errorf("xdotool getactivewindow failed: %w", err)
	}
	id := strings.TrimSpace(string(idOut))

	titleOut, err := c.run(ctx, "xdotool", "getwindowname", id)
	if err != nil {
		return nil, fmt.Errorf("xdotool getwindowname failed: %w", err)
	}

	classOut, err := c.run(ctx, "xprop", "-id", id, "WM_CLASS")
	if err != nil {
		return nil, fmt.Errorf("xprop failed: %w", err)
	}

	// pid is best effort; some windows do not set _NET_WM_PID
	pid := 0
	if pidOut, err := c.run(ctx, "xdotool", "getwindowpid", id); err == nil {
		pid, _ = strconv.Atoi(strings.TrimSpace(string(pidOut)))
	}

	return newResult(parseWMClass(string(classOut)), strings.TrimSpace(string(titleOut)), pid), nil
}

// parseWMClass returns the class part of an xprop line such as
// `WM_CLASS(STRING) = "Navigator", "firefox"`.
func parseWMClass(line string) string {
	_, values, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	parts := strings.Split(values, ",")
	return strings.Trim(strings.TrimSpace(parts[len(parts)-1]), `"`)
}

func newResult(class, title string, pid int) *capture.Result {
	result := capture.NewResult("window")
	result.SetMetadata("app_class", class)
	result.SetMetadata("window_title", title)
	result.SetMetadata("pid", strconv.Itoa(pid))
	if isBrowser(class) {
		result.SetMetadata("is_browser", "true")
		if u := urlFromTitle(title); u != "" {
			result.SetMetadata("url", u)
		}
	}
	return result
}

// urlFromTitle returns the first absolute http(s) URL in a window title.
func urlFromTitle(title string) string {
	for _, field := range strings.Fields(title) {
		field = strings.Trim(field, "()[]<>\"'")
		if !strings.HasPrefix(field, "http://") && !strings.HasPrefix(field, "https://") {
			continue
		}
		u, err := url.Parse(field)
		if err != nil || u.Host == "" {
			continue
		}
		return u.String()
	}
	return ""
}

var browsers = []string{
	"firefox",
	"chromium",
	"chrome",
	"google-chrome",
	"brave",
	"brave-browser",
	"microsoft-edge",
	"safari",
	"opera",
	"vivaldi",
	"librewolf",
	"zen",
	"zen-browser",
}

// isBrowser checks if an app class is a known browser.
func isBrowser(class string) bool {
	classLower := strings.ToLower(class)
	for _, b := range browsers {
		if classLower == b {
			return true
		}
	}
	return false
}
