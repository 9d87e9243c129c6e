// Package platform handles detection of the operating system and display server.
//
// Different platforms need different tools to read the active window and the
// user's idle time: hyprctl on Hyprland, xdotool/xprop/xprintidle on X11.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// DisplayServer represents the display server type.
type DisplayServer string

const (
	DisplayServerHyprland DisplayServer = "hyprland"
	DisplayServerSway     DisplayServer = "sway"
	DisplayServerWayland  DisplayServer = "wayland" // Generic Wayland (GNOME, KDE)
	DisplayServerX11      DisplayServer = "x11"
	DisplayServerMacOS    DisplayServer = "macos"
	DisplayServerUnknown  DisplayServer = "unknown"
)

// Platform holds information about the detected platform.
type Platform struct {
	// OS is the operating system: "linux", "darwin" (macOS), "windows"
	OS string

	// DisplayServer is the specific display server being used
	DisplayServer DisplayServer

	// Available tools - these are set based on what's installed
	HasHyprctl    bool // Hyprland control tool
	HasXdotool    bool // X11 active window
	HasXprop      bool // X11 window class
	HasXprintidle bool // X11 idle time
}

// String returns a human-readable description of the platform.
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.DisplayServer)
}

// Detect figures out what platform we're running on.
// It checks the OS, then probes for display server and available tools.
func Detect() *Platform {
	return &Platform{
		OS:            runtime.GOOS,
		DisplayServer: detectDisplayServer(os.Getenv),
		HasHyprctl:    commandExists("hyprctl"),
		HasXdotool:    commandExists("xdotool"),
		HasXprop:      commandExists("xprop"),
		HasXprintidle: commandExists("xprintidle"),
	}
}

// detectDisplayServer figures out which display server is running.
func detectDisplayServer(getenv func(string) string) DisplayServer {
	if runtime.GOOS == "darwin" {
		return DisplayServerMacOS
	}

	// Hyprland sets HYPRLAND_INSTANCE_SIGNATURE
	if getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return DisplayServerHyprland
	}

	if getenv("SWAYSOCK") != "" {
		return DisplayServerSway
	}

	// XDG_SESSION_TYPE is set by systemd/login managers
	sessionType := getenv("XDG_SESSION_TYPE")
	if sessionType == "wayland" || getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}

	if sessionType == "x11" || getenv("DISPLAY") != "" {
		return DisplayServerX11
	}

	return DisplayServerUnknown
}

// commandExists checks if a command is available in PATH.
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsWayland returns true if we're on any Wayland compositor.
func (p *Platform) IsWayland() bool {
	switch p.DisplayServer {
	case DisplayServerHyprland, DisplayServerSway, DisplayServerWayland:
		return true
	default:
		return false
	}
}

// CanCaptureWindow returns true if we have tools to capture window info.
func (p *Platform) CanCaptureWindow() bool {
	switch p.DisplayServer {
	case DisplayServerHyprland:
		return p.HasHyprctl
	case DisplayServerX11:
		return p.HasXdotool && p.HasXprop
	default:
		return false
	}
}

// CanDetectIdle returns true if we have tools to measure input idleness.
func (p *Platform) CanDetectIdle() bool {
	switch p.DisplayServer {
	case DisplayServerHyprland:
		return p.HasHyprctl
	case DisplayServerX11:
		return p.HasXprintidle || p.HasXdotool
	default:
		return false
	}
}
