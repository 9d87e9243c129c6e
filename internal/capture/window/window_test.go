package window

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/cadence/internal/platform"
)

// scripted answers commands by their joined argv.
func scripted(out map[string]string) func(context.Context, string, ...string) ([]byte, error) {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		if v, ok := out[key]; ok {
			return []byte(v), nil
		}
		return nil, errors.New("unexpected command: " + key)
	}
}

func TestCaptureHyprland(t *testing.T) {
	plat := &platform.Platform{DisplayServer: platform.DisplayServerHyprland, HasHyprctl: true}
	c := NewWithRunner(plat, scripted(map[string]string{
		"hyprctl activewindow -j": `{"address":"0x55","class":"firefox","title":"Go Docs - Mozilla Firefox","pid":4242}`,
	}))

	result, err := c.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "window", result.Source)
	assert.Equal(t, "firefox", result.Metadata["app_class"])
	assert.Equal(t, "Go Docs - Mozilla Firefox", result.Metadata["window_title"])
	assert.Equal(t, "4242", result.Metadata["pid"])
	assert.Equal(t, "true", result.Metadata["is_browser"])
	assert.NotContains(t, result.Metadata, "url")
}

func TestCaptureHyprland_BrowserURLInTitle(t *testing.T) {
	plat := &platform.Platform{DisplayServer: platform.DisplayServerHyprland, HasHyprctl: true}
	c := NewWithRunner(plat, scripted(map[string]string{
		"hyprctl activewindow -j": `{"class":"firefox","title":"Sign in - https://bank.example.com/login - Mozilla Firefox","pid":1}`,
	}))

	result, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example.com/login", result.Metadata["url"])
}

func TestCaptureHyprland_BadJSON(t *testing.T) {
	plat := &platform.Platform{DisplayServer: platform.DisplayServerHyprland}
	c := NewWithRunner(plat, scripted(map[string]string{"hyprctl activewindow -j": "not json"}))

	_, err := c.Capture(context.Background())
	assert.ErrorContains(t, err, "parse hyprctl output")
}

func TestCaptureX11(t *testing.T) {
	plat := &platform.Platform{DisplayServer: platform.DisplayServerX11, HasXdotool: true, HasXprop: true}
	c := NewWithRunner(plat, scripted(map[string]string{
		"xdotool getactivewindow":        "71303175\n",
		"xdotool getwindowname 71303175": "main.go - cadence - Visual Studio Code\n",
		"xprop -id 71303175 WM_CLASS":    `WM_CLASS(STRING) = "code", "Code"` + "\n",
		"xdotool getwindowpid 71303175":  "1337\n",
	}))

	result, err := c.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Code", result.Metadata["app_class"])
	assert.Equal(t, "main.go - cadence - Visual Studio Code", result.Metadata["window_title"])
	assert.Equal(t, "1337", result.Metadata["pid"])
	assert.NotContains(t, result.Metadata, "is_browser")
}

func TestCaptureX11_MissingPID(t *testing.T) {
	plat := &platform.Platform{DisplayServer: platform.DisplayServerX11}
	c := NewWithRunner(plat, scripted(map[string]string{
		"xdotool getactivewindow": "7",
		"xdotool getwindowname 7": "Inbox",
		"xprop -id 7 WM_CLASS":    `WM_CLASS(STRING) = "Navigator", "firefox"`,
	}))

	result, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "firefox", result.Metadata["app_class"])
	assert.Equal(t, "0", result.Metadata["pid"])
}

func TestCapture_Unsupported(t *testing.T) {
	c := New(&platform.Platform{DisplayServer: platform.DisplayServerWayland})

	assert.False(t, c.Available())
	_, err := c.Capture(context.Background())
	assert.Error(t, err)
}

func TestURLFromTitle(t *testing.T) {
	assert.Equal(t, "https://go.dev/doc", urlFromTitle("Docs (https://go.dev/doc) - Chromium"))
	assert.Equal(t, "http://localhost:8080/", urlFromTitle("http://localhost:8080/"))
	assert.Empty(t, urlFromTitle("Go Docs - Mozilla Firefox"))
	assert.Empty(t, urlFromTitle("https:// broken"))
}

func TestParseWMClass(t *testing.T) {
	assert.Equal(t, "firefox", parseWMClass(`WM_CLASS(STRING) = "Navigator", "firefox"`))
	assert.Equal(t, "kitty", parseWMClass(`WM_CLASS(STRING) = "kitty"`))
	assert.Empty(t, parseWMClass("WM_CLASS:  not found."))
}
