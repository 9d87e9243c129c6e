// Package activity defines activity spans and the segmenter that builds them.
//
// A Record is one unbroken run of the same (application, window title) pair.
// Records are produced by the Segmenter from per-tick Observations, persisted
// by the storage layer, and read back in bulk by the insights engine.
//
// Optional fields follow a single default-value policy: the zero value is the
// default. An absent focus score, CPU sample, keystroke or click count is 0,
// an absent URL is "". The storage layer maps SQL NULL to these zero values in
// one place; nothing downstream checks for absence.
package activity

import (
	"strings"
	"time"
)

// Record is one contiguous span of a single (app, window title) pair.
type Record struct {
	ID          int64         `json:"id,omitempty"`
	Timestamp   time.Time     `json:"timestamp"` // span start
	AppName     string        `json:"app_name"`
	WindowTitle string        `json:"window_title"`
	Duration    time.Duration `json:"duration"`
	FocusScore  float64       `json:"focus_score"` // [0,1]
	CPUUsage    float64       `json:"cpu_usage"`
	Keystrokes  int           `json:"keystrokes"`
	MouseClicks int           `json:"mouse_clicks"`
	IsIdle      bool          `json:"is_idle"`
	URL         string        `json:"url,omitempty"`
}

// End returns the instant the span stopped.
func (r Record) End() time.Time {
	return r.Timestamp.Add(r.Duration)
}

// GapTo returns the idle time between the end of r and the start of next.
// It is negative when the two spans overlap.
func (r Record) GapTo(next Record) time.Duration {
	return next.Timestamp.Sub(r.End())
}

// FocusSession is a sustained-attention interval derived from records.
type FocusSession struct {
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	Duration      time.Duration `json:"duration"`
	AppName       string        `json:"app_name"`
	Category      string        `json:"category"`
	Interruptions int           `json:"interruptions"`
	FocusScore    float64       `json:"focus_score"`
	Keystrokes    int           `json:"keystrokes"`
	MouseClicks   int           `json:"mouse_clicks"`
}

// Observation is a single raw sample of the active window.
type Observation struct {
	AppName     string
	WindowTitle string
	Timestamp   time.Time
	URL         string
	IsIdle      bool
	CPUUsage    float64
	Keystrokes  int
	MouseClicks int
}

// Category names used for focus sessions.
const (
	CategoryDevelopment   = "development"
	CategoryBrowsing      = "browsing"
	CategoryCommunication = "communication"
	CategoryWriting       = "writing"
	CategoryMedia         = "media"
	CategoryOther         = "other"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDevelopment, []string{"code", "vim", "nvim", "emacs", "jetbrains", "goland", "idea", "kitty", "alacritty", "terminal", "wezterm", "foot", "editor"}},
	{CategoryBrowsing, []string{"firefox", "chromium", "chrome", "brave", "edge", "safari", "opera", "vivaldi", "librewolf", "zen", "browser"}},
	{CategoryCommunication, []string{"slack", "discord", "teams", "zoom", "telegram", "signal", "thunderbird", "mail", "element"}},
	{CategoryWriting, []string{"obsidian", "notion", "libreoffice", "word", "zathura", "logseq", "typora"}},
	{CategoryMedia, []string{"spotify", "vlc", "mpv", "youtube", "netflix"}},
}

// Categorize maps an application class to a coarse category.
func Categorize(appName string) string {
	app := strings.ToLower(appName)
	for _, c := range categoryKeywords {
		for _, k := range c.keywords {
			if strings.Contains(app, k) {
				return c.category
			}
		}
	}
	return CategoryOther
}
