// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the tracker and the analyses.
type Config struct {
	TickIntervalSeconds int `yaml:"tick_interval_seconds"`

	StoragePath string `yaml:"storage_path"`

	// Privacy settings
	BlockedApps     []string `yaml:"blocked_apps"`
	BlockedURLs     []string `yaml:"blocked_urls"`
	BlockedKeywords []string `yaml:"blocked_keywords"`
	Paused          bool     `yaml:"paused"`

	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig controls the Prometheus endpoint served while tracking.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// AnalysisConfig holds settings for pattern analysis.
type AnalysisConfig struct {
	MinConfidence float64     `yaml:"min_confidence"`
	HistoryDays   int         `yaml:"history_days"`
	Focus         FocusConfig `yaml:"focus"`
}

// FocusConfig tunes focus session detection.
type FocusConfig struct {
	MaxGapSeconds     int     `yaml:"max_gap_seconds"`
	ShortVisitSeconds int     `yaml:"short_visit_seconds"`
	MinFocusScore     float64 `yaml:"min_focus_score"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	return &Config{
		TickIntervalSeconds: 1,

		StoragePath: filepath.Join(home, ".local", "share", "cadence"),

		// Default privacy blocklist - sensitive apps
		BlockedApps: []string{
			"1password", "keepassxc", "bitwarden", "lastpass",
			"gnome-keyring", "seahorse", "wallet",
		},
		BlockedURLs: []string{
			"*bank*", "*banking*", "*paypal*", "*venmo*",
			"*password*", "*login*", "*signin*",
		},
		BlockedKeywords: []string{
			"password", "secret", "api_key", "apikey", "token",
			"private_key", "ssh_key", "credential",
		},
		Paused: false,

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},

		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9477",
		},

		Analysis: AnalysisConfig{
			MinConfidence: 0.6,
			HistoryDays:   14,
			Focus: FocusConfig{
				MaxGapSeconds:     60,
				ShortVisitSeconds: 30,
				MinFocusScore:     0.5,
			},
		},
	}
}

// Paths returns the locations Load searches, in order.
func Paths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "cadence", "config.yaml"),
		filepath.Join(home, ".local", "share", "cadence", "config.yaml"),
	}
}

// Load loads configuration from the default paths, falling back to defaults.
// A missing file is skipped; a malformed one is an error.
func Load() (*Config, error) {
	for _, path := range Paths() {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return DefaultConfig(), nil
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFromFile reads a YAML config file and merges it into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// Expand ~ in storage path
	cfg.StoragePath = expandTilde(cfg.StoragePath)
	return nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Validate rejects values the tracker or the analyses cannot work with.
func (c *Config) Validate() error {
	if c.TickIntervalSeconds <= 0 {
		return fmt.Errorf("tick_interval_seconds must be positive, got %d", c.TickIntervalSeconds)
	}
	if c.StoragePath == "" {
		return errors.New("storage_path must be set")
	}
	if mc := c.Analysis.MinConfidence; mc < 0 || mc > 1 {
		return fmt.Errorf("analysis.min_confidence must be within [0,1], got %g", mc)
	}
	if c.Analysis.HistoryDays < 0 {
		return fmt.Errorf("analysis.history_days must not be negative, got %d", c.Analysis.HistoryDays)
	}
	if s := c.Analysis.Focus.MinFocusScore; s < 0 || s > 1 {
		return fmt.Errorf("analysis.focus.min_focus_score must be within [0,1], got %g", s)
	}
	return nil
}

// Save writes the current config to the first search path.
func (c *Config) Save() error {
	paths := Paths()
	if len(paths) == 0 {
		return errors.New("cannot determine home directory")
	}
	return c.SaveTo(paths[0])
}

// SaveTo writes the config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// EnsureStorageDir creates the storage directory if it doesn't exist.
func (c *Config) EnsureStorageDir() error {
	return os.MkdirAll(c.StoragePath, 0700) // More restrictive permissions
}

// TickInterval returns the segmenter tick.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSeconds) * time.Second
}

// HistoryWindow returns how far back analyses look by default.
func (c *Config) HistoryWindow() time.Duration {
	return time.Duration(c.Analysis.HistoryDays) * 24 * time.Hour
}

func (f FocusConfig) MaxGap() time.Duration {
	return time.Duration(f.MaxGapSeconds) * time.Second
}

func (f FocusConfig) ShortVisit() time.Duration {
	return time.Duration(f.ShortVisitSeconds) * time.Second
}

// IsAppBlocked checks if an app should be blocked from capture.
func (c *Config) IsAppBlocked(appName string) bool {
	appLower := strings.ToLower(appName)
	for _, blocked := range c.BlockedApps {
		if strings.Contains(appLower, strings.ToLower(blocked)) {
			return true
		}
	}
	return false
}

// IsURLBlocked checks if a URL should be blocked from capture.
func (c *Config) IsURLBlocked(url string) bool {
	urlLower := strings.ToLower(url)
	for _, pattern := range c.BlockedURLs {
		pattern = strings.ToLower(strings.ReplaceAll(pattern, "*", ""))
		if pattern != "" && strings.Contains(urlLower, pattern) {
			return true
		}
	}
	return false
}

// ContainsBlockedKeyword checks if text contains sensitive keywords.
func (c *Config) ContainsBlockedKeyword(text string) bool {
	textLower := strings.ToLower(text)
	for _, keyword := range c.BlockedKeywords {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
