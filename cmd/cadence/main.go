// Package main is the entry point for the cadence tracker and analysis CLI.
//
// Usage:
//
//	cadence track             - Record the active window until interrupted
//	cadence analyze           - Run every analysis over recent history
//	cadence patterns|habits|cycles|breaks|switches|focus
//	cadence stats             - Show storage statistics
//	cadence config            - Print the effective configuration
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/config"
	"github.com/Atharva-Kanherkar/cadence/internal/focus"
	"github.com/Atharva-Kanherkar/cadence/internal/insights"
	"github.com/Atharva-Kanherkar/cadence/internal/logging"
	"github.com/Atharva-Kanherkar/cadence/internal/storage"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Activity tracker and work-pattern analyzer",
	Long: `cadence records which application has focus, folds the samples into
activity spans and mines the history for work patterns, focus blocks,
breaks, habits, productivity cycles and context switches.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ~/.config/cadence/config.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads --config when given, otherwise the default search paths.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// app holds the dependencies shared by commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Store
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.New(cfg.StoragePath, logger)
	if err != nil {
		_ = logging.Sync(logger)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

// engine builds the insight engine from the analysis settings.
func (a *app) engine() *insights.Engine {
	fc := a.cfg.Analysis.Focus
	detector := focus.NewDetector(focus.Config{
		MaxGap:        fc.MaxGap(),
		ShortVisit:    fc.ShortVisit(),
		MinFocusScore: fc.MinFocusScore,
	}, a.logger.Named("focus"))

	return insights.NewEngine(insights.EngineConfig{
		Detector:      detector,
		MinConfidence: a.cfg.Analysis.MinConfidence,
		Logger:        a.logger.Named("insights"),
	})
}

func (a *app) Close() error {
	err := a.store.Close()
	if syncErr := logging.Sync(a.logger); err == nil {
		err = syncErr
	}
	return err
}
