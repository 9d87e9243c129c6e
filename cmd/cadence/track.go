package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/capture/idle"
	"github.com/Atharva-Kanherkar/cadence/internal/capture/input"
	"github.com/Atharva-Kanherkar/cadence/internal/capture/window"
	"github.com/Atharva-Kanherkar/cadence/internal/metrics"
	"github.com/Atharva-Kanherkar/cadence/internal/platform"
	"github.com/Atharva-Kanherkar/cadence/internal/tracker"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record the active window until interrupted",
	Long: `Sample the focused window every tick and store one activity record per
unbroken run of the same application and title. Stops on SIGINT or SIGTERM
after saving the open record.

Examples:
  cadence track                              # Start tracking
  cadence track --metrics-addr :9477         # Also serve Prometheus metrics`,
	RunE: runTrack,
}

var trackMetricsAddr string

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringVar(&trackMetricsAddr, "metrics-addr", "", "serve /metrics on this address (overrides config)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.EnsureStorageDir(); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	plat := platform.Detect()
	a.logger.Info("platform detected", zap.Stringer("platform", plat))

	win := window.New(plat)
	if !win.Available() {
		return fmt.Errorf("no window capture tool available for %s", plat)
	}

	opts := []tracker.Option{tracker.WithLogger(a.logger)}
	if plat.CanDetectIdle() {
		opts = append(opts, tracker.WithIdle(idle.New(plat)))
	} else {
		a.logger.Warn("idle detection unavailable; every tick counts as active")
	}

	ctx := cmd.Context()

	counter := input.New(a.logger)
	if err := counter.Start(ctx); err != nil {
		a.logger.Warn("keystroke and click counting unavailable", zap.Error(err))
	} else {
		opts = append(opts, tracker.WithInput(counter))
	}

	addr := trackMetricsAddr
	if addr == "" && a.cfg.Metrics.Enabled {
		addr = a.cfg.Metrics.Address
	}
	if addr != "" {
		srv := serveMetrics(addr, a.logger)
		defer shutdownMetrics(srv, a.logger)
	}

	t := tracker.New(a.cfg, win, a.store, opts...)
	if err := t.Run(ctx); err != nil {
		return err
	}

	stats, err := a.store.Stats(context.WithoutCancel(ctx))
	if err == nil {
		a.logger.Info("session stats", zap.Int64("records", stats.TotalRecords))
	}
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func shutdownMetrics(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", zap.Error(err))
	}
}
