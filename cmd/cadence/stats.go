package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Atharva-Kanherkar/cadence/internal/report"
	"github.com/Atharva-Kanherkar/cadence/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.store.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		return writeStats(cmd.OutOrStdout(), stats)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// topApps is how many applications stats lists.
const topApps = 10

func writeStats(w io.Writer, s storage.Stats) error {
	fmt.Fprintf(w, "Records:       %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Tracked time:  %s\n", report.FormatDuration(s.TrackedTime))
	if s.TotalRecords > 0 {
		fmt.Fprintf(w, "First record:  %s\n", s.FirstRecord.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "Last record:   %s\n", s.LastRecord.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "Database size: %.1f MB\n", float64(s.DatabaseSize)/(1024*1024))

	if len(s.ByApp) == 0 {
		return nil
	}

	apps := make([]string, 0, len(s.ByApp))
	for app := range s.ByApp {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		if s.ByApp[apps[i]] != s.ByApp[apps[j]] {
			return s.ByApp[apps[i]] > s.ByApp[apps[j]]
		}
		return apps[i] < apps[j]
	})
	if len(apps) > topApps {
		apps = apps[:topApps]
	}

	fmt.Fprintln(w, "\nTop applications:")
	for _, app := range apps {
		fmt.Fprintf(w, "  %-24s %d\n", app, s.ByApp[app])
	}
	_, err := fmt.Fprintln(w)
	return err
}
