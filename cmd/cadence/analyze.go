package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
	"github.com/Atharva-Kanherkar/cadence/internal/insights"
	"github.com/Atharva-Kanherkar/cadence/internal/report"
	"github.com/Atharva-Kanherkar/cadence/internal/storage"
)

// Flags shared by every analysis command.
var (
	analyzeDays  int
	analyzeLimit int
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every analysis over recent history",
	Long: `Load recent activity records and report work patterns, focus blocks,
break patterns, habits, productivity cycles and context switches.

Examples:
  cadence analyze                  # Last analysis.history_days days
  cadence analyze --days 7         # Last week
  cadence analyze --limit 5000     # Most recent 5000 records
  cadence analyze --json           # Machine-readable output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, func(ctx context.Context, e *insights.Engine, records []activity.Record) (*insights.Report, error) {
			return e.Analyze(ctx, records)
		})
	},
}

// analysis runs one or more engine procedures and fills a report.
type analysis func(ctx context.Context, e *insights.Engine, records []activity.Record) (*insights.Report, error)

// single describes a command that runs one analysis.
type single struct {
	use, short string
	section    report.Section
	run        func(ctx context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error
}

var singles = []single{
	{"patterns", "Show recurring work patterns", report.SectionPatterns,
		func(_ context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			r.WorkPatterns = e.IdentifyRecurringWorkPatterns(records)
			return nil
		}},
	{"focus", "Show sustained focus blocks", report.SectionFocus,
		func(ctx context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			blocks, err := e.DetectFocusBlocks(ctx, records)
			r.FocusBlocks = blocks
			return err
		}},
	{"breaks", "Show break patterns", report.SectionBreaks,
		func(_ context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			r.BreakPatterns = e.AnalyzeBreakPatterns(records)
			return nil
		}},
	{"habits", "Show work habits and recommendations", report.SectionHabits,
		func(ctx context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			habits, err := e.FindWorkHabits(ctx, records)
			r.Habits = habits
			return err
		}},
	{"cycles", "Show productivity cycles through the day", report.SectionCycles,
		func(_ context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			r.Cycles = e.DetectProductivityCycles(records)
			return nil
		}},
	{"switches", "Show recurring context switches", report.SectionSwitches,
		func(_ context.Context, e *insights.Engine, records []activity.Record, r *insights.Report) error {
			r.Switches = e.AnalyzeContextSwitchingPatterns(records)
			return nil
		}},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalysisFlags(analyzeCmd)

	for _, s := range singles {
		cmd := &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAnalysis(cmd, s.analysis(), s.section)
			},
		}
		addAnalysisFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

func (s single) analysis() analysis {
	return func(ctx context.Context, e *insights.Engine, records []activity.Record) (*insights.Report, error) {
		r := &insights.Report{GeneratedAt: time.Now(), RecordCount: len(records)}
		if err := s.run(ctx, e, records, r); err != nil {
			return nil, err
		}
		return r, nil
	}
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&analyzeDays, "days", "d", 0, "days of history to analyze (default: analysis.history_days)")
	cmd.Flags().IntVarP(&analyzeLimit, "limit", "n", 0, "analyze only the most recent N records")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "output JSON")
}

func runAnalysis(cmd *cobra.Command, run analysis, sections ...report.Section) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	records, err := loadHistory(ctx, a.store, historyStart(time.Now(), analyzeDays, a.cfg.Analysis.HistoryDays), analyzeLimit)
	if err != nil {
		return err
	}

	r, err := run(ctx, a.engine(), records)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), r, analyzeJSON, sections...)
}

// historyStart returns the beginning of the analysis window; days wins over
// the configured default. A non-positive window means all history.
func historyStart(now time.Time, days, defaultDays int) time.Time {
	if days <= 0 {
		days = defaultDays
	}
	if days <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

// historySource is the part of the store the analyses read.
type historySource interface {
	RecordsSince(ctx context.Context, since time.Time) ([]activity.Record, error)
	RecentRecords(ctx context.Context, limit int) ([]activity.Record, error)
}

var _ historySource = (*storage.Store)(nil)

// loadHistory returns records since start in ascending order, trimmed to the
// most recent limit when limit is positive.
func loadHistory(ctx context.Context, src historySource, start time.Time, limit int) ([]activity.Record, error) {
	var (
		records []activity.Record
		err     error
	)
	if start.IsZero() && limit > 0 {
		records, err = src.RecentRecords(ctx, limit)
	} else {
		records, err = src.RecordsSince(ctx, start)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func writeReport(w io.Writer, r *insights.Report, asJSON bool, sections ...report.Section) error {
	if asJSON {
		return report.WriteJSON(w, r)
	}
	return report.Render(w, r, sections...)
}
