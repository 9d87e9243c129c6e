// Package report renders insight reports for the terminal and as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Atharva-Kanherkar/cadence/internal/activity"
	"github.com/Atharva-Kanherkar/cadence/internal/insights"
)

// Section names one part of a report.
type Section string

const (
	SectionPatterns Section = "patterns"
	SectionFocus    Section = "focus"
	SectionBreaks   Section = "breaks"
	SectionHabits   Section = "habits"
	SectionCycles   Section = "cycles"
	SectionSwitches Section = "switches"
)

// AllSections lists every section in display order.
var AllSections = []Section{
	SectionPatterns, SectionFocus, SectionBreaks,
	SectionHabits, SectionCycles, SectionSwitches,
}

// styles are built per writer so colour is dropped when w is not a terminal.
type styles struct {
	header   lipgloss.Style
	section  lipgloss.Style
	label    lipgloss.Style
	dim      lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	neutral  lipgloss.Style
	advice   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1),
		section:  r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true).MarginTop(1),
		label:    r.NewStyle().Bold(true),
		dim:      r.NewStyle().Foreground(lipgloss.Color("245")),
		positive: r.NewStyle().Foreground(lipgloss.Color("42")),
		negative: r.NewStyle().Foreground(lipgloss.Color("196")),
		neutral:  r.NewStyle().Foreground(lipgloss.Color("33")),
		advice:   r.NewStyle().Foreground(lipgloss.Color("220")).Italic(true),
	}
}

// printer accumulates lines and remembers the first write error.
type printer struct {
	w   io.Writer
	st  styles
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) title(name string, count int) {
	p.line("%s", p.st.section.Render(fmt.Sprintf("▶ %s (%d)", name, count)))
}

func (p *printer) none() {
	p.line("  %s", p.st.dim.Render("none detected"))
}

func (p *printer) impact(s string) string {
	switch s {
	case string(insights.ImpactPositive), string(insights.SwitchBeneficial):
		return p.st.positive.Render(s)
	case string(insights.ImpactNegative), string(insights.SwitchDisruptive):
		return p.st.negative.Render(s)
	default:
		return p.st.neutral.Render(s)
	}
}

// Render writes r as styled text. With no sections every section is shown.
func Render(w io.Writer, r *insights.Report, sections ...Section) error {
	if len(sections) == 0 {
		sections = AllSections
	}
	p := &printer{w: w, st: newStyles(w)}

	p.line("%s", p.st.header.Render("Cadence report"))
	p.line("%s", p.st.dim.Render(fmt.Sprintf("generated %s from %d records",
		r.GeneratedAt.Format("2006-01-02 15:04"), r.RecordCount)))

	for _, s := range sections {
		switch s {
		case SectionPatterns:
			p.patterns(r.WorkPatterns)
		case SectionFocus:
			p.focusBlocks(r.FocusBlocks)
		case SectionBreaks:
			p.breaks(r.BreakPatterns)
		case SectionHabits:
			p.habits(r.Habits)
		case SectionCycles:
			p.cycles(r.Cycles)
		case SectionSwitches:
			p.switches(r.Switches)
		default:
			return fmt.Errorf("unknown report section %q", s)
		}
	}
	return p.err
}

func (p *printer) patterns(patterns []insights.WorkPattern) {
	p.title("Work patterns", len(patterns))
	if len(patterns) == 0 {
		p.none()
		return
	}
	for _, wp := range patterns {
		p.line("  • %s %s %s", p.st.label.Render(wp.Name),
			p.st.dim.Render(fmt.Sprintf("[%s, %d×, %.0f%%]", wp.Type, wp.Frequency, wp.Confidence*100)),
			p.impact(string(wp.ProductivityImpact)))
		if wp.Description != "" {
			p.line("    %s", wp.Description)
		}
	}
}

func (p *printer) focusBlocks(blocks []activity.FocusSession) {
	p.title("Focus blocks", len(blocks))
	if len(blocks) == 0 {
		p.none()
		return
	}
	for _, b := range blocks {
		p.line("  • %s–%s %s %s %s",
			b.Start.Format("Mon 15:04"), b.End.Format("15:04"),
			p.st.label.Render(b.AppName),
			p.st.dim.Render(FormatDuration(b.Duration)),
			FocusBar(b.FocusScore, 10))
		if b.Interruptions > 0 {
			p.line("    %s", p.st.dim.Render(fmt.Sprintf("%d interruptions", b.Interruptions)))
		}
	}
}

func (p *printer) breaks(patterns []insights.BreakPattern) {
	p.title("Break patterns", len(patterns))
	if len(patterns) == 0 {
		p.none()
		return
	}
	for _, bp := range patterns {
		var detail []string
		if bp.Duration > 0 {
			detail = append(detail, "avg "+FormatDuration(bp.Duration))
		}
		if bp.Interval > 0 {
			detail = append(detail, "every "+FormatDuration(bp.Interval))
		}
		p.line("  • %s break around %s, %d× %s", p.st.label.Render(string(bp.Type)),
			bp.Timestamp.Format("15:04"), bp.Frequency,
			p.st.dim.Render(strings.Join(detail, ", ")))
	}
}

func (p *printer) habits(habits []insights.WorkHabit) {
	p.title("Habits", len(habits))
	if len(habits) == 0 {
		p.none()
		return
	}
	for _, h := range habits {
		p.line("  • %s %s %s", p.st.label.Render(h.Pattern),
			p.st.dim.Render(fmt.Sprintf("[%s, %.0f%%]", h.Type, h.Confidence*100)),
			p.impact(string(h.Impact)))
		p.line("    %s", h.Description)
		if h.Recommendation != "" {
			p.line("    → %s", p.st.advice.Render(h.Recommendation))
		}
	}
}

func (p *printer) cycles(cycles []insights.ProductivityCycle) {
	p.title("Productivity cycles", len(cycles))
	if len(cycles) == 0 {
		p.none()
		return
	}
	for _, c := range cycles {
		p.line("  • %02d:00–%02d:59 %-8s %s", c.StartHour, c.EndHour,
			string(c.Type), FocusBar(c.AverageProductivity, 10))
	}
}

func (p *printer) switches(patterns []insights.ContextSwitchPattern) {
	p.title("Context switches", len(patterns))
	if len(patterns) == 0 {
		p.none()
		return
	}
	for _, s := range patterns {
		p.line("  • %s → %s %s %s %s",
			p.st.label.Render(s.FromApp), p.st.label.Render(s.ToApp),
			p.st.dim.Render(fmt.Sprintf("%d×, gap %s", s.Frequency, FormatDuration(s.AverageDuration))),
			string(s.Pattern), p.impact(string(s.Impact)))
	}
}

// FormatDuration renders d compactly: 45s, 12m, 1h05m.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Round(time.Second).Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Round(time.Minute).Minutes()))
	default:
		d = d.Round(time.Minute)
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FocusBar draws score in [0,1] as a bar of width cells followed by a percentage.
func FocusBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "] " +
		fmt.Sprintf("%.0f%%", score*100)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *insights.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
