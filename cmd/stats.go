package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

var (
	statsDate string
	statsWeek bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run statistics for a day or week",
	Long:  `Display run counts, completed intervals and active time for a day, or a bar chart of the seven days ending on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now()
		if statsDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", statsDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: use YYYY-MM-DD", statsDate)
			}
			date = parsed
		}
		if statsWeek {
			return runWeekStats(cmd.Context(), cmd.OutOrStdout(), date)
		}
		return runDayStats(cmd.Context(), cmd.OutOrStdout(), date)
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsDate, "date", "d", "", "Day to report, YYYY-MM-DD (default: today)")
	statsCmd.Flags().BoolVarP(&statsWeek, "week", "w", false, "Show the seven days ending on the date")
	rootCmd.AddCommand(statsCmd)
}

func statsJSON(s *domain.WorkoutStats) map[string]any {
	return map[string]any{
		"date":           s.Date.Format("2006-01-02"),
		"runs":           s.Runs,
		"completed_runs": s.CompletedRuns,
		"intervals":      s.Intervals,
		"total_seconds":  int(s.TotalTime / time.Second),
	}
}

func runDayStats(ctx context.Context, out io.Writer, date time.Time) error {
	stats, err := app.workouts.DailyStats(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if jsonOutput {
		return printJSON(out, statsJSON(stats))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorPrepare))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", titleStyle.Render(stats.Date.Format("Monday, Jan 2")))
	fmt.Fprintf(out, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	if stats.Runs == 0 {
		fmt.Fprintf(out, "  %s\n\n", dimStyle.Render("No runs on this day."))
		return nil
	}

	fmt.Fprintf(out, "  %s %s  %s %s\n",
		dimStyle.Render("Runs:"), valueStyle.Render(fmt.Sprintf("%d", stats.Runs)),
		dimStyle.Render("completed:"), valueStyle.Render(fmt.Sprintf("%d", stats.CompletedRuns)))
	fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("Intervals:"), valueStyle.Render(fmt.Sprintf("%d", stats.Intervals)))
	fmt.Fprintf(out, "  %s %s\n\n", dimStyle.Render("Active time:"), valueStyle.Render(formatHours(stats.TotalTime.Hours())))
	return nil
}

func runWeekStats(ctx context.Context, out io.Writer, date time.Time) error {
	week, err := app.workouts.WeekStats(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if jsonOutput {
		days := make([]map[string]any, 0, len(week))
		for _, s := range week {
			days = append(days, statsJSON(s))
		}
		return printJSON(out, map[string]any{"days": days})
	}
	renderWeek(out, week)
	return nil
}

func renderWeek(out io.Writer, week []*domain.WorkoutStats) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorPrepare))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorWork))

	var total time.Duration
	runs := 0
	var most time.Duration
	for _, s := range week {
		total += s.TotalTime
		runs += s.Runs
		most = max(most, s.TotalTime)
	}

	fmt.Fprintln(out)
	if len(week) > 0 {
		fmt.Fprintf(out, "  %s\n", titleStyle.Render("Week ending "+week[len(week)-1].Date.Format("Jan 2")))
	}
	fmt.Fprintf(out, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(out, "  Total: %s runs, %s active\n\n",
		valueStyle.Render(fmt.Sprintf("%d", runs)),
		valueStyle.Render(formatHours(total.Hours())))

	const maxBarWidth = 30
	for _, s := range week {
		width := 0
		if most > 0 {
			width = int(math.Round(float64(s.TotalTime) / float64(most) * maxBarWidth))
		}
		if width < 1 && s.TotalTime > 0 {
			width = 1
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			dimStyle.Render(s.Date.Format("Mon 02")),
			barColor.Render(fmt.Sprintf("%-*s", maxBarWidth, buildBar(width))),
			dimStyle.Render(fmt.Sprintf("%d runs, %s", s.Runs, formatHours(s.TotalTime.Hours()))))
	}
	fmt.Fprintln(out)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
