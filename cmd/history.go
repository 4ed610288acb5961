package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

var (
	historyLimit  int
	historyPeriod string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent timer runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := periodStart(historyPeriod, time.Now())
		if err != nil {
			return err
		}
		return runHistory(cmd.Context(), cmd.OutOrStdout(), since, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyPeriod, "period", "all", "Time period: today, week, month, or all")
}

// periodStart returns the earliest start time a period covers.
func periodStart(period string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "today":
		return today, nil
	case "week":
		return today.AddDate(0, 0, -6), nil
	case "month":
		return today.AddDate(0, -1, 0), nil
	case "all", "":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("invalid period %q: must be today, week, month or all", period)
	}
}

func runHistory(ctx context.Context, out io.Writer, since time.Time, limit int) error {
	runs, err := app.workouts.History(ctx, since, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if jsonOutput {
		list := make([]map[string]any, 0, len(runs))
		for _, r := range runs {
			list = append(list, runJSON(r))
		}
		return printJSON(out, map[string]any{"runs": list, "count": len(list)})
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs yet.")
		return nil
	}

	fmt.Fprintf(out, "🏋 Runs (%d):\n\n", len(runs))
	for _, r := range runs {
		name := r.BlockTitle
		if name == "" {
			name = r.Mode.Label() + " (quick)"
		}
		fmt.Fprintf(out, "%s %s  %-28s %d/%d  %s\n",
			runIcon(r.Status), r.StartedAt.Format("2006-01-02 15:04"), name,
			r.CompletedIntervals, r.TotalIntervals, domain.FormatSeconds(r.ElapsedSeconds))
	}
	return nil
}

func runIcon(status domain.RunStatus) string {
	switch status {
	case domain.RunCompleted:
		return "✅"
	case domain.RunStopped:
		return "⏹"
	case domain.RunAborted:
		return "❌"
	default:
		return "❓"
	}
}
