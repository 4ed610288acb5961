package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/tui"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/timer"
)

const showRecentRuns = 5

var showCmd = &cobra.Command{
	Use:   "show <id|query>",
	Short: "Show a block, its phase plan and recent runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context(), cmd.OutOrStdout(), joinArgs(args))
	},
}

func runShow(ctx context.Context, out io.Writer, ref string) error {
	block, err := resolveBlock(ctx, ref)
	if err != nil {
		return err
	}

	runs, err := app.workouts.BlockHistory(ctx, block.ID)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}

	if jsonOutput {
		data := blockJSON(block)
		data["plan"] = timer.Schedule(block.Settings)
		history := make([]map[string]any, 0, len(runs))
		for _, r := range runs {
			history = append(history, runJSON(r))
		}
		data["runs"] = history
		return printJSON(out, data)
	}

	tui.ShowBlock(out, block)
	if len(runs) == 0 {
		return nil
	}
	fmt.Fprintln(out, "   Recent runs:")
	for i, r := range runs {
		if i == showRecentRuns {
			break
		}
		fmt.Fprintf(out, "     %s  %-14s %d/%d  %s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Status.Label(),
			r.CompletedIntervals, r.TotalIntervals, domain.FormatSeconds(r.ElapsedSeconds))
	}
	return nil
}
