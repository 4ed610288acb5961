package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

var (
	setFlags     settingsFlags
	setExercises []string
)

var setCmd = &cobra.Command{
	Use:   "set <id|query>",
	Short: "Change a block's timer settings or add exercises",
	Long: `Override the timer settings inferred from a block's title.
Only the flags you pass are changed, e.g.

  wod set "Intervals" --rounds 8 --rest 20s
  wod set 3f2a --mode amrap --work 15m`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !setFlags.changed(cmd) && len(setExercises) == 0 {
			return fmt.Errorf("nothing to change: pass --mode, --work, --rest, --rounds, --prepare or --exercise")
		}
		return runSet(cmd.Context(), cmd, &setFlags, setExercises, cmd.OutOrStdout(), joinArgs(args))
	},
}

func init() {
	setFlags.register(setCmd)
	setCmd.Flags().StringArrayVarP(&setExercises, "exercise", "e", nil, "Append an exercise (repeatable)")
}

func runSet(ctx context.Context, cmd *cobra.Command, flags *settingsFlags, exercises []string, out io.Writer, ref string) error {
	block, err := resolveBlock(ctx, ref)
	if err != nil {
		return err
	}

	if flags.changed(cmd) {
		settings, err := flags.apply(cmd, block.Settings)
		if err != nil {
			return err
		}
		if block, err = app.blocks.UpdateSettings(ctx, block.ID, settings); err != nil {
			return fmt.Errorf("failed to update block: %w", err)
		}
	}
	if len(exercises) > 0 {
		if block, err = app.blocks.AddExercises(ctx, block.ID, exercises...); err != nil {
			return fmt.Errorf("failed to add exercises: %w", err)
		}
	}

	if jsonOutput {
		return printJSON(out, blockJSON(block))
	}
	fmt.Fprintf(out, "✅ %s: %s\n", block.Title, block.Settings.Summary())
	if block.Settings.HasTimer() {
		fmt.Fprintf(out, "   Total: %s\n", domain.FormatSeconds(block.Settings.TotalDuration()))
	}
	return nil
}
