package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/tui"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/services"
)

var (
	addExercises []string
	addNotes     string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a workout block",
	Long: `Add a block to the library. Timer settings are read from the title,
e.g. "EMOM 10", "AMRAP 12 min", "Tabata" or "6 x 40/20".

With no title an editor opens and previews the settings as you type.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.AddBlockRequest{
			Title:     joinArgs(args),
			Exercises: addExercises,
			Notes:     addNotes,
		}

		if req.Title == "" {
			if jsonOutput {
				return fmt.Errorf("a title is required with --json")
			}
			result := tui.RunEditor("", previewTitle, &app.config.Theme)
			if result.Aborted {
				return nil
			}
			req.Title = result.Title
			req.Exercises = append(req.Exercises, result.Exercises...)
		}

		return runAdd(cmd.Context(), cmd.OutOrStdout(), req)
	},
}

func init() {
	addCmd.Flags().StringArrayVarP(&addExercises, "exercise", "e", nil, "Exercise performed in the block (repeatable)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Free-form notes")
}

// previewTitle is the editor's live parse.
func previewTitle(title string) (domain.TimerSettings, []string) {
	parsed, settings := app.blocks.ParseTitle(title)
	return settings, parsed.Fields()
}

func runAdd(ctx context.Context, out io.Writer, req services.AddBlockRequest) error {
	block, err := app.blocks.AddBlock(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to add block: %w", err)
	}

	if jsonOutput {
		return printJSON(out, blockJSON(block))
	}

	fmt.Fprintf(out, "✅ Block added: %s (ID: %s)\n", block.Title, block.ShortID())
	fmt.Fprintf(out, "   Timer: %s\n", block.Settings.Summary())
	return nil
}
