package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/tui"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id|query> [new title]",
	Short: "Rename a block",
	Long: `Rename a block. The new title is parsed again and only the settings
it names are changed, so "EMOM 12" after "EMOM 10" just adds two minutes.

Without a new title a prompt opens with the current one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		block, err := resolveBlock(ctx, args[0])
		if err != nil {
			return err
		}

		title := joinArgs(args[1:])
		if title == "" {
			result := tui.RunTextPrompt("New title:", block.Title, &app.config.Theme)
			if result.Aborted || result.Value == "" {
				return nil
			}
			title = result.Value
		}
		return runRename(ctx, cmd.OutOrStdout(), block.ID, title)
	},
}

func runRename(ctx context.Context, out io.Writer, id, title string) error {
	block, err := app.blocks.RenameBlock(ctx, id, title)
	if err != nil {
		return fmt.Errorf("failed to rename block: %w", err)
	}

	if jsonOutput {
		return printJSON(out, blockJSON(block))
	}
	fmt.Fprintf(out, "✅ Renamed to %s\n", block.Title)
	fmt.Fprintf(out, "   Timer: %s\n", block.Settings.Summary())
	return nil
}
