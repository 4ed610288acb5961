package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

var listSearch string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout blocks",
	Long:  `List all blocks in the library, or fuzzy-search them by title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), cmd.OutOrStdout(), listSearch)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only show blocks whose title matches")
}

func runList(ctx context.Context, out io.Writer, search string) error {
	var blocks []*domain.WorkoutBlock
	var err error
	if search != "" {
		blocks, err = app.blocks.FindBlocks(ctx, search)
	} else {
		blocks, err = app.blocks.ListBlocks(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list blocks: %w", err)
	}

	if jsonOutput {
		list := make([]map[string]any, 0, len(blocks))
		for _, b := range blocks {
			list = append(list, blockJSON(b))
		}
		return printJSON(out, map[string]any{
			"blocks": list,
			"count":  len(list),
		})
	}

	if len(blocks) == 0 {
		fmt.Fprintln(out, "No blocks found.")
		return nil
	}

	fmt.Fprintf(out, "📋 Blocks (%d):\n\n", len(blocks))
	for _, b := range blocks {
		fmt.Fprintf(out, "%s %-8s  %-28s %s\n", modeIcon(b.Settings.Mode), b.ShortID(), b.Title, b.Settings.Summary())
	}
	return nil
}

func modeIcon(mode domain.TimerMode) string {
	switch mode {
	case domain.ModeInterval, domain.ModeTabata:
		return "🔁"
	case domain.ModeAMRAP, domain.ModeTimeCap:
		return "⏳"
	case domain.ModeEMOM:
		return "⏱"
	case domain.ModeStopwatch:
		return "⏲"
	case domain.ModeNoTimer:
		return "📝"
	default:
		return "❓"
	}
}
