package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id|query>",
	Short: "Delete a block",
	Long:  `Delete a block from the library. Its runs stay in the history.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), joinArgs(args))
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func runDelete(ctx context.Context, in io.Reader, out io.Writer, ref string) error {
	block, err := resolveBlock(ctx, ref)
	if err != nil {
		return err
	}

	if !jsonOutput && !deleteYes {
		fmt.Fprintf(out, "Are you sure you want to delete block '%s' (%s)? [y/N]: ", block.Title, block.ShortID())
		var confirm string
		_, _ = fmt.Fscanln(in, &confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}
	}

	if err := app.blocks.DeleteBlock(ctx, block.ID); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	if jsonOutput {
		return printJSON(out, map[string]any{"deleted": true, "block_id": block.ID})
	}
	fmt.Fprintf(out, "✅ Block '%s' deleted.\n", block.Title)
	return nil
}
