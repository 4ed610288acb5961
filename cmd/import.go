package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/library"
	"github.com/xvierd/wod-cli/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import blocks from a YAML library",
	Long: `Import blocks exported with "wod export". Blocks that are already in the
library are skipped, so importing the same file twice is safe. Use "-" to
read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()
			in = f
		}
		return runImport(cmd.Context(), in, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(ctx context.Context, in io.Reader, out io.Writer) error {
	imported, err := library.ReadYAML(in, app.blocks.Defaults())
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	reqs := make([]services.AddBlockRequest, 0, len(imported))
	for _, b := range imported {
		reqs = append(reqs, services.AddBlockRequest{
			ID:        b.ID,
			Title:     b.Title,
			Settings:  b.Settings,
			Exercises: b.Exercises,
			Notes:     b.Notes,
		})
	}

	added, skipped, err := app.blocks.ImportBlocks(ctx, reqs)
	if err != nil {
		return err
	}

	if jsonOutput {
		list := make([]map[string]any, 0, len(added))
		for _, b := range added {
			list = append(list, blockJSON(b))
		}
		return printJSON(out, map[string]any{"imported": list, "skipped": skipped})
	}

	fmt.Fprintf(out, "✅ Imported %d block(s)", len(added))
	if skipped > 0 {
		fmt.Fprintf(out, ", %d already in the library", skipped)
	}
	fmt.Fprintln(out)
	for _, b := range added {
		fmt.Fprintf(out, "   %s  %-28s %s\n", b.ShortID(), b.Title, b.Settings.Summary())
	}
	return nil
}
