package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/library"
)

var (
	exportFormat string
	exportPeriod string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the block library or run history",
	Long: `Export the block library as YAML (re-importable with "wod import"),
or the run history as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}
		return runExport(cmd.Context(), out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Output format: yaml (blocks) or csv (runs)")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "all", "Runs to export as csv: today, week, month, or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(ctx context.Context, out io.Writer) error {
	switch exportFormat {
	case "csv":
		since, err := periodStart(exportPeriod, time.Now())
		if err != nil {
			return err
		}
		runs, err := app.workouts.History(ctx, since, 0)
		if err != nil {
			return fmt.Errorf("failed to fetch runs: %w", err)
		}
		return library.WriteRunsCSV(out, runs)
	case "yaml", "yml":
		blocks, err := app.blocks.ListBlocks(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch blocks: %w", err)
		}
		return library.WriteYAML(out, blocks)
	default:
		return fmt.Errorf("invalid format %q: must be yaml or csv", exportFormat)
	}
}
