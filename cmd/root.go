// Package cmd provides the CLI commands for the wod application.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/tui"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	inlineMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wod",
	Short: "wod - a workout interval timer for the terminal",
	Long: `wod keeps a library of workout blocks and runs their timers:
intervals, Tabata, AMRAP, EMOM, time caps and a stopwatch.

Block titles are parsed for timer hints, so "EMOM 10" or "6 x 40/20"
set themselves up. Run "wod" with no arguments to pick a block and go.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler()
		defer cancel()
		return runPicker(ctx, cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.wod/wod.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline timer (no fullscreen)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("wod\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runPicker lets the user choose a block and starts its timer. The block
// run last is listed first.
func runPicker(ctx context.Context, out io.Writer) error {
	blocks, err := app.blocks.ListBlocks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list blocks: %w", err)
	}
	if len(blocks) == 0 {
		fmt.Fprintln(out, "No blocks yet. Add one with: wod add \"EMOM 10\"")
		return nil
	}

	blocks = lastBlockFirst(ctx, blocks)
	result := tui.RunPicker("Pick a block", tui.BlockItems(blocks), "wod add <title> creates a new block", &app.config.Theme)
	if result.Aborted {
		return nil
	}
	return startBlock(ctx, out, blocks[result.Index])
}

func lastBlockFirst(ctx context.Context, blocks []*domain.WorkoutBlock) []*domain.WorkoutBlock {
	last, ok, err := app.storage.Preferences().Get(ctx, ports.PrefLastBlock)
	if err != nil {
		logrus.WithError(err).Debug("failed to read last block")
		return blocks
	}
	if !ok {
		return blocks
	}
	for i, b := range blocks {
		if b.ID != last {
			continue
		}
		ordered := make([]*domain.WorkoutBlock, 0, len(blocks))
		ordered = append(ordered, b)
		ordered = append(ordered, blocks[:i]...)
		return append(ordered, blocks[i+1:]...)
	}
	return blocks
}

// resolveBlock finds a block by ID, ID prefix or title search.
func resolveBlock(ctx context.Context, ref string) (*domain.WorkoutBlock, error) {
	block, err := app.blocks.ResolveBlock(ctx, ref)
	switch {
	case err == nil:
		return block, nil
	case errors.Is(err, domain.ErrBlockNotFound):
		return nil, fmt.Errorf("no block matches %q", ref)
	case errors.Is(err, domain.ErrAmbiguousBlockID):
		return nil, fmt.Errorf("%q matches more than one block; use a longer ID", ref)
	default:
		return nil, fmt.Errorf("failed to find block: %w", err)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func blockJSON(b *domain.WorkoutBlock) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"title":      b.Title,
		"settings":   b.Settings,
		"summary":    b.Settings.Summary(),
		"duration":   b.Settings.TotalDuration(),
		"exercises":  b.Exercises,
		"notes":      b.Notes,
		"created_at": b.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}

func runJSON(r *domain.WorkoutRun) map[string]any {
	data := map[string]any{
		"id":                  r.ID,
		"block":               r.BlockTitle,
		"mode":                r.Mode,
		"status":              r.Status,
		"completed_intervals": r.CompletedIntervals,
		"total_intervals":     r.TotalIntervals,
		"elapsed_seconds":     r.ElapsedSeconds,
		"planned_seconds":     r.PlannedSeconds,
		"started_at":          r.StartedAt.Format("2006-01-02T15:04:05"),
	}
	if r.BlockID != nil {
		data["block_id"] = *r.BlockID
	}
	return data
}
