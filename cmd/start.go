package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/tui"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/timer"
)

var (
	startPlain bool
	startAuto  bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [id|query]",
	Short: "Run a block's timer",
	Long: `Run a block's timer on a full-screen countdown. Without an argument a
picker opens.

Keys: s start, space pause/resume, n skip phase, f finish early, r reset,
tab toggle sound, q quit. With --plain the timer starts at once and prints
one line per second instead, which suits logs and scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler()
		defer cancel()

		if len(args) == 0 {
			return runPicker(ctx, cmd.OutOrStdout())
		}
		block, err := resolveBlock(ctx, joinArgs(args))
		if err != nil {
			return err
		}
		return startBlock(ctx, cmd.OutOrStdout(), block)
	},
}

func init() {
	startCmd.Flags().BoolVar(&startPlain, "plain", false, "Print status lines instead of the full-screen timer")
	startCmd.Flags().BoolVarP(&startAuto, "auto", "a", false, "Start the countdown as soon as the timer opens")
}

// startBlock runs a stored block and remembers it as the last one used.
func startBlock(ctx context.Context, out io.Writer, block *domain.WorkoutBlock) error {
	e, block, err := app.workouts.NewEngine(ctx, block.ID)
	if errors.Is(err, domain.ErrNoTimer) {
		fmt.Fprintf(out, "%s has no timer.\n", block.Title)
		return nil
	}
	if err != nil {
		return err
	}

	if err := app.storage.Preferences().Set(ctx, ports.PrefLastBlock, block.ID); err != nil {
		logrus.WithError(err).Warn("failed to remember last block")
	}
	return runEngine(ctx, out, e, block, block.Title)
}

// runEngine shows the engine on the timer screen, or prints it with
// --plain, and records the run when it ends. block is nil for quick timers.
func runEngine(ctx context.Context, out io.Writer, e *timer.Engine, block *domain.WorkoutBlock, title string) error {
	app.workouts.Watch(e, title)

	record := func(state domain.TimerState, startedAt time.Time) {
		// ctx may already be cancelled by the interrupt that ended the run.
		run, err := app.workouts.RecordRun(context.Background(), block, state, startedAt)
		if err != nil || run == nil {
			return
		}
		if jsonOutput {
			_ = printJSON(out, runJSON(run))
		}
	}

	if startPlain || jsonOutput {
		return runPlain(ctx, out, e, title, record)
	}

	_, err := tui.RunTimer(ctx, e, tui.Options{
		Title:         title,
		Theme:         &app.config.Theme,
		TickInterval:  tickInterval(),
		AutoStart:     startAuto,
		AutoClose:     time.Duration(app.config.Timer.AutoClose),
		Inline:        inlineMode,
		Sound:         app.notifier.SoundOn(),
		OnSoundToggle: app.notifier.SetSound,
		Prefs:         app.storage.Preferences(),
		OnFinish:      record,
	})
	return err
}

// runPlain drives the engine headless, printing a line whenever the
// display would change.
func runPlain(ctx context.Context, out io.Writer, e *timer.Engine, title string, record func(domain.TimerState, time.Time)) error {
	if !jsonOutput {
		fmt.Fprintf(out, "▶ %s\n", title)
	}

	var last string
	observe := func(s domain.TimerState) {
		if jsonOutput {
			return
		}
		if line := tui.StatusLine(s); line != last {
			fmt.Fprintln(out, line)
			last = line
		}
	}

	startedAt := app.workouts.Now()
	err := app.workouts.Run(ctx, e, tickInterval(), observe)
	record(e.Snapshot(), startedAt)

	if errors.Is(err, context.Canceled) {
		if !jsonOutput {
			fmt.Fprintln(out, "Stopped.")
		}
		return nil
	}
	return err
}

func tickInterval() time.Duration {
	if d := time.Duration(app.config.Timer.TickInterval); d > 0 {
		return d
	}
	return 250 * time.Millisecond
}
