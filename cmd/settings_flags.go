package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/domain"
)

// settingsFlags are the timer overrides shared by set and quick.
type settingsFlags struct {
	mode    string
	work    time.Duration
	rest    time.Duration
	rounds  int
	prepare time.Duration
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Timer mode: interval, tabata, amrap, emom, timecap, stopwatch, notimer")
	cmd.Flags().DurationVarP(&f.work, "work", "w", 0, "Work time per round, or the cap for amrap/timecap/stopwatch (e.g. 40s, 12m)")
	cmd.Flags().DurationVarP(&f.rest, "rest", "r", 0, "Rest time between rounds")
	cmd.Flags().IntVarP(&f.rounds, "rounds", "n", 0, "Number of rounds (minutes for emom)")
	cmd.Flags().DurationVarP(&f.prepare, "prepare", "p", 0, "Get-ready countdown before the first round")
}

// apply overlays every flag the user set on base. Only changed flags
// count, so --rest 0s clears a rest time.
func (f *settingsFlags) apply(cmd *cobra.Command, base domain.TimerSettings) (domain.TimerSettings, error) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := domain.ValidateTimerMode(f.mode)
		if err != nil {
			return base, err
		}
		base.Mode = mode
	}
	if flags.Changed("work") {
		base.WorkTime = int(f.work / time.Second)
	}
	if flags.Changed("rest") {
		base.RestTime = int(f.rest / time.Second)
	}
	if flags.Changed("rounds") {
		base.Rounds = f.rounds
	}
	if flags.Changed("prepare") {
		base.PrepareTime = int(f.prepare / time.Second)
	}

	base = base.Normalize()
	return base, base.Validate()
}

// changed reports whether any settings flag was given.
func (f *settingsFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"mode", "work", "rest", "rounds", "prepare"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
