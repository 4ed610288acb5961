// Package modes encapsulates mode-specific behavior for each timer mode.
// The TUI editor and the CLI query the Mode interface for presets, editable
// fields and display text instead of scattering mode checks everywhere.
package modes

import "github.com/xvierd/wod-cli/internal/domain"

// Preset is a named set of timer settings offered for a mode.
type Preset struct {
	Name     string
	Settings domain.TimerSettings
}

// Mode defines the interface for mode-specific behavior.
type Mode interface {
	// Name returns the timer mode identifier.
	Name() domain.TimerMode

	// Description returns a one-line explanation shown in pickers.
	Description() string

	// Presets returns common settings for this mode.
	Presets() []Preset

	// EditsWorkTime returns true if the work time can be set by the user.
	EditsWorkTime() bool

	// EditsRestTime returns true if the rest time can be set by the user.
	EditsRestTime() bool

	// EditsRounds returns true if the number of rounds can be set by the user.
	EditsRounds() bool

	// WorkLabel names the work phase on the timer screen.
	WorkLabel() string

	// CountsUp returns true if the work phase shows time counted so far.
	CountsUp() bool

	// CompletionTitle returns the title shown when a run finishes.
	CompletionTitle() string
}

// ForTimerMode returns the Mode implementation for the given timer mode.
func ForTimerMode(m domain.TimerMode) Mode {
	switch m {
	case domain.ModeTabata:
		return &tabataMode{}
	case domain.ModeAMRAP:
		return &cappedMode{mode: domain.ModeAMRAP}
	case domain.ModeTimeCap:
		return &cappedMode{mode: domain.ModeTimeCap}
	case domain.ModeEMOM:
		return &emomMode{}
	case domain.ModeStopwatch:
		return &stopwatchMode{}
	case domain.ModeNoTimer:
		return &noTimerMode{}
	default:
		return &intervalMode{}
	}
}

// All returns one Mode per timer mode, in menu order.
func All() []Mode {
	all := make([]Mode, 0, len(domain.ValidTimerModes))
	for _, m := range domain.ValidTimerModes {
		all = append(all, ForTimerMode(m))
	}
	return all
}

func preset(name string, mode domain.TimerMode, work, rest, rounds int) Preset {
	return Preset{
		Name: name,
		Settings: domain.TimerSettings{
			Mode:        mode,
			WorkTime:    work,
			RestTime:    rest,
			Rounds:      rounds,
			PrepareTime: domain.DefaultPrepareTime,
		}.Normalize(),
	}
}

// --- Interval ---

type intervalMode struct{}

func (intervalMode) Name() domain.TimerMode  { return domain.ModeInterval }
func (intervalMode) Description() string     { return "Work and rest for a number of rounds" }
func (intervalMode) EditsWorkTime() bool     { return true }
func (intervalMode) EditsRestTime() bool     { return true }
func (intervalMode) EditsRounds() bool       { return true }
func (intervalMode) WorkLabel() string       { return "WORK" }
func (intervalMode) CountsUp() bool          { return false }
func (intervalMode) CompletionTitle() string { return "Intervals done!" }

func (intervalMode) Presets() []Preset {
	return []Preset{
		preset("40/20 x 8", domain.ModeInterval, 40, 20, 8),
		preset("30/15 x 10", domain.ModeInterval, 30, 15, 10),
		preset("45/15 x 6", domain.ModeInterval, 45, 15, 6),
	}
}

// --- Tabata ---

type tabataMode struct{}

func (tabataMode) Name() domain.TimerMode  { return domain.ModeTabata }
func (tabataMode) Description() string     { return "8 rounds of 20s work, 10s rest" }
func (tabataMode) EditsWorkTime() bool     { return false }
func (tabataMode) EditsRestTime() bool     { return false }
func (tabataMode) EditsRounds() bool       { return false }
func (tabataMode) WorkLabel() string       { return "WORK" }
func (tabataMode) CountsUp() bool          { return false }
func (tabataMode) CompletionTitle() string { return "Tabata done!" }

func (tabataMode) Presets() []Preset {
	return []Preset{preset("Tabata", domain.ModeTabata, 0, 0, 0)}
}

// --- AMRAP and Time Cap ---

type cappedMode struct {
	mode domain.TimerMode
}

func (c *cappedMode) Name() domain.TimerMode { return c.mode }
func (c *cappedMode) EditsWorkTime() bool    { return true }
func (c *cappedMode) EditsRestTime() bool    { return false }
func (c *cappedMode) EditsRounds() bool      { return false }
func (c *cappedMode) CountsUp() bool         { return false }

func (c *cappedMode) Description() string {
	if c.mode == domain.ModeAMRAP {
		return "As many rounds as possible before time runs out"
	}
	return "Finish the work before the cap"
}

func (c *cappedMode) WorkLabel() string {
	if c.mode == domain.ModeAMRAP {
		return "AMRAP"
	}
	return "TIME CAP"
}

func (c *cappedMode) CompletionTitle() string {
	if c.mode == domain.ModeAMRAP {
		return "Time! Count your rounds."
	}
	return "Time cap reached."
}

func (c *cappedMode) Presets() []Preset {
	label := c.mode.Label()
	return []Preset{
		preset(label+" 10", c.mode, 10*60, 0, 1),
		preset(label+" 12", c.mode, 12*60, 0, 1),
		preset(label+" 20", c.mode, 20*60, 0, 1),
	}
}

// --- EMOM ---

type emomMode struct{}

func (emomMode) Name() domain.TimerMode  { return domain.ModeEMOM }
func (emomMode) Description() string     { return "A new round at the top of every minute" }
func (emomMode) EditsWorkTime() bool     { return false }
func (emomMode) EditsRestTime() bool     { return false }
func (emomMode) EditsRounds() bool       { return true }
func (emomMode) WorkLabel() string       { return "MINUTE" }
func (emomMode) CountsUp() bool          { return false }
func (emomMode) CompletionTitle() string { return "EMOM done!" }

func (emomMode) Presets() []Preset {
	return []Preset{
		preset("EMOM 10", domain.ModeEMOM, 0, 0, 10),
		preset("EMOM 12", domain.ModeEMOM, 0, 0, 12),
		preset("EMOM 20", domain.ModeEMOM, 0, 0, 20),
	}
}

// --- Stopwatch ---

type stopwatchMode struct{}

func (stopwatchMode) Name() domain.TimerMode  { return domain.ModeStopwatch }
func (stopwatchMode) Description() string     { return "Count up until you stop it" }
func (stopwatchMode) EditsWorkTime() bool     { return false }
func (stopwatchMode) EditsRestTime() bool     { return false }
func (stopwatchMode) EditsRounds() bool       { return false }
func (stopwatchMode) WorkLabel() string       { return "GO" }
func (stopwatchMode) CountsUp() bool          { return true }
func (stopwatchMode) CompletionTitle() string { return "Stopped." }

func (stopwatchMode) Presets() []Preset {
	return []Preset{preset("Stopwatch", domain.ModeStopwatch, 0, 0, 1)}
}

// --- No timer ---

type noTimerMode struct{}

func (noTimerMode) Name() domain.TimerMode  { return domain.ModeNoTimer }
func (noTimerMode) Description() string     { return "No timer for this block" }
func (noTimerMode) EditsWorkTime() bool     { return false }
func (noTimerMode) EditsRestTime() bool     { return false }
func (noTimerMode) EditsRounds() bool       { return false }
func (noTimerMode) WorkLabel() string       { return "" }
func (noTimerMode) CountsUp() bool          { return false }
func (noTimerMode) CompletionTitle() string { return "" }
func (noTimerMode) Presets() []Preset       { return nil }
