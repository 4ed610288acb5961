package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimerMode selects how a block's timer sequences its phases.
type TimerMode string

const (
	ModeInterval  TimerMode = "interval"
	ModeTabata    TimerMode = "tabata"
	ModeAMRAP     TimerMode = "amrap"
	ModeEMOM      TimerMode = "emom"
	ModeTimeCap   TimerMode = "timecap"
	ModeStopwatch TimerMode = "stopwatch"
	ModeNoTimer   TimerMode = "notimer"
)

// ValidTimerModes lists all supported timer modes.
var ValidTimerModes = []TimerMode{
	ModeInterval,
	ModeTabata,
	ModeAMRAP,
	ModeEMOM,
	ModeTimeCap,
	ModeStopwatch,
	ModeNoTimer,
}

// Canonical values for fixed-shape modes.
const (
	TabataWorkTime   = 20
	TabataRestTime   = 10
	TabataRounds     = 8
	EMOMIntervalTime = 60

	// DefaultStopwatchCeiling caps a stopwatch that nobody stops.
	DefaultStopwatchCeiling = 3600
	DefaultPrepareTime      = 10

	// DefaultCapTime is the AMRAP/Time Cap length used when a block turns
	// into a capped mode without naming its minutes.
	DefaultCapTime = 600
)

// Upper bounds accepted by Validate. They keep every phase and the planned
// total well inside time.Duration.
const (
	MaxPhaseTime = 24 * 60 * 60
	MaxRounds    = 1000
)

// ValidateTimerMode checks if a string is a valid timer mode.
func ValidateTimerMode(s string) (TimerMode, error) {
	m := TimerMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "time-cap" || m == "time_cap" {
		m = ModeTimeCap
	}
	for _, valid := range ValidTimerModes {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid timer mode %q: must be one of interval, tabata, amrap, emom, timecap, stopwatch, notimer", s)
}

// Label returns a human-readable label.
func (m TimerMode) Label() string {
	switch m {
	case ModeInterval:
		return "Interval"
	case ModeTabata:
		return "Tabata"
	case ModeAMRAP:
		return "AMRAP"
	case ModeEMOM:
		return "EMOM"
	case ModeTimeCap:
		return "Time Cap"
	case ModeStopwatch:
		return "Stopwatch"
	case ModeNoTimer:
		return "No Timer"
	default:
		return "Unknown"
	}
}

// TimerSettings is the immutable configuration a timer engine runs.
// All durations are whole seconds.
type TimerSettings struct {
	Mode        TimerMode `json:"mode" yaml:"mode"`
	WorkTime    int       `json:"work_time" yaml:"work_time"`
	RestTime    int       `json:"rest_time" yaml:"rest_time"`
	Rounds      int       `json:"rounds" yaml:"rounds"`
	PrepareTime int       `json:"prepare_time" yaml:"prepare_time"`
}

// DefaultTimerSettings returns a plain interval setup.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		Mode:        ModeInterval,
		WorkTime:    30,
		RestTime:    15,
		Rounds:      3,
		PrepareTime: DefaultPrepareTime,
	}
}

// Normalize returns the canonical form of the settings. Fixed-shape modes
// override whatever the caller supplied.
func (s TimerSettings) Normalize() TimerSettings {
	switch s.Mode {
	case ModeTabata:
		s.WorkTime = TabataWorkTime
		s.RestTime = TabataRestTime
		s.Rounds = TabataRounds
	case ModeEMOM:
		s.WorkTime = EMOMIntervalTime
		s.RestTime = 0
	case ModeAMRAP, ModeTimeCap:
		s.Rounds = 1
		s.RestTime = 0
	case ModeStopwatch:
		s.Rounds = 1
		s.RestTime = 0
		if s.WorkTime <= 0 {
			s.WorkTime = DefaultStopwatchCeiling
		}
	}
	return s
}

// Validate reports whether the settings can drive a timer run.
// Settings are expected to be normalized first.
func (s TimerSettings) Validate() error {
	if s.WorkTime < 0 || s.RestTime < 0 || s.Rounds < 0 || s.PrepareTime < 0 {
		return fmt.Errorf("%w: durations and rounds must not be negative", ErrInvalidSettings)
	}
	if s.WorkTime > MaxPhaseTime || s.RestTime > MaxPhaseTime || s.PrepareTime > MaxPhaseTime {
		return fmt.Errorf("%w: a phase cannot be longer than %s", ErrInvalidSettings, FormatSeconds(MaxPhaseTime))
	}
	if s.Rounds > MaxRounds {
		return fmt.Errorf("%w: at most %d rounds", ErrInvalidSettings, MaxRounds)
	}

	switch s.Mode {
	case ModeInterval:
		if s.WorkTime == 0 {
			return fmt.Errorf("%w: interval needs a work time", ErrInvalidSettings)
		}
		if s.Rounds < 1 {
			return fmt.Errorf("%w: interval needs at least one round", ErrInvalidSettings)
		}
	case ModeEMOM:
		if s.Rounds < 1 {
			return fmt.Errorf("%w: emom needs at least one minute", ErrInvalidSettings)
		}
	case ModeAMRAP, ModeTimeCap:
		if s.WorkTime == 0 {
			return fmt.Errorf("%w: %s needs a time cap", ErrInvalidSettings, s.Mode.Label())
		}
	case ModeTabata, ModeStopwatch, ModeNoTimer:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	return nil
}

// IsCapped reports whether the mode runs a single phase bounded by a time cap.
func (m TimerMode) IsCapped() bool {
	return m == ModeAMRAP || m == ModeTimeCap
}

// HasTimer returns false for blocks that carry no timer at all.
func (s TimerSettings) HasTimer() bool {
	return s.Mode != ModeNoTimer && s.Mode != ""
}

// TotalWorkIntervals returns how many work phases a run contains.
func (s TimerSettings) TotalWorkIntervals() int {
	switch s.Mode {
	case ModeInterval, ModeTabata, ModeEMOM:
		return s.Rounds
	case ModeAMRAP, ModeTimeCap, ModeStopwatch:
		return 1
	default:
		return 0
	}
}

// TotalDuration returns the planned length of a full run in seconds,
// prepare phase included and without a rest after the final round.
func (s TimerSettings) TotalDuration() int {
	rounds := s.TotalWorkIntervals()
	if rounds == 0 {
		return 0
	}
	return s.PrepareTime + rounds*s.WorkTime + (rounds-1)*s.RestTime
}

// Summary renders the settings the way they are shown next to a block title.
func (s TimerSettings) Summary() string {
	switch s.Mode {
	case ModeInterval:
		if s.RestTime > 0 {
			return fmt.Sprintf("%d × %s / %s", s.Rounds, FormatSeconds(s.WorkTime), FormatSeconds(s.RestTime))
		}
		return fmt.Sprintf("%d × %s", s.Rounds, FormatSeconds(s.WorkTime))
	case ModeTabata:
		return fmt.Sprintf("Tabata %d × %ds/%ds", s.Rounds, s.WorkTime, s.RestTime)
	case ModeEMOM:
		return fmt.Sprintf("EMOM %d min", s.Rounds)
	case ModeAMRAP:
		return fmt.Sprintf("AMRAP %s", FormatSeconds(s.WorkTime))
	case ModeTimeCap:
		return fmt.Sprintf("Time Cap %s", FormatSeconds(s.WorkTime))
	case ModeStopwatch:
		return "Stopwatch"
	default:
		return "No timer"
	}
}

// FormatSeconds formats whole seconds as MM:SS, or H:MM:SS past an hour.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
