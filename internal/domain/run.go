package domain

import "time"

// RunStatus records how a timer run ended.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
	RunAborted   RunStatus = "aborted"
)

// Label returns a human-readable label for the run status.
func (s RunStatus) Label() string {
	switch s {
	case RunCompleted:
		return "Completed"
	case RunStopped:
		return "Stopped early"
	case RunAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// WorkoutRun is the log entry written when a timer run ends.
type WorkoutRun struct {
	ID                 string
	BlockID            *string
	BlockTitle         string
	Mode               TimerMode
	Status             RunStatus
	CompletedIntervals int
	TotalIntervals     int
	ElapsedSeconds     int
	PlannedSeconds     int
	StartedAt          time.Time
	FinishedAt         time.Time
}

// NewWorkoutRun builds a run log entry from the final engine state.
// A finished engine that credited every interval is completed; a finished
// engine that did not was stopped early; anything else was aborted.
func NewWorkoutRun(block *WorkoutBlock, state TimerState, startedAt time.Time) *WorkoutRun {
	run := &WorkoutRun{
		ID:                 newID(),
		Mode:               state.Mode,
		CompletedIntervals: state.CompletedWorkIntervals,
		TotalIntervals:     state.TotalWorkIntervals,
		ElapsedSeconds:     state.TotalTimeElapsed,
		PlannedSeconds:     state.TotalBlockDuration,
		StartedAt:          startedAt,
		FinishedAt:         time.Now(),
	}
	if block != nil {
		id := block.ID
		run.BlockID = &id
		run.BlockTitle = block.Title
	}

	switch {
	case state.Status == TimerFinished && state.CompletedWorkIntervals >= state.TotalWorkIntervals:
		run.Status = RunCompleted
	case state.Status == TimerFinished:
		run.Status = RunStopped
	default:
		run.Status = RunAborted
	}
	return run
}

// Duration returns the active time of the run.
func (r *WorkoutRun) Duration() time.Duration {
	return time.Duration(r.ElapsedSeconds) * time.Second
}

// WorkoutStats aggregates runs for a day.
type WorkoutStats struct {
	Date          time.Time
	Runs          int
	CompletedRuns int
	Intervals     int
	TotalTime     time.Duration
}
