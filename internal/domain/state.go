package domain

// TimerStatus is the phase a timer engine is currently in.
type TimerStatus string

const (
	TimerIdle      TimerStatus = "idle"
	TimerPreparing TimerStatus = "preparing"
	TimerRunning   TimerStatus = "running"
	TimerResting   TimerStatus = "resting"
	TimerPaused    TimerStatus = "paused"
	TimerFinished  TimerStatus = "finished"
)

// IsActive returns true for phases that consume ticks.
func (s TimerStatus) IsActive() bool {
	return s == TimerPreparing || s == TimerRunning || s == TimerResting
}

// Label returns a human-readable label for the status.
func (s TimerStatus) Label() string {
	switch s {
	case TimerIdle:
		return "Ready"
	case TimerPreparing:
		return "Get Ready"
	case TimerRunning:
		return "Work"
	case TimerResting:
		return "Rest"
	case TimerPaused:
		return "Paused"
	case TimerFinished:
		return "Done"
	default:
		return "Unknown"
	}
}

// TimerState is a read-only snapshot of an engine, taken once per tick for rendering.
type TimerState struct {
	Mode                   TimerMode   `json:"mode"`
	Status                 TimerStatus `json:"status"`
	PausedFrom             TimerStatus `json:"paused_from,omitempty"`
	CurrentTime            int         `json:"current_time"`
	CurrentRound           int         `json:"current_round"`
	CompletedWorkIntervals int         `json:"completed_work_intervals"`
	TotalWorkIntervals     int         `json:"total_work_intervals"`
	TotalTimeElapsed       int         `json:"total_time_elapsed"`
	TotalBlockDuration     int         `json:"total_block_duration"`
}

// Progress returns the fraction of the planned run that has elapsed (0.0 to 1.0).
func (s TimerState) Progress() float64 {
	if s.Status == TimerFinished {
		return 1
	}
	if s.TotalBlockDuration <= 0 {
		return 0
	}
	p := float64(s.TotalTimeElapsed) / float64(s.TotalBlockDuration)
	if p > 1 {
		return 1
	}
	return p
}

// Phase returns the phase being shown, looking through a pause.
func (s TimerState) Phase() TimerStatus {
	if s.Status == TimerPaused {
		return s.PausedFrom
	}
	return s.Status
}

// Transition describes one status change of an engine.
type Transition struct {
	From    TimerStatus
	To      TimerStatus
	Round   int
	Elapsed int
}
