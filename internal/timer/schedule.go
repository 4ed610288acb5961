package timer

import "github.com/xvierd/wod-cli/internal/domain"

// Segment is one planned phase of a run.
type Segment struct {
	Phase    domain.TimerStatus `json:"phase"`
	Round    int                `json:"round"`
	Duration int                `json:"duration"`
	StartsAt int                `json:"starts_at"`
}

// Schedule lists the phases a full run of the settings goes through, in
// order. Settings are normalized first; invalid or timerless settings
// yield no segments. The durations add up to TotalDuration.
func Schedule(settings domain.TimerSettings) []Segment {
	settings = settings.Normalize()
	if !settings.HasTimer() || settings.Validate() != nil {
		return nil
	}

	rounds := settings.TotalWorkIntervals()
	segments := make([]Segment, 0, 2*rounds)
	at := 0
	add := func(phase domain.TimerStatus, round, d int) {
		if d <= 0 {
			return
		}
		segments = append(segments, Segment{Phase: phase, Round: round, Duration: d, StartsAt: at})
		at += d
	}

	add(domain.TimerPreparing, 0, settings.PrepareTime)
	for round := 1; round <= rounds; round++ {
		add(domain.TimerRunning, round, settings.WorkTime)
		if round < rounds {
			add(domain.TimerResting, round, settings.RestTime)
		}
	}
	return segments
}
