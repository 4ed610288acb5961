// Package timer implements the workout interval timer: a state machine over
// prepare, work and rest phases driven by externally supplied elapsed time.
//
// An Engine is not safe for concurrent use. Each timer on screen owns its own
// engine, and every call (controls and ticks) happens on the same goroutine.
package timer

import (
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
)

// Engine runs one TimerSettings value through its phases.
type Engine struct {
	settings domain.TimerSettings
	attached bool

	status     domain.TimerStatus
	pausedFrom domain.TimerStatus

	// remaining counts down in every phase except a stopwatch's work
	// phase, where it holds the time counted up so far.
	remaining time.Duration
	round     int
	completed int
	elapsed   time.Duration
	total     int

	onTransition func(domain.Transition)
}

// NewEngine creates an idle engine for the block. A nil block, a block
// without a timer or a block with invalid settings leaves the engine idle
// with zeroed fields; Start is then a no-op.
func NewEngine(block *domain.WorkoutBlock) *Engine {
	e := &Engine{status: domain.TimerIdle}
	if block != nil {
		_ = e.Attach(block.Settings)
	}
	return e
}

// NewEngineWithSettings creates an idle engine for ad hoc settings.
func NewEngineWithSettings(settings domain.TimerSettings) (*Engine, error) {
	e := &Engine{status: domain.TimerIdle}
	if err := e.Attach(settings); err != nil {
		return nil, err
	}
	return e, nil
}

// Attach replaces the settings of an idle engine. Settings are normalized
// before validation, so Tabata input is always canonical.
func (e *Engine) Attach(settings domain.TimerSettings) error {
	if e.status != domain.TimerIdle {
		return domain.ErrTimerBusy
	}

	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}

	e.settings = settings
	e.attached = settings.HasTimer()
	e.clear()
	return nil
}

// OnTransition registers a callback fired after every status change.
func (e *Engine) OnTransition(fn func(domain.Transition)) {
	e.onTransition = fn
}

// Settings returns the attached settings and whether any are attached.
func (e *Engine) Settings() (domain.TimerSettings, bool) {
	return e.settings, e.attached
}

// Start begins a run. It is a no-op unless the engine is idle with timed
// settings attached, so pressing start twice never resets progress.
func (e *Engine) Start() {
	if e.status != domain.TimerIdle || !e.attached {
		return
	}

	e.clear()
	e.total = e.settings.TotalDuration()
	e.round = 1

	if e.settings.PrepareTime > 0 {
		e.remaining = seconds(e.settings.PrepareTime)
		e.setStatus(domain.TimerPreparing)
		return
	}
	e.enterWork()
}

// Pause freezes the current phase.
func (e *Engine) Pause() {
	if !e.status.IsActive() {
		return
	}
	e.pausedFrom = e.status
	e.setStatus(domain.TimerPaused)
}

// Resume returns to the phase that was paused, with the same time left.
func (e *Engine) Resume() {
	if e.status != domain.TimerPaused {
		return
	}
	from := e.pausedFrom
	e.pausedFrom = ""
	e.setStatus(from)
}

// Toggle pauses an active engine or resumes a paused one.
func (e *Engine) Toggle() {
	if e.status == domain.TimerPaused {
		e.Resume()
		return
	}
	e.Pause()
}

// Reset returns to idle and zeroes every counter. Ticks are ignored until
// the next Start.
func (e *Engine) Reset() {
	wasIdle := e.status == domain.TimerIdle
	prev := e.status
	e.clear()
	e.status = domain.TimerIdle
	if !wasIdle {
		e.emit(prev, domain.TimerIdle)
	}
}

// Skip ends the current phase early without crediting a work interval.
func (e *Engine) Skip() {
	if !e.status.IsActive() {
		return
	}
	e.advance(false)
}

// Stop ends the run early. Counters are kept so the run can be logged.
// Stopping a running stopwatch is its normal end and credits the interval.
func (e *Engine) Stop() {
	if !e.status.IsActive() && e.status != domain.TimerPaused {
		return
	}
	phase := e.status
	if phase == domain.TimerPaused {
		phase = e.pausedFrom
	}
	if e.settings.Mode == domain.ModeStopwatch && phase == domain.TimerRunning {
		e.completed++
		e.finish(true)
		return
	}
	e.finish(false)
}

// Tick advances the engine by the real time elapsed since the previous
// tick. Time left over when a phase ends is carried into the next one, so
// one 5s tick and five 1s ticks land in the same place.
func (e *Engine) Tick(delta time.Duration) {
	if delta <= 0 {
		return
	}

	for delta > 0 && e.status.IsActive() {
		if e.countsUp() {
			ceiling := seconds(e.settings.WorkTime)
			step := min(delta, ceiling-e.remaining)
			e.remaining += step
			e.elapsed += step
			delta -= step
			if e.remaining >= ceiling {
				e.advance(true)
			}
			continue
		}

		step := min(delta, e.remaining)
		e.remaining -= step
		e.elapsed += step
		delta -= step
		if e.remaining <= 0 {
			e.advance(true)
		}
	}
}

// Status returns the current phase.
func (e *Engine) Status() domain.TimerStatus {
	return e.status
}

// CurrentTime returns the whole seconds left in the current phase, or the
// seconds counted so far for a stopwatch.
func (e *Engine) CurrentTime() int {
	return int(e.remaining / time.Second)
}

// Remaining returns the exact time left in the current phase.
func (e *Engine) Remaining() time.Duration {
	return e.remaining
}

// CompletedWorkIntervals returns the number of work phases that ran to zero.
func (e *Engine) CompletedWorkIntervals() int {
	return e.completed
}

// TotalWorkIntervals returns the number of work phases in the run.
func (e *Engine) TotalWorkIntervals() int {
	if !e.attached {
		return 0
	}
	return e.settings.TotalWorkIntervals()
}

// CurrentRound returns the round to display, never past the total. A
// skipped work phase moves the display on even though nothing was credited.
func (e *Engine) CurrentRound() int {
	total := e.TotalWorkIntervals()
	if total == 0 || e.status == domain.TimerIdle {
		return 0
	}
	return min(max(e.completed+1, e.round), total)
}

// TotalTimeElapsed returns the whole seconds spent outside of pause since Start.
func (e *Engine) TotalTimeElapsed() int {
	return int(e.elapsed / time.Second)
}

// TotalBlockDuration returns the planned length of the run in seconds.
func (e *Engine) TotalBlockDuration() int {
	return e.total
}

// Snapshot returns the observable state for rendering.
func (e *Engine) Snapshot() domain.TimerState {
	return domain.TimerState{
		Mode:                   e.settings.Mode,
		Status:                 e.status,
		PausedFrom:             e.pausedFrom,
		CurrentTime:            e.CurrentTime(),
		CurrentRound:           e.CurrentRound(),
		CompletedWorkIntervals: e.completed,
		TotalWorkIntervals:     e.TotalWorkIntervals(),
		TotalTimeElapsed:       e.TotalTimeElapsed(),
		TotalBlockDuration:     e.total,
	}
}

// advance ends the current phase. natural is false for a manual skip.
func (e *Engine) advance(natural bool) {
	switch e.status {
	case domain.TimerPreparing:
		e.enterWork()

	case domain.TimerRunning:
		if natural {
			e.completed++
		}
		if e.round >= e.settings.TotalWorkIntervals() {
			e.finish(true)
			return
		}
		if e.settings.RestTime > 0 {
			e.remaining = seconds(e.settings.RestTime)
			e.setStatus(domain.TimerResting)
			return
		}
		e.round++
		e.enterWork()

	case domain.TimerResting:
		e.round++
		e.enterWork()
	}
}

func (e *Engine) enterWork() {
	if e.settings.Mode == domain.ModeStopwatch {
		e.remaining = 0
	} else {
		e.remaining = seconds(e.settings.WorkTime)
	}
	if e.status == domain.TimerRunning {
		// Back-to-back work phases still count as a transition for observers.
		e.emit(domain.TimerRunning, domain.TimerRunning)
		return
	}
	e.setStatus(domain.TimerRunning)
}

// finish pins the display at zero, or at the counted time when a
// stopwatch ends from its work phase.
func (e *Engine) finish(fromWork bool) {
	if e.settings.Mode != domain.ModeStopwatch || !fromWork {
		e.remaining = 0
	}
	e.pausedFrom = ""
	e.setStatus(domain.TimerFinished)
}

func (e *Engine) countsUp() bool {
	return e.settings.Mode == domain.ModeStopwatch && e.status == domain.TimerRunning
}

func (e *Engine) setStatus(to domain.TimerStatus) {
	from := e.status
	e.status = to
	e.emit(from, to)
}

func (e *Engine) emit(from, to domain.TimerStatus) {
	if e.onTransition == nil {
		return
	}
	e.onTransition(domain.Transition{
		From:    from,
		To:      to,
		Round:   e.CurrentRound(),
		Elapsed: e.TotalTimeElapsed(),
	})
}

func (e *Engine) clear() {
	e.pausedFrom = ""
	e.remaining = 0
	e.round = 0
	e.completed = 0
	e.elapsed = 0
	e.total = 0
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
