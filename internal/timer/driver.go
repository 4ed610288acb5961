package timer

import (
	"context"
	"errors"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

// ErrTicksClosed is returned by Drive when the tick source closes before the
// run finishes.
var ErrTicksClosed = errors.New("tick source closed before the run finished")

// SystemClock is the real wall clock.
type SystemClock struct{}

var _ ports.Clock = SystemClock{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// Ticker wraps time.NewTicker.
func (SystemClock) Ticker(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Drive starts the engine if it is idle and feeds it from ticks until the
// run finishes. Each tick advances the engine by the time since the
// previous one, so late or dropped ticks never slow the timer down. The
// first tick only anchors the clock.
// observe, when set, receives a snapshot after every tick and once at the
// start. Drive returns nil when the run finishes, ctx.Err() on
// cancellation and domain.ErrNoTimer when nothing can be started.
func Drive(ctx context.Context, e *Engine, ticks <-chan time.Time, observe func(domain.TimerState)) error {
	return drive(ctx, e, time.Time{}, ticks, observe)
}

// Run drives the engine from clock ticks every interval, anchored at the
// moment Run is called.
func Run(ctx context.Context, e *Engine, clock ports.Clock, interval time.Duration, observe func(domain.TimerState)) error {
	ticks, stop := clock.Ticker(interval)
	defer stop()
	return drive(ctx, e, clock.Now(), ticks, observe)
}

func drive(ctx context.Context, e *Engine, last time.Time, ticks <-chan time.Time, observe func(domain.TimerState)) error {
	if e.Status() == domain.TimerIdle {
		e.Start()
	}
	if e.Status() == domain.TimerIdle {
		return domain.ErrNoTimer
	}

	notify := func() {
		if observe != nil {
			observe(e.Snapshot())
		}
	}
	notify()

	for e.Status() != domain.TimerFinished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return ErrTicksClosed
			}
			if !last.IsZero() {
				e.Tick(now.Sub(last))
			}
			last = now
			notify()
		}
	}
	return nil
}
