package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/modes"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/timer"
)

// WorkoutService runs timers and keeps the run log.
type WorkoutService struct {
	storage  ports.Storage
	clock    ports.Clock
	notifier ports.Notifier
}

// NewWorkoutService creates a new workout service. A nil clock uses the
// system clock; a nil notifier disables alerts.
func NewWorkoutService(storage ports.Storage, clock ports.Clock, notifier ports.Notifier) *WorkoutService {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &WorkoutService{storage: storage, clock: clock, notifier: notifier}
}

// NewEngine creates an idle engine for a stored block.
func (s *WorkoutService) NewEngine(ctx context.Context, blockID string) (*timer.Engine, *domain.WorkoutBlock, error) {
	block, err := s.storage.Blocks().FindByID(ctx, blockID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find block: %w", err)
	}
	if !block.Settings.HasTimer() {
		return nil, block, domain.ErrNoTimer
	}

	e := timer.NewEngine(block)
	if _, ok := e.Settings(); !ok {
		return nil, block, fmt.Errorf("%w: block %s", domain.ErrInvalidSettings, block.ShortID())
	}
	return e, block, nil
}

// NewQuickEngine creates an idle engine for ad hoc settings.
func (s *WorkoutService) NewQuickEngine(settings domain.TimerSettings) (*timer.Engine, error) {
	return timer.NewEngineWithSettings(settings)
}

// Watch registers alerts on every phase change of the engine. title names
// the block in notifications.
func (s *WorkoutService) Watch(e *timer.Engine, title string) {
	e.OnTransition(func(tr domain.Transition) {
		logrus.WithFields(logrus.Fields{
			"block":   title,
			"from":    tr.From,
			"to":      tr.To,
			"round":   tr.Round,
			"elapsed": tr.Elapsed,
		}).Debug("timer transition")

		if s.notifier == nil {
			return
		}
		msg, ok := transitionMessage(e, tr)
		if !ok {
			return
		}
		if err := s.notifier.Beep(); err != nil {
			logrus.WithError(err).Debug("beep failed")
		}
		if tr.To == domain.TimerFinished {
			if err := s.notifier.Notify(title, msg); err != nil {
				logrus.WithError(err).Debug("notification failed")
			}
		}
	})
}

func transitionMessage(e *timer.Engine, tr domain.Transition) (string, bool) {
	settings, _ := e.Settings()
	mode := modes.ForTimerMode(settings.Mode)

	switch tr.To {
	case domain.TimerRunning:
		if tr.From == domain.TimerPaused {
			return "", false
		}
		return fmt.Sprintf("%s round %d/%d", mode.WorkLabel(), tr.Round, e.TotalWorkIntervals()), true
	case domain.TimerResting:
		if tr.From == domain.TimerPaused {
			return "", false
		}
		return "Rest", true
	case domain.TimerFinished:
		return mode.CompletionTitle(), true
	default:
		return "", false
	}
}

// Run drives the engine on the service clock until it finishes or ctx is
// cancelled.
func (s *WorkoutService) Run(ctx context.Context, e *timer.Engine, interval time.Duration, observe func(domain.TimerState)) error {
	return timer.Run(ctx, e, s.clock, interval, observe)
}

// Now returns the service clock's current time.
func (s *WorkoutService) Now() time.Time {
	return s.clock.Now()
}

// RecordRun logs the outcome of a run. Runs that never left idle are not
// recorded and return nil.
func (s *WorkoutService) RecordRun(ctx context.Context, block *domain.WorkoutBlock, state domain.TimerState, startedAt time.Time) (*domain.WorkoutRun, error) {
	if state.Status == domain.TimerIdle {
		return nil, nil
	}

	run := domain.NewWorkoutRun(block, state, startedAt)
	run.FinishedAt = s.clock.Now()
	if err := s.storage.Runs().Save(ctx, run); err != nil {
		logrus.WithError(err).WithField("run", run.ID).Warn("failed to record run")
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"run":    run.ID,
		"status": run.Status,
		"mode":   run.Mode,
	}).Info("run recorded")
	return run, nil
}

// History returns runs started since the given time, newest first.
func (s *WorkoutService) History(ctx context.Context, since time.Time, limit int) ([]*domain.WorkoutRun, error) {
	return s.storage.Runs().FindRecent(ctx, since, limit)
}

// BlockHistory returns every run of a block.
func (s *WorkoutService) BlockHistory(ctx context.Context, blockID string) ([]*domain.WorkoutRun, error) {
	return s.storage.Runs().FindByBlock(ctx, blockID)
}

// DailyStats returns run statistics for the day containing date.
func (s *WorkoutService) DailyStats(ctx context.Context, date time.Time) (*domain.WorkoutStats, error) {
	return s.storage.Runs().GetDailyStats(ctx, date)
}

// WeekStats returns one stats entry per day for the seven days ending on date.
func (s *WorkoutService) WeekStats(ctx context.Context, date time.Time) ([]*domain.WorkoutStats, error) {
	week := make([]*domain.WorkoutStats, 0, 7)
	for i := 6; i >= 0; i-- {
		stats, err := s.storage.Runs().GetDailyStats(ctx, date.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		week = append(week, stats)
	}
	return week, nil
}
