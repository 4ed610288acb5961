package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
)

// stepClock returns a channel of ticks one second apart starting at now.
type stepClock struct {
	now   time.Time
	ticks int
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Ticker(interval time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time, c.ticks)
	at := c.now
	for i := 0; i < c.ticks; i++ {
		at = at.Add(interval)
		ch <- at
	}
	return ch, func() {}
}

type recordingNotifier struct {
	mu       sync.Mutex
	beeps    int
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, title+": "+message)
	return nil
}

func (n *recordingNotifier) Beep() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.beeps++
	return nil
}

func TestWorkoutService_RunAndRecord(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	blocks := NewBlockService(store, testDefaults)
	block, err := blocks.AddBlock(ctx, AddBlockRequest{
		Title:    "Intervaller 3 x 20/10",
		Settings: &domain.TimerSettings{Mode: domain.ModeInterval, WorkTime: 20, RestTime: 10, Rounds: 3, PrepareTime: 5},
	})
	if err != nil {
		t.Fatalf("AddBlock() error = %v", err)
	}

	start := time.Date(2024, 5, 6, 7, 0, 0, 0, time.Local)
	clock := &stepClock{now: start, ticks: 200}
	notifier := &recordingNotifier{}
	service := NewWorkoutService(store, clock, notifier)

	e, loaded, err := service.NewEngine(ctx, block.ShortID())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	service.Watch(e, loaded.Title)

	if err := service.Run(ctx, e, time.Second, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if e.Status() != domain.TimerFinished {
		t.Fatalf("status = %s, want finished", e.Status())
	}

	// Work x3, rest x2 and the finish.
	if notifier.beeps != 6 {
		t.Errorf("beeps = %d, want 6", notifier.beeps)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("notifications = %v, want one on finish", notifier.messages)
	}

	run, err := service.RecordRun(ctx, loaded, e.Snapshot(), start)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.Status != domain.RunCompleted || run.CompletedIntervals != 3 || run.ElapsedSeconds != 85 {
		t.Errorf("run = %+v", run)
	}

	history, err := service.BlockHistory(ctx, block.ID)
	if err != nil || len(history) != 1 {
		t.Errorf("BlockHistory() = %v, %v", history, err)
	}

	stats, err := service.DailyStats(ctx, start)
	if err != nil {
		t.Fatalf("DailyStats() error = %v", err)
	}
	if stats.Runs != 1 || stats.CompletedRuns != 1 || stats.Intervals != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWorkoutService_RecordStoppedRun(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	service := NewWorkoutService(store, nil, nil)

	e, err := service.NewQuickEngine(domain.TimerSettings{Mode: domain.ModeEMOM, Rounds: 10})
	if err != nil {
		t.Fatalf("NewQuickEngine() error = %v", err)
	}

	idle, err := service.RecordRun(ctx, nil, e.Snapshot(), time.Now())
	if err != nil || idle != nil {
		t.Errorf("RecordRun(idle) = %v, %v; want nil, nil", idle, err)
	}

	e.Start()
	e.Tick(150 * time.Second)
	e.Stop()

	run, err := service.RecordRun(ctx, nil, e.Snapshot(), time.Now().Add(-3*time.Minute))
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.Status != domain.RunStopped || run.CompletedIntervals != 2 || run.BlockID != nil {
		t.Errorf("run = %+v", run)
	}

	history, err := service.History(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil || len(history) != 1 {
		t.Errorf("History() = %v, %v", history, err)
	}
}

func TestWorkoutService_NewEngineErrors(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	blocks := NewBlockService(store, testDefaults)
	service := NewWorkoutService(store, nil, nil)

	if _, _, err := service.NewEngine(ctx, "missing"); !errors.Is(err, domain.ErrBlockNotFound) {
		t.Errorf("NewEngine(missing) error = %v, want ErrBlockNotFound", err)
	}

	mobility, _ := blocks.AddBlock(ctx, AddBlockRequest{
		Title:    "Mobility",
		Settings: &domain.TimerSettings{Mode: domain.ModeNoTimer},
	})
	if _, _, err := service.NewEngine(ctx, mobility.ID); !errors.Is(err, domain.ErrNoTimer) {
		t.Errorf("NewEngine(no timer) error = %v, want ErrNoTimer", err)
	}
}

func TestWorkoutService_WeekStats(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	service := NewWorkoutService(store, nil, nil)

	week, err := service.WeekStats(ctx, time.Now())
	if err != nil {
		t.Fatalf("WeekStats() error = %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("WeekStats() returned %d days, want 7", len(week))
	}
	if !week[0].Date.Before(week[6].Date) {
		t.Errorf("days not in ascending order: %v .. %v", week[0].Date, week[6].Date)
	}
}
