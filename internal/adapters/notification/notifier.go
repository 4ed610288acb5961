// Package notification provides desktop notifications and alert beeps.
package notification

import (
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg   *config.NotificationConfig
	sound atomic.Bool

	// notify and beep are swapped out in tests.
	notify func(title, message string) error
	beep   func() error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{
		cfg: cfg,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
	n.sound.Store(cfg != nil && cfg.Sound)
	return n
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.notify(title, message)
}

// Beep plays the alert sound if sound is on.
func (n *Notifier) Beep() error {
	if !n.SoundOn() {
		return nil
	}
	return n.beep()
}

// NotifyRunComplete displays a notification when a run ends.
func (n *Notifier) NotifyRunComplete(run *domain.WorkoutRun) error {
	title := "🏋 " + run.Status.Label()
	name := run.BlockTitle
	if name == "" {
		name = run.Mode.Label()
	}
	message := fmt.Sprintf("%s: %d/%d intervals in %s",
		name, run.CompletedIntervals, run.TotalIntervals, domain.FormatSeconds(run.ElapsedSeconds))
	return n.Notify(title, message)
}

// SetSound turns alert beeps on or off.
func (n *Notifier) SetSound(on bool) {
	n.sound.Store(on)
}

// SoundOn reports whether alert beeps are on.
func (n *Notifier) SoundOn() bool {
	return n.sound.Load()
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
