package ports

// Notifier alerts the athlete when a phase changes or a run ends.
// This is a driven port (implemented by the notification adapter).
type Notifier interface {
	// Notify shows a desktop notification.
	Notify(title, message string) error

	// Beep plays a short alert sound.
	Beep() error
}
