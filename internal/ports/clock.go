package ports

import "time"

// Clock supplies wall time and tick streams to timer drivers.
// This is a driven port (implemented by the timer package, faked in tests).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Ticker returns a channel that delivers the time at every interval and
	// a function that stops it.
	Ticker(interval time.Duration) (<-chan time.Time, func())
}
