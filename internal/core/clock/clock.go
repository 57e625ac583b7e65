// Package clock provides the time source used to schedule toast timers.
// Every scheduled task is returned as a Timer so that callers hold an
// explicit cancel handle.
package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// fired or was already stopped.
	Stop() bool
}

// Clock is a source of time that can schedule callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package. Callbacks run on their
// own goroutines.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
