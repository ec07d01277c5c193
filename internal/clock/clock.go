// Package clock abstracts time so that deferred work (debounce windows,
// history timestamps) can run against either the wall clock or a virtual
// clock that tests advance by hand.
package clock

import "time"

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// timer already fired or was already stopped.
	Stop() bool
}

// Clock provides the current time and callback scheduling.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package.
// Callbacks run on their own goroutine, as with time.AfterFunc.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
