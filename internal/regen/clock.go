package regen

import "time"

// Timer is a pending callback that can be stopped.
type Timer interface {
	// Stop prevents the callback from firing. It reports false when the
	// callback already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks after a delay. Callbacks run on a clock-owned
// goroutine and must hand their work to a Dispatcher.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is the wall clock.
type RealClock struct{}

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
