package reader

import "time"

// Timer is a handle to a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It reports whether the call was still pending.
	Stop() bool
}

// Scheduler schedules a single function call after a delay. The engine never
// touches time.AfterFunc directly so tests can drive playback with a virtual
// clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// wallScheduler is the production Scheduler backed by the runtime timer heap.
type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewWallScheduler returns a Scheduler backed by real time.
func NewWallScheduler() Scheduler {
	return wallScheduler{}
}
