// Package pool provides pooled timers for short-lived waits on hot paths,
// such as the delay before retrying a busy device.
package pool

import (
	"sync"
	"time"
)

var timerPool = sync.Pool{
	New: func() any { return time.NewTimer(time.Hour) },
}

// GetTimer returns a timer that fires after d. Return it with PutTimer.
func GetTimer(d time.Duration) *time.Timer {
	t, _ := timerPool.Get().(*time.Timer)
	if t.Reset(d) {
		// The timer was still active; drain a pending tick so the caller
		// only observes the new expiry.
		select {
		case <-t.C:
		default:
		}
	}

	return t
}

// PutTimer returns t to the pool. t must not be used afterwards.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}
