package game

import (
	"time"

	"contours/internal/config"
)

const (
	// idleFPS caps the loop while nothing is visible.
	idleFPS = 15

	// spinWindow is the tail of each frame spent polling instead of sleeping.
	spinWindow = 200 * time.Microsecond
)

// FPSLimiter paces the main loop to config.GetFPSLimit frames per second.
type FPSLimiter struct {
	next time.Time
}

// NewFPSLimiter returns a limiter whose first Wait starts the schedule.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame is due. While idle (window minimised)
// the loop runs at idleFPS. A limit of 0 never blocks.
func (f *FPSLimiter) Wait(idle bool) {
	limit := config.GetFPSLimit()
	if idle {
		limit = idleFPS
	}

	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	frame := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(frame)
	} else {
		f.next = f.next.Add(frame)
	}

	sleepUntil(f.next)

	// After a long stall restart the schedule instead of rushing frames.
	if time.Since(f.next) > frame {
		f.next = time.Now().Add(frame)
	}
}

// sleepUntil sleeps most of the way to deadline and polls the rest, since
// time.Sleep overshoots by more than a frame at high limits on some systems.
func sleepUntil(deadline time.Time) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}
}
