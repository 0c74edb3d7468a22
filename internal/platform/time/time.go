// Package time provides an injectable clock for code that stamps or rate-limits by wall time
package time

import (
	"sync"
	"time"
)

// Clock reports the current time
type Clock interface{ Now() time.Time }

// System is the wall clock
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Manual is a clock tests move by hand
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual starts a manual clock at t
func NewManual(t time.Time) *Manual { return &Manual{now: t} }

// Now implements Clock
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// OrSystem returns c, or the wall clock when c is nil
func OrSystem(c Clock) Clock {
	if c == nil {
		return System
	}
	return c
}
