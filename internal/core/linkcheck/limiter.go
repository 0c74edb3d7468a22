package linkcheck

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Skip reasons reported by Limiter.Acquire
const (
	SkipBreaker  = "breaker"
	SkipCooldown = "cooldown"
)

// DefaultCooldown spaces reputation calls when no cooldown is configured
const DefaultCooldown = 15 * time.Second

// Limiter gates calls to one external provider. A call is allowed only when
// the breaker is open and a full cooldown has passed since the last allowed
// call. Trip is sticky: only Reset (operators, tests) or a restart clears it
type Limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	last    time.Time
	tripped bool
}

// NewLimiter builds a limiter; cooldown <= 0 means DefaultCooldown
func NewLimiter(cooldown time.Duration) *Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Every(cooldown), 1)}
}

// Acquire is the single check-and-set: it reports whether a call may go out
// at now and, when it may not, why
func (l *Limiter) Acquire(now time.Time) (ok bool, skip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tripped {
		return false, SkipBreaker
	}
	if !l.bucket.AllowN(now, 1) {
		return false, SkipCooldown
	}
	l.last = now
	return true, ""
}

// Trip marks the provider quota as exhausted for the rest of the process
func (l *Limiter) Trip() {
	l.mu.Lock()
	l.tripped = true
	l.mu.Unlock()
}

// Tripped reports the breaker state
func (l *Limiter) Tripped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tripped
}

// Last is the time of the last allowed call
func (l *Limiter) Last() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Reset clears the breaker and the cooldown
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tripped = false
	l.last = time.Time{}
	l.bucket = rate.NewLimiter(l.bucket.Limit(), 1)
}
