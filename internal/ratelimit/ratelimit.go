// Package ratelimit decides whether a user is still inside the ticket-creation
// cooldown window. It is a pure function of persisted state; the caller loads
// the last-creation stamp and persists the new one.
package ratelimit

import "time"

// Decision is the outcome of a cooldown check.
type Decision struct {
	Limited   bool
	Remaining time.Duration
}

// Check compares now against the last creation stamp. A nil last stamp means
// the user has never created a ticket; a non-positive window disables the
// limiter entirely.
func Check(last *time.Time, now time.Time, window time.Duration) Decision {
	if last == nil || window <= 0 {
		return Decision{}
	}
	elapsed := now.Sub(*last)
	if elapsed >= window {
		return Decision{}
	}
	return Decision{
		Limited:   true,
		Remaining: window - elapsed,
	}
}
