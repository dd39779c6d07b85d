package session

import (
	"math/rand"
	"time"
)

// Backoff produces jittered exponential delays for the recovery loop.
// Reconnecting never gives up, but the attempt rate is capped so a dead
// rendezvous server is not hammered.
type Backoff struct {
	min     time.Duration
	max     time.Duration
	attempt int
}

// NewBackoff creates a backoff ranging between min and max.
func NewBackoff(min, max time.Duration) *Backoff {
	return &Backoff{min: min, max: max}
}

// Next returns the delay before the following attempt: min doubled per
// consecutive failure, capped at max, with +/-50% jitter.
func (b *Backoff) Next() time.Duration {
	delay := b.min << b.attempt
	if delay > b.max || delay <= 0 {
		delay = b.max
	} else {
		b.attempt++
	}

	jitter := 0.5 + rand.Float64()
	out := time.Duration(float64(delay) * jitter)
	if out > b.max {
		out = b.max
	}
	if out < b.min/2 {
		out = b.min / 2
	}
	return out
}

// Reset clears the failure streak after a session reached streaming.
func (b *Backoff) Reset() {
	b.attempt = 0
}
