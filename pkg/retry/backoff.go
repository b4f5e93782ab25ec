package retry

import (
	"math"
	"time"
)

// Backoff defaults. One second doubling up to thirty seconds covers the
// transient faults we retry (network blips, 5xx) without hammering a
// downstream that is already struggling.
const (
	DefaultBaseDelay  = time.Second
	DefaultMaxDelay   = 30 * time.Second
	DefaultMultiplier = 2.0
)

// BackoffConfig parameterizes exponential backoff.
type BackoffConfig struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultBackoff is the configuration used when none is supplied.
var DefaultBackoff = BackoffConfig{
	BaseDelay:  DefaultBaseDelay,
	MaxDelay:   DefaultMaxDelay,
	Multiplier: DefaultMultiplier,
}

// Delay returns the backoff delay before the given 1-indexed attempt:
// min(base * multiplier^(attempt-1), max). Attempts below 1 are treated
// as the first attempt.
func Delay(attempt int) time.Duration {
	return DefaultBackoff.Delay(attempt)
}

// Delay computes the backoff delay for a 1-indexed attempt.
func (c BackoffConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt-1))
	if d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	return time.Duration(d)
}
