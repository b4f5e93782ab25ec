// Package breaker provides a per-channel circuit breaker that isolates a
// failing delivery channel from the rest of the system. Once a channel
// accumulates enough consecutive failures the breaker opens and rejects calls
// immediately instead of paying the downstream timeout cost on every attempt.
// After a cooldown window a single trial call is allowed through (half-open);
// its outcome decides whether the breaker closes again or re-opens.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// ErrOpen is returned when the breaker is open and the call is rejected
// without being attempted.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker's current position.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Config sets the failure threshold and cooldown for one breaker.
type Config struct {
	// MaxFailures is the consecutive-failure count that opens the breaker.
	MaxFailures int
	// ResetTimeout is how long the breaker stays open before allowing a
	// trial call.
	ResetTimeout time.Duration
}

// Breaker guards calls to a single downstream channel.
//
// State is in-memory only: a cold process starts optimistically closed.
// Counters are mutex-guarded because handlers run on arbitrary goroutines.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
}

// New creates a closed breaker with the given config.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg, now: time.Now}
}

// Execute runs op under the breaker. When the breaker is open and the
// cooldown has not elapsed it returns ErrOpen without calling op. Otherwise
// op runs and its outcome updates the breaker state: success closes the
// breaker and resets the failure count; failure increments it, opening the
// breaker once MaxFailures is reached.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := op(ctx)
	b.record(err)
	return err
}

// allow checks whether a call may proceed, moving open -> half-open when the
// cooldown has elapsed.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.lastFailure) <= b.cfg.ResetTimeout {
			return ErrOpen
		}
		b.state = StateHalfOpen
	}
	return nil
}

// record updates breaker state from a call outcome.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = StateClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = b.now()
	if b.state == StateHalfOpen || b.failures >= b.cfg.MaxFailures {
		b.state = StateOpen
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
