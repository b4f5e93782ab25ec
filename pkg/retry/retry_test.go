package retry

import (
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry_MessageHeuristics(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"validation failure", "validation failed", false},
		{"invalid payload", "invalid order payload", false},
		{"unauthorized", "unauthorized subscription access", false},
		{"forbidden with status", "403 forbidden", false},
		{"bad request", "request failed with 400", false},
		{"not found", "course 404 not found", false},
		{"network", "ETIMEDOUT network", true},
		{"timeout", "context deadline exceeded: timeout", true},
		{"bad gateway", "502 Bad Gateway", true},
		{"service unavailable", "503 Service Unavailable", true},
		{"internal error", "500 Internal Server Error", true},
		{"gateway timeout", "504 Gateway Timeout", true},
		{"unclassified defaults to retry", "something odd happened", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(errors.New(tt.msg)))
		})
	}
}

func TestShouldRetry_KindTagWins(t *testing.T) {
	// A tagged error is classified by its kind even when the message would
	// match a different heuristic branch.
	err := Mark(errors.New("network timeout while validating"), KindValidation)
	assert.False(t, ShouldRetry(err))

	err = Mark(errors.New("invalid response from upstream"), KindTransient)
	assert.True(t, ShouldRetry(err))
}

func TestShouldRetry_Nil(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, KindUnknown, KindOf(base))
	assert.Equal(t, KindAuth, KindOf(Mark(base, KindAuth)))

	// Tag survives wrapping.
	wrapped := errors.Wrap(Mark(base, KindNotFound), "deliver webhook")
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestMark_Nil(t *testing.T) {
	assert.Nil(t, Mark(nil, KindTransient))
}

func TestDelay_Growth(t *testing.T) {
	assert.Equal(t, time.Second, Delay(1))
	assert.Equal(t, 2*time.Second, Delay(2))
	assert.Equal(t, 4*time.Second, Delay(3))
	assert.Equal(t, 16*time.Second, Delay(5))
	// 1000 * 2^5 = 32000ms, capped at the 30s ceiling.
	assert.Equal(t, 30*time.Second, Delay(6))
	assert.Equal(t, 30*time.Second, Delay(20))
}

func TestDelay_NeverNonPositive(t *testing.T) {
	assert.Equal(t, time.Second, Delay(0))
	assert.Equal(t, time.Second, Delay(-3))
}

func TestBackoffConfig_Custom(t *testing.T) {
	cfg := BackoffConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 3}
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 300*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 900*time.Millisecond, cfg.Delay(3))
	assert.Equal(t, time.Second, cfg.Delay(4))
}
