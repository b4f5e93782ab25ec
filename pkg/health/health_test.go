package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, fn http.HandlerFunc) (int, statusResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestReadyEndpoint_NotReadyUntilSet(t *testing.T) {
	h := New()

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)

	h.SetReady(true)
	code, resp = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)

	// Flipping back drains traffic.
	h.SetReady(false)
	code, _ = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestReadyEndpoint_FailingCheck(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("postgres", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", resp.Checks["postgres"])
}

func TestLiveEndpoint_OK(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(100000))

	code, resp := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1000000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
