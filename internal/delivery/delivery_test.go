package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
	"github.com/braincreator/flow-masters-access/pkg/retry"
)

func testNotification() *notification.Notification {
	return &notification.Notification{
		ID:      "n-1",
		UserID:  "u-1",
		Type:    notification.TypeCourseAccessGranted,
		Title:   "Course access granted",
		Message: "You now have access to Go Fundamentals",
		Link:    "/courses/go-fundamentals",
	}
}

func TestWebhook_Deliver(t *testing.T) {
	var got webhookPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.Client(), srv.URL, "s3cret")
	require.NoError(t, wh.Deliver(context.Background(), testNotification()))

	assert.Equal(t, "Bearer s3cret", auth)
	assert.Equal(t, "n-1", got.ID)
	assert.Equal(t, notification.TypeCourseAccessGranted, got.Type)
}

func TestWebhook_StatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		kind      retry.Kind
		retryable bool
	}{
		{http.StatusBadRequest, retry.KindNotFound, false},
		{http.StatusUnauthorized, retry.KindAuth, false},
		{http.StatusForbidden, retry.KindAuth, false},
		{http.StatusNotFound, retry.KindNotFound, false},
		{http.StatusUnprocessableEntity, retry.KindValidation, false},
		{http.StatusInternalServerError, retry.KindTransient, true},
		{http.StatusBadGateway, retry.KindTransient, true},
		{http.StatusServiceUnavailable, retry.KindTransient, true},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		wh := NewWebhook(srv.Client(), srv.URL, "")
		err := wh.Deliver(context.Background(), testNotification())
		require.Error(t, err, "status %d", tt.status)
		assert.Equal(t, tt.kind, retry.KindOf(err), "status %d", tt.status)
		assert.Equal(t, tt.retryable, retry.ShouldRetry(err), "status %d", tt.status)

		srv.Close()
	}
}

func TestWebhook_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	wh := NewWebhook(NewHTTPClient(time.Second), srv.URL, "")
	err := wh.Deliver(context.Background(), testNotification())
	require.Error(t, err)
	assert.Equal(t, retry.KindTransient, retry.KindOf(err))
	assert.True(t, retry.ShouldRetry(err))
}

func TestEmail_Deliver(t *testing.T) {
	var got emailPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	em := NewEmail(srv.Client(), srv.URL, "key", "noreply@flow-masters.ru")
	require.NoError(t, em.Deliver(context.Background(), testNotification()))

	assert.Equal(t, "u-1", got.ToUserID)
	assert.Equal(t, "Course access granted", got.Subject)
	assert.Equal(t, "noreply@flow-masters.ru", got.From)
}

func TestTelegram_Deliver(t *testing.T) {
	var path string
	var got telegramPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram(srv.Client(), srv.URL, "bot-token", "chat-1")
	require.NoError(t, tg.Deliver(context.Background(), testNotification()))

	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "chat-1", got.ChatID)
	assert.Contains(t, got.Text, "Course access granted")
	assert.Contains(t, got.Text, "Go Fundamentals")
}
