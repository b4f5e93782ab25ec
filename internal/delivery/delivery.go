// Package delivery implements the external notification channel adapters:
// webhook, email, and telegram. Each adapter tags its failures with a
// retry.Kind so callers can classify them without parsing message text.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/braincreator/flow-masters-access/pkg/retry"
)

// NewHTTPClient returns the shared outbound client used by all adapters,
// instrumented for tracing.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// postJSON sends a JSON body and maps non-2xx responses to kind-tagged
// errors. The response body is drained so the connection can be reused.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return retry.Mark(errors.Wrap(err, "encode payload"), retry.KindValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return retry.Mark(errors.Wrap(err, "build request"), retry.KindValidation)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return retry.Mark(errors.Wrap(err, "post"), retry.KindTransient)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return retry.Mark(errors.Errorf("unexpected status %s", resp.Status), kindForStatus(resp.StatusCode))
}

// kindForStatus maps an HTTP status to a retry kind, preserving the
// retry/no-retry partition of the message heuristics.
func kindForStatus(code int) retry.Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return retry.KindAuth
	case code == http.StatusBadRequest || code == http.StatusNotFound:
		return retry.KindNotFound
	case code == http.StatusUnprocessableEntity:
		return retry.KindValidation
	case code >= 500:
		return retry.KindTransient
	default:
		return retry.KindUnknown
	}
}
