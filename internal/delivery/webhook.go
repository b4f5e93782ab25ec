package delivery

import (
	"context"
	"net/http"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
)

// Webhook delivers notifications as JSON POSTs to a configured target URL.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook constructs the webhook channel. The secret, when set, is sent
// as a bearer token so the receiver can authenticate us.
func NewWebhook(client *http.Client, url, secret string) *Webhook {
	return &Webhook{client: client, url: url, secret: secret}
}

// Name implements notification.Channel.
func (w *Webhook) Name() string { return "webhook" }

// webhookPayload is the wire format posted to the target.
type webhookPayload struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Link     string            `json:"link,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Deliver implements notification.Channel.
func (w *Webhook) Deliver(ctx context.Context, n *notification.Notification) error {
	headers := map[string]string{}
	if w.secret != "" {
		headers["Authorization"] = "Bearer " + w.secret
	}
	return postJSON(ctx, w.client, w.url, headers, webhookPayload{
		ID:       n.ID,
		UserID:   n.UserID,
		Type:     n.Type,
		Title:    n.Title,
		Message:  n.Message,
		Link:     n.Link,
		Metadata: n.Metadata,
	})
}
