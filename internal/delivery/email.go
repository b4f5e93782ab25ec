package delivery

import (
	"context"
	"net/http"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
)

// Email delivers notifications through an HTTP mail-provider API
// (sendgrid-style JSON endpoint).
type Email struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
}

// NewEmail constructs the email channel.
func NewEmail(client *http.Client, endpoint, apiKey, from string) *Email {
	return &Email{client: client, endpoint: endpoint, apiKey: apiKey, from: from}
}

// Name implements notification.Channel.
func (e *Email) Name() string { return "email" }

type emailPayload struct {
	From     string            `json:"from"`
	ToUserID string            `json:"to_user_id"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Deliver implements notification.Channel. Recipient resolution (user ID to
// address) is the mail provider's job; this service only knows user IDs.
func (e *Email) Deliver(ctx context.Context, n *notification.Notification) error {
	return postJSON(ctx, e.client, e.endpoint, map[string]string{
		"Authorization": "Bearer " + e.apiKey,
	}, emailPayload{
		From:     e.from,
		ToUserID: n.UserID,
		Subject:  n.Title,
		Body:     n.Message,
		Metadata: n.Metadata,
	})
}
