package delivery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
)

// Telegram delivers notifications via the Bot API sendMessage method to a
// configured chat (an operator or announcement channel).
type Telegram struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegram constructs the telegram channel. baseURL is overridable for
// tests; pass "" for the public Bot API.
func NewTelegram(client *http.Client, baseURL, token, chatID string) *Telegram {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Telegram{client: client, baseURL: baseURL, token: token, chatID: chatID}
}

// Name implements notification.Channel.
func (t *Telegram) Name() string { return "telegram" }

type telegramPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Deliver implements notification.Channel.
func (t *Telegram) Deliver(ctx context.Context, n *notification.Notification) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	text := n.Title
	if n.Message != "" {
		text += "\n" + n.Message
	}
	return postJSON(ctx, t.client, url, nil, telegramPayload{
		ChatID: t.chatID,
		Text:   text,
	})
}
