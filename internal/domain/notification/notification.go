// Package notification persists outbound user notifications and relays them
// over external delivery channels. Persistence is authoritative; delivery is
// best-effort and isolated per channel.
package notification

import (
	"context"
	"time"
)

// Notification type tags used by the access-granting pipeline.
const (
	TypeCourseAccessGranted = "course_access_granted"
	TypeAssessmentSubmitted = "assessment_submitted"
)

// Notification is an outbound message to a user. It is terminal once
// created; retry policy lives in the delivery channel, not on the entity.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Link      string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Input is the consumer-facing payload for sending a notification.
type Input struct {
	UserID   string
	Type     string
	Title    string
	Message  string
	Link     string
	Metadata map[string]string
}

// Repository defines persistence operations for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
}

// Channel delivers a persisted notification over one external transport
// (webhook, email, telegram). Deliver may fail; the dispatcher wraps each
// call with the channel's circuit breaker.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n *Notification) error
}
