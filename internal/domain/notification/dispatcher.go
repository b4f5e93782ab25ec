package notification

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/braincreator/flow-masters-access/pkg/breaker"
	"github.com/braincreator/flow-masters-access/pkg/monitor"
)

// Dispatcher persists notifications and relays them over the configured
// channels. Creation and delivery are separate concerns: a notification that
// failed to reach a channel still exists.
type Dispatcher struct {
	repo     Repository
	channels []Channel
	breakers *breaker.Registry
	monitor  *monitor.Monitor
	now      func() time.Time
}

// NewDispatcher constructs a Dispatcher. The breaker registry and monitor
// are injected so tests can build isolated instances.
func NewDispatcher(repo Repository, breakers *breaker.Registry, mon *monitor.Monitor, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		channels: channels,
		breakers: breakers,
		monitor:  mon,
		now:      time.Now,
	}
}

// Send persists the notification first, then attempts delivery over every
// configured channel. Delivery failures (including an open breaker) are
// logged and do not fail the send: the persisted record is the durable
// outcome. Only a persistence failure returns an error.
func (d *Dispatcher) Send(ctx context.Context, in Input) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		Metadata:  in.Metadata,
		CreatedAt: d.now().UTC(),
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "persist notification")
	}

	lg := zctx.From(ctx)
	for _, ch := range d.channels {
		br := d.breakers.Get(ch.Name())
		err := d.monitor.Measure(ctx, "deliver_"+ch.Name(), func(ctx context.Context) error {
			return br.Execute(ctx, func(ctx context.Context) error {
				return ch.Deliver(ctx, n)
			})
		})
		if err != nil {
			lg.Warn("notification delivery failed",
				zap.String("notification_id", n.ID),
				zap.String("channel", ch.Name()),
				zap.Bool("breaker_open", errors.Is(err, breaker.ErrOpen)),
				zap.Error(err),
			)
		}
	}

	return n, nil
}
