package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
)

const createNotificationSQL = `INSERT INTO notifications (id, user_id, type, title, message, link, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

var _ notification.Repository = (*NotificationRepository)(nil)

// NotificationRepository implements notification.Repository backed by
// PostgreSQL.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a NotificationRepository that uses the
// given pool.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create persists a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return errors.Wrap(err, "marshal notification metadata")
	}

	_, err = r.pool.Exec(ctx, createNotificationSQL,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, metadata,
	)
	if err != nil {
		return errors.Wrapf(err, "create notification %q", n.ID)
	}
	return nil
}
