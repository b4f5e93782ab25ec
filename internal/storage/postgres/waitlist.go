package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braincreator/flow-masters-access/internal/domain/waitlist"
)

const (
	createWaitlistSQL = `INSERT INTO waitlist (id, user_id, course_id) VALUES ($1, $2, $3)`

	deleteWaitlistSQL = `DELETE FROM waitlist WHERE user_id = $1 AND course_id = $2`
)

var _ waitlist.Repository = (*WaitlistRepository)(nil)

// WaitlistRepository implements waitlist.Repository backed by PostgreSQL.
type WaitlistRepository struct {
	pool *pgxpool.Pool
}

// NewWaitlistRepository returns a WaitlistRepository that uses the given pool.
func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

// Create persists a waiting-list entry.
func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	if _, err := r.pool.Exec(ctx, createWaitlistSQL, e.ID, e.UserID, e.CourseID); err != nil {
		return errors.Wrapf(err, "create waitlist entry %q", e.ID)
	}
	return nil
}

// DeleteForUserCourse removes all entries for the (user, course) pair.
// Deleting zero rows is not an error.
func (r *WaitlistRepository) DeleteForUserCourse(ctx context.Context, userID, courseID string) error {
	if _, err := r.pool.Exec(ctx, deleteWaitlistSQL, userID, courseID); err != nil {
		return errors.Wrap(err, "delete waitlist entries")
	}
	return nil
}
