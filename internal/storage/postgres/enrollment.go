package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braincreator/flow-masters-access/internal/domain/enrollment"
)

const (
	findActiveEnrollmentSQL = `SELECT id, user_id, course_id, status, source, order_id, enrolled_at, expires_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2 AND status = 'active'`

	createEnrollmentSQL = `INSERT INTO enrollments (id, user_id, course_id, status, source, order_id, enrolled_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
)

// uniqueViolation is the PostgreSQL error code raised when the partial
// unique index on active (user, course) pairs rejects an insert.
const uniqueViolation = "23505"

var _ enrollment.Repository = (*EnrollmentRepository)(nil)

// EnrollmentRepository implements enrollment.Repository backed by PostgreSQL.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository returns an EnrollmentRepository that uses the
// given pool.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// FindActive returns the active enrollment for (user, course), or nil when
// none exists. The partial unique index guarantees at most one row matches.
func (r *EnrollmentRepository) FindActive(ctx context.Context, userID, courseID string) (*enrollment.Enrollment, error) {
	rows, err := r.pool.Query(ctx, findActiveEnrollmentSQL, userID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "find active enrollment")
	}

	e, err := pgx.CollectExactlyOneRow(rows, scanEnrollment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find active enrollment")
	}
	return &e, nil
}

// Create inserts a new enrollment. A unique violation on the active
// (user, course) index maps to enrollment.ErrDuplicateActive so the caller
// can treat losing the race as the benign "already enrolled" outcome.
func (r *EnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	_, err := r.pool.Exec(ctx, createEnrollmentSQL,
		e.ID, e.UserID, e.CourseID, e.Status, e.Source, e.OrderID, e.EnrolledAt, e.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return enrollment.ErrDuplicateActive
		}
		return errors.Wrapf(err, "create enrollment %q", e.ID)
	}
	return nil
}

func scanEnrollment(row pgx.CollectableRow) (enrollment.Enrollment, error) {
	var (
		e       enrollment.Enrollment
		orderID *string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Source, &orderID, &e.EnrolledAt, &e.ExpiresAt)
	if orderID != nil {
		e.OrderID = *orderID
	}
	return e, err
}
