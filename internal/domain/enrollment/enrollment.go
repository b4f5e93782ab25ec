// Package enrollment owns course entitlements and the workflow that grants
// them when an order is paid.
package enrollment

import (
	"context"
	"fmt"
	"time"
)

// Status is an enrollment's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Source records how an enrollment came to exist.
type Source string

const (
	SourcePurchase Source = "purchase"
	SourceManual   Source = "manual"
	SourceTrial    Source = "trial"
)

// Enrollment joins a user to a course. At most one active enrollment may
// exist per (user, course) pair; a partial unique index enforces this at the
// database. Expiry is computed once at creation and not re-evaluated here;
// expiry enforcement is the access-checking side's concern.
type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	Status     Status
	Source     Source
	OrderID    string
	EnrolledAt time.Time
	ExpiresAt  *time.Time
}

// ErrDuplicateActive is returned by Create when an active enrollment for the
// same (user, course) pair already exists. The workflow treats it as the
// benign "already enrolled" signal.
var ErrDuplicateActive = fmt.Errorf("active enrollment already exists")

// Repository defines persistence operations for enrollments.
type Repository interface {
	// FindActive returns the active enrollment for (user, course), or nil.
	FindActive(ctx context.Context, userID, courseID string) (*Enrollment, error)
	// Create inserts a new enrollment. Returns ErrDuplicateActive when the
	// unique constraint on active (user, course) pairs rejects the insert.
	Create(ctx context.Context, e *Enrollment) error
}
