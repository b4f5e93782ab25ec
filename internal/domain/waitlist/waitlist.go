// Package waitlist tracks users who registered interest in a course before
// having access. Entries are deleted as a side effect of successful
// enrollment; that cleanup is best-effort and never rolls back an enrollment.
package waitlist

import (
	"context"
	"time"
)

// Entry is a user's interest in a course.
type Entry struct {
	ID        string
	UserID    string
	CourseID  string
	CreatedAt time.Time
}

// Repository defines persistence operations for waiting-list entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// DeleteForUserCourse removes all entries for the (user, course) pair.
	DeleteForUserCourse(ctx context.Context, userID, courseID string) error
}
