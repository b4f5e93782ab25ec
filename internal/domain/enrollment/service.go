package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/braincreator/flow-masters-access/internal/domain/catalog"
	"github.com/braincreator/flow-masters-access/internal/domain/notification"
	"github.com/braincreator/flow-masters-access/internal/domain/order"
	"github.com/braincreator/flow-masters-access/pkg/retry"
)

// Notifier sends a user-facing notification. Satisfied by
// notification.Dispatcher.
type Notifier interface {
	Send(ctx context.Context, in notification.Input) (*notification.Notification, error)
}

// Service runs the order-to-course-access granting workflow.
type Service struct {
	catalog     catalog.Repository
	enrollments Repository
	waitlist    WaitlistCleaner
	notifier    Notifier
	tracer      trace.Tracer
	now         func() time.Time
}

// WaitlistCleaner removes waiting-list entries after a successful
// enrollment. Satisfied by the waitlist repository.
type WaitlistCleaner interface {
	DeleteForUserCourse(ctx context.Context, userID, courseID string) error
}

// NewService constructs the workflow service.
func NewService(
	cat catalog.Repository,
	enrollments Repository,
	wl WaitlistCleaner,
	notifier Notifier,
) *Service {
	return &Service{
		catalog:     cat,
		enrollments: enrollments,
		waitlist:    wl,
		notifier:    notifier,
		tracer:      otel.Tracer("enrollment"),
		now:         time.Now,
	}
}

// OnOrderChange is the after-order-change trigger. It activates only on the
// edge where the order becomes paid: re-saving an already-paid order is a
// no-op, which makes re-delivered payment callbacks idempotent.
func (s *Service) OnOrderChange(ctx context.Context, cur, prev *order.Order) error {
	if cur == nil || cur.Status != order.StatusPaid {
		return nil
	}
	if prev != nil && prev.Status == order.StatusPaid {
		zctx.From(ctx).Debug("order already paid, skipping access grant",
			zap.String("order_id", cur.ID))
		return nil
	}
	return s.GrantAccessForOrder(ctx, cur)
}

// GrantAccessForOrder resolves the order's line items to course entitlements
// and creates enrollments. Items are processed sequentially in order; a
// failure on one item is logged and never blocks the rest. Only a missing
// user aborts the whole order; an order must always have one.
func (s *Service) GrantAccessForOrder(ctx context.Context, o *order.Order) error {
	ctx, span := s.tracer.Start(ctx, "GrantAccessForOrder",
		trace.WithAttributes(
			attribute.String("order.id", o.ID),
			attribute.Int("order.items", len(o.Items)),
		))
	defer span.End()

	lg := zctx.From(ctx).With(zap.String("order_id", o.ID))

	if o.UserID == "" {
		err := retry.Mark(fmt.Errorf("order %s has no user", o.ID), retry.KindValidation)
		lg.Error("cannot grant access", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		if err := s.grantForItem(ctx, o, item); err != nil {
			// Partial-failure semantics: one bad item must not block
			// entitlement grants for the rest of the order.
			lg.Error("line item processing failed",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Bool("retryable", retry.ShouldRetry(err)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// grantForItem handles one line item: resolve the product and its linked
// course, check for an existing active enrollment, create the enrollment,
// then clean up the waiting list and notify, both best-effort.
func (s *Service) grantForItem(ctx context.Context, o *order.Order, item order.Item) error {
	lg := zctx.From(ctx)

	p, err := s.catalog.GetByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return retry.Mark(errors.Wrapf(err, "resolve product %s", item.ProductID), retry.KindNotFound)
		}
		return errors.Wrapf(err, "resolve product %s", item.ProductID)
	}
	if !p.GrantsCourseAccess() {
		// Not every purchase grants course access.
		return nil
	}
	course := p.Course

	existing, err := s.enrollments.FindActive(ctx, o.UserID, course.ID)
	if err != nil {
		return errors.Wrap(err, "check existing enrollment")
	}
	if existing != nil {
		// Current behavior: no duplicate, no expiry extension.
		lg.Info("active enrollment already exists, skipping",
			zap.String("user_id", o.UserID),
			zap.String("course_id", course.ID),
			zap.String("existing_enrollment_id", existing.ID),
		)
		return nil
	}

	enrolledAt := s.now().UTC()
	e := &Enrollment{
		ID:         uuid.New().String(),
		UserID:     o.UserID,
		CourseID:   course.ID,
		Status:     StatusActive,
		Source:     SourcePurchase,
		OrderID:    o.ID,
		EnrolledAt: enrolledAt,
		ExpiresAt:  ExpiresAt(enrolledAt, p.Access),
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicateActive) {
			// The partial unique index closed the check-then-create race:
			// somebody else enrolled this user between our check and insert.
			lg.Info("concurrent enrollment detected, skipping",
				zap.String("user_id", o.UserID),
				zap.String("course_id", course.ID),
			)
			return nil
		}
		return errors.Wrap(err, "create enrollment")
	}

	lg.Info("course access granted",
		zap.String("enrollment_id", e.ID),
		zap.String("user_id", e.UserID),
		zap.String("course_id", e.CourseID),
		zap.Timep("expires_at", e.ExpiresAt),
	)

	// Best-effort: the enrollment is committed, cleanup failure only logs.
	if err := s.waitlist.DeleteForUserCourse(ctx, o.UserID, course.ID); err != nil {
		lg.Warn("waiting-list cleanup failed",
			zap.String("user_id", o.UserID),
			zap.String("course_id", course.ID),
			zap.Error(err),
		)
	}

	// Best-effort: notification must never abort the committed enrollment.
	if s.notifier != nil {
		_, err := s.notifier.Send(ctx, notification.Input{
			UserID:  o.UserID,
			Type:    notification.TypeCourseAccessGranted,
			Title:   "Course access granted",
			Message: fmt.Sprintf("You now have access to %s", course.Title),
			Link:    "/courses/" + course.Slug,
			Metadata: map[string]string{
				"course_id":     course.ID,
				"order_id":      o.ID,
				"enrollment_id": e.ID,
			},
		})
		if err != nil {
			lg.Warn("enrollment notification failed",
				zap.String("enrollment_id", e.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}
