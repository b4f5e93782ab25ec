// Package events wraps event-driven operations so they report failure as a
// structured result instead of an error the caller has to unwind. The caller
// gets a uniform decision point: inspect Result, consult retry.ShouldRetry,
// schedule a retry with retry.Delay if warranted.
package events

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/braincreator/flow-masters-access/pkg/retry"
)

// OpContext carries the contextual tags attached to a failed operation.
// Empty fields are omitted from logs.
type OpContext struct {
	EventType      string
	EventID        string
	SubscriptionID string
	Channel        string
}

// Result is the outcome of a safely executed operation. Exactly one of Data
// and Err is meaningful, selected by OK.
type Result[T any] struct {
	OK   bool
	Data T
	Err  error
}

// Safe executes op and never propagates its failure. On success the result
// carries op's value; on failure the error is wrapped with the contextual
// tags, logged together with its retry classification, and returned inside
// the result.
func Safe[T any](ctx context.Context, opCtx OpContext, op func(context.Context) (T, error)) Result[T] {
	data, err := op(ctx)
	if err == nil {
		return Result[T]{OK: true, Data: data}
	}

	wrapped := errors.Wrapf(err, "event operation failed (type=%s, id=%s)", opCtx.EventType, opCtx.EventID)

	fields := []zap.Field{
		zap.Error(wrapped),
		zap.Bool("retryable", retry.ShouldRetry(err)),
	}
	if opCtx.EventType != "" {
		fields = append(fields, zap.String("event_type", opCtx.EventType))
	}
	if opCtx.EventID != "" {
		fields = append(fields, zap.String("event_id", opCtx.EventID))
	}
	if opCtx.SubscriptionID != "" {
		fields = append(fields, zap.String("subscription_id", opCtx.SubscriptionID))
	}
	if opCtx.Channel != "" {
		fields = append(fields, zap.String("channel", opCtx.Channel))
	}
	zctx.From(ctx).Error("event operation failed", fields...)

	return Result[T]{Err: wrapped}
}
