// Package order holds the purchase order model and its lifecycle states.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
)

// validTransitions encodes pending -> processing -> paid -> refunded, with
// failed reachable from the two pre-payment states. Orders are never deleted,
// only transitioned.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusPaid, StatusFailed},
	StatusProcessing: {StatusPaid, StatusFailed},
	StatusPaid:       {StatusRefunded},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusPaid, StatusRefunded, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Re-asserting the current status is allowed and treated as a no-op upstream.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a disallowed status change.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition %s -> %s", e.From, e.To)
}

// Item is a single purchased line item.
type Item struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order represents a purchase owned by a user.
type Order struct {
	ID          string
	UserID      string
	Items       []Item
	Total       decimal.Decimal
	Status      Status
	ProviderRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = fmt.Errorf("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	// UpdateStatus persists the new status and returns the updated order.
	UpdateStatus(ctx context.Context, id string, status Status, providerRef string) (*Order, error)
}
