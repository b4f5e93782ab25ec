package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braincreator/flow-masters-access/internal/domain/order"
)

const (
	getOrderSQL = `SELECT id, user_id, items, total, status, provider_ref, created_at, updated_at
		FROM orders WHERE id = $1`

	createOrderSQL = `INSERT INTO orders (id, user_id, items, total, status, provider_ref)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateOrderStatusSQL = `UPDATE orders
		SET status = $2, provider_ref = COALESCE(NULLIF($3, ''), provider_ref), updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, items, total, status, provider_ref, created_at, updated_at`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are stored as JSONB.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return &o, nil
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.Total, o.Status, o.ProviderRef,
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	return nil
}

// UpdateStatus persists the new status and returns the updated order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status, providerRef string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, updateOrderStatusSQL, id, status, providerRef)
	if err != nil {
		return nil, errors.Wrapf(err, "update order %q status", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update order %q status", id)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
	)
	err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &o.Total, &o.Status, &o.ProviderRef, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, errors.Wrap(err, "unmarshal order items")
	}
	return o, nil
}
