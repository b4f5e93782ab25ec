package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braincreator/flow-masters-access/internal/domain/catalog"
)

// getProductSQL resolves the linked course in the same query, mirroring a
// depth-1 document fetch (product -> course).
const getProductSQL = `SELECT p.id, p.name, p.price,
		p.access_type, p.access_duration, p.access_unit,
		c.id, c.title, c.slug
	FROM products p
	LEFT JOIN courses c ON c.id = p.course_id
	WHERE p.id = $1`

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetByID returns a product with its linked course resolved, if any.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p           catalog.Product
		accessType  *string
		duration    *int
		unit        *string
		courseID    *string
		courseTitle *string
		courseSlug  *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price,
		&accessType, &duration, &unit,
		&courseID, &courseTitle, &courseSlug,
	)
	if err != nil {
		return p, err
	}

	if accessType != nil {
		p.Access.Type = catalog.AccessType(*accessType)
	}
	if duration != nil {
		p.Access.Duration = *duration
	}
	if unit != nil {
		p.Access.Unit = catalog.DurationUnit(*unit)
	}
	if courseID != nil {
		p.Course = &catalog.Course{ID: *courseID}
		if courseTitle != nil {
			p.Course.Title = *courseTitle
		}
		if courseSlug != nil {
			p.Course.Slug = *courseSlug
		}
	}
	return p, nil
}
