// Package catalog holds the purchasable product and course models. The
// catalog is read-only from the access-granting subsystem's perspective.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccessType says whether course access granted by a product ever expires.
type AccessType string

const (
	AccessUnlimited AccessType = "unlimited"
	AccessLimited   AccessType = "limited"
)

// DurationUnit is the calendar unit of a limited access policy.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

// AccessPolicy describes how long a product grants course access for.
// Duration and Unit are only meaningful when Type is AccessLimited.
type AccessPolicy struct {
	Type     AccessType
	Duration int
	Unit     DurationUnit
}

// Course is an education catalog entry a product may grant access to.
type Course struct {
	ID    string
	Title string
	Slug  string
}

// Product is a purchasable catalog entry. Course is non-nil only for
// products that grant course access.
type Product struct {
	ID     string
	Name   string
	Price  decimal.Decimal
	Course *Course
	Access AccessPolicy
}

// GrantsCourseAccess reports whether purchasing this product enrolls the
// buyer into a course.
func (p *Product) GrantsCourseAccess() bool {
	return p.Course != nil
}

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = fmt.Errorf("product not found")

// Repository defines read access to the catalog. GetByID resolves the linked
// course in the same query, mirroring a depth-1 document fetch.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
}
