package enrollment

import (
	"time"

	"github.com/braincreator/flow-masters-access/internal/domain/catalog"
)

// ExpiresAt computes the enrollment expiry from the product's access policy.
// Unlimited access, an unknown policy type, or a limited policy with a
// missing duration or unit all yield nil (no expiry).
//
// Month and year addition clamps to the last valid day of the target month
// (Jan 31 + 1 month = Feb 29 in a leap year). Go's AddDate normalizes
// overflow into the next month instead, so the clamping is done by hand.
func ExpiresAt(start time.Time, policy catalog.AccessPolicy) *time.Time {
	if policy.Type != catalog.AccessLimited || policy.Duration <= 0 || policy.Unit == "" {
		return nil
	}

	var expires time.Time
	switch policy.Unit {
	case catalog.UnitDays:
		expires = start.AddDate(0, 0, policy.Duration)
	case catalog.UnitWeeks:
		expires = start.AddDate(0, 0, 7*policy.Duration)
	case catalog.UnitMonths:
		expires = addMonthsClamped(start, policy.Duration)
	case catalog.UnitYears:
		expires = addMonthsClamped(start, 12*policy.Duration)
	default:
		return nil
	}
	return &expires
}

// addMonthsClamped adds months to t, clamping the day of month to the last
// valid day of the target month.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// Day 0 of month+1 is the last day of the target month.
	last := time.Date(year, month+time.Month(months)+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month+time.Month(months), day, hour, minute, sec, t.Nanosecond(), t.Location())
}
