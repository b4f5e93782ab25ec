package enrollment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braincreator/flow-masters-access/internal/domain/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func limited(n int, unit catalog.DurationUnit) catalog.AccessPolicy {
	return catalog.AccessPolicy{Type: catalog.AccessLimited, Duration: n, Unit: unit}
}

func TestExpiresAt_Unlimited(t *testing.T) {
	start := date(2024, time.January, 31)

	assert.Nil(t, ExpiresAt(start, catalog.AccessPolicy{Type: catalog.AccessUnlimited}))
	assert.Nil(t, ExpiresAt(start, catalog.AccessPolicy{}))
	// Limited but incomplete policies behave as unlimited.
	assert.Nil(t, ExpiresAt(start, catalog.AccessPolicy{Type: catalog.AccessLimited, Duration: 3}))
	assert.Nil(t, ExpiresAt(start, catalog.AccessPolicy{Type: catalog.AccessLimited, Unit: catalog.UnitDays}))
	assert.Nil(t, ExpiresAt(start, catalog.AccessPolicy{Type: catalog.AccessLimited, Duration: 1, Unit: "fortnights"}))
}

func TestExpiresAt_DaysAndWeeks(t *testing.T) {
	start := date(2024, time.March, 10)

	got := ExpiresAt(start, limited(30, catalog.UnitDays))
	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.April, 9), *got)

	got = ExpiresAt(start, limited(2, catalog.UnitWeeks))
	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.March, 24), *got)
}

func TestExpiresAt_MonthClampsToLeapDay(t *testing.T) {
	// Calendar-aware, not startDate + 30*24h: Jan 31 + 1 month lands on the
	// last valid day of February.
	got := ExpiresAt(date(2024, time.January, 31), limited(1, catalog.UnitMonths))
	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.February, 29), *got)

	// Non-leap year clamps to Feb 28.
	got = ExpiresAt(date(2025, time.January, 31), limited(1, catalog.UnitMonths))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.February, 28), *got)
}

func TestExpiresAt_MonthAcrossYearBoundary(t *testing.T) {
	got := ExpiresAt(date(2024, time.December, 31), limited(2, catalog.UnitMonths))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.February, 28), *got)
}

func TestExpiresAt_Years(t *testing.T) {
	// Feb 29 + 1 year clamps to Feb 28.
	got := ExpiresAt(date(2024, time.February, 29), limited(1, catalog.UnitYears))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.February, 28), *got)

	got = ExpiresAt(date(2024, time.February, 29), limited(4, catalog.UnitYears))
	require.NotNil(t, got)
	assert.Equal(t, date(2028, time.February, 29), *got)
}

func TestExpiresAt_PreservesClock(t *testing.T) {
	start := time.Date(2024, time.January, 31, 15, 4, 5, 0, time.UTC)
	got := ExpiresAt(start, limited(1, catalog.UnitMonths))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.February, 29, 15, 4, 5, 0, time.UTC), *got)
}
