package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNextOccurrence covers the documented examples, year boundaries and leap days.
func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		dob      time.Time
		today    time.Time
		wantNext time.Time
		wantDays int
		wantAge  int
		wantTier engine.Tier
		desc     string
	}{
		{
			name:     "Later this month",
			dob:      date(1990, 3, 15),
			today:    date(2024, 3, 10),
			wantNext: date(2024, 3, 15),
			wantDays: 5,
			wantAge:  34,
			wantTier: engine.TierSoon,
		},
		{
			name:     "Today",
			dob:      date(1990, 3, 15),
			today:    date(2024, 3, 15),
			wantNext: date(2024, 3, 15),
			wantDays: 0,
			wantAge:  34,
			wantTier: engine.TierToday,
		},
		{
			name:     "Already passed this year",
			dob:      date(1990, 3, 15),
			today:    date(2024, 3, 20),
			wantNext: date(2025, 3, 15),
			wantDays: 360,
			wantAge:  35,
			wantTier: engine.TierLater,
		},
		{
			name:     "New Year's Eve to New Year's Day",
			dob:      date(1985, 1, 1),
			today:    date(2025, 12, 31),
			wantNext: date(2026, 1, 1),
			wantDays: 1,
			wantAge:  41,
			wantTier: engine.TierSoon,
		},
		{
			name:     "Yesterday means almost a full year",
			dob:      date(2000, 6, 14),
			today:    date(2025, 6, 15),
			wantNext: date(2026, 6, 14),
			wantDays: 364,
			wantAge:  26,
			wantTier: engine.TierLater,
		},
		{
			name:     "Seven days is still soon",
			dob:      date(2001, 7, 8),
			today:    date(2025, 7, 1),
			wantNext: date(2025, 7, 8),
			wantDays: 7,
			wantAge:  24,
			wantTier: engine.TierSoon,
		},
		{
			name:     "Eight days is later",
			dob:      date(2001, 7, 9),
			today:    date(2025, 7, 1),
			wantNext: date(2025, 7, 9),
			wantDays: 8,
			wantAge:  24,
			wantTier: engine.TierLater,
		},
		{
			name:     "Born today",
			dob:      date(2025, 7, 1),
			today:    date(2025, 7, 1),
			wantNext: date(2025, 7, 1),
			wantDays: 0,
			wantAge:  0,
			wantTier: engine.TierToday,
		},
		{
			name:     "Leapling in a common year",
			dob:      date(2000, 2, 29),
			today:    date(2025, 2, 1),
			wantNext: date(2025, 2, 28),
			wantDays: 27,
			wantAge:  25,
			wantTier: engine.TierLater,
			desc:     "Feb 29 is observed on Feb 28 when the year has no leap day",
		},
		{
			name:     "Leapling celebrated on Feb 28",
			dob:      date(2000, 2, 29),
			today:    date(2025, 2, 28),
			wantNext: date(2025, 2, 28),
			wantDays: 0,
			wantAge:  25,
			wantTier: engine.TierToday,
		},
		{
			name:     "Leapling on Mar 1 of a common year waits for next year",
			dob:      date(2000, 2, 29),
			today:    date(2025, 3, 1),
			wantNext: date(2026, 2, 28),
			wantDays: 364,
			wantAge:  26,
			wantTier: engine.TierLater,
		},
		{
			name:     "Leapling in a leap year",
			dob:      date(2000, 2, 29),
			today:    date(2024, 1, 1),
			wantNext: date(2024, 2, 29),
			wantDays: 59,
			wantAge:  24,
			wantTier: engine.TierLater,
		},
		{
			name:     "Leapling on Feb 28 of a leap year is one day early",
			dob:      date(2000, 2, 29),
			today:    date(2024, 2, 28),
			wantNext: date(2024, 2, 29),
			wantDays: 1,
			wantAge:  24,
			wantTier: engine.TierSoon,
		},
		{
			name:     "Maximum distance spans a leap day",
			dob:      date(1999, 3, 1),
			today:    date(2023, 3, 2),
			wantNext: date(2024, 3, 1),
			wantDays: 365,
			wantAge:  25,
			wantTier: engine.TierLater,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := engine.NextOccurrence(tt.dob, tt.today)
			assert.Equal(t, tt.wantNext, occ.Next, tt.desc)
			assert.Equal(t, tt.wantDays, occ.DaysUntil, "DaysUntil mismatch")
			assert.Equal(t, tt.wantAge, occ.AgeReached, "Age calculation mismatch")
			assert.Equal(t, tt.wantTier, engine.TierFor(occ.DaysUntil))
		})
	}
}

// TestNextOccurrence_IgnoresTimeOfDay evaluates "today" late in the evening.
func TestNextOccurrence_IgnoresTimeOfDay(t *testing.T) {
	dob := date(1990, 3, 15)

	for _, hour := range []int{0, 9, 23} {
		today := time.Date(2024, 3, 15, hour, 59, 59, 0, time.UTC)
		assert.Equal(t, 0, engine.NextOccurrence(dob, today).DaysUntil, "hour %d", hour)

		dayBefore := time.Date(2024, 3, 14, hour, 59, 59, 0, time.UTC)
		assert.Equal(t, 1, engine.NextOccurrence(dob, dayBefore).DaysUntil, "hour %d", hour)
	}
}

// TestNextOccurrence_LocalCalendar checks that "today" follows the caller's zone.
func TestNextOccurrence_LocalCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2025-06-14 20:00 UTC is already June 15th in Tokyo.
	today := time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC).In(tokyo)

	occ := engine.NextOccurrence(date(1990, 6, 15), today)
	assert.Equal(t, 0, occ.DaysUntil)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, tokyo), occ.Next)
}

// TestNextOccurrence_AcrossDST makes sure a 23h or 25h day still counts as one.
func TestNextOccurrence_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// Clocks go forward on 2025-03-30 in Paris.
	today := time.Date(2025, 3, 29, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, engine.NextOccurrence(date(1990, 3, 31), today).DaysUntil)

	// Clocks go back on 2025-10-26.
	today = time.Date(2025, 10, 25, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, engine.NextOccurrence(date(1990, 10, 27), today).DaysUntil)
}

// TestNextOccurrence_Properties sweeps two full years of "today" values.
func TestNextOccurrence_Properties(t *testing.T) {
	dobs := []time.Time{
		date(1900, 1, 1),
		date(1950, 12, 31),
		date(1988, 2, 29),
		date(1990, 3, 15),
		date(2004, 2, 28),
		date(2012, 3, 1),
	}

	start := date(2023, 1, 1)
	for offset := 0; offset < 731; offset++ {
		today := start.AddDate(0, 0, offset)
		for _, dob := range dobs {
			occ := engine.NextOccurrence(dob, today)

			require.False(t, occ.Next.Before(today), "next %s before today %s", occ.Next, today)
			require.GreaterOrEqual(t, occ.DaysUntil, 0)
			require.LessOrEqual(t, occ.DaysUntil, config.MaxDaysUntil)
			require.Equal(t, occ.Next, today.AddDate(0, 0, occ.DaysUntil))

			if dob.Month() == today.Month() && dob.Day() == today.Day() {
				require.Equal(t, 0, occ.DaysUntil, "dob %s today %s", dob, today)
			}
		}
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		days int
		want engine.Tier
	}{
		{0, engine.TierToday},
		{1, engine.TierSoon},
		{7, engine.TierSoon},
		{8, engine.TierLater},
		{366, engine.TierLater},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.TierFor(tt.days), "days=%d", tt.days)
	}

	assert.Equal(t, "today", engine.TierToday.String())
	assert.Equal(t, "soon", engine.TierSoon.String())
	assert.Equal(t, "later", engine.TierLater.String())
}

func TestCalendarHelpers(t *testing.T) {
	assert.True(t, engine.IsLeapYear(2000))
	assert.True(t, engine.IsLeapYear(2024))
	assert.False(t, engine.IsLeapYear(1900))
	assert.False(t, engine.IsLeapYear(2025))

	assert.Equal(t, 29, engine.DaysIn(2024, time.February))
	assert.Equal(t, 28, engine.DaysIn(2025, time.February))
	assert.Equal(t, 31, engine.DaysIn(2025, time.December))
	assert.Equal(t, 30, engine.DaysIn(2025, time.April))

	d, ok := engine.CalendarDate(2024, time.February, 29)
	assert.True(t, ok)
	assert.Equal(t, date(2024, 2, 29), d)

	_, ok = engine.CalendarDate(2025, time.February, 29)
	assert.False(t, ok)
	_, ok = engine.CalendarDate(2025, 13, 1)
	assert.False(t, ok)
	_, ok = engine.CalendarDate(2025, time.January, 0)
	assert.False(t, ok)
}
