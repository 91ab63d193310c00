package engine

import (
	"time"

	"github.com/tartampluch/go-birthdays/internal/config"
)

// Tier is the presentation bucket of an upcoming birthday.
type Tier int

const (
	// TierLater is eight days away or more.
	TierLater Tier = iota
	// TierSoon is one to seven days away.
	TierSoon
	// TierToday is today.
	TierToday
)

// String returns the tier label used in logs and the headless listing.
func (t Tier) String() string {
	switch t {
	case TierToday:
		return config.TierLabelToday
	case TierSoon:
		return config.TierLabelSoon
	default:
		return config.TierLabelLater
	}
}

// TierFor classifies a DaysUntil value: 0 is today, 1..7 is soon, the rest is later.
func TierFor(daysUntil int) Tier {
	switch {
	case daysUntil == 0:
		return TierToday
	case daysUntil > 0 && daysUntil <= config.SoonWindowDays:
		return TierSoon
	default:
		return TierLater
	}
}

// Occurrence is the next celebration of a date of birth.
type Occurrence struct {
	Next       time.Time
	DaysUntil  int
	AgeReached int
}

// NextOccurrence finds the first date on or after today that shares the month and
// day of dateOfBirth. Only calendar dates are compared: the time of day of today
// is ignored, so a birthday falling today always yields DaysUntil == 0.
//
// Feb 29 birthdays are observed on Feb 28 in common years.
func NextOccurrence(dateOfBirth, today time.Time) Occurrence {
	loc := today.Location()
	year, month, day := today.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)

	candidate := anniversary(dateOfBirth, year, loc)
	if candidate.Before(todayStart) {
		candidate = anniversary(dateOfBirth, year+1, loc)
	}

	return Occurrence{
		Next:       candidate,
		DaysUntil:  daysBetween(todayStart, candidate),
		AgeReached: candidate.Year() - dateOfBirth.Year(),
	}
}

// anniversary places the month and day of dateOfBirth in the given year.
func anniversary(dateOfBirth time.Time, year int, loc *time.Location) time.Time {
	_, month, day := dateOfBirth.Date()
	if month == time.February && day == 29 && !IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days. Both dates are re-anchored in UTC so that a
// DST transition between them cannot shorten or stretch a day.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// IsLeapYear reports whether year has a Feb 29 in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days of month in year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalendarDate builds a date at midnight UTC, the canonical form of a date of birth.
// It returns false when the triple does not name a real calendar day.
func CalendarDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > DaysIn(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
