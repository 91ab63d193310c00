package engine

import "time"

// Record is a birthday as persisted by the record store.
type Record struct {
	// ID is assigned by the record store and never changes.
	ID string

	// Name is trimmed, non-empty and at most config.MaxNameLength characters.
	Name string

	// DateOfBirth is a calendar date at midnight UTC.
	DateOfBirth time.Time
}

// BirthdayEntry is a record enriched with its next occurrence, ready for display.
// The derived fields are recomputed on every read and never stored.
type BirthdayEntry struct {
	Record

	// NextOccurrence is the first date on or after today sharing the birth month/day.
	NextOccurrence time.Time

	// DaysUntil is the number of calendar days from today to NextOccurrence.
	DaysUntil int

	// AgeNext is the age the person turns at NextOccurrence.
	AgeNext int

	Tier Tier
}

// NewEntry computes the derived fields of r relative to today.
func NewEntry(r Record, today time.Time) BirthdayEntry {
	occ := NextOccurrence(r.DateOfBirth, today)
	return BirthdayEntry{
		Record:         r,
		NextOccurrence: occ.Next,
		DaysUntil:      occ.DaysUntil,
		AgeNext:        occ.AgeReached,
		Tier:           TierFor(occ.DaysUntil),
	}
}

// Records strips the derived fields from a list of entries.
func Records(entries []BirthdayEntry) []Record {
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out
}
