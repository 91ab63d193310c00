package engine

import (
	"sort"
	"time"
)

// Upcoming computes the next occurrence of every record and orders the result by
// DaysUntil, soonest first. The sort is stable: records with the same DaysUntil
// keep the relative order in which the record store returned them.
func Upcoming(records []Record, today time.Time) []BirthdayEntry {
	entries := make([]BirthdayEntry, len(records))
	for i, r := range records {
		entries[i] = NewEntry(r, today)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysUntil < entries[j].DaysUntil
	})
	return entries
}

// CountToday returns how many entries fall on today.
func CountToday(entries []BirthdayEntry) int {
	n := 0
	for _, e := range entries {
		if e.Tier == TierToday {
			n++
		}
	}
	return n
}
