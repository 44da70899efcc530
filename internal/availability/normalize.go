package availability

import "sort"

// Normalize returns a copy of days ordered Monday through Sunday. Entries for
// the same day keep their input order. Names outside the canonical set are
// placed after Sunday, also in input order. The input slice is not modified.
func Normalize(days []DaySchedule) []DaySchedule {
	sorted := make([]DaySchedule, len(days))
	copy(sorted, days)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i].Day) < sortKey(sorted[j].Day)
	})
	return sorted
}

func sortKey(day string) int {
	if idx, ok := DayIndex(day); ok {
		return idx
	}
	return len(Weekdays)
}
