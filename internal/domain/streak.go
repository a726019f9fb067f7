package domain

import "time"

// ComputeStreak returns the length of the unbroken run of consecutive
// calendar days, ending at today (or yesterday if today has no completion),
// that appear in completions. Duplicate and sub-day timestamps are
// normalized away; older runs separated by a gap do not count.
func ComputeStreak(completions []time.Time, today time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	days := make(map[time.Time]struct{}, len(completions))
	for _, c := range completions {
		days[DayOf(c)] = struct{}{}
	}

	cursor := DayOf(today)
	if _, completedToday := days[cursor]; !completedToday {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak
}
