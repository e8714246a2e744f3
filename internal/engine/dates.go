package engine

import (
	"errors"
	"sort"
	"time"
)

// DateLayout is the calendar-day form used in goal history.
const DateLayout = "2006-01-02"

var errBadDate = errors.New("date must be YYYY-MM-DD")

// civilDay drops the clock part of t, keeping t's own calendar date.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a calendar day. Full timestamps are accepted and cut to
// their date part, which is how some older histories were written.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(civilDay(b).Sub(civilDay(a)).Hours() / 24)
}

// weekStart returns the Monday on or before day.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// historySet normalizes every parsable entry to YYYY-MM-DD.
func historySet(history []string) map[string]bool {
	set := make(map[string]bool, len(history))
	for _, h := range history {
		if d, err := ParseDate(h); err == nil {
			set[FormatDate(d)] = true
		}
	}
	return set
}

// CalculateStreak counts consecutive days ending at the most recent
// completion. The newest day need not be today.
func CalculateStreak(history []string) int {
	set := historySet(history)
	if len(set) == 0 {
		return 0
	}
	days := make([]string, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	anchor, _ := ParseDate(days[0])
	streak := 0
	for i, d := range days {
		if d != FormatDate(anchor.AddDate(0, 0, -i)) {
			break
		}
		streak++
	}
	return streak
}
