package engine

import (
	"strconv"
	"strings"
)

// ParseCategory normalizes user input. Unknown values are kept as typed so
// newer categories survive a round-trip through older builds.
func ParseCategory(input string) Category {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "fitness", "health & fitness":
		return CategoryHealth
	case "growth", "learning & growth":
		return CategoryLearning
	case "financial", "money":
		return CategoryFinance
	case "work":
		return CategoryCareer
	}
	if c := Category(s); c.IsValid() {
		return c
	}
	return Category(strings.TrimSpace(input))
}

// ParsePriority returns DefaultPriority for empty input and "" for unknown input.
func ParsePriority(input string) Priority {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return DefaultPriority
	}
	p := Priority(s)
	if !p.IsValid() {
		return ""
	}
	return p
}

// ParseFilter maps input to a goal filter; anything unrecognized means all.
func ParseFilter(input string) Filter {
	switch f := Filter(strings.TrimSpace(strings.ToLower(input))); f {
	case FilterActive, FilterCompleted, FilterArchived:
		return f
	default:
		return FilterAll
	}
}

func ParseWindow(input string) AchievementWindow {
	switch w := AchievementWindow(strings.TrimSpace(strings.ToLower(input))); w {
	case WindowMonth, WindowAll:
		return w
	default:
		return WindowWeek
	}
}

// ParseTarget reads a textual target. Empty or non-numeric input yields nil,
// which CreateGoal turns into DefaultTarget.
func ParseTarget(input string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return nil
	}
	return &n
}
