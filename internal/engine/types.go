package engine

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryLearning     Category = "learning"
	CategoryProductivity Category = "productivity"
	CategoryMindfulness  Category = "mindfulness"
	CategoryFinance      Category = "finance"
	CategoryCareer       Category = "career"
)

var categoryLabels = map[Category]string{
	CategoryHealth:       "Health & Fitness",
	CategoryLearning:     "Learning & Growth",
	CategoryProductivity: "Productivity",
	CategoryMindfulness:  "Mindfulness",
	CategoryFinance:      "Financial",
	CategoryCareer:       "Career",
}

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHealth, CategoryLearning, CategoryProductivity,
		CategoryMindfulness, CategoryFinance, CategoryCareer,
	}
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the display name; unknown categories are shown verbatim.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when user input is missing.
const DefaultPriority Priority = PriorityMedium

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusArchived  Status = "archived"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusArchived:
		return true
	default:
		return false
	}
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterArchived  Filter = "archived"
)

// AchievementWindow bounds GetAchievements by achievement age.
type AchievementWindow string

const (
	WindowWeek  AchievementWindow = "week"
	WindowMonth AchievementWindow = "month"
	WindowAll   AchievementWindow = "all"
)

func (w AchievementWindow) days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return -1
	}
}

// DefaultTarget is the weekly completion target used when none is given.
const DefaultTarget = 3
