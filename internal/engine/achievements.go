package engine

import (
	"fmt"
	"sort"
)

type AchievementKind string

const (
	AchievementMilestone AchievementKind = "milestone"
	AchievementStreak    AchievementKind = "streak"
)

type Achievement struct {
	Type        AchievementKind `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	GoalID      string          `json:"goalId"`
}

// GetAchievements lists milestones achieved inside window plus one streak
// entry per goal whose streak is a positive multiple of seven. The streak
// entry recurs every week the streak continues. Newest first.
func (s *Service) GetAchievements(window AchievementWindow) []Achievement {
	limit := window.days()
	today := s.today()
	out := []Achievement{}

	for _, g := range s.doc.Goals {
		for _, m := range g.Milestones {
			if !m.Achieved || m.AchievedDate == "" {
				continue
			}
			d, err := ParseDate(m.AchievedDate)
			if err != nil {
				continue
			}
			if limit >= 0 && daysBetween(d, today) > limit {
				continue
			}
			out = append(out, Achievement{
				Type:        AchievementMilestone,
				Title:       "Milestone Achieved: " + m.Name,
				Description: g.Name,
				Date:        FormatDate(d),
				Icon:        "trophy",
				Color:       "gold",
				GoalID:      string(g.ID),
			})
		}

		if g.Streak >= 7 && g.Streak%7 == 0 {
			out = append(out, Achievement{
				Type:        AchievementStreak,
				Title:       fmt.Sprintf("%d-Day Streak!", g.Streak),
				Description: g.Name,
				Date:        FormatDate(today),
				Icon:        "fire",
				Color:       "orange",
				GoalID:      string(g.ID),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

type Deadline struct {
	GoalID    string   `json:"goalId"`
	Goal      string   `json:"goal"`
	Milestone string   `json:"milestone"`
	Remaining int      `json:"remaining"`
	Priority  Priority `json:"priority"`
}

// GetUpcomingDeadlines lists unachieved milestones one to seven completions
// away, closest first.
func (s *Service) GetUpcomingDeadlines() []Deadline {
	out := []Deadline{}
	for _, g := range s.doc.Goals {
		for _, m := range g.Milestones {
			if m.Achieved || m.Target <= 0 {
				continue
			}
			remaining := m.Target - CompletedDays(g)
			if remaining <= 0 || remaining > 7 {
				continue
			}
			p := PriorityLow
			switch {
			case remaining <= 2:
				p = PriorityHigh
			case remaining <= 4:
				p = PriorityMedium
			}
			out = append(out, Deadline{
				GoalID:    string(g.ID),
				Goal:      g.Name,
				Milestone: m.Name,
				Remaining: remaining,
				Priority:  p,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Remaining < out[j].Remaining })
	return out
}
