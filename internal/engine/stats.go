package engine

import (
	"math"

	"goaltracker/internal/storage"
)

type Stats struct {
	TotalGoals         int `json:"totalGoals"`
	ActiveGoals        int `json:"activeGoals"`
	CompletedGoals     int `json:"completedGoals"`
	CompletionRate     int `json:"completionRate"`
	TotalCompletedDays int `json:"totalCompletedDays"`
	LongestStreak      int `json:"longestStreak"`
	AverageCompletion  int `json:"averageCompletion"`
}

func (s *Service) GetStats() Stats {
	st := Stats{TotalGoals: len(s.doc.Goals)}
	totalTarget := 0
	completionSum := 0
	for _, g := range s.doc.Goals {
		switch Status(g.Status) {
		case StatusActive:
			st.ActiveGoals++
		case StatusCompleted:
			st.CompletedGoals++
		}
		st.TotalCompletedDays += CompletedDays(g)
		totalTarget += g.Target
		if g.Streak > st.LongestStreak {
			st.LongestStreak = g.Streak
		}
		completionSum += CalculateCompletion(g)
	}
	if totalTarget > 0 {
		st.CompletionRate = roundPercent(st.TotalCompletedDays, totalTarget)
	}
	if st.TotalGoals > 0 {
		st.AverageCompletion = int(math.Round(float64(completionSum) / float64(st.TotalGoals)))
	}
	return st
}

func roundPercent(n, d int) int {
	return int(math.Round(100 * float64(n) / float64(d)))
}

// GetCategoryDistribution counts goals per category display label.
func (s *Service) GetCategoryDistribution() map[string]int {
	dist := make(map[string]int)
	for _, g := range s.doc.Goals {
		dist[Category(g.Category).Label()]++
	}
	return dist
}

type DayCompletions struct {
	Date        string `json:"date"`
	Day         string `json:"day"`
	Completions int    `json:"completions"`
}

// GetCompletionHistory buckets completions over the last days calendar days,
// oldest first, today included.
func (s *Service) GetCompletionHistory(days int) []DayCompletions {
	if days <= 0 {
		return []DayCompletions{}
	}
	sets := make([]map[string]bool, len(s.doc.Goals))
	for i, g := range s.doc.Goals {
		sets[i] = historySet(g.History)
	}

	today := s.today()
	out := make([]DayCompletions, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := FormatDate(d)
		n := 0
		for _, set := range sets {
			if set[key] {
				n++
			}
		}
		out = append(out, DayCompletions{Date: key, Day: d.Format("Mon"), Completions: n})
	}
	return out
}

type WeekDay struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Today     bool   `json:"today"`
	Future    bool   `json:"future"`
}

// GetWeekDays lays out the current Monday-start week for one goal.
func (s *Service) GetWeekDays(g *storage.Goal) []WeekDay {
	today := s.today()
	start := weekStart(today)
	set := historySet(g.History)

	out := make([]WeekDay, 7)
	for i := range out {
		d := start.AddDate(0, 0, i)
		key := FormatDate(d)
		out[i] = WeekDay{
			Date:      key,
			Label:     d.Format("Mon")[:1],
			Completed: set[key],
			Today:     d.Equal(today),
			Future:    d.After(today),
		}
	}
	return out
}
