package engine

import (
	"context"
	"math"

	"goaltracker/internal/storage"
)

type ToggleResult struct {
	Completed bool
	Goal      *storage.Goal
	// NewMilestones lists milestones achieved by this toggle.
	NewMilestones []storage.Milestone
}

// ToggleDayCompletion adds date to the goal's history, or removes it when
// already present. It returns nil, nil when the id is unknown.
func (s *Service) ToggleDayCompletion(ctx context.Context, goalID, date string) (*ToggleResult, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}
	if day.After(s.today()) {
		return nil, ValidationError{Field: "date", Reason: "future days cannot be completed"}
	}

	_, g := s.findGoal(goalID)
	if g == nil {
		return nil, nil
	}
	before := cloneGoal(g)
	key := FormatDate(day)

	history := make([]string, 0, len(g.History)+1)
	removed := false
	for _, h := range g.History {
		if d, err := ParseDate(h); err == nil && FormatDate(d) == key {
			removed = true
			continue
		}
		history = append(history, h)
	}
	if !removed {
		history = append(history, key)
	}
	g.History = history

	g.Streak = CalculateStreak(g.History)
	newly := s.checkMilestones(g)
	g.LastUpdated = storage.NewTimestamp(s.now())

	if err := s.save(ctx); err != nil {
		*g = *before
		return nil, err
	}
	for _, m := range newly {
		s.logger.Infof("engine: milestone %q reached on goal %s", m.Name, g.ID)
	}
	return &ToggleResult{Completed: !removed, Goal: cloneGoal(g), NewMilestones: newly}, nil
}

// checkMilestones marks milestones reached by the current history. Achieved
// milestones stay achieved; achievedDate is stamped once.
func (s *Service) checkMilestones(g *storage.Goal) []storage.Milestone {
	done := CompletedDays(g)
	today := FormatDate(s.today())
	var newly []storage.Milestone
	for _, m := range g.Milestones {
		if !m.Achieved && done >= m.Target {
			m.Achieved = true
		}
		if m.Achieved && m.AchievedDate == "" {
			m.AchievedDate = today
			newly = append(newly, *m)
		}
	}
	return newly
}

// CalculateCompletion is the goal's progress toward its target, clamped to 100.
func CalculateCompletion(g *storage.Goal) int {
	if g.Target <= 0 {
		return 0
	}
	pct := 100 * float64(CompletedDays(g)) / float64(g.Target)
	return int(math.Round(math.Min(100, pct)))
}

// CompletedDays counts distinct calendar days in the goal's history, so a
// day stored both as a date and as a timestamp counts once.
func CompletedDays(g *storage.Goal) int {
	return len(historySet(g.History))
}

// UpdateGoalsStatus completes every active goal that reached its target and
// returns how many changed. The document is saved only when something did.
func (s *Service) UpdateGoalsStatus(ctx context.Context) (int, error) {
	changed := 0
	for _, g := range s.doc.Goals {
		if g.Status == string(StatusActive) && CalculateCompletion(g) >= 100 {
			g.Status = string(StatusCompleted)
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.save(ctx); err != nil {
		return 0, err
	}
	s.logger.Infof("engine: %d goal(s) reached their target", changed)
	return changed, nil
}
