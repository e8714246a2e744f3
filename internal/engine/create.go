package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goaltracker/internal/storage"
)

// GoalInput is what a user supplies for a new goal. A nil Target means
// DefaultTarget; see ParseTarget for textual input.
type GoalInput struct {
	Name        string `validate:"required"`
	Description string
	Category    string
	Priority    string `validate:"omitempty,oneof=low medium high"`
	Target      *int   `validate:"omitempty,min=1"`
}

func (s *Service) CreateGoal(ctx context.Context, in GoalInput) (*storage.Goal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Priority = strings.TrimSpace(strings.ToLower(in.Priority))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	target := DefaultTarget
	if in.Target != nil {
		target = *in.Target
	}
	priority := Priority(in.Priority)
	if priority == "" {
		priority = DefaultPriority
	}

	now := s.now()
	g := &storage.Goal{
		ID:          newGoalID(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Category:    string(ParseCategory(in.Category)),
		Priority:    string(priority),
		Target:      target,
		History:     []string{},
		Milestones:  GenerateMilestones(target),
		Status:      string(StatusActive),
		CreatedAt:   storage.NewTimestamp(now),
		LastUpdated: storage.NewTimestamp(now),
	}

	s.doc.Goals = append([]*storage.Goal{g}, s.doc.Goals...)
	if err := s.save(ctx); err != nil {
		s.doc.Goals = s.doc.Goals[1:]
		return nil, err
	}
	s.logger.Infof("engine: created goal %s (%q, target %d)", g.ID, g.Name, g.Target)
	return cloneGoal(g), nil
}

func newGoalID() storage.GoalID {
	id, err := uuid.NewV7()
	if err != nil {
		return storage.GoalID(uuid.NewString())
	}
	return storage.GoalID(id.String())
}

// GenerateMilestones builds the fixed milestone ladder for a weekly target.
// Milestones are generated once and never regenerated when target changes.
func GenerateMilestones(target int) []*storage.Milestone {
	switch {
	case target >= 7:
		return []*storage.Milestone{
			{Name: "3-day streak", Target: 3},
			{Name: "7-day streak", Target: 7},
			{Name: "30-day streak", Target: 30},
		}
	case target >= 3:
		return []*storage.Milestone{
			{Name: "First week", Target: target},
			{Name: "Two weeks", Target: target * 2},
		}
	default:
		return []*storage.Milestone{
			{Name: "First completion", Target: target},
		}
	}
}
