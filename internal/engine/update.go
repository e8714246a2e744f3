package engine

import (
	"context"
	"strings"

	"goaltracker/internal/storage"
)

// GoalPatch holds the fields to overwrite; nil fields are left alone.
type GoalPatch struct {
	Name        *string
	Description *string
	Category    *string
	Priority    *string `validate:"omitempty,oneof=low medium high"`
	Target      *int    `validate:"omitempty,min=1"`
	Status      *string `validate:"omitempty,oneof=active completed paused archived"`
}

// UpdateGoal shallow-merges patch over the goal. It returns nil, nil when the
// id is unknown.
func (s *Service) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*storage.Goal, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ValidationError{Field: "name", Reason: "is required"}
		}
	}

	_, g := s.findGoal(id)
	if g == nil {
		return nil, nil
	}
	before := cloneGoal(g)

	if patch.Name != nil {
		g.Name = name
	}
	if patch.Description != nil {
		g.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		g.Category = string(ParseCategory(*patch.Category))
	}
	if patch.Priority != nil {
		g.Priority = *patch.Priority
	}
	if patch.Target != nil {
		g.Target = *patch.Target
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	g.LastUpdated = storage.NewTimestamp(s.now())

	if err := s.save(ctx); err != nil {
		*g = *before
		return nil, err
	}
	return cloneGoal(g), nil
}

// DeleteGoal removes the goal and reports whether it existed.
func (s *Service) DeleteGoal(ctx context.Context, id string) (bool, error) {
	i, g := s.findGoal(id)
	if g == nil {
		return false, nil
	}
	prev := s.doc.Goals
	goals := make([]*storage.Goal, 0, len(prev)-1)
	goals = append(goals, prev[:i]...)
	goals = append(goals, prev[i+1:]...)
	s.doc.Goals = goals

	if err := s.save(ctx); err != nil {
		s.doc.Goals = prev
		return false, err
	}
	s.logger.Infof("engine: deleted goal %s", id)
	return true, nil
}

// ToggleGoalStatus flips active and paused. Goals in any other status are
// returned unchanged.
func (s *Service) ToggleGoalStatus(ctx context.Context, id string) (*storage.Goal, error) {
	_, g := s.findGoal(id)
	if g == nil {
		return nil, nil
	}
	var next Status
	switch Status(g.Status) {
	case StatusActive:
		next = StatusPaused
	case StatusPaused:
		next = StatusActive
	default:
		return cloneGoal(g), nil
	}
	status := string(next)
	return s.UpdateGoal(ctx, id, GoalPatch{Status: &status})
}

func (s *Service) ArchiveGoal(ctx context.Context, id string) (*storage.Goal, error) {
	status := string(StatusArchived)
	return s.UpdateGoal(ctx, id, GoalPatch{Status: &status})
}
