package engine

import (
	"context"
	"fmt"
	"time"

	"goaltracker/internal/logging"
	"goaltracker/internal/storage"
)

// Service owns the in-memory document and every mutation of it. Each
// successful mutation is persisted before the call returns.
//
// A Service is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Service struct {
	store  *storage.Store
	doc    *storage.AppDocument
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the store's clock for engine date arithmetic.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService loads the document, refreshes cached streaks and auto-completes
// goals that reached their target.
func NewService(ctx context.Context, store *storage.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:  store,
		now:    store.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) Store() *storage.Store { return s.store }

func (s *Service) reload(ctx context.Context) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	s.doc = doc
	for _, g := range s.doc.Goals {
		g.Streak = CalculateStreak(g.History)
	}
	if _, err := s.UpdateGoalsStatus(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Service) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.doc); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}

// today is the current calendar day as a UTC midnight.
func (s *Service) today() time.Time {
	return civilDay(s.now())
}

func (s *Service) findGoal(id string) (int, *storage.Goal) {
	for i, g := range s.doc.Goals {
		if string(g.ID) == id {
			return i, g
		}
	}
	return -1, nil
}

func cloneGoal(g *storage.Goal) *storage.Goal {
	if g == nil {
		return nil
	}
	c := *g
	c.History = append([]string{}, g.History...)
	c.Milestones = make([]*storage.Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		mc := *m
		c.Milestones[i] = &mc
	}
	return &c
}

// GetGoal returns a copy of the goal, or nil when the id is unknown.
func (s *Service) GetGoal(id string) *storage.Goal {
	_, g := s.findGoal(id)
	return cloneGoal(g)
}

// GetGoals returns copies of the goals matching filter, in document order
// (newest first).
func (s *Service) GetGoals(filter Filter) []*storage.Goal {
	out := make([]*storage.Goal, 0, len(s.doc.Goals))
	for _, g := range s.doc.Goals {
		switch filter {
		case FilterActive, FilterCompleted, FilterArchived:
			if g.Status != string(filter) {
				continue
			}
		}
		out = append(out, cloneGoal(g))
	}
	return out
}

func (s *Service) Now() time.Time { return s.now() }
