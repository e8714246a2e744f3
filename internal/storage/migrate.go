package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// legacyGoal reads goals written before target was a top-level field.
type legacyGoal struct {
	Goal
	Frequency *struct {
		Target int `json:"target"`
	} `json:"goal"`
}

// Migrate builds a current-version document from an older one: defaults
// first, then goals, user and settings overlaid. Unknown fields are dropped.
func (s *Store) Migrate(fields map[string]json.RawMessage, from string) *AppDocument {
	s.logger.Infof("storage: migrating data from version %q to %s", from, CurrentVersion)

	doc := s.DefaultDocument()
	if raw, ok := fields["goals"]; ok {
		doc.Goals = s.decodeGoals(raw)
	}

	// Unmarshalling onto the populated defaults is a shallow merge.
	if raw, ok := fields["user"]; ok {
		if err := json.Unmarshal(raw, &doc.User); err != nil {
			s.logger.Warnf("storage: keeping default user, old value unreadable: %v", err)
			doc.User = DefaultUser()
		}
	}
	if raw, ok := fields["settings"]; ok {
		if err := json.Unmarshal(raw, &doc.Settings); err != nil {
			s.logger.Warnf("storage: keeping default settings, old value unreadable: %v", err)
			doc.Settings = s.DefaultSettings()
		}
	}

	for _, name := range []string{"created", "lastBackup", "lastVisit"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var ts Timestamp
		if err := json.Unmarshal(raw, &ts); err != nil || ts.IsZero() {
			continue
		}
		switch name {
		case "created":
			doc.Created = ts
		case "lastBackup":
			doc.LastBackup = &ts
		case "lastVisit":
			doc.LastVisit = &ts
		}
	}

	return doc
}

// decodeGoals normalizes every readable goal and drops the rest.
func (s *Store) decodeGoals(raw json.RawMessage) []*Goal {
	goals := []*Goal{}
	if len(raw) == 0 {
		return goals
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warnf("storage: dropping unreadable goals: %v", err)
		return goals
	}
	now := s.now()
	for i, item := range items {
		g, err := normalizeGoal(item, now)
		if err != nil {
			s.logger.Warnf("storage: dropping goal %d: %v", i, err)
			continue
		}
		goals = append(goals, g)
	}
	return goals
}

// normalizeGoal lifts a legacy nested goal.target and fills defaults for
// fields older documents left out.
func normalizeGoal(raw json.RawMessage, now time.Time) (*Goal, error) {
	var lg legacyGoal
	if err := json.Unmarshal(raw, &lg); err != nil {
		return nil, err
	}
	g := lg.Goal
	if g.ID == "" {
		g.ID = GoalID(uuid.NewString())
	}
	if g.Target == 0 && lg.Frequency != nil {
		g.Target = lg.Frequency.Target
	}
	if g.Status == "" {
		g.Status = "active"
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = NewTimestamp(now)
	}
	if g.History == nil {
		g.History = []string{}
	}
	if g.Milestones == nil {
		g.Milestones = []*Milestone{}
	}
	return &g, nil
}
