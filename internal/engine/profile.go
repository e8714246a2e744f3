package engine

import (
	"context"
	"strings"
	"time"
	"unicode"

	"goaltracker/internal/storage"
)

func (s *Service) Settings() storage.Settings { return s.doc.Settings }

type SettingsPatch struct {
	Theme            *string `validate:"omitempty,oneof=dark light auto"`
	WeekStartsOn     *string `validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Notifications    *bool
	NotificationTime *string `validate:"omitempty,datetime=15:04"`
	AutoSave         *bool
	BackupFrequency  *string `validate:"omitempty,oneof=daily weekly monthly"`
	DefaultView      *string `validate:"omitempty,oneof=dashboard goals analytics achievements"`
	Timezone         *string `validate:"omitempty,timezone"`
}

func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) (storage.Settings, error) {
	if err := validateStruct(patch); err != nil {
		return s.doc.Settings, err
	}
	prev := s.doc.Settings
	st := &s.doc.Settings
	if patch.Theme != nil {
		st.Theme = *patch.Theme
	}
	if patch.WeekStartsOn != nil {
		st.WeekStartsOn = *patch.WeekStartsOn
	}
	if patch.Notifications != nil {
		st.Notifications = *patch.Notifications
	}
	if patch.NotificationTime != nil {
		st.NotificationTime = *patch.NotificationTime
	}
	if patch.AutoSave != nil {
		st.AutoSave = *patch.AutoSave
	}
	if patch.BackupFrequency != nil {
		st.BackupFrequency = *patch.BackupFrequency
	}
	if patch.DefaultView != nil {
		st.DefaultView = *patch.DefaultView
	}
	if patch.Timezone != nil {
		st.Timezone = *patch.Timezone
	}
	if err := s.save(ctx); err != nil {
		s.doc.Settings = prev
		return prev, err
	}
	return s.doc.Settings, nil
}

func (s *Service) ResetSettings(ctx context.Context) (storage.Settings, error) {
	prev := s.doc.Settings
	s.doc.Settings = s.store.DefaultSettings()
	if err := s.save(ctx); err != nil {
		s.doc.Settings = prev
		return prev, err
	}
	return s.doc.Settings, nil
}

func (s *Service) Profile() storage.User { return s.doc.User }

type ProfileInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Role     string
	Bio      string
	Location string
	Phone    string
	Timezone string `validate:"omitempty,timezone"`
}

// UpdateProfile replaces the user profile. The avatar is derived from the name.
func (s *Service) UpdateProfile(ctx context.Context, in ProfileInput) (storage.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return s.doc.User, err
	}

	prev := s.doc.User
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = prev.Role
	}
	s.doc.User = storage.User{
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		Avatar:    Initials(in.Name),
		Bio:       strings.TrimSpace(in.Bio),
		Location:  strings.TrimSpace(in.Location),
		Phone:     strings.TrimSpace(in.Phone),
		Timezone:  strings.TrimSpace(in.Timezone),
		UpdatedAt: storage.StampPtr(s.now()),
	}
	if err := s.save(ctx); err != nil {
		s.doc.User = prev
		return prev, err
	}
	return s.doc.User, nil
}

// Initials returns first and last initials, the first two letters of a
// single-word name, or "PU" for an empty one.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "PU"
	}
	if len(parts) >= 2 {
		return strings.ToUpper(firstRunes(parts[0], 1) + firstRunes(parts[len(parts)-1], 1))
	}
	return strings.ToUpper(firstRunes(parts[0], 2))
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	for i := range r {
		r[i] = unicode.ToUpper(r[i])
	}
	return string(r)
}

// DaysActive counts whole days since the document was created.
func (s *Service) DaysActive() int {
	if s.doc.Created.IsZero() {
		return 0
	}
	d := int(s.now().Sub(s.doc.Created.Time).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// RecordVisit stamps lastVisit and reports whether the previous visit was
// more than a day ago (or never happened).
func (s *Service) RecordVisit(ctx context.Context) (bool, error) {
	now := s.now()
	prev := s.doc.LastVisit
	welcome := prev == nil || prev.IsZero() || now.Sub(prev.Time) > 24*time.Hour
	s.doc.LastVisit = storage.StampPtr(now)
	if err := s.save(ctx); err != nil {
		s.doc.LastVisit = prev
		return false, err
	}
	return welcome, nil
}
