package storage

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// AppDocument is the single persisted aggregate.
type AppDocument struct {
	SchemaVersion string     `json:"schemaVersion"`
	User          User       `json:"user"`
	Settings      Settings   `json:"settings"`
	Goals         []*Goal    `json:"goals"`
	LastBackup    *Timestamp `json:"lastBackup,omitempty"`
	LastVisit     *Timestamp `json:"lastVisit,omitempty"`
	LastUpdated   *Timestamp `json:"lastUpdated,omitempty"`
	Created       Timestamp  `json:"created"`
}

type User struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Avatar    string     `json:"avatar"`
	Bio       string     `json:"bio,omitempty"`
	Location  string     `json:"location,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

type Settings struct {
	Theme            string `json:"theme"`
	WeekStartsOn     string `json:"weekStartsOn"`
	Notifications    bool   `json:"notifications"`
	NotificationTime string `json:"notificationTime"`
	AutoSave         bool   `json:"autoSave"`
	BackupFrequency  string `json:"backupFrequency"`
	DefaultView      string `json:"defaultView"`
	Timezone         string `json:"timezone"`
}

type Goal struct {
	ID          GoalID       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Priority    string       `json:"priority"`
	Target      int          `json:"target"`
	History     []string     `json:"history"`
	Milestones  []*Milestone `json:"milestones"`
	Status      string       `json:"status"`
	Streak      int          `json:"streak"`
	CreatedAt   Timestamp    `json:"createdAt"`
	LastUpdated Timestamp    `json:"lastUpdated"`
}

type Milestone struct {
	Name         string `json:"name"`
	Target       int    `json:"target"`
	Achieved     bool   `json:"achieved"`
	AchievedDate string `json:"achievedDate,omitempty"`
}

// GoalID is a string identifier. Documents written by older releases used
// numeric epoch-millisecond ids, so numbers are accepted on decode. Any other
// JSON type decodes to the empty id; normalizeGoal assigns a fresh one.
type GoalID string

func (id *GoalID) UnmarshalJSON(b []byte) error {
	*id = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*id = GoalID(s)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			*id = GoalID(n.String())
		}
	}
	return nil
}

// Timestamp marshals as RFC 3339. On decode it also accepts bare YYYY-MM-DD
// dates, which older documents used for createdAt, and epoch milliseconds.
// Anything else decodes to the zero time instead of failing the document.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func StampPtr(t time.Time) *Timestamp {
	ts := NewTimestamp(t)
	return &ts
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = parseTimestamp(bytes.TrimSpace(b))
	return nil
}

func parseTimestamp(b []byte) time.Time {
	if len(b) == 0 {
		return time.Time{}
	}
	if b[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return time.Time{}
		}
		ms, err := n.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
