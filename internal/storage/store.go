package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"goaltracker/internal/logging"
)

const (
	CurrentVersion  = "3.0"
	DocumentKey     = "goaltracker_pro_data"
	BackupKeyPrefix = "goaltracker_backup_"

	// StorageQuota is informational only; writes are never refused.
	StorageQuota = 5 * 1024 * 1024

	dateLayout = "2006-01-02"
)

// ErrInvalidFormat marks an import payload that is not a goal document.
var ErrInvalidFormat = errors.New("invalid data format")

var backupThresholdDays = map[string]int{
	"daily":   1,
	"weekly":  7,
	"monthly": 30,
}

// Store owns the serialized AppDocument: load, save, migration and backups.
type Store struct {
	backend  Backend
	logger   logging.Logger
	now      func() time.Time
	timezone string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimezone sets the timezone written into synthesized default settings.
func WithTimezone(tz string) Option {
	return func(s *Store) { s.timezone = tz }
}

func NewStore(backend Backend, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		logger:   logger,
		now:      time.Now,
		timezone: time.Local.String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time { return s.now() }

// Load returns the stored document, migrating it when its version differs.
// A missing or unparsable payload yields a fresh default document; only
// backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*AppDocument, error) {
	raw, err := s.backend.Get(ctx, DocumentKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.DefaultDocument(), nil
		}
		return nil, fmt.Errorf("load document: %w", err)
	}

	doc, err := s.decode(raw)
	if err != nil {
		s.logger.Errorf("storage: failed to load data, starting from defaults: %v", err)
		return s.DefaultDocument(), nil
	}
	return doc, nil
}

func (s *Store) decode(raw []byte) (*AppDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("document is null")
	}

	version := stringField(fields, "schemaVersion")
	if version == "" {
		version = stringField(fields, "version")
	}
	if version != CurrentVersion {
		return s.Migrate(fields, version), nil
	}

	// Older releases stamped "3.0" on goals that still carried legacy shapes,
	// so goals are normalized on this path too.
	var doc AppDocument
	shell := struct {
		*AppDocument
		Goals json.RawMessage `json:"goals"`
	}{AppDocument: &doc}
	if err := json.Unmarshal(raw, &shell); err != nil {
		s.logger.Warnf("storage: document fields unreadable, salvaging field by field: %v", err)
		return s.Migrate(fields, version), nil
	}
	doc.SchemaVersion = CurrentVersion
	doc.Goals = s.decodeGoals(shell.Goals)
	return &doc, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Save stamps version and lastUpdated, then replaces the stored document.
func (s *Store) Save(ctx context.Context, doc *AppDocument) error {
	_, err := s.write(ctx, doc)
	return err
}

func (s *Store) write(ctx context.Context, doc *AppDocument) ([]byte, error) {
	doc.SchemaVersion = CurrentVersion
	doc.LastUpdated = StampPtr(s.now())
	if doc.Goals == nil {
		doc.Goals = []*Goal{}
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Put(ctx, DocumentKey, payload); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return payload, nil
}

// DefaultDocument synthesizes a first-run document.
func (s *Store) DefaultDocument() *AppDocument {
	return &AppDocument{
		SchemaVersion: CurrentVersion,
		User:          DefaultUser(),
		Settings:      s.DefaultSettings(),
		Goals:         []*Goal{},
		Created:       NewTimestamp(s.now()),
	}
}

func DefaultUser() User {
	return User{
		Name:   "Professional User",
		Email:  "user@example.com",
		Role:   "premium",
		Avatar: "PU",
	}
}

func (s *Store) DefaultSettings() Settings {
	return Settings{
		Theme:            "auto",
		WeekStartsOn:     "monday",
		Notifications:    true,
		NotificationTime: "09:00",
		AutoSave:         true,
		BackupFrequency:  "weekly",
		DefaultView:      "dashboard",
		Timezone:         s.timezone,
	}
}

// ShouldBackup reports whether the configured backup interval has elapsed.
func (s *Store) ShouldBackup(doc *AppDocument) bool {
	if doc.LastBackup == nil || doc.LastBackup.IsZero() {
		return true
	}
	days := int(s.now().Sub(doc.LastBackup.Time).Hours() / 24)
	threshold, ok := backupThresholdDays[doc.Settings.BackupFrequency]
	if !ok {
		threshold = 7
	}
	return days >= threshold
}

// CreateBackup stamps lastBackup on the live document, saves it, and writes
// a dated snapshot of the same payload.
func (s *Store) CreateBackup(ctx context.Context, doc *AppDocument) error {
	now := s.now()
	doc.LastBackup = StampPtr(now)
	payload, err := s.write(ctx, doc)
	if err != nil {
		return err
	}
	key := BackupKey(now)
	if err := s.backend.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	s.logger.Infof("storage: backup written to %s", key)
	return nil
}

func BackupKey(t time.Time) string {
	return BackupKeyPrefix + t.Format(dateLayout)
}

// ListBackups returns snapshot dates, newest first.
func (s *Store) ListBackups(ctx context.Context) ([]string, error) {
	keys, err := s.backend.List(ctx, BackupKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, BackupKeyPrefix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// RestoreBackup re-imports the snapshot taken on date (YYYY-MM-DD).
func (s *Store) RestoreBackup(ctx context.Context, date string) (*AppDocument, error) {
	payload, err := s.backend.Get(ctx, BackupKeyPrefix+date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no backup for %s: %w", date, err)
		}
		return nil, err
	}
	return s.ImportSnapshot(ctx, payload)
}

// ExportSnapshot renders the current document as indented JSON.
func (s *Store) ExportSnapshot(ctx context.Context) ([]byte, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportSnapshot stores data verbatim as the current document. The only
// check is that goals is an array. The returned document is the view the
// next Load produces from it.
func (s *Store) ImportSnapshot(ctx context.Context, data []byte) (*AppDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	goals, ok := fields["goals"]
	if !ok || !isJSONArray(goals) {
		return nil, fmt.Errorf("%w: goals must be an array", ErrInvalidFormat)
	}

	if err := s.backend.Put(ctx, DocumentKey, data); err != nil {
		return nil, fmt.Errorf("import document: %w", err)
	}
	doc, err := s.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	s.logger.Infof("storage: imported document with %d goals", len(doc.Goals))
	return doc, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

type Usage struct {
	Used       int     `json:"used"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

func (s *Store) StorageUsage(ctx context.Context) (Usage, error) {
	u := Usage{Max: StorageQuota}
	raw, err := s.backend.Get(ctx, DocumentKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return u, nil
		}
		return u, err
	}
	u.Used = len(raw)
	u.Percentage = float64(u.Used) / float64(u.Max) * 100
	return u, nil
}

// Clear removes the current document. Snapshots are kept.
func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, DocumentKey)
}
