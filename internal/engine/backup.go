package engine

import (
	"context"
	"fmt"

	"goaltracker/internal/storage"
)

// AutoBackup writes a snapshot when the configured interval has elapsed.
func (s *Service) AutoBackup(ctx context.Context) (bool, error) {
	if !s.store.ShouldBackup(s.doc) {
		return false, nil
	}
	if err := s.CreateBackup(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) CreateBackup(ctx context.Context) error {
	if err := s.store.CreateBackup(ctx, s.doc); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	return nil
}

func (s *Service) ListBackups(ctx context.Context) ([]string, error) {
	return s.store.ListBackups(ctx)
}

// RestoreBackup replaces the current document with a dated snapshot.
func (s *Service) RestoreBackup(ctx context.Context, date string) error {
	if _, err := s.store.RestoreBackup(ctx, date); err != nil {
		return err
	}
	return s.reload(ctx)
}

// ExportSnapshot returns the stored document as indented JSON.
func (s *Service) ExportSnapshot(ctx context.Context) ([]byte, error) {
	return s.store.ExportSnapshot(ctx)
}

// ImportSnapshot replaces all data with payload. Invalid payloads leave the
// current document untouched and return storage.ErrInvalidFormat.
func (s *Service) ImportSnapshot(ctx context.Context, payload []byte) error {
	if _, err := s.store.ImportSnapshot(ctx, payload); err != nil {
		return err
	}
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.logger.Infof("engine: imported %d goal(s)", len(s.doc.Goals))
	return nil
}

// Reset clears the stored document and starts over from defaults. Snapshots
// are kept.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return s.reload(ctx)
}

func (s *Service) StorageUsage(ctx context.Context) (storage.Usage, error) {
	return s.store.StorageUsage(ctx)
}

type AppStats struct {
	Stats       Stats              `json:"stats"`
	Storage     storage.Usage      `json:"storage"`
	Version     string             `json:"version"`
	LastUpdated *storage.Timestamp `json:"lastUpdated,omitempty"`
	DaysActive  int                `json:"daysActive"`
	BackupsKept int                `json:"backupsKept"`
}

func (s *Service) AppStats(ctx context.Context) (AppStats, error) {
	usage, err := s.store.StorageUsage(ctx)
	if err != nil {
		return AppStats{}, err
	}
	backups, err := s.store.ListBackups(ctx)
	if err != nil {
		return AppStats{}, err
	}
	return AppStats{
		Stats:       s.GetStats(),
		Storage:     usage,
		Version:     storage.CurrentVersion,
		LastUpdated: s.doc.LastUpdated,
		DaysActive:  s.DaysActive(),
		BackupsKept: len(backups),
	}, nil
}
