package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_updated_at ON documents(updated_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release (ignore if already exists)
	alterStmts := []string{
		`ALTER TABLE documents ADD COLUMN size_bytes INTEGER DEFAULT 0;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
