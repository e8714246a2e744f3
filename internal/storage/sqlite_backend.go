package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goaltracker/internal/logging"
)

// SQLiteBackend keeps documents in a single key/value table.
type SQLiteBackend struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteBackend opens path, applies the schema and returns the backend.
func NewSQLiteBackend(ctx context.Context, path string, logger logging.Logger) (*SQLiteBackend, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db, logger: logger}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	row := b.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE key = ?`, key)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("document get: %w", err)
	}
	return []byte(payload), nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, payload []byte) error {
	return withTx(ctx, b.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (key, payload, updated_at, size_bytes)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				payload = excluded.payload,
				updated_at = excluded.updated_at,
				size_bytes = excluded.size_bytes
		`, key, string(payload), time.Now().UTC(), len(payload))
		if err != nil {
			b.logger.Errorf("storage: upsert %s failed: %v", key, err)
			return fmt.Errorf("document put: %w", err)
		}
		return nil
	})
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("document delete: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT key FROM documents
		WHERE substr(key, 1, ?) = ?
		ORDER BY key ASC
	`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("document list: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("document list scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
