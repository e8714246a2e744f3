package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goaltracker/internal/logging"
)

type PostgresBackend struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

func NewPostgresBackend(ctx context.Context, dsn string, logger logging.Logger) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		pool.Close()
		logger.Errorf("failed to create documents table: %v", err)
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return &PostgresBackend{pool: pool, logger: logger}, nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := p.pool.QueryRow(ctx, `SELECT payload FROM documents WHERE key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to read document %s: %v", key, err)
		return nil, err
	}
	return []byte(payload), nil
}

func (p *PostgresBackend) Put(ctx context.Context, key string, payload []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO documents (key, payload, size_bytes, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, size_bytes = EXCLUDED.size_bytes, updated_at = now()`,
		key, string(payload), len(payload))
	if err != nil {
		p.logger.Errorf("failed to upsert document %s: %v", key, err)
		return err
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		p.logger.Errorf("failed to delete document %s: %v", key, err)
		return err
	}
	return nil
}

func (p *PostgresBackend) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT key FROM documents WHERE starts_with(key, $1) ORDER BY key ASC`, prefix)
	if err != nil {
		p.logger.Errorf("failed to list documents: %v", err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}

var _ Backend = (*PostgresBackend)(nil)
