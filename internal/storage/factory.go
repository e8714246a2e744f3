package storage

import (
	"context"
	"fmt"

	"goaltracker/internal/logging"
)

const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// BackendOptions selects and locates a document backend.
type BackendOptions struct {
	Kind        string
	DBPath      string
	DataDir     string
	PostgresDSN string
}

func OpenBackend(ctx context.Context, opts BackendOptions, logger logging.Logger) (Backend, error) {
	switch opts.Kind {
	case BackendSQLite, "":
		return NewSQLiteBackend(ctx, opts.DBPath, logger)
	case BackendFile:
		return NewFileBackend(opts.DataDir, logger)
	case BackendPostgres:
		return NewPostgresBackend(ctx, opts.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
