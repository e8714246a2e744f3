package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"goaltracker/internal/logging"
)

const fileSuffix = ".json"

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir    string
	mu     sync.RWMutex
	logger logging.Logger
}

func NewFileBackend(dir string, logger logging.Logger) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("file backend: create dir: %w", err)
	}
	return &FileBackend{dir: dir, logger: logger}, nil
}

func (b *FileBackend) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("file backend: invalid key %q", key)
	}
	return filepath.Join(b.dir, key+fileSuffix), nil
}

func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *FileBackend) Put(ctx context.Context, key string, payload []byte) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := atomicWriteFile(p, payload); err != nil {
		b.logger.Errorf("storage: error writing %s: %v", p, err)
		return err
	}
	return nil
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *FileBackend) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key := strings.TrimSuffix(name, fileSuffix)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }

// atomicWriteFile writes to a temp file, fsyncs it, then renames over filePath.
func atomicWriteFile(filePath string, data []byte) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

var _ Backend = (*FileBackend)(nil)
