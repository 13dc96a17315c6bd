package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RepositoryBackendMemory = "memory"
	RepositoryBackendFile   = "file"
	RepositoryBackendBbolt  = "bbolt"
	RepositoryBackendSQLite = "sqlite"
)

var ErrClosed = errors.New("store is closed")

// UpdateFunc receives the current value of a key and returns the value to
// write. Returning write=false leaves the stored value untouched.
type UpdateFunc func(current []byte, exists bool) (next []byte, write bool, err error)

// Repository is a string-keyed byte store. Every method is safe for
// concurrent use and Update runs as a single read-modify-write.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Backend() string
	Close() error
}

type RepositoryPaths struct {
	StatePath  string
	DBPath     string
	SQLitePath string
}

func OpenRepository(paths RepositoryPaths, backend string) (Repository, error) {
	switch normalizeBackend(backend) {
	case RepositoryBackendMemory:
		return NewMemoryRepository(), nil
	case RepositoryBackendFile:
		if strings.TrimSpace(paths.StatePath) == "" {
			return nil, errors.New("state path is required for file repository")
		}
		return NewFileRepository(paths.StatePath), nil
	case RepositoryBackendBbolt:
		if strings.TrimSpace(paths.DBPath) == "" {
			return nil, errors.New("db path is required for bbolt repository")
		}
		return NewBboltRepository(paths.DBPath)
	case RepositoryBackendSQLite:
		if strings.TrimSpace(paths.SQLitePath) == "" {
			return nil, errors.New("sqlite path is required for sqlite repository")
		}
		return NewSQLiteRepository(paths.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported repository backend %q", backend)
	}
}

func normalizeBackend(backend string) string {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return RepositoryBackendBbolt
	}
	return backend
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func checkKey(key string) error {
	if key == "" {
		return errors.New("key is required")
	}
	return nil
}
