package store

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
)

// fileRepository keeps every key in one JSON object on disk. Values are
// stored as strings so the file stays readable when they hold JSON.
type fileRepository struct {
	path   string
	mu     sync.Mutex
	closed bool
}

func NewFileRepository(path string) Repository {
	return &fileRepository{path: path}
}

func (r *fileRepository) load() (map[string]string, error) {
	values, err := readStateFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	return values, err
}

func (r *fileRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	values, err := r.load()
	if err != nil {
		return nil, false, err
	}
	value, ok := values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (r *fileRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.Update(ctx, key, func([]byte, bool) ([]byte, bool, error) {
		return value, true, nil
	})
}

func (r *fileRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	values, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return writeStateFileAtomic(r.path, values)
}

func (r *fileRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	values, err := r.load()
	if err != nil {
		return err
	}
	var current []byte
	raw, ok := values[key]
	if ok {
		current = []byte(raw)
	}
	next, write, err := fn(current, ok)
	if err != nil || !write {
		return err
	}
	values[key] = string(next)
	return writeStateFileAtomic(r.path, values)
}

func (r *fileRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	values, err := r.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *fileRepository) Backend() string {
	return RepositoryBackendFile
}

func (r *fileRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
