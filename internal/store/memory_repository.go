package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu     sync.Mutex
	values map[string][]byte
	closed bool
}

func NewMemoryRepository() Repository {
	return &memoryRepository{values: map[string][]byte{}}
}

func (r *memoryRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	value, ok := r.values[key]
	return cloneBytes(value), ok, nil
}

func (r *memoryRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.values[key] = cloneBytes(value)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	delete(r.values, key)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	current, ok := r.values[key]
	next, write, err := fn(cloneBytes(current), ok)
	if err != nil || !write {
		return err
	}
	r.values[key] = cloneBytes(next)
	return nil
}

func (r *memoryRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(r.values))
	for key := range r.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *memoryRepository) Backend() string {
	return RepositoryBackendMemory
}

func (r *memoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
