package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketToggleState = []byte("toggle_state")

type bboltRepository struct {
	db *bolt.DB
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{db: db}, nil
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketToggleState)
		return err
	})
}

func (r *bboltRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		ok    bool
	)
	err := r.view(func(bucket *bolt.Bucket) error {
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		value, ok = cloneBytes(raw), true
		return nil
	})
	return value, ok, err
}

func (r *bboltRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return r.update(func(bucket *bolt.Bucket) error {
		return bucket.Put([]byte(key), nonNil(value))
	})
}

func (r *bboltRepository) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return r.update(func(bucket *bolt.Bucket) error {
		return bucket.Delete([]byte(key))
	})
}

func (r *bboltRepository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return r.update(func(bucket *bolt.Bucket) error {
		raw := bucket.Get([]byte(key))
		next, write, err := fn(cloneBytes(raw), raw != nil)
		if err != nil || !write {
			return err
		}
		return bucket.Put([]byte(key), nonNil(next))
	})
}

func (r *bboltRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := r.view(func(bucket *bolt.Bucket) error {
		cursor := bucket.Cursor()
		p := []byte(prefix)
		for k, _ := cursor.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = cursor.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

func (r *bboltRepository) Backend() string {
	return RepositoryBackendBbolt
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *bboltRepository) view(fn func(bucket *bolt.Bucket) error) error {
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketToggleState)
		if bucket == nil {
			return errors.New("toggle state bucket missing")
		}
		return fn(bucket)
	})
	return mapBboltErr(err)
}

func (r *bboltRepository) update(fn func(bucket *bolt.Bucket) error) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketToggleState)
		if bucket == nil {
			return errors.New("toggle state bucket missing")
		}
		return fn(bucket)
	})
	return mapBboltErr(err)
}

func mapBboltErr(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// bbolt treats a nil value as a missing key.
func nonNil(value []byte) []byte {
	if value == nil {
		return []byte{}
	}
	return value
}
