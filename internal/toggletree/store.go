package toggletree

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"commonwealth/internal/logging"
	"commonwealth/internal/store"
)

// Store persists toggle trees and group toggles in a key-value repository.
// Every mutation is a single Update on the repository.
type Store struct {
	repo   store.Repository
	logger logging.Logger
}

type StoreOption func(*Store)

func WithLogger(logger logging.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(repo store.Repository, opts ...StoreOption) *Store {
	s := &Store{repo: repo, logger: logging.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Repository() store.Repository {
	return s.repo
}

func (s *Store) Load(ctx context.Context, key string) (*Node, bool, error) {
	data, ok, err := s.repo.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	tree, err := Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("load %s: %w", key, err)
	}
	return tree, true, nil
}

func (s *Store) Save(ctx context.Context, key string, tree *Node) error {
	data, err := Encode(tree)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, key, data)
}

func (s *Store) Reset(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// Verify reports whether the stored tree has the same shape as def. An
// absent or unreadable tree does not verify. Nothing is written.
func (s *Store) Verify(ctx context.Context, key string, def *Node) (bool, error) {
	tree, ok, err := s.Load(ctx, key)
	if errors.Is(err, ErrCorruptTree) {
		return false, nil
	}
	if err != nil || !ok {
		return false, err
	}
	return Verify(tree, def), nil
}

// Ensure returns the stored tree when its shape matches def. Otherwise def
// is written in its place and returned. The check and the repair happen in
// one repository update.
func (s *Store) Ensure(ctx context.Context, key string, def *Node) (*Node, error) {
	if def == nil {
		return nil, errors.New("default tree is required")
	}
	encodedDefault, err := Encode(def)
	if err != nil {
		return nil, err
	}
	var result *Node
	err = s.repo.Update(ctx, key, func(current []byte, exists bool) ([]byte, bool, error) {
		if !exists {
			s.logger.Debug("toggle_tree_seeded", logging.F("key", key))
			result = def.Clone()
			return encodedDefault, true, nil
		}
		tree, err := Decode(current)
		if err != nil {
			s.logger.Warn("toggle_tree_corrupt", logging.F("key", key), logging.F("error", err))
			result = def.Clone()
			return encodedDefault, true, nil
		}
		if !Verify(tree, def) {
			s.logger.Info("toggle_tree_reset",
				logging.F("key", key),
				logging.F("diff", compactDiff(ShapeDiff(tree, def))),
			)
			result = def.Clone()
			return encodedDefault, true, nil
		}
		result = tree
		return nil, false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ensure %s: %w", key, err)
	}
	return result, nil
}

// Set stores the negation of current at the legacy dotted path. When the key
// is absent or the path does not resolve, stored bytes are left unchanged
// and no error is returned.
func (s *Store) Set(ctx context.Context, key, dotted string, current bool) error {
	path, err := ParseDottedPath(dotted)
	if err != nil {
		return err
	}
	return s.SetNegated(ctx, key, path, current)
}

// SetNegated is Set for a typed path, so names containing dots survive.
func (s *Store) SetNegated(ctx context.Context, key string, path Path, current bool) error {
	err := s.repo.Update(ctx, key, func(data []byte, exists bool) ([]byte, bool, error) {
		if !exists {
			return nil, false, nil
		}
		tree, err := Decode(data)
		if err != nil {
			return nil, false, err
		}
		next, err := Apply(tree, path, !current)
		if errors.Is(err, ErrPathNotFound) {
			s.logger.Debug("toggle_tree_set_dropped", logging.F("key", key), logging.F("path", path.String()))
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		encoded, err := Encode(next)
		return encoded, err == nil, err
	})
	if err != nil {
		return fmt.Errorf("set %s %s: %w", key, path, err)
	}
	return nil
}

func (s *Store) SetValue(ctx context.Context, key string, path Path, value bool) error {
	_, err := s.mutate(ctx, key, path, func(bool) bool { return value })
	return err
}

func (s *Store) Toggle(ctx context.Context, key string, path Path) (bool, error) {
	return s.mutate(ctx, key, path, func(current bool) bool { return !current })
}

func (s *Store) mutate(ctx context.Context, key string, path Path, next func(bool) bool) (bool, error) {
	var stored bool
	err := s.repo.Update(ctx, key, func(data []byte, exists bool) ([]byte, bool, error) {
		if !exists {
			return nil, false, ErrTreeNotFound
		}
		tree, err := Decode(data)
		if err != nil {
			return nil, false, err
		}
		current, err := Lookup(tree, path)
		if err != nil {
			return nil, false, err
		}
		stored = next(current)
		updated, err := Apply(tree, path, stored)
		if err != nil {
			return nil, false, err
		}
		encoded, err := Encode(updated)
		return encoded, err == nil, err
	})
	if err != nil {
		return false, fmt.Errorf("update %s %s: %w", key, path, err)
	}
	return stored, nil
}

func (s *Store) Value(ctx context.Context, key string, path Path) (bool, error) {
	tree, ok, err := s.Load(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrTreeNotFound, key)
	}
	return Lookup(tree, path)
}

// TreeKeys lists stored tree keys for a community, or every community when
// communityID is empty.
func (s *Store) TreeKeys(ctx context.Context, communityID string) ([]string, error) {
	prefix := ""
	if communityID != "" {
		prefix = communityID + "-"
	}
	keys, err := s.repo.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, key := range keys {
		community, _, ok := ParseStorageKey(key)
		if ok && (communityID == "" || community == communityID) {
			out = append(out, key)
		}
	}
	return out, nil
}

func (s *Store) GroupToggled(ctx context.Context, title string) (bool, bool, error) {
	data, ok, err := s.repo.Get(ctx, GroupToggleKey(title))
	if err != nil || !ok {
		return false, false, err
	}
	value, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		return false, false, fmt.Errorf("group toggle %q: %w", title, err)
	}
	return value, true, nil
}

func (s *Store) SetGroupToggled(ctx context.Context, title string, value bool) error {
	return s.repo.Put(ctx, GroupToggleKey(title), []byte(strconv.FormatBool(value)))
}

func compactDiff(diff string) string {
	fields := strings.Fields(diff)
	return strings.Join(fields, " ")
}
