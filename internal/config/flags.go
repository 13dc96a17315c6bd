package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"
)

const defaultFlagDebounce = 150 * time.Millisecond

type Flags struct {
	mu     sync.RWMutex
	values map[string]bool
}

func NewFlags(values map[string]bool) *Flags {
	f := &Flags{}
	f.Replace(values)
	return f
}

func (f *Flags) Enabled(name string) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[normalizeFlagName(name)]
}

func (f *Flags) Replace(values map[string]bool) {
	next := make(map[string]bool, len(values))
	for name, on := range values {
		name = normalizeFlagName(name)
		if name != "" {
			next[name] = on
		}
	}
	f.mu.Lock()
	f.values = next
	f.mu.Unlock()
}

func (f *Flags) Snapshot() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]bool, len(f.values))
	for name, on := range f.values {
		out[name] = on
	}
	return out
}

func (f *Flags) Names() []string {
	snapshot := f.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeFlagName(name string) string {
	return strings.TrimSpace(name)
}

// LoadFlagFile reads a flat TOML table of name = bool pairs. A missing file
// yields an empty map.
func LoadFlagFile(path string) (map[string]bool, error) {
	values := map[string]bool{}
	if err := readTOML(path, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func MergeFlags(base, overlay map[string]bool) map[string]bool {
	out := make(map[string]bool, len(base)+len(overlay))
	for name, on := range base {
		out[name] = on
	}
	for name, on := range overlay {
		out[name] = on
	}
	return out
}

func WriteFlagFile(path string, values map[string]bool) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

type FlagWatcherOption func(*FlagWatcher)

func WithFlagDebounce(d time.Duration) FlagWatcherOption {
	return func(w *FlagWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithFlagErrorHandler(fn func(error)) FlagWatcherOption {
	return func(w *FlagWatcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}

// FlagWatcher reloads a flag file whenever it changes on disk and hands the
// merged result to onChange.
type FlagWatcher struct {
	path     string
	base     map[string]bool
	debounce time.Duration
	onChange func(map[string]bool)
	onError  func(error)
}

func NewFlagWatcher(path string, base map[string]bool, onChange func(map[string]bool), opts ...FlagWatcherOption) *FlagWatcher {
	w := &FlagWatcher{
		path:     path,
		base:     base,
		debounce: defaultFlagDebounce,
		onChange: onChange,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

func (w *FlagWatcher) Run(ctx context.Context) error {
	if strings.TrimSpace(w.path) == "" {
		return errors.New("flag file path is required")
	}
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(dir); err != nil {
		return err
	}

	name := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		case <-timer.C:
			values, err := LoadFlagFile(w.path)
			if err != nil {
				w.onError(err)
				continue
			}
			if w.onChange != nil {
				w.onChange(MergeFlags(w.base, values))
			}
		}
	}
}
