package main

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"commonwealth/internal/config"
	"commonwealth/internal/logging"
	"commonwealth/internal/store"
	"commonwealth/internal/toggletree"
)

const version = "dev"

func openRepository(cfg config.Config) (store.Repository, error) {
	if cfg.StorageBackend() == store.RepositoryBackendMemory {
		return store.NewMemoryRepository(), nil
	}
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	paths := store.RepositoryPaths{}
	switch cfg.StorageBackend() {
	case store.RepositoryBackendFile:
		paths.StatePath = path
	case store.RepositoryBackendSQLite:
		paths.SQLitePath = path
	default:
		paths.DBPath = path
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return store.OpenRepository(paths, cfg.StorageBackend())
}

func openTreeStore(wiring commandWiring, cfg config.Config, logger logging.Logger) (*toggletree.Store, func(), error) {
	repo, err := wiring.openRepo(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StorageBackend(), err)
	}
	closeFn := func() { _ = repo.Close() }
	return toggletree.NewStore(repo, toggletree.WithLogger(logger)), closeFn, nil
}

func commandLogger(cfg config.Config, out io.Writer) logging.Logger {
	return logging.New(out, logging.ParseLevel(cfg.LogLevel()))
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision, modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}
	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				return fmt.Sprintf("bin-%x", hasher.Sum(nil)[:6])
			}
		}
	}
	return version
}
