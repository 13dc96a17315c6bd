package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if !strings.HasSuffix(dataDir, ".commonwealth") {
		t.Fatalf("unexpected data dir: %s", dataDir)
	}

	for name, fn := range map[string]func() (string, error){
		"config.toml":  ConfigPath,
		"flags.toml":   FlagsPath,
		"state.json":   StatePath,
		"state.db":     BboltPath,
		"state.sqlite": SQLitePath,
		"ui.log":       UILogPath,
	} {
		path, err := fn()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want := filepath.Join(dataDir, name); path != want {
			t.Fatalf("unexpected path: got=%q want=%q", path, want)
		}
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)
	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
}
