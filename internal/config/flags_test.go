package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestFlagsNormalizeNames(t *testing.T) {
	flags := NewFlags(map[string]bool{" contest ": true, "": true, "governancePage": false})
	if !flags.Enabled("contest") {
		t.Fatalf("expected contest enabled")
	}
	if flags.Enabled("governancePage") || flags.Enabled("unknown") {
		t.Fatalf("unexpected enabled flag")
	}
	if names := flags.Names(); len(names) != 2 {
		t.Fatalf("unexpected names: %v", names)
	}
	var nilFlags *Flags
	if nilFlags.Enabled("contest") {
		t.Fatalf("nil flags should be disabled")
	}
}

func TestFlagFileRoundTripAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.toml")
	missing, err := LoadFlagFile(path)
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected empty flags for missing file, got %v err %v", missing, err)
	}
	if err := WriteFlagFile(path, map[string]bool{"contest": true}); err != nil {
		t.Fatalf("WriteFlagFile: %v", err)
	}
	loaded, err := LoadFlagFile(path)
	if err != nil {
		t.Fatalf("LoadFlagFile: %v", err)
	}
	merged := MergeFlags(map[string]bool{"contest": false, "governancePage": true}, loaded)
	if !merged["contest"] || !merged["governancePage"] {
		t.Fatalf("unexpected merge: %v", merged)
	}
}

func TestFlagWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "flags.toml")
	changes := make(chan map[string]bool, 4)
	watcher := NewFlagWatcher(path, map[string]bool{"governancePage": true}, func(values map[string]bool) {
		select {
		case changes <- values:
		default:
		}
	}, WithFlagDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	var got map[string]bool
	for got == nil {
		select {
		case got = <-changes:
		case <-tick.C:
			if err := WriteFlagFile(path, map[string]bool{"contest": true}); err != nil {
				t.Fatalf("WriteFlagFile: %v", err)
			}
		case <-deadline:
			cancel()
			t.Fatalf("timed out waiting for flag reload")
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got["contest"] || !got["governancePage"] {
		t.Fatalf("unexpected reloaded flags: %v", got)
	}
}
