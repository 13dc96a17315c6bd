package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"commonwealth/internal/config"
	"commonwealth/internal/datasource"
	"commonwealth/internal/store"
	"commonwealth/internal/toggletree"
	"commonwealth/internal/types"
)

type keepOpen struct {
	store.Repository
}

func (keepOpen) Close() error { return nil }

type testHarness struct {
	wiring commandWiring
	repo   store.Repository
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	t.Setenv(config.DataDirEnv, t.TempDir())
	repo := store.NewMemoryRepository()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cfg := config.DefaultConfig()
	cfg.Community.ID = "abc"
	cfg.Storage.Backend = store.RepositoryBackendMemory
	cfg.Logging.Level = "error"
	data := &types.CommunityData{
		Community: &types.Community{ID: "abc", Name: "ABC"},
		Topics:    []types.Topic{{ID: 1, Name: "General", FeaturedInSidebar: true}},
	}
	return &testHarness{
		wiring: commandWiring{
			stdout:     stdout,
			stderr:     stderr,
			loadConfig: func() (config.Config, error) { return cfg, nil },
			openRepo:   func(config.Config) (store.Repository, error) { return keepOpen{repo}, nil },
			newSource: func(config.Config) (datasource.Source, error) {
				return datasource.Static(map[string]*types.CommunityData{"abc": data}), nil
			},
			interactive: func() bool { return false },
			version:     "test",
		},
		repo:   repo,
		stdout: stdout,
		stderr: stderr,
	}
}

func (h *testHarness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	root := newRootCommand(h.wiring)
	root.SetArgs(args)
	return root.Execute()
}

func TestConfigCommandFormats(t *testing.T) {
	h := newHarness(t)
	if err := h.run("config"); err != nil {
		t.Fatalf("config: %v", err)
	}
	var out configOutput
	if err := json.Unmarshal(h.stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode json: %v\n%s", err, h.stdout.String())
	}
	if out.Community.ID != "abc" || out.Storage.Backend != "memory" {
		t.Fatalf("unexpected effective config: %#v", out)
	}

	if err := h.run("config", "--default", "--format", "toml"); err != nil {
		t.Fatalf("config toml: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "bbolt") || !strings.Contains(h.stdout.String(), "legacy_timeout_chain") {
		t.Fatalf("unexpected toml output:\n%s", h.stdout.String())
	}

	if err := h.run("config", "--format", "yaml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestTreeVerifyRepairShowAndToggle(t *testing.T) {
	h := newHarness(t)
	if err := h.run("tree", "verify", "discussions", "--repair"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "abc-discussions-toggle-tree: absent") ||
		!strings.Contains(h.stdout.String(), "repaired") {
		t.Fatalf("unexpected verify output:\n%s", h.stdout.String())
	}

	if err := h.run("tree", "verify", "discussions"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "abc-discussions-toggle-tree: ok") {
		t.Fatalf("expected ok after repair:\n%s", h.stdout.String())
	}

	if err := h.run("tree", "show", "discussions"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(h.stdout.String(), `"General"`) {
		t.Fatalf("expected General in tree:\n%s", h.stdout.String())
	}

	if err := h.run("tree", "toggle", "discussions", "General"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "children.General.toggledState = false") {
		t.Fatalf("unexpected toggle output: %s", h.stdout.String())
	}

	if err := h.run("tree", "set", "discussions", "children.General.toggledState", "--current=false"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := h.run("tree", "toggle", "discussions", "General", "All"); err != nil {
		t.Fatalf("toggle child: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "children.General.children.All.toggledState = true") {
		t.Fatalf("unexpected child toggle output: %s", h.stdout.String())
	}

	if err := h.run("tree", "set", "discussions", "children.General.toggledState", "--current=true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "children.General.toggledState <- false") {
		t.Fatalf("unexpected set output: %s", h.stdout.String())
	}
	if err := h.run("tree", "set", "discussions", "children.Missing.toggledState"); err != nil {
		t.Fatalf("set missing path: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "unchanged") || strings.Contains(h.stdout.String(), "<-") {
		t.Fatalf("expected dropped write to be reported as unchanged: %s", h.stdout.String())
	}

	if err := h.run("tree", "set", "discussions", "bogus.path"); err == nil {
		t.Fatalf("expected malformed path error")
	}

	if err := h.run("tree", "reset", "discussions"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := h.run("tree", "show"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "no toggle trees stored for abc") {
		t.Fatalf("expected empty store after reset:\n%s", h.stdout.String())
	}
}

func TestTreeShowListsOnlyThisCommunity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	trees := toggletree.NewStore(h.repo)
	for _, key := range []string{
		toggletree.StorageKey("abc", toggletree.KindGovernance),
		toggletree.StorageKey("abc-dao", toggletree.KindDiscussions),
	} {
		if err := trees.Save(ctx, key, toggletree.DefaultTree()); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}
	if err := h.run("tree", "show"); err != nil {
		t.Fatalf("show: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "abc-governance-toggle-tree:") {
		t.Fatalf("expected abc tree listed:\n%s", out)
	}
	if strings.Contains(out, "abc-dao") {
		t.Fatalf("expected other community to be excluded:\n%s", out)
	}
}

func TestTreeCommandsRejectUnknownKind(t *testing.T) {
	h := newHarness(t)
	if err := h.run("tree", "show", "sidebar"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if err := h.run("tree", "toggle", "discussions", "Missing"); err == nil {
		t.Fatalf("expected error toggling an absent tree")
	}
}

func TestSignCommandOutcomes(t *testing.T) {
	h := newHarness(t)
	if err := h.run("sign", "--mode", "web", "--delay", "0s"); err != nil {
		t.Fatalf("sign: %v\n%s", err, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "stage: success") || !strings.Contains(h.stdout.String(), "block:") {
		t.Fatalf("unexpected sign output:\n%s", h.stdout.String())
	}

	if err := h.run("sign", "--mode", "cli", "--payload", "0xdead", "--outcome", "failed", "--delay", "0s"); err == nil {
		t.Fatalf("expected rejected transaction error")
	}
	if !strings.Contains(h.stdout.String(), "0xdead") || !strings.Contains(h.stdout.String(), "stage: rejected") {
		t.Fatalf("unexpected cli output:\n%s", h.stdout.String())
	}

	if err := h.run("sign", "--mode", "ledger"); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}
