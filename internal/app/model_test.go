package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"commonwealth/internal/config"
	"commonwealth/internal/datasource"
	"commonwealth/internal/sidebar"
	"commonwealth/internal/store"
	"commonwealth/internal/toggletree"
	"commonwealth/internal/txsign"
	"commonwealth/internal/types"
)

func testData() *types.CommunityData {
	return &types.CommunityData{
		Community: &types.Community{ID: "abc", Name: "ABC", Description: "A test community."},
		Topics: []types.Topic{
			{ID: 1, Name: "General", FeaturedInSidebar: true, Description: "General chatter."},
		},
		User: &types.User{LoggedIn: true, JoinedCommunity: true},
	}
}

func newTestModel(t *testing.T, flags map[string]bool, opts ...ModelOption) (*Model, *toggletree.Store) {
	t.Helper()
	trees := toggletree.NewStore(store.NewMemoryRepository())
	source := datasource.Static(map[string]*types.CommunityData{"abc": testData()})
	m := NewModel("abc", source, trees, config.NewFlags(flags), opts...)
	return m, trees
}

func loadData(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected load command")
	}
	m.Update(cmd())
}

func rowTitles(m *Model) []string {
	var out []string
	for _, item := range m.list.Items() {
		out = append(out, item.(*sidebarRow).title)
	}
	return out
}

func hasRow(m *Model, title string) bool {
	for _, got := range rowTitles(m) {
		if got == title {
			return true
		}
	}
	return false
}

func selectRow(t *testing.T, m *Model, kind sidebarRowKind, title string) {
	t.Helper()
	for i, item := range m.list.Items() {
		row := item.(*sidebarRow)
		if row.kind == kind && row.title == title {
			m.list.Select(i)
			return
		}
	}
	t.Fatalf("row %q not found in %v", title, rowTitles(m))
}

func press(m *Model, s string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch s {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		r := []rune(s)[0]
		msg = tea.KeyPressMsg{Code: r, Text: s}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModelRendersStaticEntriesBeforeLoad(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if !hasRow(m, "All Discussions") || !hasRow(m, "Overview") {
		t.Fatalf("expected static discussion rows, got %v", rowTitles(m))
	}
	if hasRow(m, "General") {
		t.Fatalf("topic rows should wait for data")
	}

	loadData(t, m)
	if !hasRow(m, "General") || !hasRow(m, "All") {
		t.Fatalf("expected topic section and child after load, got %v", rowTitles(m))
	}
	if m.title() != "ABC" {
		t.Fatalf("expected community name as title, got %q", m.title())
	}
}

func TestLoadErrorSetsStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(dataLoadedMsg{err: errors.New("offline")})
	if !m.statusErr || !strings.Contains(m.status, "offline") {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if !strings.Contains(m.previewMarkdown(nil), "offline") {
		t.Fatalf("expected preview to mention the error")
	}
}

func TestEnterOnSectionPersistsToggle(t *testing.T) {
	ctx := context.Background()
	m, trees := newTestModel(t, nil)
	loadData(t, m)

	selectRow(t, m, rowSection, "General")
	press(m, "enter")
	if hasRow(m, "All") {
		t.Fatalf("expected child hidden after collapsing, got %v", rowTitles(m))
	}
	value, err := trees.Value(ctx, "abc-discussions-toggle-tree", toggletree.Section("General"))
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value {
		t.Fatalf("expected stored state false after collapsing")
	}
	if row := m.selectedRow(); row == nil || row.title != "General" {
		t.Fatalf("expected selection to stay on General")
	}

	press(m, "enter")
	if !hasRow(m, "All") {
		t.Fatalf("expected child visible after expanding")
	}
}

func TestEnterOnSubSectionNavigates(t *testing.T) {
	m, _ := newTestModel(t, nil)
	loadData(t, m)
	selectRow(t, m, rowSubSection, "All")
	press(m, "enter")
	if got := m.nav.Current(); got != "/abc/discussions/General" {
		t.Fatalf("expected navigation to topic, got %q", got)
	}
	if m.menuResets != 1 {
		t.Fatalf("expected one menu reset, got %d", m.menuResets)
	}
	selectRow(t, m, rowSubSection, "All")
	if !m.selectedRow().active {
		t.Fatalf("expected All to be active after navigation")
	}

	press(m, "b")
	if got := m.nav.Current(); got != "/abc/discussions" {
		t.Fatalf("expected back navigation, got %q", got)
	}
}

func TestHoverPreviewListsCollapsedChildren(t *testing.T) {
	m, _ := newTestModel(t, nil)
	loadData(t, m)

	selectRow(t, m, rowSection, "General")
	press(m, "enter")
	if hasRow(m, "All") {
		t.Fatalf("expected General collapsed, got %v", rowTitles(m))
	}
	selectRow(t, m, rowSection, "Overview")

	var general *sidebarRow
	for _, item := range m.list.Items() {
		if row := item.(*sidebarRow); row.kind == rowSection && row.title == "General" {
			general = row
		}
	}
	m.setHover(general)
	preview := m.previewMarkdown(m.previewRow())
	if !strings.Contains(preview, "# General") || !strings.Contains(preview, "- All") {
		t.Fatalf("expected hovered collapsed section to preview its children, got %q", preview)
	}

	m.setHover(nil)
	if preview := m.previewMarkdown(m.previewRow()); strings.Contains(preview, "- All") {
		t.Fatalf("expected preview to follow the selection once hover ends, got %q", preview)
	}
}

func TestGroupToggleHidesSections(t *testing.T) {
	m, _ := newTestModel(t, nil)
	loadData(t, m)
	selectRow(t, m, rowGroup, "Discussions")
	press(m, "enter")
	if hasRow(m, "All Discussions") {
		t.Fatalf("expected group collapsed, got %v", rowTitles(m))
	}
	press(m, "enter")
	if !hasRow(m, "All Discussions") {
		t.Fatalf("expected group expanded again")
	}
}

func TestFilterFindsCollapsedChildrenAndCloses(t *testing.T) {
	m, _ := newTestModel(t, nil)
	loadData(t, m)
	selectRow(t, m, rowSection, "General")
	press(m, "enter")

	press(m, "/")
	if !m.filtering {
		t.Fatalf("expected filter mode")
	}
	for _, r := range "all" {
		press(m, string(r))
	}
	if !hasRow(m, "All") {
		t.Fatalf("expected filter to reach collapsed child, got %v", rowTitles(m))
	}
	selectRow(t, m, rowSubSection, "All")
	press(m, "enter")
	if m.filtering {
		t.Fatalf("expected navigation to close the filter")
	}
	if got := m.nav.Current(); got != "/abc/discussions/General" {
		t.Fatalf("unexpected route %q", got)
	}
}

func TestFilterEscapeRestoresTree(t *testing.T) {
	m, _ := newTestModel(t, nil)
	loadData(t, m)
	before := rowTitles(m)
	press(m, "/")
	press(m, "z")
	press(m, "esc")
	if m.filtering {
		t.Fatalf("expected filter closed")
	}
	if strings.Join(rowTitles(m), ",") != strings.Join(before, ",") {
		t.Fatalf("expected tree restored, got %v", rowTitles(m))
	}
}

func TestCopyRoute(t *testing.T) {
	prev := clipboardWriteAll
	defer func() { clipboardWriteAll = prev }()
	var copied string
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}

	m, _ := newTestModel(t, nil)
	press(m, "y")
	if copied != "/abc/discussions" {
		t.Fatalf("expected current route copied, got %q", copied)
	}
	if m.statusErr {
		t.Fatalf("unexpected error status %q", m.status)
	}
}

func TestFlagsChangedRebuildsGroups(t *testing.T) {
	m, _ := newTestModel(t, nil)
	data := testData()
	data.Community.ChatCategories = []types.ChatCategory{{Name: "Lounge", Channels: []types.ChatChannel{{ID: 1, Name: "lobby"}}}}
	m.Update(dataLoadedMsg{data: data})
	if hasRow(m, "Chat") {
		t.Fatalf("chat should be hidden without the flag")
	}
	m.Update(FlagsChanged(map[string]bool{sidebar.FlagChat: true}))
	if !hasRow(m, "Chat") || !hasRow(m, "Lounge") {
		t.Fatalf("expected chat group after flag reload, got %v", rowTitles(m))
	}
}

func TestWizardOverlayFlow(t *testing.T) {
	tx := txsign.Transaction{ChainID: "ethereum", Description: "Create proposal", Payload: []byte{1, 2}}
	chain := txsign.NewDemoChain(txsign.OutcomeFailed, 0)
	m, _ := newTestModel(t, nil, WithSigner(tx, chain.Transact))

	press(m, "s")
	if m.overlay == nil || m.overlay.stage != txsign.StageIntro {
		t.Fatalf("expected intro overlay")
	}
	cmd := press(m, "c")
	if m.overlay.stage != txsign.StageWaiting {
		t.Fatalf("expected waiting stage, got %s", m.overlay.stage)
	}
	if !strings.Contains(m.overlay.view(80), "0x0102") {
		t.Fatalf("expected CLI command in waiting view")
	}
	m.Update(runUntilWizardDone(t, cmd))
	if m.overlay.stage != txsign.StageRejected {
		t.Fatalf("expected rejected stage, got %s", m.overlay.stage)
	}

	press(m, "r")
	if m.overlay.stage != txsign.StageIntro {
		t.Fatalf("expected retry to return to intro")
	}
	press(m, "esc")
	if m.overlay != nil {
		t.Fatalf("expected overlay closed")
	}
}

func TestWizardWithoutSignerSetsStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(m, "s")
	if m.overlay != nil || m.status == "" {
		t.Fatalf("expected status message instead of overlay")
	}
}

func runUntilWizardDone(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected command")
	}
	msg := cmd()
	if done, ok := msg.(wizardDoneMsg); ok {
		return done
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if done, ok := c().(wizardDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatalf("wizard did not finish")
	return nil
}

func TestViewIncludesRouteAndPreview(t *testing.T) {
	m, _ := newTestModel(t, nil, WithMarkdownStyle("notty"))
	loadData(t, m)
	selectRow(t, m, rowSection, "General")
	if !strings.Contains(m.render(), "/abc/discussions") {
		t.Fatalf("expected route in header")
	}
	if !strings.Contains(m.previewMarkdown(m.selectedRow()), "General chatter.") {
		t.Fatalf("expected topic description in preview")
	}
	if !m.View().AltScreen {
		t.Fatalf("expected alt screen")
	}
}
