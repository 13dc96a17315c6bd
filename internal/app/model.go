package app

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone/v2"

	"commonwealth/internal/config"
	"commonwealth/internal/datasource"
	"commonwealth/internal/logging"
	"commonwealth/internal/routes"
	"commonwealth/internal/sidebar"
	"commonwealth/internal/toggletree"
	"commonwealth/internal/txsign"
	"commonwealth/internal/types"
)

const (
	minListWidth     = 24
	maxListWidth     = 40
	minContentHeight = 6
	defaultWidth     = 100
	defaultHeight    = 30

	previewChildLimit = 5
)

type Model struct {
	ctx           context.Context
	communityID   string
	source        datasource.Source
	builder       sidebar.Builder
	trees         *toggletree.Store
	flags         *config.Flags
	nav           *routes.Navigator
	logger        logging.Logger
	data          *types.CommunityData
	loadErr       error
	loading       bool
	groups        []sidebar.Group
	list          list.Model
	delegate      *sidebarDelegate
	zones         *zone.Manager
	filter        textinput.Model
	filtering     bool
	keys          keyMap
	help          help.Model
	hoverKey      string
	hoverPreview  bool
	markdownStyle string
	tx            *txsign.Transaction
	txFn          txsign.TxFunc
	signOpts      []txsign.Option
	overlay       *wizardOverlay
	status        string
	statusErr     bool
	menuResets    int
	width         int
	height        int
}

type ModelOption func(*Model)

func WithSidebarBuilder(builder sidebar.Builder) ModelOption {
	return func(m *Model) {
		if builder != nil {
			m.builder = builder
		}
	}
}

func WithNavigator(nav *routes.Navigator) ModelOption {
	return func(m *Model) {
		if nav != nil {
			m.nav = nav
		}
	}
}

func WithLogger(logger logging.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithHoverPreview(enabled bool) ModelOption {
	return func(m *Model) {
		m.hoverPreview = enabled
	}
}

func WithMarkdownStyle(style string) ModelOption {
	return func(m *Model) {
		m.markdownStyle = strings.TrimSpace(style)
	}
}

func WithSigner(tx txsign.Transaction, fn txsign.TxFunc, opts ...txsign.Option) ModelOption {
	return func(m *Model) {
		if fn == nil {
			return
		}
		m.tx = &tx
		m.txFn = fn
		m.signOpts = opts
	}
}

func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func NewModel(communityID string, source datasource.Source, trees *toggletree.Store, flags *config.Flags, opts ...ModelOption) *Model {
	m := &Model{
		ctx:          context.Background(),
		communityID:  strings.TrimSpace(communityID),
		source:       source,
		builder:      sidebar.NewDefaultBuilder(),
		trees:        trees,
		flags:        flags,
		logger:       logging.Nop(),
		keys:         defaultKeyMap(),
		help:         help.New(),
		hoverPreview: true,
		zones:        zone.New(),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.nav == nil {
		m.nav = routes.NewNavigator("/"+m.communityID, routes.DefaultRedirects())
	}
	m.delegate = &sidebarDelegate{zones: m.zones}
	m.list = list.New(nil, m.delegate, minListWidth, defaultHeight)
	m.list.SetShowTitle(false)
	m.list.SetShowStatusBar(false)
	m.list.SetShowHelp(false)
	m.list.SetShowPagination(false)
	m.list.SetFilteringEnabled(false)
	m.filter = textinput.New()
	m.filter.Prompt = "/ "
	m.filter.Placeholder = "filter sections"
	m.resize(m.width, m.height)
	m.rebuild()
	return m
}

func Run(ctx context.Context, m *Model, flagsPath string, baseFlags map[string]bool) error {
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if strings.TrimSpace(flagsPath) != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		watcher := config.NewFlagWatcher(flagsPath, baseFlags,
			func(values map[string]bool) { p.Send(FlagsChanged(values)) },
			config.WithFlagErrorHandler(func(err error) {
				m.logger.Warn("flag_reload_failed", logging.F("error", err))
			}),
		)
		go func() {
			if err := watcher.Run(watchCtx); err != nil && watchCtx.Err() == nil {
				m.logger.Warn("flag_watcher_stopped", logging.F("error", err))
			}
		}()
	}
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.loading = true
	ctx, source, id := m.ctx, m.source, m.communityID
	return func() tea.Msg {
		data, err := source.Load(ctx, id)
		return dataLoadedMsg{data: data, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case dataLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			m.logger.Warn("community_load_failed", logging.F("community", m.communityID), logging.F("error", msg.err))
			m.setStatusError("load failed: " + msg.err.Error())
		} else {
			m.data = msg.data
			m.setStatus("")
		}
		m.rebuild()
		return m, nil
	case flagsChangedMsg:
		if m.flags != nil {
			m.flags.Replace(msg.values)
		}
		m.logger.Info("flags_reloaded", logging.F("count", len(msg.values)))
		m.setStatus("flags reloaded")
		m.rebuild()
		return m, nil
	case wizardDoneMsg:
		if m.overlay != nil {
			m.overlay.finish(msg)
		}
		return m, nil
	case spinner.TickMsg:
		if m.overlay != nil {
			return m, m.overlay.update(msg)
		}
		return m, nil
	case tea.MouseClickMsg:
		return m, m.handleClick(msg)
	case tea.MouseMotionMsg:
		m.handleHover(msg)
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if m.overlay != nil {
		if keyStr == "ctrl+c" {
			m.overlay.stop()
			return m, tea.Quit
		}
		if keyStr == "y" && m.overlay.stage == txsign.StageWaiting && m.overlay.mode == txsign.ModeCLI {
			m.copyWithStatus(m.overlay.wizard.Transaction().SigningCommand(), "signing command copied")
			return m, nil
		}
		cmd, closed := m.overlay.handleKey(m.ctx, keyStr)
		if closed {
			m.overlay = nil
		}
		return m, cmd
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue("")
		m.refreshRows()
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Activate):
		m.activate(m.selectedRow())
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyWithStatus(m.nav.Current(), "copied "+m.nav.Current())
		return m, nil
	case key.Matches(msg, m.keys.Sign):
		return m, m.openWizard()
	case key.Matches(msg, m.keys.Back):
		if m.nav.Back() {
			m.rebuild()
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("reloading…")
		return m, m.loadCmd()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeFilter()
		m.refreshRows()
		return m, nil
	case "enter":
		m.activate(m.selectedRow())
		return m, nil
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshRows()
	m.list.Select(0)
	return m, cmd
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
}

// ResetMenu closes the filter and any overlay after a row navigates.
func (m *Model) ResetMenu() {
	m.menuResets++
	if m.filtering {
		m.closeFilter()
	}
	if m.overlay != nil {
		m.overlay.stop()
		m.overlay = nil
	}
}

func (m *Model) openWizard() tea.Cmd {
	if m.txFn == nil || m.tx == nil {
		m.setStatus("signing is not configured")
		return nil
	}
	opts := append([]txsign.Option{txsign.WithLogger(m.logger)}, m.signOpts...)
	m.overlay = newWizardOverlay(txsign.NewWizard(*m.tx, opts...), m.txFn)
	return nil
}

func (m *Model) activate(row *sidebarRow) {
	if row == nil || row.onClick == nil {
		return
	}
	selected := row.key()
	if err := row.onClick(m.ctx); err != nil {
		m.setStatusError(err.Error())
	} else {
		m.setStatus("")
	}
	m.rebuild()
	m.selectKey(selected)
}

func (m *Model) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft || m.overlay != nil {
		return nil
	}
	index, row := m.rowAt(msg)
	if row == nil {
		return nil
	}
	m.list.Select(index)
	m.activate(row)
	return nil
}

func (m *Model) handleHover(msg tea.MouseMotionMsg) {
	_, row := m.rowAt(msg)
	m.setHover(row)
}

func (m *Model) setHover(row *sidebarRow) {
	hovered := ""
	if row != nil {
		hovered = row.key()
	}
	m.hoverKey = hovered
	m.delegate.hoverKey = hovered
}

func (m *Model) rowAt(msg tea.MouseMsg) (int, *sidebarRow) {
	for i, item := range m.list.Items() {
		row, ok := item.(*sidebarRow)
		if !ok {
			continue
		}
		info := m.zones.Get(row.zoneID())
		if info != nil && info.InBounds(msg) {
			return i, row
		}
	}
	return -1, nil
}

func (m *Model) env() *sidebar.Env {
	env := &sidebar.Env{
		CommunityID: m.communityID,
		Data:        m.data,
		Routes:      m.nav,
		Nav:         m.nav,
		Menu:        m,
		Trees:       m.trees,
		Logger:      m.logger,
	}
	if m.flags != nil {
		env.Flags = m.flags
	}
	return env
}

func (m *Model) rebuild() {
	m.groups = m.builder.Build(m.ctx, m.env())
	m.refreshRows()
}

func (m *Model) refreshRows() {
	selected := ""
	if row := m.selectedRow(); row != nil {
		selected = row.key()
	}
	var rows []*sidebarRow
	if m.filtering && strings.TrimSpace(m.filter.Value()) != "" {
		rows = filterRows(allSectionRows(m.groups), m.filter.Value())
	} else {
		rows = buildSidebarRows(m.groups)
	}
	m.list.SetItems(rowsToItems(rows))
	m.selectKey(selected)
}

func (m *Model) selectKey(want string) {
	if want == "" {
		return
	}
	for i, item := range m.list.Items() {
		if row, ok := item.(*sidebarRow); ok && row.key() == want {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) selectedRow() *sidebarRow {
	row, _ := m.list.SelectedItem().(*sidebarRow)
	return row
}

func (m *Model) previewRow() *sidebarRow {
	if m.hoverPreview && m.hoverKey != "" {
		for _, item := range m.list.Items() {
			if row, ok := item.(*sidebarRow); ok && row.key() == m.hoverKey {
				return row
			}
		}
	}
	return m.selectedRow()
}

func (m *Model) copyWithStatus(text, success string) bool {
	if _, err := copyTextToClipboard(text); err != nil {
		m.setStatusError("copy failed: " + err.Error())
		return false
	}
	m.setStatus(success)
	return true
}

func (m *Model) setStatus(status string) {
	m.status = status
	m.statusErr = false
}

func (m *Model) setStatusError(status string) {
	m.status = status
	m.statusErr = true
}

func (m *Model) resize(width, height int) {
	m.width = max(width, minListWidth*2)
	m.height = max(height, minContentHeight)
	m.list.SetSize(m.listWidth(), m.listHeight())
	m.filter.SetWidth(m.listWidth() - 2)
}

func (m *Model) listWidth() int {
	return min(max(m.width/3, minListWidth), maxListWidth)
}

func (m *Model) listHeight() int {
	// header, filter line, status and help
	return max(m.height-4, 1)
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.zones.Scan(m.render()))
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	if m.hoverPreview {
		v.MouseMode = tea.MouseModeAllMotion
	}
	return v
}

func (m *Model) render() string {
	left := m.list.View()
	if m.filtering {
		left = filterPromptStyle.Render(m.filter.View()) + "\n" + left
	}
	left = lipgloss.NewStyle().Width(m.listWidth()).Render(left)

	contentWidth := max(m.width-m.listWidth()-3, 10)
	right := m.contentView(contentWidth)
	if m.overlay != nil {
		right = m.overlay.view(contentWidth)
	}
	divider := dividerStyle.Render(strings.Repeat("│\n", max(lipgloss.Height(left), lipgloss.Height(right))-1) + "│")
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", divider, " ", right)

	header := headerStyle.Render(m.title()) + "  " + statusStyle.Render(m.nav.Current())
	footer := m.statusLine() + "\n" + helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	return header + "\n" + body + "\n" + footer
}

func (m *Model) title() string {
	if m.data != nil && m.data.Community != nil && m.data.Community.Name != "" {
		return m.data.Community.Name
	}
	return m.communityID
}

func (m *Model) statusLine() string {
	switch {
	case m.status == "" && m.loading:
		return statusStyle.Render("loading community…")
	case m.statusErr:
		return statusErrorStyle.Render(m.status)
	default:
		return statusStyle.Render(m.status)
	}
}

func (m *Model) contentView(width int) string {
	return renderMarkdown(m.previewMarkdown(m.previewRow()), width, m.markdownStyle)
}

func (m *Model) previewMarkdown(row *sidebarRow) string {
	if m.data == nil {
		if m.loadErr != nil {
			return "Could not load **" + m.communityID + "**: " + m.loadErr.Error()
		}
		return "Loading **" + m.communityID + "**…"
	}
	if row == nil {
		return m.communityDescription()
	}
	if row.kind == rowGroup {
		return fmt.Sprintf("# %s\n\n%s%s", row.title, m.communityDescription(), collapsedChildren(row))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", row.title)
	if topic, ok := m.topicNamed(row.title, row.section); ok && topic.Description != "" {
		b.WriteString(topic.Description + "\n\n")
	}
	if row.target != "" {
		fmt.Fprintf(&b, "`%s`\n", row.target)
	}
	b.WriteString(collapsedChildren(row))
	return b.String()
}

// collapsedChildren lists the first children hidden under a collapsed row.
func collapsedChildren(row *sidebarRow) string {
	if !row.collapsible || row.expanded || len(row.children) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n")
	for _, title := range row.children[:min(len(row.children), previewChildLimit)] {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	if extra := len(row.children) - previewChildLimit; extra > 0 {
		fmt.Fprintf(&b, "- …and %d more\n", extra)
	}
	return b.String()
}

func (m *Model) communityDescription() string {
	if m.data == nil || m.data.Community == nil {
		return ""
	}
	return m.data.Community.Description
}

func (m *Model) topicNamed(names ...string) (types.Topic, bool) {
	if m.data == nil {
		return types.Topic{}, false
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, topic := range m.data.Topics {
			if topic.Name == name {
				return topic, true
			}
		}
	}
	return types.Topic{}, false
}
