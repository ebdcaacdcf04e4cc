package browse

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/newsanalyzer/govctl/internal/api"
	"github.com/newsanalyzer/govctl/internal/capability"
	"github.com/newsanalyzer/govctl/internal/cmd/output/browser"
	"github.com/newsanalyzer/govctl/internal/cmd/output/detail"
	"github.com/newsanalyzer/govctl/internal/cmd/output/treeview"
	"github.com/newsanalyzer/govctl/internal/hierarchy"
	"github.com/newsanalyzer/govctl/internal/navstate"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/theme"
)

type mode int

const (
	modeHome mode = iota
	modeList
	modeTree
	modeDetail
)

// homeEntry is one row of the entity-type selector. Admin entries carry
// an empty entityType and a status message instead.
type homeEntry struct {
	entityType string
	label      string
	hint       string
	adminNote  string
}

type pageLoadedMsg struct {
	seq  int
	page *api.Page
}

type forestLoadedMsg struct {
	seq    int
	forest []*hierarchy.Node
	report hierarchy.Report
}

type recordLoadedMsg struct {
	seq        int
	entityType registry.EntityTypeConfig
	rec        record.Record
}

type fetchFailedMsg struct {
	seq int
	err error
}

// shellModel composes the explorer: entity selector, list and hierarchy
// views, detail drill-down, search, and the navigation back-stack.
type shellModel struct {
	ctx     context.Context
	client  *api.Client
	reg     *registry.Registry
	palette theme.Palette

	mode   mode
	entity registry.EntityTypeConfig

	router    *navstate.HistoryRouter
	debouncer *navstate.Debouncer

	home       []homeEntry
	homeCursor int

	browser *browser.Model
	tree    *treeview.Model
	details []*detail.Model

	searchActive bool
	searchBuffer []rune

	pageSize    int
	expandDepth int

	// seq stamps every outstanding fetch so late responses from a
	// superseded request are dropped.
	seq int

	width  int
	height int
	status string

	headerStyle lipgloss.Style
	statusStyle lipgloss.Style
	footerStyle lipgloss.Style
}

type shellOptions struct {
	entityType  string
	location    navstate.Location
	pageSize    int
	expandDepth int
}

func newShellModel(ctx context.Context, client *api.Client, reg *registry.Registry, opts shellOptions) *shellModel {
	palette := theme.Current()
	m := &shellModel{
		ctx:         ctx,
		client:      client,
		reg:         reg,
		palette:     palette,
		mode:        modeHome,
		debouncer:   navstate.NewDebouncer(),
		pageSize:    opts.pageSize,
		expandDepth: opts.expandDepth,
		width:       100,
		height:      30,
	}
	if m.pageSize <= 0 {
		m.pageSize = browser.DefaultPageSize
	}
	m.headerStyle = palette.ForegroundStyle(theme.ColorPrimary).Bold(true)
	m.statusStyle = palette.ForegroundStyle(theme.ColorTextMuted)
	m.footerStyle = palette.ForegroundStyle(theme.ColorTextMuted)
	m.buildHome()

	if opts.entityType != "" {
		if cfg, ok := reg.Lookup(opts.entityType); ok {
			loc := opts.location
			loc.EntityType = cfg.ID
			m.enterEntity(cfg, loc)
		}
	}
	if m.router == nil {
		m.router = navstate.NewHistoryRouter(navstate.Location{})
	}
	return m
}

func (m *shellModel) buildHome() {
	m.home = m.home[:0]
	for _, id := range m.reg.Types() {
		cfg, ok := m.reg.Lookup(id)
		if !ok {
			continue
		}
		views := make([]string, 0, len(cfg.ViewModes))
		for _, v := range cfg.ViewModes {
			views = append(views, string(v))
		}
		m.home = append(m.home, homeEntry{
			entityType: cfg.ID,
			label:      cfg.Plural,
			hint:       strings.Join(views, ", "),
		})
	}
	if capability.IsAdmin(m.ctx) {
		m.home = append(m.home,
			homeEntry{
				label:     "import records",
				hint:      "admin",
				adminNote: "Import runs on the backend; see the operations runbook.",
			},
			homeEntry{
				label:     "sync reference data",
				hint:      "admin",
				adminNote: "Sync runs on the backend; see the operations runbook.",
			},
		)
	}
}

func (m *shellModel) Init() tea.Cmd {
	if m.mode == modeList && m.browser != nil {
		return tea.Batch(m.browser.SetLoading(), m.fetchListCmd())
	}
	if m.mode == modeTree {
		return m.fetchForestCmd()
	}
	return nil
}

// enterEntity mounts an entity type at the given location and prepares
// the matching view without fetching yet; Init or the caller issues the
// fetch command.
func (m *shellModel) enterEntity(cfg registry.EntityTypeConfig, loc navstate.Location) {
	m.entity = cfg
	if loc.View == "" {
		loc.View = string(cfg.DefaultView)
	}
	if !cfg.SupportsView(registry.ViewMode(loc.View)) {
		loc.View = string(cfg.DefaultView)
	}
	if m.router == nil {
		m.router = navstate.NewHistoryRouter(loc)
	} else {
		m.router.Push(loc)
	}
	m.details = nil
	m.searchActive = false
	m.searchBuffer = nil
	m.mountView(loc)
}

// mountView builds the component for the location's view mode.
func (m *shellModel) mountView(loc navstate.Location) {
	if loc.View == string(registry.ViewHierarchy) && m.entity.Hierarchy != nil {
		m.mode = modeTree
		m.tree = treeview.New(nil, *m.entity.Hierarchy,
			treeview.WithPalette(m.palette),
			treeview.WithSize(m.width, m.bodyHeight()),
			treeview.WithEmptyMessage(fmt.Sprintf("No %s found.", m.entity.Plural)),
		)
		return
	}
	m.mode = modeList
	m.browser = browser.New(m.entity,
		browser.WithPalette(m.palette),
		browser.WithSize(m.width, m.bodyHeight()),
		browser.WithPageSize(m.pageSize),
		browser.WithEmptyMessage(fmt.Sprintf("No %s found.", m.entity.Plural)),
	)
}

func (m *shellModel) location() navstate.Location {
	return m.router.Current()
}

func (m *shellModel) bodyHeight() int {
	h := m.height - 3
	if h < 4 {
		h = 4
	}
	return h
}

// fetchListCmd loads the page named by the current location, stamped
// with a fresh sequence number so superseded responses are ignored.
func (m *shellModel) fetchListCmd() tea.Cmd {
	m.seq++
	seq := m.seq
	loc := m.location()
	sort := browser.SortState{}
	if m.browser != nil {
		sort = m.browser.Sort()
	}
	req := api.PageRequest{
		Page:      loc.Page,
		Size:      m.pageSize,
		SortField: sort.Field,
		Direction: sort.Direction,
		Query:     loc.Query,
	}
	ctx := m.ctx
	client := m.client
	route := m.entity.Route
	return func() tea.Msg {
		page, err := client.FetchPage(ctx, route, req)
		if err != nil {
			return fetchFailedMsg{seq: seq, err: err}
		}
		return pageLoadedMsg{seq: seq, page: page}
	}
}

// fetchForestCmd loads the full record set and assembles the tree,
// since the hierarchy is built client-side.
func (m *shellModel) fetchForestCmd() tea.Cmd {
	m.seq++
	seq := m.seq
	ctx := m.ctx
	client := m.client
	cfg := m.entity
	return func() tea.Msg {
		records, err := client.FetchAll(ctx, cfg.Route)
		if err != nil {
			return fetchFailedMsg{seq: seq, err: err}
		}
		opts := hierarchy.Options{IDField: cfg.IDField}
		if cfg.Hierarchy != nil {
			opts.ParentField = cfg.Hierarchy.ParentField
			opts.LabelField = cfg.Hierarchy.LabelField
		}
		forest, report := hierarchy.Build(records, opts)
		return forestLoadedMsg{seq: seq, forest: forest, report: report}
	}
}

func (m *shellModel) fetchRelatedCmd(entityType, id string) tea.Cmd {
	cfg, ok := m.reg.Lookup(entityType)
	if !ok {
		m.status = fmt.Sprintf("Unknown entity type %q.", entityType)
		return nil
	}
	m.seq++
	seq := m.seq
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		rec, err := client.FetchOne(ctx, cfg.Route, id)
		if err != nil {
			return fetchFailedMsg{seq: seq, err: err}
		}
		return recordLoadedMsg{seq: seq, entityType: cfg, rec: rec}
	}
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.browser != nil {
			m.browser.SetSize(m.width, m.bodyHeight())
		}
		if m.tree != nil {
			m.tree.SetSize(m.width, m.bodyHeight())
		}
		for _, d := range m.details {
			d.SetSize(m.width, m.bodyHeight())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navstate.DebounceFiredMsg:
		if m.searchActive && m.debouncer.Fired(msg) {
			return m.commitSearch()
		}
		return m, nil

	case pageLoadedMsg:
		if msg.seq != m.seq || m.browser == nil {
			return m, nil
		}
		m.browser.SetPage(msg.page)
		return m, nil

	case forestLoadedMsg:
		if msg.seq != m.seq || m.tree == nil {
			return m, nil
		}
		if m.tree.VisibleCount() == 0 {
			// First load: seed expansion from the real forest, since
			// the placeholder tree seeded against no data.
			depth := m.entity.Hierarchy.DefaultExpandDepth
			if m.expandDepth > 0 {
				depth = m.expandDepth
			}
			m.tree = treeview.New(msg.forest, *m.entity.Hierarchy,
				treeview.WithPalette(m.palette),
				treeview.WithSize(m.width, m.bodyHeight()),
				treeview.WithEmptyMessage(fmt.Sprintf("No %s found.", m.entity.Plural)),
				treeview.WithExpanded(hierarchy.SeedExpanded(msg.forest, depth)),
			)
		} else {
			m.tree.SetForest(msg.forest)
		}
		if msg.report.Orphans > 0 || msg.report.Cycles > 0 {
			m.status = fmt.Sprintf("%d of %d records shown; %d orphaned, %d cyclic.",
				msg.report.Kept, msg.report.Total, msg.report.Orphans, msg.report.Cycles)
		} else {
			m.status = fmt.Sprintf("%d records.", msg.report.Kept)
		}
		return m, nil

	case recordLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.pushDetail(msg.entityType, msg.rec), nil

	case fetchFailedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if m.mode == modeList && m.browser != nil {
			m.browser.SetError(msg.err)
		} else {
			m.status = msg.err.Error()
		}
		return m, nil

	case browser.PageRequestedMsg:
		m.router.Replace(m.location().WithPage(msg.Page))
		return m, tea.Batch(m.browser.SetLoading(), m.fetchListCmd())

	case browser.RetryRequestedMsg:
		return m, tea.Batch(m.browser.SetLoading(), m.fetchListCmd())

	case browser.RowSelectedMsg:
		return m.pushDetail(m.entity, msg.Record), nil

	case treeview.NodeSelectedMsg:
		return m.pushDetail(m.entity, msg.Record), nil

	case detail.RelatedSelectedMsg:
		return m, m.fetchRelatedCmd(msg.EntityType, msg.ID)

	case detail.CopiedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("Copied %s.", msg.Value)
		}
		return m, nil

	case detail.ClosedMsg:
		return m.popView(), nil
	}

	return m.updateActive(msg)
}

// pushDetail opens a detail page for rec, recording the step so esc can
// return to the originating view.
func (m *shellModel) pushDetail(cfg registry.EntityTypeConfig, rec record.Record) tea.Model {
	d := detail.New(cfg, rec,
		detail.WithPalette(m.palette),
		detail.WithSize(m.width, m.bodyHeight()),
	)
	m.details = append(m.details, d)
	loc := m.location()
	m.router.Push(loc)
	m.mode = modeDetail
	return m
}

// popView steps back one navigation entry: detail → previous detail or
// originating view, view → home.
func (m *shellModel) popView() tea.Model {
	if len(m.details) > 0 {
		m.details = m.details[:len(m.details)-1]
		m.router.Back()
		if len(m.details) > 0 {
			return m
		}
		if m.tree != nil && m.location().View == string(registry.ViewHierarchy) {
			m.mode = modeTree
		} else {
			m.mode = modeList
		}
		return m
	}
	if m.mode != modeHome {
		m.router.Back()
		m.mode = modeHome
		m.browser = nil
		m.tree = nil
		m.status = ""
	}
	return m
}

func (m *shellModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	switch m.mode {
	case modeHome:
		return m.handleHomeKey(key)
	case modeList, modeTree:
		switch key {
		case "q":
			return m, tea.Quit
		case "esc", "backspace":
			return m.popView(), nil
		case "/":
			if m.mode == modeList {
				m.searchActive = true
				m.searchBuffer = []rune(m.location().Query)
				m.status = ""
				return m, nil
			}
			m.status = "Search applies to the list view; press v to switch."
			return m, nil
		case "v":
			return m.toggleView()
		}
	}

	return m.updateActive(msg)
}

func (m *shellModel) handleHomeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case "down", "j":
		if m.homeCursor < len(m.home)-1 {
			m.homeCursor++
		}
	case "home", "g":
		m.homeCursor = 0
	case "end", "G":
		m.homeCursor = len(m.home) - 1
	case "enter":
		if m.homeCursor < 0 || m.homeCursor >= len(m.home) {
			return m, nil
		}
		entry := m.home[m.homeCursor]
		if entry.entityType == "" {
			m.status = entry.adminNote
			return m, nil
		}
		cfg, ok := m.reg.Lookup(entry.entityType)
		if !ok {
			return m, nil
		}
		m.enterEntity(cfg, navstate.Location{EntityType: cfg.ID})
		return m, m.Init()
	}
	return m, nil
}

func (m *shellModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.searchBuffer = nil
		m.debouncer.Cancel()
		return m, nil
	case "enter":
		return m.commitSearch()
	case "backspace":
		if len(m.searchBuffer) > 0 {
			m.searchBuffer = m.searchBuffer[:len(m.searchBuffer)-1]
			return m, m.debouncer.Touch()
		}
		m.searchActive = false
		m.debouncer.Cancel()
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !msg.Alt {
		appended := false
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				continue
			}
			m.searchBuffer = append(m.searchBuffer, r)
			appended = true
		}
		if appended {
			return m, m.debouncer.Touch()
		}
	}
	return m, nil
}

// commitSearch applies the buffered query. Refinements use Replace so
// every keystroke burst leaves one history entry.
func (m *shellModel) commitSearch() (tea.Model, tea.Cmd) {
	m.searchActive = false
	m.debouncer.Cancel()
	query := strings.TrimSpace(string(m.searchBuffer))
	m.searchBuffer = nil

	loc := m.location().WithQuery(query)
	if loc == m.location() {
		return m, nil
	}
	m.router.Replace(loc)
	return m, tea.Batch(m.browser.SetLoading(), m.fetchListCmd())
}

func (m *shellModel) toggleView() (tea.Model, tea.Cmd) {
	var target registry.ViewMode
	if m.mode == modeTree {
		target = registry.ViewList
	} else {
		target = registry.ViewHierarchy
	}
	if !m.entity.SupportsView(target) || (target == registry.ViewHierarchy && m.entity.Hierarchy == nil) {
		m.status = fmt.Sprintf("%s only supports the %s view.", m.entity.Plural, m.entity.DefaultView)
		return m, nil
	}
	loc := m.location().WithView(string(target))
	m.router.Replace(loc)
	m.mountView(loc)
	if m.mode == modeTree {
		return m, m.fetchForestCmd()
	}
	return m, tea.Batch(m.browser.SetLoading(), m.fetchListCmd())
}

func (m *shellModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeList:
		if m.browser != nil {
			m.browser, cmd = m.browser.Update(msg)
		}
	case modeTree:
		if m.tree != nil {
			m.tree, cmd = m.tree.Update(msg)
		}
	case modeDetail:
		if len(m.details) > 0 {
			top := m.details[len(m.details)-1]
			m.details[len(m.details)-1], cmd = top.Update(msg)
		}
	}
	return m, cmd
}

func (m *shellModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	switch m.mode {
	case modeHome:
		b.WriteString(m.viewHome())
	case modeList:
		if m.browser != nil {
			b.WriteString(m.browser.View())
		}
	case modeTree:
		if m.tree != nil {
			b.WriteString(m.tree.View())
		}
	case modeDetail:
		if len(m.details) > 0 {
			b.WriteString(m.details[len(m.details)-1].View())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footerLine())
	return b.String()
}

func (m *shellModel) headerLine() string {
	if m.mode == modeHome {
		return m.headerStyle.Render("govctl browse") +
			m.statusStyle.Render("  select an entity type")
	}
	title := m.headerStyle.Render("govctl browse · " + m.entity.Plural)
	encoded := m.location().Encode(string(m.entity.DefaultView))
	crumbs := m.breadcrumbs()
	line := title
	if encoded != "" {
		line += m.statusStyle.Render("  " + encoded)
	}
	if crumbs != "" {
		line += m.statusStyle.Render("  " + crumbs)
	}
	if m.searchActive {
		line += m.headerStyle.Render("  /" + string(m.searchBuffer))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m *shellModel) breadcrumbs() string {
	if len(m.details) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.details)+1)
	parts = append(parts, m.entity.Plural)
	for range m.details {
		parts = append(parts, "detail")
	}
	return strings.Join(parts, " > ")
}

func (m *shellModel) viewHome() string {
	var b strings.Builder
	selected := m.palette.ForegroundStyle(theme.ColorHighlight).Bold(true)
	normal := m.palette.ForegroundStyle(theme.ColorTextPrimary)
	hint := m.statusStyle

	for i, entry := range m.home {
		cursor := "  "
		style := normal
		if i == m.homeCursor {
			cursor = "> "
			style = selected
		}
		b.WriteString(cursor + style.Render(entry.label))
		if entry.hint != "" {
			b.WriteString(hint.Render("  (" + entry.hint + ")"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *shellModel) footerLine() string {
	var hints string
	switch m.mode {
	case modeHome:
		hints = "enter open · q quit"
	case modeList:
		hints = "enter detail · / search · v view · 1-9 sort · n/p page · esc back · q quit"
	case modeTree:
		hints = "enter select · arrows navigate · space toggle · v view · esc back · q quit"
	case modeDetail:
		hints = "digits related · c copy id · esc back"
	}
	line := m.footerStyle.Render(hints)
	if m.status != "" {
		line += m.statusStyle.Render("  " + m.status)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}
