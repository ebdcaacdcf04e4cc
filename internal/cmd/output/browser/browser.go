// Package browser renders a page of records as a sortable, paginated
// table driven by an entity type's column configuration.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/newsanalyzer/govctl/internal/api"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/theme"
)

// state tracks the load lifecycle of the current page.
type state int

const (
	stateLoading state = iota
	stateLoaded
	stateError
)

// narrowWidthThreshold switches the table to stacked cards.
const narrowWidthThreshold = 72

// SortState is the active sort column and direction.
type SortState struct {
	Field     string
	Direction api.SortDirection
}

// PageRequestedMsg asks the owner to load a page. The browser never
// fetches data itself; it emits requests and waits for SetPage.
type PageRequestedMsg struct {
	Page int
	Sort SortState
}

// RowSelectedMsg is emitted when the user activates a row.
type RowSelectedMsg struct {
	Record record.Record
}

// RetryRequestedMsg asks the owner to retry a failed load.
type RetryRequestedMsg struct {
	Page int
	Sort SortState
}

// Model is the list view.
type Model struct {
	cfg     registry.EntityTypeConfig
	palette theme.Palette

	records       []record.Record
	totalElements int
	totalPages    int
	page          int
	pageSize      int
	sort          SortState

	state   state
	loadErr error

	table   table.Model
	spinner spinner.Model
	width   int
	height  int

	emptyMessage string

	headerStyle   lipgloss.Style
	footerStyle   lipgloss.Style
	disabledStyle lipgloss.Style
	errorStyle    lipgloss.Style
	emptyStyle    lipgloss.Style
	cardTitle     lipgloss.Style
	cardSubtitle  lipgloss.Style
	cardBadge     lipgloss.Style
}

// Option configures a Model.
type Option func(*Model)

// WithPalette sets the theme palette.
func WithPalette(p theme.Palette) Option {
	return func(m *Model) {
		m.palette = p
	}
}

// WithSize sets the viewport dimensions.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithPageSize overrides the rows-per-page default.
func WithPageSize(size int) Option {
	return func(m *Model) {
		if size > 0 {
			m.pageSize = size
		}
	}
}

// WithEmptyMessage overrides the text shown for an empty result set.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) {
		m.emptyMessage = msg
	}
}

// DefaultPageSize matches the service's default page envelope size.
const DefaultPageSize = 20

// New builds a browser for the given entity type, starting in the
// loading state until the first SetPage.
func New(cfg registry.EntityTypeConfig, opts ...Option) *Model {
	m := &Model{
		cfg:          cfg,
		palette:      theme.Current(),
		pageSize:     DefaultPageSize,
		state:        stateLoading,
		width:        100,
		height:       20,
		emptyMessage: fmt.Sprintf("No %s found.", cfg.Plural),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyStyles()
	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.palette.ForegroundStyle(theme.ColorAccent)),
	)
	m.rebuildTable()
	return m
}

func (m *Model) applyStyles() {
	m.headerStyle = m.palette.ForegroundStyle(theme.ColorTextPrimary).Bold(true)
	m.footerStyle = m.palette.ForegroundStyle(theme.ColorTextSecondary)
	m.disabledStyle = m.palette.ForegroundStyle(theme.ColorTextMuted)
	m.errorStyle = m.palette.ForegroundStyle(theme.ColorDanger)
	m.emptyStyle = m.palette.ForegroundStyle(theme.ColorTextMuted).Italic(true)
	m.cardTitle = m.palette.ForegroundStyle(theme.ColorTextPrimary).Bold(true)
	m.cardSubtitle = m.palette.ForegroundStyle(theme.ColorTextSecondary)
	m.cardBadge = m.palette.ForegroundStyle(theme.ColorAccent)
}

// SetPage installs a loaded page of records.
func (m *Model) SetPage(page *api.Page) {
	m.records = page.Items
	m.totalElements = page.TotalElements
	m.totalPages = page.TotalPages
	m.page = page.Number
	m.state = stateLoaded
	m.loadErr = nil
	m.rebuildTable()
}

// SetLoading puts the browser back into the loading state, keeping the
// stale rows hidden until fresh data arrives.
func (m *Model) SetLoading() tea.Cmd {
	m.state = stateLoading
	return m.spinner.Tick
}

// SetError records a failed load.
func (m *Model) SetError(err error) {
	m.state = stateError
	m.loadErr = err
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.rebuildTable()
}

// Page returns the zero-indexed current page.
func (m *Model) Page() int {
	return m.page
}

// Sort returns the active sort state.
func (m *Model) Sort() SortState {
	return m.sort
}

// Selected returns the record under the cursor.
func (m *Model) Selected() (record.Record, bool) {
	idx := m.table.Cursor()
	if m.state != stateLoaded || idx < 0 || idx >= len(m.records) {
		return nil, false
	}
	return m.records[idx], true
}

// HasNextPage reports whether a later page exists.
func (m *Model) HasNextPage() bool {
	return m.page < m.totalPages-1
}

// HasPreviousPage reports whether an earlier page exists.
func (m *Model) HasPreviousPage() bool {
	return m.page > 0
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	key := msg.String()

	if m.state == stateError {
		if key == "r" {
			return m, request[RetryRequestedMsg](m.page, m.sort)
		}
		return m, nil
	}
	if m.state != stateLoaded {
		return m, nil
	}

	switch key {
	case "enter":
		if rec, ok := m.Selected(); ok {
			return m, func() tea.Msg { return RowSelectedMsg{Record: rec} }
		}
		return m, nil

	case "n", "pgdown":
		// Disabled on the last page.
		if !m.HasNextPage() {
			return m, nil
		}
		return m, request[PageRequestedMsg](m.page+1, m.sort)

	case "p", "pgup":
		// Disabled on the first page.
		if !m.HasPreviousPage() {
			return m, nil
		}
		return m, request[PageRequestedMsg](m.page-1, m.sort)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.sortByOrdinal(int(key[0] - '0'))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func request[T PageRequestedMsg | RetryRequestedMsg](page int, sort SortState) tea.Cmd {
	return func() tea.Msg {
		return T{Page: page, Sort: sort}
	}
}

// sortByOrdinal activates sorting on the n-th visible column. A second
// activation of the same column flips ascending to descending; after
// descending the cycle returns to ascending.
func (m *Model) sortByOrdinal(n int) (*Model, tea.Cmd) {
	cols := m.visibleColumns()
	if n < 1 || n > len(cols) {
		return m, nil
	}
	col := cols[n-1]
	if !col.Sortable {
		return m, nil
	}

	field := col.ID
	if m.sort.Field == field && m.sort.Direction == api.SortAscending {
		m.sort.Direction = api.SortDescending
	} else {
		m.sort = SortState{Field: field, Direction: api.SortAscending}
	}

	// Sorting restarts from the first page.
	return m, request[PageRequestedMsg](0, m.sort)
}

func (m *Model) visibleColumns() []registry.Column {
	wide := m.width >= narrowWidthThreshold
	cols := make([]registry.Column, 0, len(m.cfg.Columns))
	for _, col := range m.cfg.Columns {
		if col.WideOnly && !wide {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

func (m *Model) rebuildTable() {
	cols := m.visibleColumns()
	if len(cols) == 0 {
		return
	}

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	colWidth := width / len(cols)

	tableCols := make([]table.Column, 0, len(cols))
	for _, col := range cols {
		title := col.Title
		if col.ID == m.sort.Field && m.sort.Field != "" {
			if m.sort.Direction == api.SortDescending {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		tableCols = append(tableCols, table.Column{Title: title, Width: colWidth})
	}

	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		row := make(table.Row, 0, len(cols))
		for _, col := range cols {
			row = append(row, registry.RenderCell(m.cfg, col, rec))
		}
		rows = append(rows, row)
	}

	height := m.height - 4
	if height < 3 {
		height = 3
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(m.palette.Adaptive(theme.ColorTextPrimary)).
		BorderForeground(m.palette.Adaptive(theme.ColorBorder)).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(m.palette.Adaptive(theme.ColorPrimaryText)).
		Background(m.palette.Adaptive(theme.ColorPrimary)).
		Bold(true)

	m.table = table.New(
		table.WithColumns(tableCols),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

func (m *Model) View() string {
	switch m.state {
	case stateLoading:
		return m.spinner.View() + " Loading " + m.cfg.Plural + "…"
	case stateError:
		msg := "Failed to load " + m.cfg.Plural + "."
		if m.loadErr != nil {
			msg = m.loadErr.Error()
		}
		return m.errorStyle.Render(msg) + "\n" + m.footerStyle.Render("Press r to retry.")
	}

	if len(m.records) == 0 {
		return m.emptyStyle.Render(m.emptyMessage)
	}

	var body string
	if m.width < narrowWidthThreshold {
		body = m.viewCards()
	} else {
		body = m.table.View()
	}
	return body + "\n" + m.footerLine()
}

// viewCards stacks each record as a compact card for narrow terminals.
func (m *Model) viewCards() string {
	var b strings.Builder
	for i, rec := range m.records {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := registry.FormatCell(fieldValue(rec, m.cfg.Card.TitleField))
		b.WriteString(m.cardTitle.Render(title))
		if m.cfg.Card.BadgeField != "" {
			if badge := record.StringField(rec, m.cfg.Card.BadgeField); badge != "" {
				b.WriteString(" " + m.cardBadge.Render("["+registry.FormatValue(badge)+"]"))
			}
		}
		if m.cfg.Card.SubtitleField != "" {
			if subtitle := registry.FormatCell(fieldValue(rec, m.cfg.Card.SubtitleField)); subtitle != registry.Placeholder {
				b.WriteString("\n  " + m.cardSubtitle.Render(subtitle))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func fieldValue(rec record.Record, path string) any {
	value, _ := record.Field(rec, path)
	return value
}

// footerLine reports the visible range in one-based positions, e.g.
// "Showing 21 to 25 of 25".
func (m *Model) footerLine() string {
	if m.totalElements == 0 {
		return m.footerStyle.Render("Showing 0 of 0")
	}

	first := m.page*m.pageSize + 1
	last := first + len(m.records) - 1

	parts := []string{
		fmt.Sprintf("Showing %d to %d of %d", first, last, m.totalElements),
		fmt.Sprintf("Page %d of %d", m.page+1, m.totalPages),
	}

	prev := "p prev"
	if !m.HasPreviousPage() {
		prev = m.disabledStyle.Render(prev)
	}
	next := "n next"
	if !m.HasNextPage() {
		next = m.disabledStyle.Render(next)
	}
	parts = append(parts, prev, next)

	return m.footerStyle.Render(strings.Join(parts, " · "))
}
