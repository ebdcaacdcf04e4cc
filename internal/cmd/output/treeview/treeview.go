// Package treeview renders an expandable hierarchy of records as an
// interactive bubbletea component.
package treeview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/newsanalyzer/govctl/internal/hierarchy"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/theme"
)

const (
	glyphCollapsed = "▸"
	glyphExpanded  = "▾"
	glyphLeaf      = " "

	indentWidth = 2
)

// NodeSelectedMsg is emitted when the user activates a leaf node.
type NodeSelectedMsg struct {
	ID     string
	Record record.Record
}

// Model is the hierarchy view. It owns the expansion state and a
// derived flat projection of the visible rows; the projection is
// rebuilt after every structural change rather than patched.
type Model struct {
	forest   []*hierarchy.Node
	expanded hierarchy.ExpandedSet
	flat     []hierarchy.FlatNode
	cursor   int
	offset   int

	spec         registry.HierarchySpec
	palette      theme.Palette
	width        int
	height       int
	emptyMessage string

	labelStyle    lipgloss.Style
	focusedStyle  lipgloss.Style
	badgeStyle    lipgloss.Style
	metadataStyle lipgloss.Style
	glyphStyle    lipgloss.Style
	emptyStyle    lipgloss.Style
}

// Option configures a Model.
type Option func(*Model)

// WithPalette sets the theme palette used for rendering.
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

// WithEmptyMessage overrides the text shown when the forest is empty.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) {
		m.emptyMessage = msg
	}
}

// WithExpanded reuses a previously accumulated expansion state, so
// toggles survive leaving and re-entering the view.
func WithExpanded(set hierarchy.ExpandedSet) Option {
	return func(m *Model) {
		m.expanded = set
	}
}

// New builds a hierarchy view over the given forest. When no expansion
// state is supplied, branches above the hierarchy's default expand depth
// start expanded.
func New(forest []*hierarchy.Node, spec registry.HierarchySpec, opts ...Option) *Model {
	m := &Model{
		forest:       forest,
		spec:         spec,
		palette:      theme.Current(),
		width:        80,
		height:       20,
		emptyMessage: "No records to display.",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.expanded == nil {
		m.expanded = hierarchy.SeedExpanded(forest, spec.DefaultExpandDepth)
	}
	m.applyStyles()
	m.rebuild()
	return m
}

func (m *Model) applyStyles() {
	m.labelStyle = m.palette.ForegroundStyle(theme.ColorTextPrimary)
	m.focusedStyle = lipgloss.NewStyle().
		Foreground(m.palette.Adaptive(theme.ColorPrimaryText)).
		Background(m.palette.Adaptive(theme.ColorPrimary)).
		Bold(true)
	m.badgeStyle = m.palette.ForegroundStyle(theme.ColorAccent)
	m.metadataStyle = m.palette.ForegroundStyle(theme.ColorTextMuted)
	m.glyphStyle = m.palette.ForegroundStyle(theme.ColorTextSecondary)
	m.emptyStyle = m.palette.ForegroundStyle(theme.ColorTextMuted).Italic(true)
}

// SetPalette swaps the active theme.
func (m *Model) SetPalette(p theme.Palette) {
	m.palette = p
	m.applyStyles()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// SetForest replaces the tree contents, keeping expansion state and
// focus where possible.
func (m *Model) SetForest(forest []*hierarchy.Node) {
	var focusedID string
	if fn, ok := m.Focused(); ok {
		focusedID = fn.ID
	}
	m.forest = forest
	m.rebuild()
	if focusedID != "" {
		if idx := hierarchy.IndexOf(m.flat, focusedID); idx >= 0 {
			m.cursor = idx
		}
	}
	m.clampCursor()
	m.clampScroll()
}

// Expanded exposes the expansion state for reuse across views.
func (m *Model) Expanded() hierarchy.ExpandedSet {
	return m.expanded
}

// Focused returns the row under the cursor.
func (m *Model) Focused() (hierarchy.FlatNode, bool) {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return hierarchy.FlatNode{}, false
	}
	return m.flat[m.cursor], true
}

// VisibleCount returns the number of rows in the current projection.
func (m *Model) VisibleCount() int {
	return len(m.flat)
}

// Cursor returns the focused row index.
func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if len(m.flat) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.flat)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.flat) - 1
	case "right", "l":
		m.expandOrDescend()
	case "left", "h":
		m.collapseOrAscend()
	case " ":
		node := m.flat[m.cursor]
		if node.HasChildren {
			m.toggleFocused()
		} else {
			return m, selectNode(node)
		}
	case "enter":
		return m, selectNode(m.flat[m.cursor])
	}

	m.clampScroll()
	return m, nil
}

// expandOrDescend expands a collapsed branch, or moves into an already
// expanded branch's first child. Leaves do nothing.
func (m *Model) expandOrDescend() {
	node := m.flat[m.cursor]
	if !node.HasChildren {
		return
	}
	if !m.expanded.Has(node.ID) {
		m.expanded.Expand(node.ID)
		m.rebuild()
		return
	}
	if m.cursor < len(m.flat)-1 {
		m.cursor++
	}
}

// collapseOrAscend collapses an expanded branch, or moves focus to the
// parent of a leaf or collapsed node. Roots without a parent stay put.
func (m *Model) collapseOrAscend() {
	node := m.flat[m.cursor]
	if node.HasChildren && m.expanded.Has(node.ID) {
		m.expanded.Collapse(node.ID)
		m.rebuild()
		return
	}
	if node.ParentID == "" {
		return
	}
	if idx := hierarchy.IndexOf(m.flat, node.ParentID); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) toggleFocused() {
	node := m.flat[m.cursor]
	if !node.HasChildren {
		return
	}
	m.expanded.Toggle(node.ID)
	m.rebuild()
}

func selectNode(node hierarchy.FlatNode) tea.Cmd {
	return func() tea.Msg {
		return NodeSelectedMsg{ID: node.ID, Record: node.Node.Record}
	}
}

// rebuild recomputes the flat projection and keeps the cursor on a
// valid row. Collapsing an ancestor of the focused row moves focus to
// that ancestor, since its subtree is no longer visible.
func (m *Model) rebuild() {
	var focusedID string
	if fn, ok := m.Focused(); ok {
		focusedID = fn.ID
	}

	m.flat = hierarchy.Flatten(m.forest, m.expanded)

	if focusedID != "" {
		if idx := hierarchy.IndexOf(m.flat, focusedID); idx >= 0 {
			m.cursor = idx
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// clampScroll keeps the cursor inside the rendered window.
func (m *Model) clampScroll() {
	if m.height <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) View() string {
	if len(m.flat) == 0 {
		return m.emptyStyle.Render(m.emptyMessage)
	}

	end := m.offset + m.height
	if m.height <= 0 || end > len(m.flat) {
		end = len(m.flat)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(m.flat[i], i == m.cursor))
	}
	return b.String()
}

func (m *Model) renderRow(node hierarchy.FlatNode, focused bool) string {
	indent := strings.Repeat(" ", node.Depth*indentWidth)

	glyph := glyphLeaf
	if node.HasChildren {
		if m.expanded.Has(node.ID) {
			glyph = glyphExpanded
		} else {
			glyph = glyphCollapsed
		}
	}

	label := record.StringField(node.Node.Record, m.spec.LabelField)
	if label == "" {
		label = node.ID
	}

	var parts []string
	if focused {
		parts = append(parts, indent+glyph+" "+m.focusedStyle.Render(label))
	} else {
		parts = append(parts, indent+m.glyphStyle.Render(glyph)+" "+m.labelStyle.Render(label))
	}

	if m.spec.BadgeField != "" {
		if badge := record.StringField(node.Node.Record, m.spec.BadgeField); badge != "" {
			parts = append(parts, m.badgeStyle.Render("["+registry.FormatValue(badge)+"]"))
		}
	}

	for _, field := range m.spec.MetadataFields {
		if value := record.StringField(node.Node.Record, field); value != "" {
			parts = append(parts, m.metadataStyle.Render(value))
		}
	}

	row := strings.Join(parts, " ")
	if m.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	return row
}
