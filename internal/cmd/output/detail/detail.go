// Package detail renders the full-identity page for a single record:
// header, ordered sections, and navigable cross references.
package detail

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/newsanalyzer/govctl/internal/render"
	"github.com/newsanalyzer/govctl/internal/theme"
)

// RelatedSelectedMsg asks the owner to navigate to a referenced entity.
type RelatedSelectedMsg struct {
	EntityType string
	ID         string
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	Value string
	Err   error
}

// ClosedMsg is emitted when the user dismisses the detail page.
type ClosedMsg struct{}

// relatedEntry is a resolved cross reference with the local record's
// foreign identity filled in.
type relatedEntry struct {
	ref registry.RelatedRef
	id  string
}

// Model is the scrollable detail page.
type Model struct {
	cfg     registry.EntityTypeConfig
	rec     record.Record
	palette theme.Palette

	viewport viewport.Model
	related  []relatedEntry
	width    int
	height   int
	noColor  bool
	status   string

	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	badgeStyle    lipgloss.Style
	sectionStyle  lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	relatedStyle  lipgloss.Style
	statusStyle   lipgloss.Style
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

// WithNoColor disables styled markdown output, for non-TTY rendering.
func WithNoColor() Option {
	return func(m *Model) {
		m.noColor = true
	}
}

// New builds a detail page for one record.
func New(cfg registry.EntityTypeConfig, rec record.Record, opts ...Option) *Model {
	m := &Model{
		cfg:     cfg,
		rec:     rec,
		palette: theme.Current(),
		width:   80,
		height:  20,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyStyles()
	m.resolveRelated()

	m.viewport = viewport.New(m.width, m.contentHeight())
	m.viewport.SetContent(m.renderContent())
	return m
}

func (m *Model) applyStyles() {
	m.titleStyle = m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true)
	m.subtitleStyle = m.palette.ForegroundStyle(theme.ColorTextSecondary)
	m.badgeStyle = m.palette.ForegroundStyle(theme.ColorAccent)
	m.sectionStyle = m.palette.ForegroundStyle(theme.ColorTextPrimary).Bold(true).Underline(true)
	m.labelStyle = m.palette.ForegroundStyle(theme.ColorTextMuted)
	m.valueStyle = m.palette.ForegroundStyle(theme.ColorTextPrimary)
	m.relatedStyle = m.palette.ForegroundStyle(theme.ColorInfo)
	m.statusStyle = m.palette.ForegroundStyle(theme.ColorSuccess)
}

// resolveRelated keeps only the cross references whose local field is
// populated on this record.
func (m *Model) resolveRelated() {
	m.related = m.related[:0]
	for _, ref := range m.cfg.Detail.Related {
		id := record.StringField(m.rec, ref.LocalField)
		if id == "" {
			continue
		}
		m.related = append(m.related, relatedEntry{ref: ref, id: id})
	}
}

// Related returns the labels of the navigable cross references, in
// display order.
func (m *Model) Related() []string {
	labels := make([]string, 0, len(m.related))
	for _, entry := range m.related {
		labels = append(labels, entry.ref.Label)
	}
	return labels
}

// SetSize updates the viewport dimensions and rewraps the content.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = m.contentHeight()
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) contentHeight() int {
	h := m.height - 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "backspace", "q":
		return m, func() tea.Msg { return ClosedMsg{} }

	case "c":
		return m, m.copyRecord()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(keyMsg.String()[0]-'0') - 1
		if idx >= len(m.related) {
			return m, nil
		}
		entry := m.related[idx]
		return m, func() tea.Msg {
			return RelatedSelectedMsg{EntityType: entry.ref.EntityType, ID: entry.id}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// copyRecord puts the record's identity field on the system clipboard.
func (m *Model) copyRecord() tea.Cmd {
	value := record.ID(m.rec, m.cfg.IdentityField())
	return func() tea.Msg {
		err := clipboard.WriteAll(value)
		return CopiedMsg{Value: value, Err: err}
	}
}

// SetStatus shows a transient message under the page.
func (m *Model) SetStatus(status string) {
	m.status = status
}

func (m *Model) View() string {
	view := m.viewport.View()
	footer := "esc back · c copy id · arrows scroll"
	if len(m.related) > 0 {
		footer = "1-9 open reference · " + footer
	}
	if m.status != "" {
		footer = m.statusStyle.Render(m.status) + " · " + footer
	}
	return view + "\n" + m.labelStyle.Render(footer)
}

func (m *Model) renderContent() string {
	var b strings.Builder

	layout := m.cfg.Detail
	title := record.StringField(m.rec, layout.TitleField)
	if title == "" {
		title = record.ID(m.rec, m.cfg.IdentityField())
	}
	b.WriteString(m.titleStyle.Render(title))

	for _, badgeField := range layout.BadgeFields {
		if badge := record.StringField(m.rec, badgeField); badge != "" {
			b.WriteString(" " + m.badgeStyle.Render("["+registry.FormatValue(badge)+"]"))
		}
	}
	b.WriteByte('\n')

	if layout.SubtitleField != "" {
		if subtitle := record.StringField(m.rec, layout.SubtitleField); subtitle != "" {
			b.WriteString(m.subtitleStyle.Render(subtitle) + "\n")
		}
	}

	for _, section := range layout.Sections {
		b.WriteString("\n" + m.sectionStyle.Render(section.Title) + "\n")
		b.WriteString(m.renderSection(section))
	}

	if len(m.related) > 0 {
		b.WriteString("\n" + m.sectionStyle.Render("Related") + "\n")
		for i, entry := range m.related {
			line := fmt.Sprintf("%d. %s", i+1, entry.ref.Label)
			b.WriteString(m.relatedStyle.Render(line) + "\n")
		}
	}

	return wordwrap.String(b.String(), m.width)
}

func (m *Model) renderSection(section registry.DetailSection) string {
	labelWidth := 0
	for _, field := range section.Fields {
		if len(field.Label) > labelWidth {
			labelWidth = len(field.Label)
		}
	}

	var b strings.Builder
	for _, field := range section.Fields {
		value := registry.RenderDetailValue(field, m.rec)
		if field.Markdown && value != registry.Placeholder {
			rendered := render.Markdown(value, render.Options{
				NoColor: m.noColor,
				Width:   m.width - labelWidth - 4,
			})
			b.WriteString(m.labelStyle.Render(field.Label) + "\n")
			b.WriteString(indent(rendered, 2) + "\n")
			continue
		}

		label := fmt.Sprintf("%-*s", labelWidth, field.Label)
		b.WriteString(m.labelStyle.Render(label) + "  " + m.valueStyle.Render(value) + "\n")
	}
	return b.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
