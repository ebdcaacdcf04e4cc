package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuteConfig() registry.EntityTypeConfig {
	return registry.EntityTypeConfig{
		ID:       "statutes",
		Singular: "statute",
		Plural:   "statutes",
		Detail: registry.DetailLayout{
			TitleField:    "popularName",
			SubtitleField: "citation",
			BadgeFields:   []string{"status"},
			Sections: []registry.DetailSection{
				{
					Title: "Overview",
					Fields: []registry.DetailField{
						{ID: "popularName", Label: "Popular Name"},
						{ID: "enactedDate", Label: "Enacted"},
						{ID: "summary", Label: "Summary", Markdown: true},
					},
				},
			},
			Related: []registry.RelatedRef{
				{Label: "Implementing Agency", EntityType: "government-organizations", LocalField: "agencyId"},
				{Label: "Sponsor", EntityType: "people", LocalField: "sponsorId"},
			},
		},
	}
}

func statuteRecord() record.Record {
	return record.Record{
		"id":          "stat-1",
		"popularName": "Clean Air Act",
		"citation":    "42 U.S.C. § 7401",
		"status":      "IN_FORCE",
		"enactedDate": "1963-12-17",
		"summary":     "Regulates **air emissions** from stationary and mobile sources.",
		"agencyId":    "epa",
	}
}

func pressKey(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestRendersHeaderSectionsAndDates(t *testing.T) {
	m := New(statuteConfig(), statuteRecord(), WithNoColor(), WithSize(100, 30))
	view := m.View()

	assert.Contains(t, view, "Clean Air Act")
	assert.Contains(t, view, "42 U.S.C. § 7401")
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Dec 17, 1963")
	assert.Contains(t, view, "air emissions")
}

func TestRelatedListsOnlyPopulatedRefs(t *testing.T) {
	m := New(statuteConfig(), statuteRecord(), WithNoColor(), WithSize(100, 30))

	// sponsorId is absent from the record, so only one ref survives.
	require.Equal(t, []string{"Implementing Agency"}, m.Related())
	assert.Contains(t, m.View(), "1. Implementing Agency")
}

func TestRelatedKeyEmitsNavigation(t *testing.T) {
	m := New(statuteConfig(), statuteRecord(), WithNoColor(), WithSize(100, 30))

	cmd := pressKey(m, "1")
	require.NotNil(t, cmd)
	msg, ok := cmd().(RelatedSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "government-organizations", msg.EntityType)
	assert.Equal(t, "epa", msg.ID)

	// Out-of-range ordinals do nothing.
	assert.Nil(t, pressKey(m, "2"))
}

func TestNestedFieldRefsResolve(t *testing.T) {
	cfg := registry.EntityTypeConfig{
		ID:       "presidencies",
		Singular: "presidency",
		Plural:   "presidencies",
		Detail: registry.DetailLayout{
			TitleField:    "person.lastName",
			SubtitleField: "termLabel",
			Related: []registry.RelatedRef{
				{Label: "Person", EntityType: "people", LocalField: "person.id"},
			},
		},
	}
	rec := record.Record{
		"id":        "c5b2f1d0-0000-0000-0000-000000000044",
		"termLabel": "2009-2017",
		"person": map[string]any{
			"id":       "p-44",
			"lastName": "Obama",
		},
	}
	m := New(cfg, rec, WithNoColor(), WithSize(100, 30))

	require.Equal(t, []string{"Person"}, m.Related())
	assert.Contains(t, m.View(), "Obama")

	cmd := pressKey(m, "1")
	require.NotNil(t, cmd)
	msg, ok := cmd().(RelatedSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "people", msg.EntityType)
	assert.Equal(t, "p-44", msg.ID)
}

func TestEscapeCloses(t *testing.T) {
	m := New(statuteConfig(), statuteRecord(), WithSize(100, 30))

	cmd := pressKey(m, "esc")
	require.NotNil(t, cmd)
	_, ok := cmd().(ClosedMsg)
	assert.True(t, ok)
}

func TestMissingValuesRenderPlaceholder(t *testing.T) {
	rec := statuteRecord()
	delete(rec, "enactedDate")
	m := New(statuteConfig(), rec, WithNoColor(), WithSize(100, 30))

	assert.Contains(t, m.View(), registry.Placeholder)
}

func TestTitleFallsBackToIdentity(t *testing.T) {
	rec := statuteRecord()
	delete(rec, "popularName")
	m := New(statuteConfig(), rec, WithNoColor(), WithSize(100, 30))

	assert.Contains(t, m.View(), "stat-1")
}
