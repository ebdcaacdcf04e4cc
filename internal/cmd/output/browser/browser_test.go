package browser

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newsanalyzer/govctl/internal/api"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleConfig() registry.EntityTypeConfig {
	return registry.EntityTypeConfig{
		ID:       "people",
		Singular: "person",
		Plural:   "people",
		Columns: []registry.Column{
			{ID: "lastName", Title: "Name", Sortable: true},
			{ID: "state", Title: "State", Sortable: true},
			{ID: "notes", Title: "Notes"},
		},
		Card: registry.CardSpec{TitleField: "lastName", SubtitleField: "state"},
	}
}

func pageOf(number, size, total int) *api.Page {
	start := number * size
	count := size
	if start+count > total {
		count = total - start
	}
	items := make([]record.Record, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, record.Record{
			"id":       fmt.Sprintf("p%d", start+i),
			"lastName": fmt.Sprintf("Person %02d", start+i),
			"state":    "VA",
		})
	}
	totalPages := (total + size - 1) / size
	return &api.Page{
		Items:         items,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        number,
		Size:          size,
	}
}

func key(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestStartsLoading(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	assert.Contains(t, m.View(), "Loading people")

	// Keys are ignored while loading.
	assert.Nil(t, key(m, "n"))
}

func TestFooterReportsOneBasedRange(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithSize(100, 20))
	m.SetPage(pageOf(0, 10, 25))

	view := m.View()
	assert.Contains(t, view, "Showing 1 to 10 of 25")
	assert.Contains(t, view, "Page 1 of 3")
}

func TestLastPartialPageRange(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithSize(100, 20))
	m.SetPage(pageOf(2, 10, 25))

	assert.Contains(t, m.View(), "Showing 21 to 25 of 25")
	assert.Contains(t, m.View(), "Page 3 of 3")
}

func TestNextDisabledOnLastPage(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	m.SetPage(pageOf(2, 10, 25))

	assert.False(t, m.HasNextPage())
	assert.True(t, m.HasPreviousPage())
	assert.Nil(t, key(m, "n"), "next on the last page emits nothing")

	cmd := key(m, "p")
	require.NotNil(t, cmd)
	msg, ok := cmd().(PageRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Page)
}

func TestPreviousDisabledOnFirstPage(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	m.SetPage(pageOf(0, 10, 25))

	assert.False(t, m.HasPreviousPage())
	assert.Nil(t, key(m, "p"))

	cmd := key(m, "n")
	require.NotNil(t, cmd)
	msg, ok := cmd().(PageRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Page)
}

func TestSortCycleAscendingThenDescending(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	m.SetPage(pageOf(1, 10, 25))

	cmd := key(m, "1")
	require.NotNil(t, cmd)
	msg := cmd().(PageRequestedMsg)
	assert.Equal(t, "lastName", msg.Sort.Field)
	assert.Equal(t, api.SortAscending, msg.Sort.Direction)
	assert.Equal(t, 0, msg.Page, "sorting returns to the first page")

	cmd = key(m, "1")
	msg = cmd().(PageRequestedMsg)
	assert.Equal(t, api.SortDescending, msg.Sort.Direction)

	// A third activation starts the cycle over.
	cmd = key(m, "1")
	msg = cmd().(PageRequestedMsg)
	assert.Equal(t, api.SortAscending, msg.Sort.Direction)
}

func TestSortSwitchingColumnsResetsToAscending(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	m.SetPage(pageOf(0, 10, 25))

	key(m, "1")
	key(m, "1")
	require.Equal(t, api.SortDescending, m.Sort().Direction)

	cmd := key(m, "2")
	msg := cmd().(PageRequestedMsg)
	assert.Equal(t, "state", msg.Sort.Field)
	assert.Equal(t, api.SortAscending, msg.Sort.Direction)
}

func TestUnsortableColumnIgnored(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithSize(100, 20))
	m.SetPage(pageOf(0, 10, 25))

	assert.Nil(t, key(m, "3"), "notes column is not sortable")
}

func TestEnterEmitsSelectedRecord(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithSize(100, 20))
	m.SetPage(pageOf(0, 10, 25))

	cmd := key(m, "enter")
	require.NotNil(t, cmd)
	msg, ok := cmd().(RowSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "p0", record.StringField(msg.Record, "id"))
}

func TestErrorStateOffersRetry(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10))
	m.SetPage(pageOf(1, 10, 25))
	m.SetError(errors.New("connection refused"))

	view := m.View()
	assert.Contains(t, view, "connection refused")
	assert.Contains(t, view, "retry")

	// Only r does anything in the error state.
	assert.Nil(t, key(m, "n"))

	cmd := key(m, "r")
	require.NotNil(t, cmd)
	msg, ok := cmd().(RetryRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Page)
}

func TestEmptyResultMessage(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithEmptyMessage("No people match your search."))
	m.SetPage(pageOf(0, 10, 0))

	assert.Contains(t, m.View(), "No people match your search.")
}

func TestNarrowWidthRendersCards(t *testing.T) {
	m := New(peopleConfig(), WithPageSize(10), WithSize(50, 20))
	m.SetPage(pageOf(0, 10, 25))

	view := m.View()
	assert.Contains(t, view, "Person 00")
	assert.Contains(t, view, "VA")
}
