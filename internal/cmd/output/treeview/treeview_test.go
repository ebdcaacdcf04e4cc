package treeview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newsanalyzer/govctl/internal/hierarchy"
	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orgSpec() registry.HierarchySpec {
	return registry.HierarchySpec{
		LabelField:         "officialName",
		ParentField:        "parentId",
		DefaultExpandDepth: 1,
	}
}

// eop
// ├── omb
// │   └── oira
// └── ostp
// gao
func testForest(t *testing.T) []*hierarchy.Node {
	t.Helper()
	records := []record.Record{
		{"id": "eop", "officialName": "Executive Office of the President"},
		{"id": "omb", "parentId": "eop", "officialName": "Office of Management and Budget"},
		{"id": "oira", "parentId": "omb", "officialName": "Office of Information and Regulatory Affairs"},
		{"id": "ostp", "parentId": "eop", "officialName": "Office of Science and Technology Policy"},
		{"id": "gao", "officialName": "Government Accountability Office"},
	}
	forest, _ := hierarchy.Build(records, hierarchy.Options{ParentField: "parentId", LabelField: "officialName"})
	return forest
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "home":
			msg = tea.KeyMsg{Type: tea.KeyHome}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func focusedID(t *testing.T, m *Model) string {
	t.Helper()
	fn, ok := m.Focused()
	require.True(t, ok)
	return fn.ID
}

func TestDefaultExpansionDepth(t *testing.T) {
	m := New(testForest(t), orgSpec())

	// Depth 1: roots expanded, their children collapsed.
	// Visible: eop, omb, ostp, gao.
	assert.Equal(t, 4, m.VisibleCount())
	assert.Equal(t, "eop", focusedID(t, m))
}

func TestRowOrderFollowsSortedLabels(t *testing.T) {
	m := New(testForest(t), orgSpec())

	ids := make([]string, 0, len(m.flat))
	for _, row := range m.flat {
		ids = append(ids, row.ID)
	}
	// Siblings render sorted by label, not in record order.
	assert.Equal(t, []string{"eop", "omb", "ostp", "gao"}, ids)
}

func TestArrowsMoveWithoutWrapping(t *testing.T) {
	m := New(testForest(t), orgSpec())

	press(m, "up")
	assert.Equal(t, "eop", focusedID(t, m), "up on the first row stays put")

	press(m, "down", "down", "down")
	assert.Equal(t, "gao", focusedID(t, m))

	press(m, "down")
	assert.Equal(t, "gao", focusedID(t, m), "down on the last row stays put")
}

func TestHomeAndEnd(t *testing.T) {
	m := New(testForest(t), orgSpec())

	press(m, "end")
	assert.Equal(t, "gao", focusedID(t, m))

	press(m, "home")
	assert.Equal(t, "eop", focusedID(t, m))
}

func TestRightExpandsThenDescends(t *testing.T) {
	m := New(testForest(t), orgSpec(), WithExpanded(hierarchy.ExpandedSet{}))

	// All collapsed: only roots visible.
	require.Equal(t, 2, m.VisibleCount())

	press(m, "right")
	assert.Equal(t, 4, m.VisibleCount(), "first right expands the branch")
	assert.Equal(t, "eop", focusedID(t, m), "expansion keeps focus")

	press(m, "right")
	assert.Equal(t, "omb", focusedID(t, m), "second right descends to the first child")
}

func TestRightOnLeafIsNoop(t *testing.T) {
	m := New(testForest(t), orgSpec())

	press(m, "end")
	before := m.VisibleCount()
	press(m, "right")
	assert.Equal(t, before, m.VisibleCount())
	assert.Equal(t, "gao", focusedID(t, m))
}

func TestLeftCollapsesThenAscends(t *testing.T) {
	m := New(testForest(t), orgSpec())

	// Focus omb (collapsed branch), left jumps to its parent.
	press(m, "down")
	require.Equal(t, "omb", focusedID(t, m))
	press(m, "left")
	assert.Equal(t, "eop", focusedID(t, m))

	// Left on an expanded branch collapses it in place.
	press(m, "left")
	assert.Equal(t, "eop", focusedID(t, m))
	assert.Equal(t, 2, m.VisibleCount())

	// Left on a collapsed root does nothing.
	press(m, "left")
	assert.Equal(t, "eop", focusedID(t, m))
}

func TestSpaceTogglesBranch(t *testing.T) {
	m := New(testForest(t), orgSpec())

	press(m, "down", " ")
	assert.Equal(t, 5, m.VisibleCount(), "expanding omb reveals oira")

	press(m, " ")
	assert.Equal(t, 4, m.VisibleCount())
}

func TestEnterSelectsBranchAndLeaf(t *testing.T) {
	m := New(testForest(t), orgSpec())

	cmd := press(m, "enter")
	require.NotNil(t, cmd, "enter on a branch emits a selection")
	msg, ok := cmd().(NodeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "eop", msg.ID)
	assert.Equal(t, 4, m.VisibleCount(), "enter never changes expansion")

	cmd = press(m, "end", "enter")
	require.NotNil(t, cmd, "enter on a leaf emits a selection")
	msg, ok = cmd().(NodeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "gao", msg.ID)
	assert.Equal(t, "Government Accountability Office", record.StringField(msg.Record, "officialName"))
}

func TestSpaceSelectsLeaf(t *testing.T) {
	m := New(testForest(t), orgSpec())

	cmd := press(m, "end", " ")
	require.NotNil(t, cmd)
	msg, ok := cmd().(NodeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "gao", msg.ID)
}

func TestCollapseAncestorMovesFocusToIt(t *testing.T) {
	m := New(testForest(t), orgSpec())

	// Expand omb and focus oira.
	press(m, "down", " ", "down")
	require.Equal(t, "oira", focusedID(t, m))

	// Collapse eop out from under the focused row.
	press(m, "home", " ")
	assert.Equal(t, "eop", focusedID(t, m))
	assert.Equal(t, 2, m.VisibleCount())
}

func TestTogglePersistsThroughAncestorCollapse(t *testing.T) {
	m := New(testForest(t), orgSpec())

	// Expand omb, collapse eop, re-expand eop.
	press(m, "down", " ")
	require.Equal(t, 5, m.VisibleCount())
	press(m, "home", " ", " ")

	// omb's expansion survived the round trip.
	assert.Equal(t, 5, m.VisibleCount())
}

func TestSetForestKeepsFocus(t *testing.T) {
	m := New(testForest(t), orgSpec())
	press(m, "down")
	require.Equal(t, "omb", focusedID(t, m))

	m.SetForest(testForest(t))
	assert.Equal(t, "omb", focusedID(t, m))
}

func TestEmptyForestRendersMessage(t *testing.T) {
	m := New(nil, orgSpec(), WithEmptyMessage("No organizations found."))
	assert.Contains(t, m.View(), "No organizations found.")
	assert.Equal(t, 0, m.VisibleCount())

	// Keys on an empty tree are ignored.
	press(m, "down", "enter")
	assert.Equal(t, 0, m.VisibleCount())
}

func TestViewShowsGlyphsAndIndent(t *testing.T) {
	m := New(testForest(t), orgSpec(), WithSize(120, 20))
	view := m.View()

	assert.Contains(t, view, glyphExpanded)
	assert.Contains(t, view, glyphCollapsed)
	assert.Contains(t, view, "Office of Management and Budget")
}
