package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsanalyzer/govctl/internal/record"
)

func buildSample(t *testing.T) []*Node {
	t.Helper()
	records := []record.Record{
		rec("a", "", "A"),
		rec("a1", "a", "A1"),
		rec("a2", "a", "A2"),
		rec("a1x", "a1", "A1X"),
		rec("b", "", "B"),
	}
	forest, report := Build(records, Options{})
	require.Equal(t, 5, report.Kept)
	return forest
}

func flatIDs(flat []FlatNode) []string {
	ids := make([]string, len(flat))
	for i, f := range flat {
		ids[i] = f.ID
	}
	return ids
}

func TestFlattenCollapsedShowsRootsOnly(t *testing.T) {
	forest := buildSample(t)

	flat := Flatten(forest, NewExpandedSet())
	assert.Equal(t, []string{"a", "b"}, flatIDs(flat))
	assert.True(t, flat[0].HasChildren)
	assert.False(t, flat[1].HasChildren)
	assert.Equal(t, 0, flat[0].Depth)
}

func TestFlattenExpandedSubtree(t *testing.T) {
	forest := buildSample(t)
	expanded := NewExpandedSet()
	expanded.Expand("a")

	flat := Flatten(forest, expanded)
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, flatIDs(flat))
	assert.Equal(t, 1, flat[1].Depth)
	assert.Equal(t, "a", flat[1].ParentID)

	expanded.Expand("a1")
	flat = Flatten(forest, expanded)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, flatIDs(flat))
	assert.Equal(t, 2, IndexOf(flat, "a1x"))
}

func TestTogglePersistenceAcrossCollapse(t *testing.T) {
	forest := buildSample(t)
	expanded := NewExpandedSet()
	expanded.Expand("a")
	expanded.Expand("a1")

	// Collapsing the parent hides descendants but keeps their state.
	expanded.Collapse("a")
	flat := Flatten(forest, expanded)
	assert.Equal(t, []string{"a", "b"}, flatIDs(flat))
	assert.True(t, expanded.Has("a1"))

	// Re-expanding restores the prior subtree shape.
	expanded.Expand("a")
	flat = Flatten(forest, expanded)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, flatIDs(flat))
}

func TestToggle(t *testing.T) {
	set := NewExpandedSet()
	assert.True(t, set.Toggle("x"))
	assert.True(t, set.Has("x"))
	assert.False(t, set.Toggle("x"))
	assert.False(t, set.Has("x"))
}

func TestSeedExpandedDepth(t *testing.T) {
	forest := buildSample(t)

	assert.Empty(t, SeedExpanded(forest, 0))

	depth1 := SeedExpanded(forest, 1)
	assert.True(t, depth1.Has("a"))
	assert.False(t, depth1.Has("a1"))
	// Leaves are never seeded.
	assert.False(t, depth1.Has("b"))

	depth2 := SeedExpanded(forest, 2)
	assert.True(t, depth2.Has("a"))
	assert.True(t, depth2.Has("a1"))
}

func TestFlattenEmptyForest(t *testing.T) {
	assert.Empty(t, Flatten(nil, NewExpandedSet()))
	assert.Equal(t, -1, IndexOf(nil, "a"))
}
