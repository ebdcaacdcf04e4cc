package hierarchy

// ExpandedSet tracks which nodes are currently open. Membership survives a
// parent collapsing, so re-expanding the parent restores the prior shape of
// the subtree.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns an empty set.
func NewExpandedSet() ExpandedSet {
	return make(ExpandedSet)
}

// SeedExpanded returns a set containing every branch node shallower than
// depth. A depth of 0 seeds nothing; 1 opens the roots, and so on.
func SeedExpanded(forest []*Node, depth int) ExpandedSet {
	set := NewExpandedSet()
	seedWalk(forest, 0, depth, set)
	return set
}

func seedWalk(nodes []*Node, level, depth int, set ExpandedSet) {
	if level >= depth {
		return
	}
	for _, node := range nodes {
		if len(node.Children) > 0 {
			set[node.ID] = struct{}{}
			seedWalk(node.Children, level+1, depth, set)
		}
	}
}

// Has reports whether the node is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership and reports the resulting state.
func (s ExpandedSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Expand adds the node to the set.
func (s ExpandedSet) Expand(id string) {
	s[id] = struct{}{}
}

// Collapse removes the node. Descendant membership is deliberately left
// intact.
func (s ExpandedSet) Collapse(id string) {
	delete(s, id)
}

// FlatNode is one row of the currently visible tree, the addressable unit
// for keyboard navigation.
type FlatNode struct {
	ID          string
	Node        *Node
	Depth       int
	HasChildren bool
	ParentID    string
}

// Flatten walks only the visible portion of the forest: a node's subtree is
// entered only when its id is in the expanded set. The sequence is rebuilt
// from scratch on every call rather than patched, so navigation indices can
// never drift from what is rendered.
func Flatten(forest []*Node, expanded ExpandedSet) []FlatNode {
	var out []FlatNode
	flattenWalk(forest, 0, "", expanded, &out)
	return out
}

func flattenWalk(nodes []*Node, depth int, parentID string, expanded ExpandedSet, out *[]FlatNode) {
	for _, node := range nodes {
		*out = append(*out, FlatNode{
			ID:          node.ID,
			Node:        node,
			Depth:       depth,
			HasChildren: len(node.Children) > 0,
			ParentID:    parentID,
		})
		if len(node.Children) > 0 && expanded.Has(node.ID) {
			flattenWalk(node.Children, depth+1, node.ID, expanded, out)
		}
	}
}

// IndexOf returns the position of id in the flattened sequence, or -1.
func IndexOf(flat []FlatNode, id string) int {
	for i := range flat {
		if flat[i].ID == id {
			return i
		}
	}
	return -1
}
