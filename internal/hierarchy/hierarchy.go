// Package hierarchy turns flat record lists with self-referential parent
// pointers into ordered forests, and derives the visible flattened sequence
// used for linear keyboard traversal.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/newsanalyzer/govctl/internal/record"
)

// Node is a record plus its resolved children. The parent reference is
// captured at construction so navigation can walk upward without re-reading
// the raw record.
type Node struct {
	ID       string
	ParentID string
	Record   record.Record
	Children []*Node
}

// Comparator orders sibling nodes. Implementations must be pure.
type Comparator func(a, b *Node) bool

// Options configures a Build pass.
type Options struct {
	// IDField names the identity field; empty means "id".
	IDField string
	// ParentField names the nullable parent-identity field; empty means
	// "parentId".
	ParentField string
	// LabelField names the field the default comparator sorts by; empty
	// means "name".
	LabelField string
	// Less overrides the default label comparator when set.
	Less Comparator
}

// Report summarizes a Build pass for caller logging. Malformed records and
// cycle members are excluded from the forest but never abort the build.
type Report struct {
	Total     int
	Kept      int
	Malformed int
	Cycles    int
	Orphans   int
}

const defaultParentField = "parentId"

// Build produces an ordered forest from a flat record list.
//
// Records missing their identity field are skipped silently. Records whose
// declared parent is absent from the input set become roots rather than
// errors, which tolerates partial datasets. Parent chains that loop are
// broken by excluding every node on the detected cycle. Children at every
// level are sorted by the configured comparator so output is deterministic
// regardless of input order.
func Build(records []record.Record, opts Options) ([]*Node, Report) {
	idField := opts.IDField
	if idField == "" {
		idField = record.DefaultIDField
	}
	parentField := opts.ParentField
	if parentField == "" {
		parentField = defaultParentField
	}
	labelField := opts.LabelField
	if labelField == "" {
		labelField = "name"
	}
	less := opts.Less
	if less == nil {
		less = labelComparator(labelField)
	}

	report := Report{Total: len(records)}

	// Pass 1: identity lookup. Later records win duplicate ids, matching the
	// backend's last-write semantics.
	nodes := make(map[string]*Node, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		id := record.ID(rec, idField)
		if id == "" {
			report.Malformed++
			continue
		}
		if _, seen := nodes[id]; !seen {
			order = append(order, id)
		}
		nodes[id] = &Node{
			ID:       id,
			ParentID: parentRef(rec, parentField),
			Record:   rec,
		}
	}

	// Pass 2: exclude nodes on cyclic parent chains before linking, so the
	// attach step below cannot loop.
	inCycle := findCycleMembers(nodes)
	if len(inCycle) > 0 {
		report.Cycles = len(inCycle)
		for id := range inCycle {
			delete(nodes, id)
		}
	}

	var roots []*Node
	for _, id := range order {
		node, ok := nodes[id]
		if !ok {
			continue
		}
		if node.ParentID != "" {
			if parent, ok := nodes[node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
			report.Orphans++
		}
		roots = append(roots, node)
	}
	report.Kept = len(nodes)

	// Pass 3: deterministic sibling order at every depth.
	sortForest(roots, less)

	return roots, report
}

// Count returns the total number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	for _, node := range forest {
		total += 1 + Count(node.Children)
	}
	return total
}

func parentRef(rec record.Record, field string) string {
	value, ok := record.Field(rec, field)
	if !ok || value == nil {
		return ""
	}
	return record.Stringify(value)
}

// findCycleMembers walks each node's parent chain with a path set and
// returns the ids sitting on a cycle. Only the cycle members themselves are
// returned; nodes whose chain merely leads into a cycle keep their records
// and surface as orphan roots once the cycle is removed.
func findCycleMembers(nodes map[string]*Node) map[string]struct{} {
	visited := make(map[string]bool, len(nodes))
	members := make(map[string]struct{})

	for id := range nodes {
		if visited[id] {
			continue
		}

		var path []string
		pathIndex := make(map[string]int)
		current := id

		for {
			if idx, onPath := pathIndex[current]; onPath {
				// Everything from the first occurrence onward loops.
				for _, cycleID := range path[idx:] {
					members[cycleID] = struct{}{}
				}
				break
			}
			if visited[current] {
				break
			}
			pathIndex[current] = len(path)
			path = append(path, current)

			parent, ok := nodes[nodes[current].ParentID]
			if nodes[current].ParentID == "" || !ok {
				break
			}
			current = parent.ID
		}

		for _, walked := range path {
			visited[walked] = true
		}
	}

	return members
}

func sortForest(nodes []*Node, less Comparator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
	for _, node := range nodes {
		sortForest(node.Children, less)
	}
}

func labelComparator(field string) Comparator {
	return func(a, b *Node) bool {
		la := strings.ToLower(record.StringField(a.Record, field))
		lb := strings.ToLower(record.StringField(b.Record, field))
		if la == lb {
			return a.ID < b.ID
		}
		return la < lb
	}
}
