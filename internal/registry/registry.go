// Package registry holds the declarative entity-type configurations that
// drive every view in the browser. One generic engine renders many unrelated
// entity types; nothing here has behavior beyond lookup and formatting.
package registry

import (
	"sort"
	"sync"

	"github.com/newsanalyzer/govctl/internal/record"
)

// ViewMode identifies one of the browsing presentations an entity type
// supports.
type ViewMode string

const (
	ViewList      ViewMode = "list"
	ViewHierarchy ViewMode = "hierarchy"
)

// CellAccessor produces the raw value a column shows for a record.
type CellAccessor interface {
	Value(rec record.Record) any
}

// CellRenderer converts an accessed value into display text. A renderer, when
// present, wins over default stringification.
type CellRenderer interface {
	Render(value any, rec record.Record) string
}

// AccessorFunc adapts a function to the CellAccessor interface.
type AccessorFunc func(rec record.Record) any

func (f AccessorFunc) Value(rec record.Record) any { return f(rec) }

// RendererFunc adapts a function to the CellRenderer interface.
type RendererFunc func(value any, rec record.Record) string

func (f RendererFunc) Render(value any, rec record.Record) string { return f(value, rec) }

// FieldAccessor reads a (possibly dotted) field path straight off the record.
type FieldAccessor string

func (f FieldAccessor) Value(rec record.Record) any {
	value, _ := record.Field(rec, string(f))
	return value
}

// Column describes one sortable/renderable column of the tabular view.
type Column struct {
	ID       string
	Title    string
	Accessor CellAccessor // nil: direct field lookup by ID
	Renderer CellRenderer // nil: default formatting
	Sortable bool
	// WideOnly columns are dropped from the card grid and from narrow
	// terminals.
	WideOnly bool
}

// CardSpec maps record fields onto the card grid presentation.
type CardSpec struct {
	TitleField    string
	SubtitleField string
	BadgeField    string
}

// DetailField is one label/value row of a detail section.
type DetailField struct {
	ID       string
	Label    string
	Accessor CellAccessor
	Renderer CellRenderer
	// Markdown fields render through the markdown pipeline instead of the
	// plain formatter.
	Markdown bool
}

// DetailSection is an ordered group of fields under a heading.
type DetailSection struct {
	Title  string
	Fields []DetailField
}

// RelatedRef declares a cross-reference from this entity type to another,
// rendered as a navigable entry on the detail page.
type RelatedRef struct {
	Label      string
	EntityType string
	// LocalField holds the foreign identity on this record.
	LocalField string
}

// DetailLayout describes the detail page: header, ordered content sections,
// and related-entity cross references.
type DetailLayout struct {
	TitleField    string
	SubtitleField string
	BadgeFields   []string
	Sections      []DetailSection
	Related       []RelatedRef
}

// HierarchySpec configures tree mode for an entity type.
type HierarchySpec struct {
	LabelField         string
	ParentField        string
	DefaultExpandDepth int
	BadgeField         string
	MetadataFields     []string
}

// EntityTypeConfig is the full declarative description of one displayable
// entity type. Configs are defined once at load and never mutated.
type EntityTypeConfig struct {
	ID       string
	IDField  string
	Singular string
	Plural   string
	// Route is the backend collection path segment, e.g.
	// "government-organizations".
	Route string

	Columns   []Column
	Card      CardSpec
	Detail    DetailLayout
	Hierarchy *HierarchySpec

	ViewModes   []ViewMode
	DefaultView ViewMode
}

// SupportsView reports whether the entity type offers the given mode.
func (c EntityTypeConfig) SupportsView(mode ViewMode) bool {
	for _, m := range c.ViewModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Column returns the column with the given id.
func (c EntityTypeConfig) Column(id string) (Column, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// IdentityField returns the configured identity field name, defaulting to
// "id".
func (c EntityTypeConfig) IdentityField() string {
	if c.IDField == "" {
		return record.DefaultIDField
	}
	return c.IDField
}

// CellValue resolves a column's raw value for a record via its accessor or a
// direct field lookup.
func (c EntityTypeConfig) CellValue(col Column, rec record.Record) any {
	if col.Accessor != nil {
		return col.Accessor.Value(rec)
	}
	value, _ := record.Field(rec, col.ID)
	return value
}

// Registry resolves entity-type ids to their configurations. Resolution
// failures degrade to a "not found" result rather than an error: the registry
// is consulted from live navigation state, which may briefly reference stale
// or invalid ids.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]EntityTypeConfig
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{configs: make(map[string]EntityTypeConfig)}
}

// Register adds or replaces an entity type.
func (r *Registry) Register(cfg EntityTypeConfig) {
	if cfg.ID == "" {
		return
	}
	if cfg.DefaultView == "" {
		if len(cfg.ViewModes) > 0 {
			cfg.DefaultView = cfg.ViewModes[0]
		} else {
			cfg.ViewModes = []ViewMode{ViewList}
			cfg.DefaultView = ViewList
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ID] = cfg
}

// Lookup returns the configuration for an entity-type id.
func (r *Registry) Lookup(id string) (EntityTypeConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	return cfg, ok
}

// Types returns the registered entity-type ids, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultRegistry = New()

// Default returns the process-wide registry carrying the built-in entity
// types.
func Default() *Registry {
	return defaultRegistry
}
