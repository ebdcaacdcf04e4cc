package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newsanalyzer/govctl/internal/util"
)

// fileDocument is the YAML shape of a deployment-supplied entity-type file.
// Columns declared in a file use field-lookup accessors and default
// rendering; custom accessors and renderers remain code-only.
type fileDocument struct {
	EntityTypes []fileEntityType `yaml:"entityTypes"`
}

type fileEntityType struct {
	ID          string         `yaml:"id"`
	IDField     string         `yaml:"idField"`
	Singular    string         `yaml:"singular"`
	Plural      string         `yaml:"plural"`
	Route       string         `yaml:"route"`
	ViewModes   []string       `yaml:"viewModes"`
	DefaultView string         `yaml:"defaultView"`
	Columns     []fileColumn   `yaml:"columns"`
	Card        fileCard       `yaml:"card"`
	Hierarchy   *fileHierarchy `yaml:"hierarchy"`
	Detail      *fileDetail    `yaml:"detail"`
}

type fileColumn struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Sortable bool   `yaml:"sortable"`
	WideOnly bool   `yaml:"wideOnly"`
}

type fileCard struct {
	TitleField    string `yaml:"titleField"`
	SubtitleField string `yaml:"subtitleField"`
	BadgeField    string `yaml:"badgeField"`
}

type fileHierarchy struct {
	LabelField         string   `yaml:"labelField"`
	ParentField        string   `yaml:"parentField"`
	DefaultExpandDepth int      `yaml:"defaultExpandDepth"`
	BadgeField         string   `yaml:"badgeField"`
	MetadataFields     []string `yaml:"metadataFields"`
}

type fileDetail struct {
	TitleField    string        `yaml:"titleField"`
	SubtitleField string        `yaml:"subtitleField"`
	BadgeFields   []string      `yaml:"badgeFields"`
	Sections      []fileSection `yaml:"sections"`
}

type fileSection struct {
	Title  string      `yaml:"title"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Markdown bool   `yaml:"markdown"`
}

// LoadFile merges entity types from a YAML document into the registry, so a
// deployment can describe additional record sets without code changes.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading entity types file: %w", err)
	}
	return r.LoadYAML(data)
}

// LoadYAML merges entity types from YAML bytes.
func (r *Registry) LoadYAML(data []byte) error {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing entity types file: %w", err)
	}

	for i, ft := range doc.EntityTypes {
		if ft.ID == "" {
			return fmt.Errorf("entity type at index %d is missing an id", i)
		}
		cfg, err := ft.toConfig()
		if err != nil {
			return fmt.Errorf("entity type %q: %w", ft.ID, err)
		}
		r.Register(cfg)
	}
	return nil
}

func (ft fileEntityType) toConfig() (EntityTypeConfig, error) {
	cfg := EntityTypeConfig{
		ID:       ft.ID,
		IDField:  ft.IDField,
		Singular: ft.Singular,
		Plural:   ft.Plural,
		Route:    ft.Route,
	}
	if cfg.Singular == "" {
		cfg.Singular = ft.ID
	}
	if cfg.Plural == "" {
		cfg.Plural = ft.ID
	}
	if cfg.Route == "" {
		cfg.Route = util.GenerateSlug(cfg.Plural)
	}

	for _, mode := range ft.ViewModes {
		switch ViewMode(mode) {
		case ViewList, ViewHierarchy:
			cfg.ViewModes = append(cfg.ViewModes, ViewMode(mode))
		default:
			return cfg, fmt.Errorf("unknown view mode %q", mode)
		}
	}
	if ft.DefaultView != "" {
		cfg.DefaultView = ViewMode(ft.DefaultView)
		if !cfg.SupportsView(cfg.DefaultView) && len(cfg.ViewModes) > 0 {
			return cfg, fmt.Errorf("default view %q is not among view modes", ft.DefaultView)
		}
	}

	if len(ft.Columns) == 0 {
		return cfg, fmt.Errorf("at least one column is required")
	}
	for _, fc := range ft.Columns {
		title := fc.Title
		if title == "" {
			title = TitleFromField(fc.ID)
		}
		cfg.Columns = append(cfg.Columns, Column{
			ID:       fc.ID,
			Title:    title,
			Sortable: fc.Sortable,
			WideOnly: fc.WideOnly,
		})
	}

	cfg.Card = CardSpec{
		TitleField:    ft.Card.TitleField,
		SubtitleField: ft.Card.SubtitleField,
		BadgeField:    ft.Card.BadgeField,
	}
	if cfg.Card.TitleField == "" {
		cfg.Card.TitleField = cfg.Columns[0].ID
	}

	if ft.Hierarchy != nil {
		h := HierarchySpec{
			LabelField:         ft.Hierarchy.LabelField,
			ParentField:        ft.Hierarchy.ParentField,
			DefaultExpandDepth: ft.Hierarchy.DefaultExpandDepth,
			BadgeField:         ft.Hierarchy.BadgeField,
			MetadataFields:     ft.Hierarchy.MetadataFields,
		}
		if h.LabelField == "" {
			h.LabelField = cfg.Card.TitleField
		}
		if h.DefaultExpandDepth <= 0 {
			h.DefaultExpandDepth = 1
		}
		cfg.Hierarchy = &h
	}

	if ft.Detail != nil {
		layout := DetailLayout{
			TitleField:    ft.Detail.TitleField,
			SubtitleField: ft.Detail.SubtitleField,
			BadgeFields:   ft.Detail.BadgeFields,
		}
		for _, fs := range ft.Detail.Sections {
			section := DetailSection{Title: fs.Title}
			for _, ff := range fs.Fields {
				label := ff.Label
				if label == "" {
					label = TitleFromField(ff.ID)
				}
				section.Fields = append(section.Fields, DetailField{
					ID:       ff.ID,
					Label:    label,
					Markdown: ff.Markdown,
				})
			}
			layout.Sections = append(layout.Sections, section)
		}
		cfg.Detail = layout
	} else {
		cfg.Detail = DetailLayout{TitleField: cfg.Card.TitleField}
	}

	return cfg, nil
}
