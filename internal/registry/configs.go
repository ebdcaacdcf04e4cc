package registry

import (
	"strings"

	"github.com/newsanalyzer/govctl/internal/record"
)

// Built-in entity types, mirroring the backend's collections. Defined once at
// load; never mutated at runtime.
func init() {
	defaultRegistry.Register(organizationsConfig())
	defaultRegistry.Register(peopleConfig())
	defaultRegistry.Register(committeesConfig())
	defaultRegistry.Register(statutesConfig())
	defaultRegistry.Register(regulationsConfig())
	defaultRegistry.Register(presidenciesConfig())
}

// personNameAccessor composes "Last, First" from the person record.
type personNameAccessor struct{}

func (personNameAccessor) Value(rec record.Record) any {
	last := record.StringField(rec, "lastName")
	first := record.StringField(rec, "firstName")
	switch {
	case last == "" && first == "":
		return nil
	case last == "":
		return first
	case first == "":
		return last
	default:
		return last + ", " + first
	}
}

// enumRenderer prettifies SCREAMING_SNAKE enum values from the backend.
type enumRenderer struct{}

func (enumRenderer) Render(value any, _ record.Record) string {
	s := record.Stringify(value)
	if s == "" {
		return Placeholder
	}
	s = strings.ReplaceAll(strings.ToLower(s), "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// activeRenderer shows whether an organization is still operating based on
// its dissolved date.
type activeRenderer struct{}

func (activeRenderer) Render(value any, _ record.Record) string {
	if record.Stringify(value) == "" {
		return "Active"
	}
	return "Dissolved"
}

func organizationsConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "organizations",
		Singular: "organization",
		Plural:   "organizations",
		Route:    "government-organizations",
		Columns: []Column{
			{ID: "officialName", Title: "Official Name", Sortable: true},
			{ID: "acronym", Title: "Acronym", Sortable: true},
			{ID: "orgType", Title: "Type", Renderer: enumRenderer{}, Sortable: true},
			{ID: "branch", Title: "Branch", Renderer: enumRenderer{}, Sortable: true, WideOnly: true},
			{ID: "establishedDate", Title: "Established", Sortable: true, WideOnly: true},
			{ID: "dissolvedDate", Title: "Status", Renderer: activeRenderer{}},
		},
		Card: CardSpec{
			TitleField:    "officialName",
			SubtitleField: "orgType",
			BadgeField:    "acronym",
		},
		Detail: DetailLayout{
			TitleField:    "officialName",
			SubtitleField: "orgType",
			BadgeFields:   []string{"acronym", "branch"},
			Sections: []DetailSection{
				{
					Title: "Overview",
					Fields: []DetailField{
						{ID: "id", Label: "ID"},
						{ID: "branch", Label: "Branch", Renderer: enumRenderer{}},
						{ID: "orgLevel", Label: "Level"},
						{ID: "establishedDate", Label: "Established"},
						{ID: "dissolvedDate", Label: "Dissolved"},
						{ID: "websiteUrl", Label: "Website"},
					},
				},
				{
					Title: "Mandate",
					Fields: []DetailField{
						{ID: "missionStatement", Label: "Mission", Markdown: true},
						{ID: "description", Label: "Description", Markdown: true},
						{ID: "authorizingLegislation", Label: "Authorizing Legislation"},
					},
				},
				{
					Title: "Provenance",
					Fields: []DetailField{
						{ID: "importSource", Label: "Import Source"},
						{ID: "govinfoLastSync", Label: "Last Sync"},
						{ID: "updatedAt", Label: "Updated"},
					},
				},
			},
			Related: []RelatedRef{
				{Label: "Parent Organization", EntityType: "organizations", LocalField: "parentId"},
			},
		},
		Hierarchy: &HierarchySpec{
			LabelField:         "officialName",
			ParentField:        "parentId",
			DefaultExpandDepth: 2,
			BadgeField:         "acronym",
			MetadataFields:     []string{"orgType"},
		},
		ViewModes:   []ViewMode{ViewHierarchy, ViewList},
		DefaultView: ViewHierarchy,
	}
}

func peopleConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "people",
		Singular: "person",
		Plural:   "people",
		Route:    "people",
		Columns: []Column{
			{ID: "name", Title: "Name", Accessor: personNameAccessor{}, Sortable: true},
			{ID: "party", Title: "Party", Sortable: true},
			{ID: "state", Title: "State", Sortable: true},
			{ID: "chamber", Title: "Chamber", Renderer: enumRenderer{}},
			{ID: "birthDate", Title: "Born", Sortable: true, WideOnly: true},
		},
		Card: CardSpec{
			TitleField:    "lastName",
			SubtitleField: "state",
			BadgeField:    "party",
		},
		Detail: DetailLayout{
			TitleField:  "lastName",
			BadgeFields: []string{"party", "state"},
			Sections: []DetailSection{
				{
					Title: "Identity",
					Fields: []DetailField{
						{ID: "id", Label: "ID"},
						{ID: "name", Label: "Name", Accessor: personNameAccessor{}},
						{ID: "bioguideId", Label: "Bioguide ID"},
						{ID: "gender", Label: "Gender"},
						{ID: "birthDate", Label: "Born"},
						{ID: "birthPlace", Label: "Birthplace"},
						{ID: "deathDate", Label: "Died"},
					},
				},
				{
					Title: "Service",
					Fields: []DetailField{
						{ID: "chamber", Label: "Chamber", Renderer: enumRenderer{}},
						{ID: "party", Label: "Party"},
						{ID: "state", Label: "State"},
					},
				},
			},
		},
		ViewModes:   []ViewMode{ViewList},
		DefaultView: ViewList,
	}
}

func committeesConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "committees",
		IDField:  "committeeCode",
		Singular: "committee",
		Plural:   "committees",
		Route:    "committees",
		Columns: []Column{
			{ID: "name", Title: "Name", Sortable: true},
			{ID: "committeeCode", Title: "Code", Sortable: true},
			{ID: "chamber", Title: "Chamber", Renderer: enumRenderer{}, Sortable: true},
			{ID: "committeeType", Title: "Type", Renderer: enumRenderer{}, WideOnly: true},
		},
		Card: CardSpec{
			TitleField:    "name",
			SubtitleField: "chamber",
			BadgeField:    "committeeCode",
		},
		Detail: DetailLayout{
			TitleField:  "name",
			BadgeFields: []string{"chamber", "committeeType"},
			Sections: []DetailSection{
				{
					Title: "Overview",
					Fields: []DetailField{
						{ID: "committeeCode", Label: "Code"},
						{ID: "chamber", Label: "Chamber", Renderer: enumRenderer{}},
						{ID: "committeeType", Label: "Type", Renderer: enumRenderer{}},
						{ID: "thomasId", Label: "Thomas ID"},
						{ID: "url", Label: "URL"},
					},
				},
			},
			Related: []RelatedRef{
				{Label: "Parent Committee", EntityType: "committees", LocalField: "parentCommittee.committeeCode"},
			},
		},
		Hierarchy: &HierarchySpec{
			LabelField:         "name",
			ParentField:        "parentCommittee.committeeCode",
			DefaultExpandDepth: 1,
			BadgeField:         "chamber",
		},
		ViewModes:   []ViewMode{ViewList, ViewHierarchy},
		DefaultView: ViewList,
	}
}

func statutesConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "statutes",
		Singular: "statute",
		Plural:   "statutes",
		Route:    "statutes",
		Columns: []Column{
			{ID: "uscIdentifier", Title: "USC Citation", Sortable: true},
			{ID: "heading", Title: "Heading", Sortable: true},
			{ID: "titleNumber", Title: "Title", Sortable: true},
			{ID: "sectionNumber", Title: "Section", WideOnly: true},
			{ID: "effectiveDate", Title: "Effective", Sortable: true, WideOnly: true},
		},
		Card: CardSpec{
			TitleField:    "heading",
			SubtitleField: "uscIdentifier",
		},
		Detail: DetailLayout{
			TitleField:    "heading",
			SubtitleField: "uscIdentifier",
			Sections: []DetailSection{
				{
					Title: "Citation",
					Fields: []DetailField{
						{ID: "titleNumber", Label: "Title"},
						{ID: "titleName", Label: "Title Name"},
						{ID: "chapterNumber", Label: "Chapter"},
						{ID: "chapterName", Label: "Chapter Name"},
						{ID: "sectionNumber", Label: "Section"},
					},
				},
				{
					Title: "Text",
					Fields: []DetailField{
						{ID: "contentText", Label: "Content", Markdown: true},
						{ID: "sourceCredit", Label: "Source Credit"},
						{ID: "sourceUrl", Label: "Source URL"},
					},
				},
			},
		},
		ViewModes:   []ViewMode{ViewList},
		DefaultView: ViewList,
	}
}

func regulationsConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "regulations",
		Singular: "regulation",
		Plural:   "regulations",
		Route:    "regulations",
		Columns: []Column{
			{ID: "documentNumber", Title: "Document", Sortable: true},
			{ID: "title", Title: "Title", Sortable: true},
			{ID: "documentType", Title: "Type", Renderer: enumRenderer{}},
			{ID: "publicationDate", Title: "Published", Sortable: true},
			{ID: "effectiveOn", Title: "Effective", Sortable: true, WideOnly: true},
		},
		Card: CardSpec{
			TitleField:    "title",
			SubtitleField: "documentNumber",
		},
		Detail: DetailLayout{
			TitleField:    "title",
			SubtitleField: "documentNumber",
			BadgeFields:   []string{"documentType"},
			Sections: []DetailSection{
				{
					Title: "Publication",
					Fields: []DetailField{
						{ID: "publicationDate", Label: "Published"},
						{ID: "effectiveOn", Label: "Effective"},
						{ID: "signingDate", Label: "Signed"},
						{ID: "regulationIdNumber", Label: "RIN"},
					},
				},
				{
					Title: "Abstract",
					Fields: []DetailField{
						{ID: "documentAbstract", Label: "Abstract", Markdown: true},
						{ID: "sourceUrl", Label: "Source URL"},
					},
				},
			},
		},
		ViewModes:   []ViewMode{ViewList},
		DefaultView: ViewList,
	}
}

func presidenciesConfig() EntityTypeConfig {
	return EntityTypeConfig{
		ID:       "presidencies",
		Singular: "presidency",
		Plural:   "presidencies",
		Route:    "presidencies",
		Columns: []Column{
			{ID: "presidencyNumber", Title: "No.", Sortable: true},
			{ID: "person.lastName", Title: "President", Sortable: true},
			{ID: "startDate", Title: "Start", Sortable: true},
			{ID: "endDate", Title: "End", Sortable: true},
			{ID: "endReason", Title: "End Reason", Renderer: enumRenderer{}, WideOnly: true},
		},
		Card: CardSpec{
			TitleField:    "person.lastName",
			SubtitleField: "startDate",
		},
		Detail: DetailLayout{
			TitleField: "person.lastName",
			Sections: []DetailSection{
				{
					Title: "Term",
					Fields: []DetailField{
						{ID: "presidencyNumber", Label: "Number"},
						{ID: "startDate", Label: "Start"},
						{ID: "endDate", Label: "End"},
						{ID: "endReason", Label: "End Reason", Renderer: enumRenderer{}},
					},
				},
			},
			Related: []RelatedRef{
				{Label: "Person", EntityType: "people", LocalField: "person.id"},
			},
		},
		ViewModes:   []ViewMode{ViewList},
		DefaultView: ViewList,
	}
}
