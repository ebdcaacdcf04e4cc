package registry

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/newsanalyzer/govctl/internal/util"
)

// Placeholder is rendered for absent values so empty cells stay scannable.
const Placeholder = "—"

// ComplexIndicator marks nested objects/arrays that have no inline rendering.
const ComplexIndicator = "{…}"

var isoDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatValue converts a raw record value into display text using the
// conventions shared by the tabular browser and the detail renderer: missing
// values become a placeholder dash, booleans become Yes/No, ISO-date-shaped
// strings are reformatted for reading, and nested structures collapse to an
// indicator.
func FormatValue(value any) string {
	if value == nil {
		return Placeholder
	}
	if b, ok := value.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	if record.IsNested(value) {
		return ComplexIndicator
	}
	s := record.Stringify(value)
	if s == "" {
		return Placeholder
	}
	if formatted, ok := formatISODate(s); ok {
		return formatted
	}
	return s
}

// FormatCell is FormatValue plus table-friendly tightening: UUID identities
// are abbreviated since full ids overwhelm narrow columns.
func FormatCell(value any) string {
	s := FormatValue(value)
	return util.AbbreviateUUID(s)
}

// RenderCell resolves and formats one column for one record, honoring a
// custom renderer when the column carries one.
func RenderCell(cfg EntityTypeConfig, col Column, rec record.Record) string {
	value := cfg.CellValue(col, rec)
	if col.Renderer != nil {
		return col.Renderer.Render(value, rec)
	}
	return FormatCell(value)
}

// RenderDetailValue resolves and formats one detail field without cell
// abbreviation; detail pages show full identities.
func RenderDetailValue(field DetailField, rec record.Record) string {
	var value any
	if field.Accessor != nil {
		value = field.Accessor.Value(rec)
	} else {
		value, _ = record.Field(rec, field.ID)
	}
	if field.Renderer != nil {
		return field.Renderer.Render(value, rec)
	}
	return FormatValue(value)
}

func formatISODate(s string) (string, bool) {
	if len(s) < 10 || s[4] != '-' || s[7] != '-' {
		return "", false
	}
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006-01-02" {
				return t.Format("Jan 2, 2006"), true
			}
			return t.Local().Format("Jan 2, 2006 15:04"), true
		}
	}
	return "", false
}

var titleCaser = cases.Title(language.AmericanEnglish)

// TitleFromField derives a human column title from a camelCase field id,
// e.g. "officialName" -> "Official Name", "websiteUrl" -> "Website Url".
func TitleFromField(field string) string {
	if field == "" {
		return ""
	}
	var words []string
	var current []rune
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) && len(current) > 0 && !unicode.IsUpper(current[len(current)-1]) {
			words = append(words, string(current))
			current = current[:0]
		}
		switch r {
		case '.', '_', '-':
			if len(current) > 0 {
				words = append(words, string(current))
				current = current[:0]
			}
		default:
			current = append(current, r)
		}
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	for i, w := range words {
		words[i] = titleCaser.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}
