package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil becomes dash", nil, Placeholder},
		{"empty string becomes dash", "", Placeholder},
		{"true becomes Yes", true, "Yes"},
		{"false becomes No", false, "No"},
		{"plain string passes through", "FDA", "FDA"},
		{"iso date reformats", "1979-10-01", "Oct 1, 1979"},
		{"nested map collapses", map[string]any{"a": 1}, ComplexIndicator},
		{"number renders", float64(12), "12"},
		{"non-date hyphen string passes", "1234-ab-cd", "1234-ab-cd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFormatCellAbbreviatesUUIDs(t *testing.T) {
	got := FormatCell("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, "550e…", got)
	assert.Equal(t, "short", FormatCell("short"))
}

func TestTitleFromField(t *testing.T) {
	cases := map[string]string{
		"officialName":    "Official Name",
		"id":              "Id",
		"websiteUrl":      "Website Url",
		"parent.id":       "Parent Id",
		"usc_identifier":  "Usc Identifier",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, TitleFromField(in), "input %q", in)
	}
}

func TestRenderDetailValueFullIdentity(t *testing.T) {
	field := DetailField{ID: "id", Label: "ID"}
	got := RenderDetailValue(field, map[string]any{"id": "550e8400-e29b-41d4-a716-446655440000"})
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", got)
}
