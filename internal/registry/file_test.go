package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEntityTypesYAML = `
entityTypes:
  - id: appointees
    singular: appointee
    plural: appointees
    route: appointees
    viewModes: [list]
    defaultView: list
    columns:
      - id: positionTitle
        sortable: true
      - id: agencyName
        title: Agency
      - id: confirmed
    card:
      titleField: positionTitle
      subtitleField: agencyName
    detail:
      titleField: positionTitle
      sections:
        - title: Appointment
          fields:
            - id: positionTitle
            - id: confirmed
              label: Senate Confirmed
`

func TestLoadYAMLRegistersEntityType(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadYAML([]byte(sampleEntityTypesYAML)))

	cfg, ok := reg.Lookup("appointees")
	require.True(t, ok)

	assert.Equal(t, "appointees", cfg.Route)
	assert.Equal(t, ViewList, cfg.DefaultView)
	require.Len(t, cfg.Columns, 3)
	// Missing titles derive from the field id.
	assert.Equal(t, "Position Title", cfg.Columns[0].Title)
	assert.Equal(t, "Agency", cfg.Columns[1].Title)
	assert.True(t, cfg.Columns[0].Sortable)

	require.Len(t, cfg.Detail.Sections, 1)
	assert.Equal(t, "Senate Confirmed", cfg.Detail.Sections[0].Fields[1].Label)
}

func TestLoadYAMLDerivesRouteFromPlural(t *testing.T) {
	reg := New()
	require.NoError(t, reg.LoadYAML([]byte(`
entityTypes:
  - id: execorders
    plural: Executive Orders
    columns:
      - id: title
`)))

	cfg, ok := reg.Lookup("execorders")
	require.True(t, ok)
	assert.Equal(t, "executive-orders", cfg.Route)
}

func TestLoadYAMLRejectsUnknownViewMode(t *testing.T) {
	reg := New()
	err := reg.LoadYAML([]byte(`
entityTypes:
  - id: bad
    viewModes: [grid]
    columns:
      - id: name
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view mode")
}

func TestLoadYAMLRequiresID(t *testing.T) {
	reg := New()
	err := reg.LoadYAML([]byte(`
entityTypes:
  - singular: nameless
    columns:
      - id: name
`))
	require.Error(t, err)
}

func TestLoadYAMLRequiresColumns(t *testing.T) {
	reg := New()
	err := reg.LoadYAML([]byte(`
entityTypes:
  - id: empty
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column")
}
