package browse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/newsanalyzer/govctl/internal/api"
	"github.com/newsanalyzer/govctl/internal/capability"
	"github.com/newsanalyzer/govctl/internal/navstate"
	"github.com/newsanalyzer/govctl/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminContext() context.Context {
	return capability.WithCapabilities(context.Background(),
		capability.Capabilities{Admin: true})
}

func newTestShell(t *testing.T, handler http.Handler, opts shellOptions) (*shellModel, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, nil)
	m := newShellModel(adminContext(), client, registry.Default(), opts)
	m.width = 100
	m.height = 30
	return m, server
}

// drain runs commands to completion, feeding produced messages back into
// the model. Spinner ticks are dropped since they self-perpetuate.
func drain(m tea.Model, cmd tea.Cmd) tea.Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(m, c)
		}
		return m
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return m
	}
	var next tea.Cmd
	m, next = m.Update(msg)
	return drain(m, next)
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return drain(next, cmd)
}

func committeeHandler(t *testing.T, requests *[]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests = append(*requests, r.URL.RequestURI())
		}
		records := []map[string]any{
			{"committeeCode": "HSAG", "name": "Agriculture", "chamber": "HOUSE"},
			{"committeeCode": "HSAG14", "name": "Livestock Subcommittee", "chamber": "HOUSE",
				"parentCommittee": map[string]any{"committeeCode": "HSAG"}},
			{"committeeCode": "SSAF", "name": "Armed Services", "chamber": "SENATE"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"content":       records,
			"totalElements": len(records),
			"totalPages":    1,
			"number":        0,
			"size":          20,
		}))
	})
}

func TestShellHomeListsEntityTypes(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{})

	view := m.View()
	for _, id := range registry.Default().Types() {
		cfg, ok := registry.Default().Lookup(id)
		require.True(t, ok)
		assert.Contains(t, view, cfg.Plural)
	}
	assert.Contains(t, view, "import records")
	assert.Contains(t, view, "sync reference data")
}

func TestShellHomeHidesAdminEntriesWithoutCapability(t *testing.T) {
	server := httptest.NewServer(committeeHandler(t, nil))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, nil)
	m := newShellModel(context.Background(), client, registry.Default(), shellOptions{})
	assert.NotContains(t, m.View(), "import records")
}

func TestShellHomeEnterOpensList(t *testing.T) {
	var requests []string
	m, _ := newTestShell(t, committeeHandler(t, &requests), shellOptions{})

	// Entity types sort alphabetically, so the first entry is committees.
	next := press(m, "enter")
	shell := next.(*shellModel)

	assert.Equal(t, modeList, shell.mode)
	assert.Contains(t, shell.View(), "Agriculture")
	require.NotEmpty(t, requests)
	assert.Contains(t, requests[0], "/api/committees")
}

func TestShellAdminEntryShowsNote(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{})

	for i := 0; i < len(m.home); i++ {
		if m.home[m.homeCursor].entityType == "" {
			break
		}
		m = press(m, "down").(*shellModel)
	}
	next := press(m, "enter").(*shellModel)
	assert.Equal(t, modeHome, next.mode)
	assert.Contains(t, next.View(), "operations runbook")
}

func TestShellOpensEntityDirectly(t *testing.T) {
	var requests []string
	m, _ := newTestShell(t, committeeHandler(t, &requests), shellOptions{entityType: "committees"})

	shell := drain(tea.Model(m), m.Init()).(*shellModel)
	assert.Equal(t, modeList, shell.mode)
	assert.Contains(t, shell.View(), "Armed Services")
}

func TestShellSearchDebounceCommitsOnce(t *testing.T) {
	var requests []string
	m, _ := newTestShell(t, committeeHandler(t, &requests), shellOptions{entityType: "committees"})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)
	requests = requests[:0]

	next, _ := shell.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	shell = next.(*shellModel)
	require.True(t, shell.searchActive)

	var touches []tea.Cmd
	for _, r := range "fda" {
		var cmd tea.Cmd
		next, cmd = shell.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		shell = next.(*shellModel)
		touches = append(touches, cmd)
	}
	require.Len(t, touches, 3)

	// A tick scheduled by an earlier keystroke is stale and must not
	// commit the query.
	staleMsg := touches[0]()
	next, cmd := shell.Update(staleMsg)
	shell = next.(*shellModel)
	assert.Nil(t, cmd)
	assert.True(t, shell.searchActive)
	assert.Empty(t, requests)

	shell = drain(tea.Model(shell), touches[2]).(*shellModel)
	assert.False(t, shell.searchActive)
	require.NotEmpty(t, requests)
	assert.Contains(t, requests[0], "q=fda")
	assert.Equal(t, "fda", shell.location().Query)

	// Refinements replace the current history entry instead of pushing.
	assert.Equal(t, 1, shell.router.Depth())
}

func TestShellViewToggle(t *testing.T) {
	var requests []string
	m, _ := newTestShell(t, committeeHandler(t, &requests), shellOptions{entityType: "committees"})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)

	shell = press(shell, "v").(*shellModel)
	assert.Equal(t, modeTree, shell.mode)
	assert.Equal(t, string(registry.ViewHierarchy), shell.location().View)
	view := shell.View()
	assert.Contains(t, view, "Agriculture")
	assert.Contains(t, view, "▾")

	shell = press(shell, "v").(*shellModel)
	assert.Equal(t, modeList, shell.mode)
	assert.Equal(t, string(registry.ViewList), shell.location().View)
}

func TestShellViewToggleUnsupported(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{entityType: "people"})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)

	shell = press(shell, "v").(*shellModel)
	assert.Equal(t, modeList, shell.mode)
	assert.Contains(t, shell.View(), "only supports")
}

func TestShellDrillDownAndBack(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{entityType: "committees"})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)

	shell = press(shell, "enter").(*shellModel)
	assert.Equal(t, modeDetail, shell.mode)
	assert.Equal(t, 2, shell.router.Depth())
	assert.Contains(t, shell.View(), "Overview")

	shell = press(shell, "esc").(*shellModel)
	assert.Equal(t, modeList, shell.mode)
	assert.Equal(t, 1, shell.router.Depth())
}

func TestShellBackToHome(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{})
	shell := press(m, "enter").(*shellModel)
	require.Equal(t, modeList, shell.mode)

	shell = press(shell, "esc").(*shellModel)
	assert.Equal(t, modeHome, shell.mode)
}

func TestShellStaleResponseIgnored(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{entityType: "committees"})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)

	stale := pageLoadedMsg{seq: shell.seq - 1, page: &api.Page{TotalElements: 99}}
	next, _ := shell.Update(stale)
	shell = next.(*shellModel)
	assert.NotContains(t, shell.View(), "of 99")
}

func TestShellHeaderShowsLocation(t *testing.T) {
	m, _ := newTestShell(t, committeeHandler(t, nil), shellOptions{
		entityType: "committees",
		location:   navstate.Location{Query: "agri"},
	})
	shell := drain(tea.Model(m), m.Init()).(*shellModel)
	assert.Contains(t, shell.View(), "?q=agri")
}
