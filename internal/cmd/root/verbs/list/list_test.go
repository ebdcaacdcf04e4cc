package list

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsanalyzer/govctl/internal/api"
	cmdpkg "github.com/newsanalyzer/govctl/internal/cmd"
	"github.com/newsanalyzer/govctl/internal/cmd/common"
	"github.com/newsanalyzer/govctl/internal/config"
	"github.com/newsanalyzer/govctl/internal/iostreams"
	"github.com/newsanalyzer/govctl/internal/registry"
	cmdtest "github.com/newsanalyzer/govctl/test/cmd"
	configtest "github.com/newsanalyzer/govctl/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig() config.Hook {
	return &configtest.MockConfigHook{
		GetStringMock:    func(string) string { return "" },
		GetBoolMock:      func(string) bool { return false },
		GetIntOrElseMock: func(_ string, orElse int) int { return orElse },
	}
}

func newListHelper(t *testing.T, serverURL string, args []string, flags map[string]string) (
	cmdpkg.Helper, *iostreams.IOStreams,
) {
	t.Helper()

	command, err := NewListCmd()
	require.NoError(t, err)
	for name, value := range flags {
		require.NoError(t, command.Flags().Set(name, value))
	}

	streams, _, _, _ := iostreams.NewTestIOStreams()
	testStreams := &streams

	return &cmdtest.MockHelper{
		GetCmdMock:     func() *cobra.Command { return command },
		GetArgsMock:    func() []string { return args },
		GetStreamsMock: func() *iostreams.IOStreams { return testStreams },
		GetConfigMock:  func() (config.Hook, error) { return quietConfig(), nil },
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return common.TEXT, nil
		},
		GetLoggerMock: func() (*slog.Logger, error) { return nil, nil },
		GetAPIClientMock: func(config.Hook, *slog.Logger) (*api.Client, error) {
			return api.NewClient(serverURL, nil), nil
		},
		GetContextMock:  context.Background,
		GetRegistryMock: func() (*registry.Registry, error) { return registry.Default(), nil },
	}, testStreams
}

func springPage(records []map[string]any, number, size, total int) map[string]any {
	totalPages := (total + size - 1) / size
	return map[string]any{
		"content":       records,
		"totalElements": total,
		"totalPages":    totalPages,
		"number":        number,
		"size":          size,
	}
}

func TestListPrintsTable(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/api/people", r.URL.Path)
		page := springPage([]map[string]any{
			{"id": "P1", "lastName": "Smith", "firstName": "Jane", "party": "Independent", "state": "VT"},
		}, 0, 20, 1)
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	helper, streams := newListHelper(t, server.URL, []string{"people"}, nil)
	require.NoError(t, run(helper))

	out := fmt.Sprint(streams.Out)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Party")
	assert.Contains(t, out, "Smith, Jane")
	assert.Contains(t, out, "Showing 1 to 1 of 1")
	assert.Empty(t, gotQuery)
}

func TestListForwardsPagingAndSort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "50", q.Get("size"))
		assert.Equal(t, "lastName,desc", q.Get("sort"))
		assert.Equal(t, "smith", q.Get("q"))
		page := springPage([]map[string]any{
			{"id": "P2", "lastName": "Smithfield", "state": "IA"},
		}, 1, 50, 51)
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	helper, streams := newListHelper(t, server.URL, []string{"people"}, map[string]string{
		PageFlagName:  "1",
		SizeFlagName:  "50",
		SortFlagName:  "lastName,desc",
		QueryFlagName: "smith",
	})
	require.NoError(t, run(helper))
	assert.Contains(t, fmt.Sprint(streams.Out), "Showing 51 to 51 of 51")
}

func TestListSortDefaultsToAscending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "state,asc", r.URL.Query().Get("sort"))
		require.NoError(t, json.NewEncoder(w).Encode(springPage(nil, 0, 20, 0)))
	}))
	defer server.Close()

	helper, _ := newListHelper(t, server.URL, []string{"people"}, map[string]string{
		SortFlagName: "state",
	})
	require.NoError(t, run(helper))
}

func TestListUnknownEntityType(t *testing.T) {
	helper, _ := newListHelper(t, "http://unused", []string{"weather"}, nil)

	err := run(helper)
	require.Error(t, err)
	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), `unknown entity type "weather"`)
	assert.Contains(t, err.Error(), "people")
}

func TestListRejectsUnsortableField(t *testing.T) {
	helper, _ := newListHelper(t, "http://unused", []string{"people"}, map[string]string{
		SortFlagName: "chamber",
	})

	err := run(helper)
	require.Error(t, err)
	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "not sortable")
}

func TestListRejectsBadSortDirection(t *testing.T) {
	helper, _ := newListHelper(t, "http://unused", []string{"people"}, map[string]string{
		SortFlagName: "state,sideways",
	})

	err := run(helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort direction")
}

func TestListRejectsNegativePage(t *testing.T) {
	helper, _ := newListHelper(t, "http://unused", []string{"people"}, map[string]string{
		PageFlagName: "-1",
	})

	err := run(helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero-indexed")
}

func TestListWithoutArgsPrintsEntityTypes(t *testing.T) {
	helper, streams := newListHelper(t, "http://unused", nil, nil)
	require.NoError(t, run(helper))

	out := fmt.Sprint(streams.Out)
	for _, id := range registry.Default().Types() {
		assert.Contains(t, out, id)
	}
}

func TestListEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(springPage(nil, 0, 20, 0)))
	}))
	defer server.Close()

	helper, streams := newListHelper(t, server.URL, []string{"committees"}, nil)
	require.NoError(t, run(helper))
	assert.Contains(t, fmt.Sprint(streams.Out), "No committees found.")
}

func TestListBackendFailureWrapsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	helper, _ := newListHelper(t, server.URL, []string{"people"}, nil)

	err := run(helper)
	require.Error(t, err)
	var execErr *cmdpkg.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Msg, "Failed to list people")
}
