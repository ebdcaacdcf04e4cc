package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/newsanalyzer/govctl/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, nil, WithHTTPDoer(server.Client()))
	return client, server
}

func TestFetchPageDecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/government-organizations", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Equal(t, "officialName,desc", r.URL.Query().Get("sort"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"id": "a", "officialName": "Department of Energy"},
				{"id": "b", "officialName": "Department of State"},
			},
			"totalElements": 25,
			"totalPages":    3,
			"number":        1,
			"size":          10,
		})
	}))

	page, err := client.FetchPage(context.Background(), "government-organizations", PageRequest{
		Page:      1,
		Size:      10,
		SortField: "officialName",
		Direction: SortDescending,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Department of Energy", record.StringField(page.Items[0], "officialName"))
}

func TestFetchPageAcceptsBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"committeeCode": "HSAG", "name": "Agriculture"},
		})
	}))

	page, err := client.FetchPage(context.Background(), "committees", PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.TotalElements)
	require.Len(t, page.Items, 1)
}

func TestFetchPageSendsQueryParam(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fda", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}, "totalPages": 1})
	}))

	page, err := client.FetchPage(context.Background(), "government-organizations", PageRequest{Query: "fda"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestFetchAllWalksEveryPage(t *testing.T) {
	const totalPages = 3
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		require.Less(t, pageNum, totalPages)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"id": strconv.Itoa(pageNum)},
			},
			"totalElements": totalPages,
			"totalPages":    totalPages,
			"number":        pageNum,
		})
	}))

	records, err := client.FetchAll(context.Background(), "people")
	require.NoError(t, err)
	require.Len(t, records, totalPages)
	assert.Equal(t, "2", record.StringField(records[2], "id"))
}

func TestFetchOne(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/committees/HSAG", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"committeeCode": "HSAG",
			"name":          "House Committee on Agriculture",
		})
	}))

	rec, err := client.FetchOne(context.Background(), "committees", "HSAG")
	require.NoError(t, err)
	assert.Equal(t, "House Committee on Agriculture", record.StringField(rec, "name"))
}

func TestErrorResponsesBecomeAPIErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "committee not found"})
	}))

	_, err := client.FetchOne(context.Background(), "committees", "NOPE")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "committee not found")
	assert.True(t, IsNotFound(err))
}

func TestFetchPageNilItemsNormalized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"totalElements": 0, "totalPages": 0})
	}))

	page, err := client.FetchPage(context.Background(), "statutes", PageRequest{})
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}
