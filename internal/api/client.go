// Package api provides the HTTP client for the government records service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsanalyzer/govctl/internal/config"
	"github.com/newsanalyzer/govctl/internal/record"
)

const (
	// DefaultBaseURL is used when no api.base-url is configured.
	DefaultBaseURL = "http://localhost:8080"

	// BaseURLConfigPath and TimeoutConfigPath locate the client settings
	// in the profiled configuration.
	BaseURLConfigPath = "api.base-url"
	TimeoutConfigPath = "api.timeout"

	defaultTimeout = 30 * time.Second

	// maxPageFetch bounds FetchAll so a misbehaving server can not
	// drive an unbounded crawl.
	maxPageFetch = 200
)

// HTTPDoer is the subset of http.Client the API client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SortDirection orders a sorted page request.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// PageRequest describes one page of a collection listing.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction SortDirection
	Query     string
}

// Page is one page of records as returned by the service, which uses
// Spring-style pagination envelopes.
type Page struct {
	Items         []record.Record `json:"content"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api responded %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("api responded %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the government records REST API.
type Client struct {
	baseURL string
	doer    HTTPDoer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPDoer replaces the underlying HTTP client.
func WithHTTPDoer(d HTTPDoer) ClientOption {
	return func(c *Client) {
		c.doer = d
	}
}

// NewClient builds a client for the given base URL. The logger feeds the
// trace-level HTTP logging wrapper.
func NewClient(baseURL string, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    NewLoggingHTTPClient(logger),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from the profiled configuration,
// reading the base URL and request timeout (in seconds).
func NewClientFromConfig(cfg config.Hook, logger *slog.Logger) (*Client, error) {
	base := DefaultBaseURL
	timeout := defaultTimeout
	if cfg != nil {
		if v := strings.TrimSpace(cfg.GetString(BaseURLConfigPath)); v != "" {
			base = v
		}
		if secs := cfg.GetIntOrElse(TimeoutConfigPath, 0); secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", BaseURLConfigPath, base, err)
	}
	doer := NewLoggingHTTPClientWithClient(&http.Client{Timeout: timeout}, logger)
	return NewClient(base, logger, WithHTTPDoer(doer)), nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage retrieves one page of the collection at /api/<route>.
func (c *Client) FetchPage(ctx context.Context, route string, req PageRequest) (*Page, error) {
	q := url.Values{}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Size > 0 {
		q.Set("size", strconv.Itoa(req.Size))
	}
	if req.SortField != "" {
		dir := req.Direction
		if dir == "" {
			dir = SortAscending
		}
		q.Set("sort", req.SortField+","+string(dir))
	}
	if req.Query != "" {
		q.Set("q", req.Query)
	}

	endpoint := c.collectionURL(route)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		// Some endpoints return a bare array rather than a page
		// envelope. Treat that as a single full page.
		var items []record.Record
		if arrErr := json.Unmarshal(body, &items); arrErr != nil {
			return nil, fmt.Errorf("decoding %s response: %w", route, err)
		}
		page = Page{
			Items:         items,
			TotalElements: len(items),
			TotalPages:    1,
			Size:          len(items),
		}
	}
	if page.Items == nil {
		page.Items = []record.Record{}
	}
	return &page, nil
}

// FetchAll walks every page of a collection. Hierarchy views need the
// complete record set before tree assembly.
func (c *Client) FetchAll(ctx context.Context, route string) ([]record.Record, error) {
	var all []record.Record
	for pageNum := 0; pageNum < maxPageFetch; pageNum++ {
		page, err := c.FetchPage(ctx, route, PageRequest{Page: pageNum, Size: 200})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if pageNum >= page.TotalPages-1 || len(page.Items) == 0 {
			return all, nil
		}
	}
	return all, fmt.Errorf("collection %s exceeded %d pages", route, maxPageFetch)
}

// FetchOne retrieves a single record by its identifier.
func (c *Client) FetchOne(ctx context.Context, route string, id string) (record.Record, error) {
	endpoint := c.collectionURL(route) + "/" + url.PathEscape(id)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var rec record.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", route, err)
	}
	return rec, nil
}

func (c *Client) collectionURL(route string) string {
	return c.baseURL + "/api/" + strings.Trim(route, "/")
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			URL:        endpoint,
		}
	}
	return body, nil
}

// errorMessage pulls a human message out of a JSON error payload when
// the server provides one.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
