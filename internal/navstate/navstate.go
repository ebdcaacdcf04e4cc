// Package navstate keeps explorer navigation state (search query, view
// mode, page) in a canonical encoded form and synchronizes it with a
// history of visited locations.
package navstate

import (
	"net/url"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Query parameter names shared with the web frontend, kept stable so a
// location string can be pasted into either surface.
const (
	paramQuery = "q"
	paramView  = "view"
	paramPage  = "page"
)

// Location is one navigation state of the explorer.
type Location struct {
	EntityType string
	Query      string
	View       string
	Page       int
}

// Encode renders the location's parameters in canonical order.
// Parameters that hold their default value are omitted: an empty
// query, the entity type's default view, and page zero.
func (l Location) Encode(defaultView string) string {
	var buf []byte
	appendParam := func(key, value string) {
		if len(buf) == 0 {
			buf = append(buf, '?')
		} else {
			buf = append(buf, '&')
		}
		buf = append(buf, key...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(value)...)
	}

	if l.Query != "" {
		appendParam(paramQuery, l.Query)
	}
	if l.View != "" && l.View != defaultView {
		appendParam(paramView, l.View)
	}
	if l.Page > 0 {
		appendParam(paramPage, strconv.Itoa(l.Page))
	}
	return string(buf)
}

// Parse reads an encoded parameter string back into a location.
// Unknown parameters are ignored and a malformed page falls back to
// zero.
func Parse(entityType, encoded string) Location {
	loc := Location{EntityType: entityType}
	if len(encoded) > 0 && encoded[0] == '?' {
		encoded = encoded[1:]
	}
	values, err := url.ParseQuery(encoded)
	if err != nil {
		return loc
	}
	loc.Query = values.Get(paramQuery)
	loc.View = values.Get(paramView)
	if raw := values.Get(paramPage); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			loc.Page = page
		}
	}
	return loc
}

// WithQuery returns the location with a new search query. Changing the
// query always returns to the first page.
func (l Location) WithQuery(q string) Location {
	if q == l.Query {
		return l
	}
	l.Query = q
	l.Page = 0
	return l
}

// WithView returns the location with a new view mode. The page resets
// because the two views paginate differently.
func (l Location) WithView(view string) Location {
	if view == l.View {
		return l
	}
	l.View = view
	l.Page = 0
	return l
}

// WithPage returns the location on a different page.
func (l Location) WithPage(page int) Location {
	if page < 0 {
		page = 0
	}
	l.Page = page
	return l
}

// Router records visited locations. Replace rewrites the current entry
// in place, the way search refinements should not pollute history.
// Push adds a new entry that Back can return to.
type Router interface {
	Current() Location
	Replace(Location)
	Push(Location)
	Back() (Location, bool)
}

// HistoryRouter is an in-memory Router.
type HistoryRouter struct {
	stack []Location
}

// NewHistoryRouter starts a router at the given location.
func NewHistoryRouter(start Location) *HistoryRouter {
	return &HistoryRouter{stack: []Location{start}}
}

func (r *HistoryRouter) Current() Location {
	return r.stack[len(r.stack)-1]
}

func (r *HistoryRouter) Replace(loc Location) {
	r.stack[len(r.stack)-1] = loc
}

func (r *HistoryRouter) Push(loc Location) {
	r.stack = append(r.stack, loc)
}

// Back pops to the previous location. The second return is false when
// already at the first entry.
func (r *HistoryRouter) Back() (Location, bool) {
	if len(r.stack) <= 1 {
		return r.Current(), false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return r.Current(), true
}

// Depth returns the number of recorded locations.
func (r *HistoryRouter) Depth() int {
	return len(r.stack)
}

// SearchDebounceInterval is how long typing must pause before a search
// query is committed.
const SearchDebounceInterval = 300 * time.Millisecond

// DebounceFiredMsg is delivered when a scheduled debounce interval
// elapsed. Stale messages carry an earlier deadline than the
// debouncer's current one and must be ignored.
type DebounceFiredMsg struct {
	Deadline time.Time
}

// Debouncer implements trailing-edge debounce on top of bubbletea's
// tick scheduling. Every Touch re-stamps the deadline, so only the
// tick scheduled by the final keystroke of a burst fires.
type Debouncer struct {
	Interval time.Duration

	deadline time.Time
	now      func() time.Time
}

// NewDebouncer builds a debouncer with the standard search interval.
func NewDebouncer() *Debouncer {
	return &Debouncer{Interval: SearchDebounceInterval}
}

// Touch registers activity and returns the command that will deliver a
// DebounceFiredMsg once the interval passes without further touches.
func (d *Debouncer) Touch() tea.Cmd {
	interval := d.Interval
	if interval <= 0 {
		interval = SearchDebounceInterval
	}
	deadline := d.clock()().Add(interval)
	d.deadline = deadline
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return DebounceFiredMsg{Deadline: deadline}
	})
}

// Fired reports whether msg corresponds to the latest Touch. Earlier
// pending ticks return false and should be dropped.
func (d *Debouncer) Fired(msg DebounceFiredMsg) bool {
	return !d.deadline.IsZero() && msg.Deadline.Equal(d.deadline)
}

// Cancel discards any pending deadline.
func (d *Debouncer) Cancel() {
	d.deadline = time.Time{}
}

func (d *Debouncer) clock() func() time.Time {
	if d.now != nil {
		return d.now
	}
	return time.Now
}
