package query

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Route paths.
const (
	PathNew       = "/"
	PathContacts  = "/contacts"
	PathFavorites = "/favorites"
	PathActivity  = "/activity"
)

// Page identifies which surface a location addresses.
type Page int

const (
	PageList Page = iota
	PageNew
	PageDetail
	PageFavorites
	PageActivity
)

// Route is a parsed location path.
type Route struct {
	Page Page
	ID   int64
}

// SplitLocation separates raw into its path and query. A bare query such as
// "?page=2" or "page=2" addresses the contact list.
func SplitLocation(raw string) (path, rawQuery string) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.Index(raw, "://"); i >= 0 {
		rest := raw[i+3:]
		if j := strings.IndexAny(rest, "/?"); j >= 0 {
			raw = rest[j:]
		} else {
			raw = ""
		}
	}
	path, rawQuery, found := strings.Cut(raw, "?")
	if !found && !strings.HasPrefix(path, "/") && strings.Contains(path, "=") {
		return PathContacts, path
	}
	if path == "" {
		path = PathContacts
	}
	return path, rawQuery
}

// ParseRoute maps a path to a Route. Unknown paths address the list.
func ParseRoute(path string) Route {
	path = strings.TrimSuffix(path, "/")
	switch {
	case path == "" || path == "/new":
		return Route{Page: PageNew}
	case path == PathFavorites:
		return Route{Page: PageFavorites}
	case path == PathActivity:
		return Route{Page: PageActivity}
	case strings.HasPrefix(path, PathContacts+"/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(path, PathContacts+"/"), 10, 64)
		if err != nil || id < 1 {
			return Route{Page: PageList}
		}
		return Route{Page: PageDetail, ID: id}
	}
	return Route{Page: PageList}
}

// Path renders r back to a location path.
func (r Route) Path() string {
	switch r.Page {
	case PageNew:
		return PathNew
	case PageDetail:
		return PathContacts + "/" + strconv.FormatInt(r.ID, 10)
	case PageFavorites:
		return PathFavorites
	case PageActivity:
		return PathActivity
	}
	return PathContacts
}

// Location is the client's address bar: a path plus the list query string.
// Every change is handed to the persist hook, when set, before it takes effect.
// Draft is the exception: it changes the query in memory and leaves the write
// to the next persisted change or Flush.
type Location struct {
	mu       sync.Mutex
	path     string
	rawQuery string
	dirty    bool
	persist  func(string) error
}

// NewLocation starts at raw. persist may be nil.
func NewLocation(raw string, persist func(string) error) *Location {
	path, rawQuery := SplitLocation(raw)
	return &Location{path: path, rawQuery: rawQuery, persist: persist}
}

// Path returns the current path.
func (l *Location) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Query returns the current query string without "?".
func (l *Location) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rawQuery
}

// String renders the location as "path?query". The query is omitted when empty.
func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return render(l.path, l.rawQuery)
}

// ReplaceQuery swaps the query string, keeping the path.
func (l *Location) ReplaceQuery(rawQuery string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(l.path, rawQuery)
}

// Navigate moves to path, keeping the list query.
func (l *Location) Navigate(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(path, l.rawQuery)
}

// Draft swaps the query string without persisting it.
func (l *Location) Draft(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rawQuery != l.rawQuery {
		l.rawQuery = rawQuery
		l.dirty = true
	}
}

// Flush persists a drafted query. It does nothing when no draft is pending.
func (l *Location) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return nil
	}
	return l.set(l.path, l.rawQuery)
}

func (l *Location) set(path, rawQuery string) error {
	if path == l.path && rawQuery == l.rawQuery && !l.dirty {
		return nil
	}
	if l.persist != nil {
		if err := l.persist(render(path, rawQuery)); err != nil {
			return fmt.Errorf("persist location: %w", err)
		}
	}
	l.path = path
	l.rawQuery = rawQuery
	l.dirty = false
	return nil
}

func render(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
