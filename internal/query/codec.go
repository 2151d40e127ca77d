// Package query maps view parameters to and from the location's query string
// and keeps the store and the location in step.
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/rolo/internal/view"
)

// Query-string keys.
const (
	KeySearch    = "search"
	KeyPage      = "page"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"
)

// MaxPage bounds the page a query string may ask for, so page arithmetic on
// it cannot overflow.
const MaxPage = math.MaxInt / view.PageSize

var (
	ErrInvalidPage  = errors.New("page must be a positive integer in range")
	ErrInvalidSort  = errors.New("unknown sort key")
	ErrInvalidOrder = errors.New("sort order must be asc or desc")
)

// Encode renders p as a query string without the leading "?". Parameters equal
// to their defaults are omitted, so DefaultParams encodes to "". Keys are
// written as search, page, sortBy, sortOrder and spaces as %20.
func Encode(p view.Params) string {
	d := view.DefaultParams()
	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, key+"="+strings.ReplaceAll(url.QueryEscape(value), "+", "%20"))
	}
	if p.Search != d.Search {
		add(KeySearch, p.Search)
	}
	if p.Page != d.Page && p.Page > 0 {
		add(KeyPage, strconv.Itoa(p.Page))
	}
	if p.SortBy != d.SortBy && p.SortBy.Valid() {
		add(KeySortBy, string(p.SortBy))
	}
	if p.SortOrder != d.SortOrder && p.SortOrder.Valid() {
		add(KeySortOrder, string(p.SortOrder))
	}
	return strings.Join(pairs, "&")
}

// Parse decodes raw strictly. raw may carry a leading "?" or be a whole
// location such as "/contacts?page=2". Missing keys take their defaults.
// Invalid values also take their defaults and are reported in the joined error.
func Parse(raw string) (view.Params, error) {
	p := view.DefaultParams()
	_, rawQuery := SplitLocation(raw)
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return p, fmt.Errorf("parse query: %w", err)
	}

	var errs []error
	if values.Has(KeySearch) {
		p.Search = values.Get(KeySearch)
	}
	if values.Has(KeyPage) {
		n, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyPage)))
		if err != nil || n < 1 || n > MaxPage {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPage, values.Get(KeyPage)))
		} else {
			p.Page = n
		}
	}
	if values.Has(KeySortBy) {
		key := view.SortKey(values.Get(KeySortBy))
		if key.Valid() {
			p.SortBy = key
		} else {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSort, key))
		}
	}
	if values.Has(KeySortOrder) {
		order := view.SortOrder(values.Get(KeySortOrder))
		if order.Valid() {
			p.SortOrder = order
		} else {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOrder, order))
		}
	}
	return p, errors.Join(errs...)
}

// Decode is Parse with errors dropped.
func Decode(raw string) view.Params {
	p, _ := Parse(raw)
	return p
}
