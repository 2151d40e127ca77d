package view

import (
	"slices"
	"strings"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter keeps contacts whose first name, last name, email or company contains
// term ignoring case, or whose phone contains term verbatim. An empty term
// returns items unchanged.
func Filter(items []contacts.Contact, term string) []contacts.Contact {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]contacts.Contact, 0, len(items))
	for _, c := range items {
		if matches(c, term, needle) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c contacts.Contact, term, needle string) bool {
	for _, field := range []string{c.FirstName, c.LastName, c.Email, c.Company} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return strings.Contains(c.Phone, term)
}

// Sort returns a stably sorted copy of items. For descending order the
// comparator operands are swapped, so equal keys keep collection order in
// both directions.
func Sort(items []contacts.Contact, key SortKey, order SortOrder) []contacts.Contact {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}
	col := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b contacts.Contact) int {
		x, y := sortValue(a, key), sortValue(b, key)
		if order == Descending {
			x, y = y, x
		}
		return col.CompareString(x, y)
	})
	return out
}

func sortValue(c contacts.Contact, key SortKey) string {
	var v string
	switch key {
	case SortLastName:
		v = c.LastName
	case SortCompany:
		v = c.Company
	case SortPhone:
		v = c.Phone
	default:
		v = c.FirstName
	}
	return strings.ToLower(v)
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns elements [(page-1)*PageSize, page*PageSize). Pages outside
// the result yield an empty slice.
func Paginate(items []contacts.Contact, page int) []contacts.Contact {
	if page < 1 || page > TotalPages(len(items)) {
		return []contacts.Contact{}
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(items))
	return items[start:end:end]
}

// NeedsClamp reports whether page no longer indexes a non-empty page of a
// result with count entries and must be reset to 1.
func NeedsClamp(count, page int) bool {
	return count > 0 && page > 1 && page > TotalPages(count)
}

// Favorites returns the contacts whose id is in set, in collection order.
func Favorites(items []contacts.Contact, set favorites.Set) []contacts.Contact {
	out := make([]contacts.Contact, 0, set.Len())
	for _, c := range items {
		if set.Has(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// Result is one derived page.
type Result struct {
	Items        []contacts.Contact
	Filtered     int
	TotalPages   int
	Page         int
	ClampToFirst bool
}

// Derive runs filter, sort and paginate over items for p.
func Derive(items []contacts.Contact, p Params) Result {
	filtered := Sort(Filter(items, p.Search), p.SortBy, p.SortOrder)
	return Result{
		Items:        Paginate(filtered, p.Page),
		Filtered:     len(filtered),
		TotalPages:   TotalPages(len(filtered)),
		Page:         p.Page,
		ClampToFirst: NeedsClamp(len(filtered), p.Page),
	}
}
