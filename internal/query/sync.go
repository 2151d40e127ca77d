package query

import (
	"fmt"

	"github.com/five82/rolo/internal/view"
)

// ParamStore is the part of the list-state store the syncer drives.
type ParamStore interface {
	Params() view.Params
	SetSearchTerm(term string)
	SetSortBy(key view.SortKey)
	SetSortOrder(order view.SortOrder)
	SetCurrentPage(page int)
	SetParams(p view.Params)
}

// Syncer applies each parameter change to the store and then to the location.
// When the location write fails the store is put back, so both change or
// neither does.
type Syncer struct {
	Store    ParamStore
	Location *Location
}

// Hydrate reads the location's query once at start-up and pushes each value
// that differs from the store into it. The location is then rewritten in its
// canonical form. Invalid values are reported but do not stop hydration.
func (s *Syncer) Hydrate() error {
	decoded, parseErr := Parse(s.Location.Query())
	cur := s.Store.Params()

	if decoded.Search != cur.Search {
		s.Store.SetSearchTerm(decoded.Search)
	}
	if decoded.SortBy != cur.SortBy {
		s.Store.SetSortBy(decoded.SortBy)
	}
	if decoded.SortOrder != cur.SortOrder {
		s.Store.SetSortOrder(decoded.SortOrder)
	}
	if decoded.Page != s.Store.Params().Page {
		s.Store.SetCurrentPage(decoded.Page)
	}

	if err := s.Location.ReplaceQuery(Encode(s.Store.Params())); err != nil {
		return err
	}
	return parseErr
}

// Search sets the search term and resets the page to 1.
func (s *Syncer) Search(term string) error {
	return s.apply(func() { s.Store.SetSearchTerm(term) })
}

// DraftSearch is Search for a term still being typed. The store and the
// location change together but nothing is persisted until CommitSearch, the
// next persisted change or Location.Flush.
func (s *Syncer) DraftSearch(term string) {
	s.Store.SetSearchTerm(term)
	s.Location.Draft(Encode(s.Store.Params()))
}

// CommitSearch persists a drafted search term.
func (s *Syncer) CommitSearch() error {
	return s.Location.Flush()
}

// SortBy changes the sort key.
func (s *Syncer) SortBy(key view.SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSort, key)
	}
	return s.apply(func() { s.Store.SetSortBy(key) })
}

// SortOrder changes the direction.
func (s *Syncer) SortOrder(order view.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
	return s.apply(func() { s.Store.SetSortOrder(order) })
}

// Page moves to page n.
func (s *Syncer) Page(n int) error {
	if n < 1 || n > MaxPage {
		return fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	return s.apply(func() { s.Store.SetCurrentPage(n) })
}

// ClearFilters resets every parameter to its default.
func (s *Syncer) ClearFilters() error {
	return s.apply(func() { s.Store.SetParams(view.DefaultParams()) })
}

// ClampPage resets the page to 1 when a derived result with count entries no
// longer reaches the current page. It reports whether a reset happened.
func (s *Syncer) ClampPage(count int) (bool, error) {
	if !view.NeedsClamp(count, s.Store.Params().Page) {
		return false, nil
	}
	if err := s.apply(func() { s.Store.SetCurrentPage(1) }); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Syncer) apply(change func()) error {
	prev := s.Store.Params()
	change()
	if err := s.Location.ReplaceQuery(Encode(s.Store.Params())); err != nil {
		s.Store.SetParams(prev)
		return err
	}
	return nil
}
