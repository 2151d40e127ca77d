package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
	"github.com/five82/rolo/internal/view"
)

// Op names an asynchronous operation kind.
type Op int

const (
	OpList Op = iota
	OpGet
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpGet:
		return "get"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

func (o Op) isRead() bool {
	return o == OpList || o == OpGet
}

// Ticket identifies one in-flight request.
type Ticket struct {
	Op    Op
	Epoch uint64
}

// State is the data the UI renders.
type State struct {
	Contacts    []contacts.Contact
	Favorites   favorites.Set
	Params      view.Params
	Loading     bool
	Error       string
	Selected    *contacts.Contact
	LastUpdated time.Time
}

// Store serializes every transition on State.
type Store struct {
	mu       sync.RWMutex
	state    State
	storage  favorites.Storage
	inflight int
	epochs   map[Op]uint64
	cancels  map[Op]context.CancelFunc
}

// NewStore builds a store with default view parameters and the given favorite
// set. storage receives every favorite write and may be nil in tests that never
// touch favorites.
func NewStore(storage favorites.Storage, initial favorites.Set) *Store {
	return &Store{
		state: State{
			Favorites: initial,
			Params:    view.DefaultParams(),
		},
		storage: storage,
		epochs:  make(map[Op]uint64),
		cancels: make(map[Op]context.CancelFunc),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Contacts = contacts.Clone(s.state.Contacts)
	if s.state.Selected != nil {
		sel := *s.state.Selected
		snap.Selected = &sel
	}
	return snap
}

// Params returns the current view parameters.
func (s *Store) Params() view.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Params
}

// SetSearchTerm replaces the search term and resets the page to 1.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Params.Search = term
	s.state.Params.Page = 1
}

// SetSortBy replaces the sort key. The page is kept.
func (s *Store) SetSortBy(key view.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Params.SortBy = key
}

// SetSortOrder replaces the sort direction. The page is kept.
func (s *Store) SetSortOrder(order view.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Params.SortOrder = order
}

// SetCurrentPage stores n verbatim. Clamping is the consumer's job.
func (s *Store) SetCurrentPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Params.Page = n
}

// SetParams replaces all view parameters at once.
func (s *Store) SetParams(p view.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Params = p
}

// ClearError drops the last error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// SetSelectedContact replaces the selection. nil clears it.
func (s *Store) SetSelectedContact(c *contacts.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		s.state.Selected = nil
		return
	}
	sel := *c
	s.state.Selected = &sel
}

// ToggleFavorite flips id in the favorite set and persists the result before
// returning. On a write failure nothing changes in memory and the error is
// both returned and recorded.
func (s *Store) ToggleFavorite(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Favorites.Toggle(id)
	if err := s.saveFavorites(next); err != nil {
		s.state.Error = err.Error()
		return err
	}
	s.state.Favorites = next
	return nil
}

func (s *Store) saveFavorites(next favorites.Set) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Save(next); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// Begin enters the pending phase of op. The returned context is cancelled when
// a newer read of the same kind begins.
func (s *Store) Begin(ctx context.Context, op Op) (context.Context, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[op]++
	t := Ticket{Op: op, Epoch: s.epochs[op]}

	if op.isRead() {
		if cancel := s.cancels[op]; cancel != nil {
			cancel()
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		s.cancels[op] = cancel
	}

	s.inflight++
	s.state.Loading = true
	s.state.Error = ""
	return ctx, t
}

// ErrSuperseded is reported for a read whose result was discarded because a
// newer read of the same kind had begun.
var ErrSuperseded = errors.New("superseded by a newer request")

// finish leaves the in-flight set and reports whether t's result still
// applies. Caller holds the lock.
func (s *Store) finish(t Ticket) bool {
	if s.inflight > 0 {
		s.inflight--
	}
	s.state.Loading = s.inflight > 0

	if !t.Op.isRead() {
		return true
	}
	if s.epochs[t.Op] != t.Epoch {
		return false
	}
	if cancel := s.cancels[t.Op]; cancel != nil {
		cancel()
		delete(s.cancels, t.Op)
	}
	return true
}

func (s *Store) reject(err error) {
	s.state.Error = err.Error()
}

// CompleteList applies the outcome of a list request.
func (s *Store) CompleteList(t Ticket, items []contacts.Contact, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(t) {
		return ErrSuperseded
	}
	if err != nil {
		s.reject(err)
		return err
	}
	s.state.Contacts = contacts.Clone(items)
	s.state.LastUpdated = time.Now()
	return nil
}

// CompleteGet applies the outcome of a get request to the selection.
func (s *Store) CompleteGet(t Ticket, c contacts.Contact, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finish(t) {
		return ErrSuperseded
	}
	if err != nil {
		s.reject(err)
		return err
	}
	s.state.Selected = &c
	return nil
}

// CompleteCreate appends the created contact to the end of the collection.
func (s *Store) CompleteCreate(t Ticket, c contacts.Contact, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finish(t)
	if err != nil {
		s.reject(err)
		return err
	}
	s.state.Contacts = append(contacts.Clone(s.state.Contacts), c)
	return nil
}

// CompleteUpdate replaces the entry with c's id, and the selection when it
// points at the same id. An unknown id leaves the collection as is.
func (s *Store) CompleteUpdate(t Ticket, c contacts.Contact, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finish(t)
	if err != nil {
		s.reject(err)
		return err
	}
	if i := s.indexOf(c.ID); i >= 0 {
		next := contacts.Clone(s.state.Contacts)
		next[i] = c
		s.state.Contacts = next
	}
	if s.state.Selected != nil && s.state.Selected.ID == c.ID {
		sel := c
		s.state.Selected = &sel
	}
	return nil
}

// CompleteDelete removes id from the collection and from the favorite set. If
// the favorite write fails the contact is still removed, the set is left as it
// was and the write error is recorded and returned.
func (s *Store) CompleteDelete(t Ticket, id int64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finish(t)
	if err != nil {
		s.reject(err)
		return err
	}
	s.state.Contacts = slices.DeleteFunc(contacts.Clone(s.state.Contacts), func(c contacts.Contact) bool {
		return c.ID == id
	})
	if s.state.Selected != nil && s.state.Selected.ID == id {
		s.state.Selected = nil
	}
	if s.state.Favorites.Has(id) {
		next := s.state.Favorites.Remove(id)
		if err := s.saveFavorites(next); err != nil {
			s.reject(err)
			return err
		}
		s.state.Favorites = next
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.state.Contacts, func(c contacts.Contact) bool { return c.ID == id })
}
