package datastore

import (
	"context"
	"slices"
	"sync"

	"github.com/five82/rolo/internal/contacts"
)

// Inmem implements [ContactsStore] in process memory.
type Inmem struct {
	mu       sync.Mutex
	lastID   int64
	contacts []contacts.Contact
}

var _ ContactsStore = (*Inmem)(nil)

// NewInmem returns a store seeded with fields, assigned ids from 1.
func NewInmem(seed ...contacts.Fields) *Inmem {
	s := &Inmem{}
	for _, f := range seed {
		s.lastID++
		s.contacts = append(s.contacts, contacts.Contact{ID: s.lastID, Fields: f})
	}
	return s
}

func (s *Inmem) List(context.Context) ([]contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts), nil
}

func (s *Inmem) Get(_ context.Context, id int64) (contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return contacts.Contact{}, ErrNotFound
	}
	return s.contacts[i], nil
}

func (s *Inmem) Create(_ context.Context, fields contacts.Fields) (contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	c := contacts.Contact{ID: s.lastID, Fields: fields}
	s.contacts = append(s.contacts, c)
	return c, nil
}

func (s *Inmem) Update(_ context.Context, id int64, patch Patch) (contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return contacts.Contact{}, ErrNotFound
	}
	patch.Apply(&s.contacts[i].Fields)
	return s.contacts[i], nil
}

func (s *Inmem) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	return nil
}

func (s *Inmem) Ping(context.Context) error { return nil }

func (s *Inmem) index(id int64) int {
	return slices.IndexFunc(s.contacts, func(c contacts.Contact) bool { return c.ID == id })
}
