// Package datastore holds rolod's contact storage backends.
package datastore

import (
	"context"
	"errors"

	"github.com/five82/rolo/internal/contacts"
)

// ContactsStore persists contacts. List returns contacts in creation order.
type ContactsStore interface {
	List(ctx context.Context) ([]contacts.Contact, error)
	Get(ctx context.Context, id int64) (contacts.Contact, error)
	Create(ctx context.Context, fields contacts.Fields) (contacts.Contact, error)
	Update(ctx context.Context, id int64, patch Patch) (contacts.Contact, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

var ErrNotFound = errors.New("store: contact not found")

// Patch carries the fields of a partial update. Nil fields are left alone.
type Patch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Street    *string
	City      *string
	State     *string
	Company   *string
	Title     *string
	Notes     *string
	Birthday  *string
}

// Apply copies every non-nil field of p onto f.
func (p Patch) Apply(f *contacts.Fields) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.FirstName, p.FirstName)
	set(&f.LastName, p.LastName)
	set(&f.Phone, p.Phone)
	set(&f.Email, p.Email)
	set(&f.Street, p.Street)
	set(&f.City, p.City)
	set(&f.State, p.State)
	set(&f.Company, p.Company)
	set(&f.Title, p.Title)
	set(&f.Notes, p.Notes)
	set(&f.Birthday, p.Birthday)
}
