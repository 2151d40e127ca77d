package state

import (
	"context"
	"errors"
	"log/slog"

	"github.com/five82/rolo/internal/contacts"
)

// Actions runs the five remote operations against a Store. Every failure is
// recorded in the store and also returned, so callers can branch on success.
type Actions struct {
	Store  *Store
	API    contacts.API
	Logger *slog.Logger
}

func (a *Actions) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *Actions) logResult(op Op, err error, attrs ...any) {
	switch {
	case err == nil:
		a.logger().Debug("request completed", append([]any{"op", op.String()}, attrs...)...)
	case errors.Is(err, ErrSuperseded):
		a.logger().Debug("stale response discarded", append([]any{"op", op.String()}, attrs...)...)
	default:
		a.logger().Warn("request failed", append([]any{"op", op.String(), "error", err}, attrs...)...)
	}
}

// FetchContacts replaces the collection with the server's list.
func (a *Actions) FetchContacts(ctx context.Context) error {
	ctx, t := a.Store.Begin(ctx, OpList)
	items, err := a.API.List(ctx)
	err = a.Store.CompleteList(t, items, err)
	a.logResult(OpList, err, "count", len(items))
	return err
}

// FetchContactByID loads one contact into the selection.
func (a *Actions) FetchContactByID(ctx context.Context, id int64) error {
	ctx, t := a.Store.Begin(ctx, OpGet)
	c, err := a.API.Get(ctx, id)
	err = a.Store.CompleteGet(t, c, err)
	a.logResult(OpGet, err, "id", id)
	return err
}

// CreateContact validates fields and submits them. Validation failures return
// before any request is made and leave the store untouched.
func (a *Actions) CreateContact(ctx context.Context, fields contacts.Fields) (contacts.Contact, error) {
	if err := fields.Validate(); err != nil {
		return contacts.Contact{}, err
	}
	ctx, t := a.Store.Begin(ctx, OpCreate)
	c, err := a.API.Create(ctx, fields)
	err = a.Store.CompleteCreate(t, c, err)
	a.logResult(OpCreate, err, "id", c.ID)
	if err != nil {
		return contacts.Contact{}, err
	}
	return c, nil
}

// UpdateContact sends c and stores the server's copy.
func (a *Actions) UpdateContact(ctx context.Context, c contacts.Contact) error {
	ctx, t := a.Store.Begin(ctx, OpUpdate)
	updated, err := a.API.Update(ctx, c)
	err = a.Store.CompleteUpdate(t, updated, err)
	a.logResult(OpUpdate, err, "id", c.ID)
	return err
}

// DeleteContact removes id remotely, then locally along with its favorite.
func (a *Actions) DeleteContact(ctx context.Context, id int64) error {
	ctx, t := a.Store.Begin(ctx, OpDelete)
	echoed, err := a.API.Delete(ctx, id)
	if err == nil && echoed != 0 {
		id = echoed
	}
	err = a.Store.CompleteDelete(t, id, err)
	a.logResult(OpDelete, err, "id", id)
	return err
}

// ToggleFavorite flips id and logs a failed write.
func (a *Actions) ToggleFavorite(id int64) error {
	err := a.Store.ToggleFavorite(id)
	if err != nil {
		a.logger().Warn("favorite toggle failed", "id", id, "error", err)
	}
	return err
}
