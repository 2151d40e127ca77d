package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/five82/rolo/internal/contacts"
	ds "github.com/five82/rolo/internal/server/datastore"
)

// Contacts serves /contacts. Register methods are called by [huma.AutoRegister].
type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

// ContactModel is the wire form of a contact.
type ContactModel struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombre"             example:"Ana"`
	LastName  string `json:"apellido"           example:"Lopez"`
	Phone     string `json:"telefono"           example:"555-0101"`
	Email     string `json:"correo_electronico" example:"ana@example.com"`
	Street    string `json:"calle"`
	City      string `json:"ciudad"`
	State     string `json:"estado"`
	Company   string `json:"empresa"`
	Title     string `json:"cargo"`
	Notes     string `json:"notas"`
	Birthday  string `json:"fecha_cumpleanos"   example:"1990-02-03"`
}

func toModel(c contacts.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		Street:    c.Street,
		City:      c.City,
		State:     c.State,
		Company:   c.Company,
		Title:     c.Title,
		Notes:     c.Notes,
		Birthday:  c.Birthday,
	}
}

// ContactInput is a create body. Every field is optional at the schema level
// so that missing names produce a 400 rather than a validation 422.
type ContactInput struct {
	ID        int64  `json:"id,omitempty"                 doc:"ignored, ids are assigned by the server"`
	FirstName string `json:"nombre,omitempty"`
	LastName  string `json:"apellido,omitempty"`
	Phone     string `json:"telefono,omitempty"`
	Email     string `json:"correo_electronico,omitempty"`
	Street    string `json:"calle,omitempty"`
	City      string `json:"ciudad,omitempty"`
	State     string `json:"estado,omitempty"`
	Company   string `json:"empresa,omitempty"`
	Title     string `json:"cargo,omitempty"`
	Notes     string `json:"notas,omitempty"`
	Birthday  string `json:"fecha_cumpleanos,omitempty"`
}

func (in ContactInput) fields() contacts.Fields {
	return contacts.Fields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Company:   in.Company,
		Title:     in.Title,
		Notes:     in.Notes,
		Birthday:  in.Birthday,
	}
}

// ContactPatch is a partial update body. Absent fields are left unchanged.
type ContactPatch struct {
	ID        int64   `json:"id,omitempty" doc:"ignored, the path id wins"`
	FirstName *string `json:"nombre,omitempty"`
	LastName  *string `json:"apellido,omitempty"`
	Phone     *string `json:"telefono,omitempty"`
	Email     *string `json:"correo_electronico,omitempty"`
	Street    *string `json:"calle,omitempty"`
	City      *string `json:"ciudad,omitempty"`
	State     *string `json:"estado,omitempty"`
	Company   *string `json:"empresa,omitempty"`
	Title     *string `json:"cargo,omitempty"`
	Notes     *string `json:"notas,omitempty"`
	Birthday  *string `json:"fecha_cumpleanos,omitempty"`
}

func (p ContactPatch) patch() ds.Patch {
	return ds.Patch{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Street:    p.Street,
		City:      p.City,
		State:     p.State,
		Company:   p.Company,
		Title:     p.Title,
		Notes:     p.Notes,
		Birthday:  p.Birthday,
	}
}

type contactOutput struct {
	Body ContactModel
}

type contactIDInput struct {
	ID int64 `path:"id" doc:"ID of the contact"`
}

func (h *Contacts) RegisterList(api huma.API) {
	huma.Get(api, "/contacts",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type contactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*contactsListOutput, error) {
	items, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	body := make([]ContactModel, 0, len(items))
	for _, c := range items {
		body = append(body, toModel(c))
	}
	return &contactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) {
	huma.Get(api, "/contacts/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) get(ctx context.Context, input *contactIDInput) (*contactOutput, error) {
	c, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return &contactOutput{Body: toModel(c)}, nil
}

func (h *Contacts) RegisterCreate(api huma.API) {
	huma.Post(api, "/contacts",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opErrors(http.StatusBadRequest, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body ContactInput
}) (*contactOutput, error) {
	fields := input.Body.fields()
	if strings.TrimSpace(fields.FirstName) == "" || strings.TrimSpace(fields.LastName) == "" {
		return nil, huma.Error400BadRequest("nombre and apellido are required")
	}
	c, err := h.Store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	return &contactOutput{Body: toModel(c)}, nil
}

func (h *Contacts) RegisterPatch(api huma.API) {
	huma.Patch(api, "/contacts/{id}",
		handlerWithErrorHandler(h.patch, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) patch(ctx context.Context, input *struct {
	ID   int64 `path:"id" doc:"ID of the contact to update"`
	Body ContactPatch
}) (*contactOutput, error) {
	c, err := h.Store.Update(ctx, input.ID, input.Body.patch())
	if err != nil {
		return nil, storeError(err)
	}
	return &contactOutput{Body: toModel(c)}, nil
}

func (h *Contacts) RegisterDelete(api huma.API) {
	huma.Delete(api, "/contacts/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusNoContent },
	)
}

func (h *Contacts) del(ctx context.Context, input *contactIDInput) (*struct{}, error) {
	if err := h.Store.Delete(ctx, input.ID); err != nil {
		return nil, storeError(err)
	}
	return nil, nil
}

func storeError(err error) error {
	if errors.Is(err, ds.ErrNotFound) {
		return huma.Error404NotFound("Contact not found", err)
	}
	return err
}

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}
	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}
