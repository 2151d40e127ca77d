// Package view derives the visible slice of the contact list from the full
// collection and the current view parameters.
package view

import "strings"

// PageSize is the number of contacts per page.
const PageSize = 9

// SortKey names the contact field a list is ordered by. Values double as the
// location's sortBy strings.
type SortKey string

const (
	SortFirstName SortKey = "nombre"
	SortLastName  SortKey = "apellido"
	SortCompany   SortKey = "empresa"
	SortPhone     SortKey = "telefono"
)

// SortKeys lists every key in cycling order.
var SortKeys = []SortKey{SortFirstName, SortLastName, SortCompany, SortPhone}

// Valid reports whether k is one of SortKeys.
func (k SortKey) Valid() bool {
	switch k {
	case SortFirstName, SortLastName, SortCompany, SortPhone:
		return true
	}
	return false
}

// Label is the human-readable name shown in the command bar.
func (k SortKey) Label() string {
	switch k {
	case SortFirstName:
		return "First name"
	case SortLastName:
		return "Last name"
	case SortCompany:
		return "Company"
	case SortPhone:
		return "Phone"
	}
	return strings.TrimSpace(string(k))
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortFirstName
}

// SortOrder is the list direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

// Toggle flips the direction.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// Params are the ephemeral view parameters mirrored in the location.
type Params struct {
	Search    string
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
}

// DefaultParams returns the parameters of a fresh list.
func DefaultParams() Params {
	return Params{SortBy: SortFirstName, SortOrder: Ascending, Page: 1}
}

// IsDefault reports whether p equals DefaultParams.
func (p Params) IsDefault() bool {
	return p == DefaultParams()
}

// FiltersActive reports whether any parameter other than the page differs
// from its default. The UI offers "clear filters" only then.
func (p Params) FiltersActive() bool {
	d := DefaultParams()
	return p.Search != d.Search || p.SortBy != d.SortBy || p.SortOrder != d.SortOrder
}
