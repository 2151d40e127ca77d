package contacts

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// BirthdayLayout is the wire format of Fields.Birthday.
const BirthdayLayout = time.DateOnly

// Fields holds every contact attribute the client may submit. Empty strings
// mean "absent".
type Fields struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Email     string `json:"correo_electronico"`
	Street    string `json:"calle"`
	City      string `json:"ciudad"`
	State     string `json:"estado"`
	Company   string `json:"empresa"`
	Title     string `json:"cargo"`
	Notes     string `json:"notas"`
	Birthday  string `json:"fecha_cumpleanos"`
}

// Contact mirrors the /api/contacts resource. ID is assigned by the server.
type Contact struct {
	ID int64 `json:"id"`
	Fields
}

var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidBirthday   = errors.New("birthday must be YYYY-MM-DD")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

// Validate checks the fields a create request must satisfy. All failures are
// joined so a form can flag every field at once.
func (f Fields) Validate() error {
	var errs []error
	if strings.TrimSpace(f.FirstName) == "" {
		errs = append(errs, ErrFirstNameRequired)
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs = append(errs, ErrLastNameRequired)
	}
	if email := strings.TrimSpace(f.Email); email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, ErrInvalidEmail)
	}
	if b := strings.TrimSpace(f.Birthday); b != "" {
		if _, err := time.Parse(BirthdayLayout, b); err != nil {
			errs = append(errs, ErrInvalidBirthday)
		}
	}
	return errors.Join(errs...)
}

// FullName joins first and last name, skipping empty parts.
func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Location returns "city, state" with empty parts dropped.
func (c Contact) Location() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.City, c.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// BirthdayTime parses Birthday. ok is false when it is empty or malformed.
func (c Contact) BirthdayTime() (t time.Time, ok bool) {
	b := strings.TrimSpace(c.Birthday)
	if b == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(BirthdayLayout, b)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a copy of items that shares no backing array with it.
func Clone(items []Contact) []Contact {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Contact, len(items))
	copy(dup, items)
	return dup
}
