package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/contacts"
)

// Create form field order.
const (
	fieldFirstName = iota
	fieldLastName
	fieldPhone
	fieldEmail
	fieldStreet
	fieldCity
	fieldState
	fieldCompany
	fieldTitle
	fieldNotes
	fieldBirthday
	fieldCount
)

var formLabels = [fieldCount]string{
	"First name *",
	"Last name *",
	"Phone",
	"Email",
	"Street",
	"City",
	"State",
	"Company",
	"Title",
	"Notes",
	"Birthday",
}

var formPlaceholders = [fieldCount]string{
	fieldEmail:    "name@example.com",
	fieldBirthday: "YYYY-MM-DD",
}

// createForm is the new-contact surface. Input survives a failed submit.
type createForm struct {
	inputs     [fieldCount]textinput.Model
	focus      int
	errs       map[int]string
	submitting bool
}

func newCreateForm() createForm {
	var f createForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = formPlaceholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

// fields collects the trimmed input values.
func (f createForm) fields() contacts.Fields {
	v := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }
	return contacts.Fields{
		FirstName: v(fieldFirstName),
		LastName:  v(fieldLastName),
		Phone:     v(fieldPhone),
		Email:     v(fieldEmail),
		Street:    v(fieldStreet),
		City:      v(fieldCity),
		State:     v(fieldState),
		Company:   v(fieldCompany),
		Title:     v(fieldTitle),
		Notes:     v(fieldNotes),
		Birthday:  v(fieldBirthday),
	}
}

// validate records a message per failing field and reports success.
func (f *createForm) validate() bool {
	f.errs = fieldErrors(f.fields().Validate())
	return len(f.errs) == 0
}

// fieldErrors maps validation failures to form fields.
func fieldErrors(err error) map[int]string {
	if err == nil {
		return nil
	}
	out := make(map[int]string)
	for field, target := range map[int]error{
		fieldFirstName: contacts.ErrFirstNameRequired,
		fieldLastName:  contacts.ErrLastNameRequired,
		fieldEmail:     contacts.ErrInvalidEmail,
		fieldBirthday:  contacts.ErrInvalidBirthday,
	} {
		if errors.Is(err, target) {
			out[field] = target.Error()
		}
	}
	return out
}

func (f *createForm) reset() {
	*f = newCreateForm()
}

func (f *createForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// update handles a key on the form. submit reports that the user asked to
// save and the input passed validation.
func (f *createForm) update(msg tea.KeyMsg, keys keyMap) (cmd tea.Cmd, submit bool) {
	switch {
	case key.Matches(msg, keys.Submit):
		return nil, f.trySubmit()
	case msg.Type == tea.KeyEnter:
		if f.focus == fieldCount-1 {
			return nil, f.trySubmit()
		}
		return f.setFocus(f.focus + 1), false
	case key.Matches(msg, keys.NextField):
		return f.setFocus(f.focus + 1), false
	case key.Matches(msg, keys.PrevField):
		return f.setFocus(f.focus - 1), false
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if _, flagged := f.errs[f.focus]; flagged {
		delete(f.errs, f.focus)
	}
	return cmd, false
}

func (f *createForm) trySubmit() bool {
	if f.submitting || !f.validate() {
		return false
	}
	f.submitting = true
	return true
}

func (f createForm) view(theme Theme, width int) string {
	styles := theme.Styles()
	labelWidth := 14

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("New contact"))
	b.WriteString("\n\n")

	for i := range f.inputs {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Width(labelWidth).Render(formLabels[i]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := f.errs[i]; ok {
			b.WriteString(lipgloss.NewStyle().PaddingLeft(labelWidth).Render(styles.DangerText.Render(msg)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("tab next field  enter on last field or ctrl+s to save  esc back"))
	}

	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).Render(b.String())
}
