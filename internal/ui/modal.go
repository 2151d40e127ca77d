package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/state"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// placeModal centers a dialog box over the screen.
func placeModal(theme Theme, width, height int, content string) string {
	box := theme.Styles().Dialog.Width(50).Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// Edit dialog field order.
const (
	editFirstName = iota
	editLastName
	editPhone
	editEmail
	editStreet
	editFieldCount
)

var editLabels = [editFieldCount]string{"First name", "Last name", "Phone", "Email", "Street"}

// editModal edits the quick fields of one contact and sends the whole
// contact back. It stays open with the error when the save fails.
type editModal struct {
	contact contacts.Contact
	inputs  [editFieldCount]textinput.Model
	focus   int
	saving  bool
	err     string
	submit  func(contacts.Contact) tea.Cmd
}

func newEditModal(c contacts.Contact, submit func(contacts.Contact) tea.Cmd) *editModal {
	m := &editModal{contact: c, submit: submit}
	values := [editFieldCount]string{c.FirstName, c.LastName, c.Phone, c.Email, c.Street}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 32
		ti.SetValue(values[i])
		ti.CursorEnd()
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

// edited returns the contact with the dialog's values applied.
func (m *editModal) edited() contacts.Contact {
	c := m.contact
	c.FirstName = strings.TrimSpace(m.inputs[editFirstName].Value())
	c.LastName = strings.TrimSpace(m.inputs[editLastName].Value())
	c.Phone = strings.TrimSpace(m.inputs[editPhone].Value())
	c.Email = strings.TrimSpace(m.inputs[editEmail].Value())
	c.Street = strings.TrimSpace(m.inputs[editStreet].Value())
	return c
}

func (m *editModal) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (i + editFieldCount) % editFieldCount
	return m.inputs[m.focus].Focus()
}

func (m *editModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case opDoneMsg:
		if msg.op != state.OpUpdate || msg.id != m.contact.ID {
			return m, nil, false
		}
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil, false
		}
		return m, nil, true

	case tea.KeyMsg:
		if m.saving {
			return m, nil, false
		}
		switch {
		case key.Matches(msg, keys.Cancel):
			return m, nil, true
		case key.Matches(msg, keys.Submit), msg.Type == tea.KeyEnter:
			c := m.edited()
			if c.FirstName == "" || c.LastName == "" {
				m.err = "first and last name are required"
				return m, nil, false
			}
			m.err = ""
			m.saving = true
			return m, m.submit(c), false
		case key.Matches(msg, keys.NextField):
			return m, m.setFocus(m.focus + 1), false
		case key.Matches(msg, keys.PrevField):
			return m, m.setFocus(m.focus - 1), false
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd, false
	}
	return m, nil, false
}

func (m *editModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Edit " + m.contact.FullName()))
	b.WriteString("\n\n")
	for i := range m.inputs {
		labelStyle := styles.MutedText
		if i == m.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Width(12).Render(editLabels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case m.err != "":
		b.WriteString(styles.DangerText.Render(m.err))
	default:
		b.WriteString(styles.FaintText.Render("enter save  esc cancel"))
	}
	return placeModal(theme, width, height, b.String())
}

// deleteModal asks before removing a contact.
type deleteModal struct {
	contact  contacts.Contact
	deleting bool
	err      string
	submit   func(contacts.Contact) tea.Cmd
}

func newDeleteModal(c contacts.Contact, submit func(contacts.Contact) tea.Cmd) *deleteModal {
	return &deleteModal{contact: c, submit: submit}
}

func (m *deleteModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case opDoneMsg:
		if msg.op != state.OpDelete || msg.id != m.contact.ID {
			return m, nil, false
		}
		m.deleting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil, false
		}
		return m, nil, true

	case tea.KeyMsg:
		if m.deleting {
			return m, nil, false
		}
		switch {
		case key.Matches(msg, keys.Confirm):
			m.err = ""
			m.deleting = true
			return m, m.submit(m.contact), false
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Deny):
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m *deleteModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete contact"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Delete " + m.contact.FullName() + "? This cannot be undone."))
	b.WriteString("\n\n")
	switch {
	case m.deleting:
		b.WriteString(styles.WarningText.Render("Deleting..."))
	case m.err != "":
		b.WriteString(styles.DangerText.Render(m.err))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("y retry  n cancel"))
	default:
		b.WriteString(styles.FaintText.Render("y delete  n cancel"))
	}
	return placeModal(theme, width, height, b.String())
}
