package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/contacts"
)

// BirthdayDisplayLayout is how the detail view prints a birthday.
const BirthdayDisplayLayout = "January 2, 2006"

// detailContact returns the selected contact when it is the one the route
// addresses.
func (m Model) detailContact() (contacts.Contact, bool) {
	sel := m.snap.Selected
	if sel == nil || sel.ID != m.route.ID {
		return contacts.Contact{}, false
	}
	return *sel, true
}

// formatBirthday renders a wire birthday for display. Malformed values are
// shown as stored.
func formatBirthday(c contacts.Contact) string {
	if t, ok := c.BirthdayTime(); ok {
		return t.Format(BirthdayDisplayLayout)
	}
	return c.Birthday
}

// detailBody renders every field of c.
func (m Model) detailBody(c contacts.Contact) string {
	styles := m.theme.Styles()

	var b strings.Builder
	star := ""
	if m.snap.Favorites.Has(c.ID) {
		star = styles.WarningText.Render(" ★")
	}
	b.WriteString(styles.Text.Bold(true).Render(c.FullName()) + star)
	b.WriteString("\n")
	if role := strings.TrimSpace(strings.Join([]string{c.Title, c.Company}, " ")); role != "" {
		b.WriteString(styles.MutedText.Render(c.Title))
		if c.Title != "" && c.Company != "" {
			b.WriteString(styles.FaintText.Render(" at "))
		}
		b.WriteString(styles.MutedText.Render(c.Company))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := []struct{ label, value string }{
		{"Phone", c.Phone},
		{"Email", c.Email},
		{"Street", c.Street},
		{"City", c.City},
		{"State", c.State},
		{"Company", c.Company},
		{"Title", c.Title},
		{"Birthday", formatBirthday(c)},
	}
	label := styles.MutedText.Width(12)
	for _, r := range rows {
		b.WriteString(label.Render(r.label))
		b.WriteString(styles.Text.Render(orDash(r.value)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("Notes"))
	b.WriteString("\n")
	if strings.TrimSpace(c.Notes) == "" {
		b.WriteString(styles.FaintText.Render("No notes."))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(max(m.width-6, 20)).Render(c.Notes))
	}
	b.WriteString("\n")
	return b.String()
}

// refreshDetail rewrites the detail viewport from the current selection.
func (m *Model) refreshDetail() {
	if !m.ready {
		return
	}
	if c, ok := m.detailContact(); ok {
		m.detailViewport.SetContent(m.detailBody(c))
		return
	}
	m.detailViewport.SetContent("")
}

// renderDetail renders the detail surface with its loading and not-found states.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	pad := lipgloss.NewStyle().Padding(0, 2)

	if _, ok := m.detailContact(); !ok {
		if m.snap.Loading {
			return pad.Render(m.spinner.View() + " Loading contact...")
		}
		return pad.Render(
			styles.DangerText.Render("Contact not found.") + "\n\n" +
				styles.FaintText.Render("Press esc to return to the list."),
		)
	}
	return pad.Render(m.detailViewport.View())
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.detailContact()
	if !ok {
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) {
		return m, nil
	}
	if key.Matches(msg, m.keys.Up, m.keys.Down) || msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m.handleContactKey(msg, c)
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}
