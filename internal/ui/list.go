package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/favorites"
	"github.com/five82/rolo/internal/query"
	"github.com/five82/rolo/internal/view"
)

// handleListKey processes keyboard input for the contact grid.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	params := m.snap.Params

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(params.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.applyParams(m.syncer.SortBy(params.SortBy.Next()))
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.applyParams(m.syncer.SortOrder(params.SortOrder.Toggle()))
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if params.Page > 1 {
			m.applyParams(m.syncer.Page(params.Page - 1))
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if params.Page < m.result.TotalPages {
			m.applyParams(m.syncer.Page(params.Page + 1))
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if params.FiltersActive() {
			m.applyParams(m.syncer.ClearFilters())
			m.cursor = 0
		}
		return m, nil
	}

	m.cursor = m.moveCursor(msg, m.cursor, len(m.result.Items))
	c, ok := m.cursorContact(m.result.Items, m.cursor)
	if !ok {
		return m, nil
	}
	return m.handleContactKey(msg, c)
}

// handleSearchKey feeds the search box. Every edit is applied immediately.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.applyParams(m.syncer.CommitSearch())
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if m.snap.Params.Search != "" {
			m.applyParams(m.syncer.Search(""))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.snap.Params.Search {
		m.syncer.DraftSearch(term)
		m.applyParams(nil)
		m.cursor = 0
	}
	return m, cmd
}

// handleContactKey runs the actions shared by every surface that shows a
// focused contact.
func (m Model) handleContactKey(msg tea.KeyMsg, c contacts.Contact) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		return m, m.navigate(query.Route{Page: query.PageDetail, ID: c.ID})
	case key.Matches(msg, m.keys.Favorite):
		// The error, if any, is already in the store.
		_ = m.actions.ToggleFavorite(c.ID)
		m.applySnapshot(m.store.Snapshot())
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.modal = newEditModal(c, m.updateContactCmd)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		m.modal = newDeleteModal(c, m.deleteContactCmd)
		return m, nil
	}
	return m, nil
}

// moveCursor applies grid movement keys to cursor over n cards.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, n int) int {
	if n == 0 {
		return 0
	}
	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.keys.Left):
		cursor--
	case key.Matches(msg, m.keys.Right):
		cursor++
	case key.Matches(msg, m.keys.Up):
		cursor -= cols
	case key.Matches(msg, m.keys.Down):
		cursor += cols
	default:
		return cursor
	}
	return clampCursor(cursor, n)
}

func (m Model) cursorContact(items []contacts.Contact, cursor int) (contacts.Contact, bool) {
	if cursor < 0 || cursor >= len(items) {
		return contacts.Contact{}, false
	}
	return items[cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// gridColumns returns how many cards fit side by side.
func (m Model) gridColumns() int {
	if m.width >= GridColumns*CardMinWidth {
		return GridColumns
	}
	return 1
}

// renderList renders the contact grid with its parameter bar.
func (m Model) renderList() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderListBar())
	b.WriteString("\n\n")

	switch {
	case len(m.snap.Contacts) == 0 && m.snap.Loading:
		b.WriteString(m.emptyState(m.spinner.View() + " Loading contacts..."))
	case len(m.snap.Contacts) == 0:
		b.WriteString(m.emptyState("No contacts yet. Press n to add the first one."))
	case m.result.Filtered == 0:
		b.WriteString(m.emptyState(fmt.Sprintf("No contacts match %q.", m.snap.Params.Search)))
		b.WriteString("\n")
		b.WriteString(m.emptyState(styles.FaintText.Render("Press c to clear filters.")))
	default:
		b.WriteString(m.renderGrid(m.result.Items, m.cursor, m.snap.Favorites))
	}
	return b.String()
}

// renderListBar shows search, result count, sort and page.
func (m Model) renderListBar() string {
	styles := m.theme.Styles()
	params := m.snap.Params

	var search string
	switch {
	case m.searching:
		search = m.search.View()
	case params.Search != "":
		search = styles.MutedText.Render("Search ") + styles.AccentText.Render(params.Search)
	default:
		search = styles.FaintText.Render("/ to search")
	}

	arrow := "↑"
	if params.SortOrder == view.Descending {
		arrow = "↓"
	}
	pages := m.result.TotalPages
	if pages == 0 {
		pages = 1
	}

	parts := []string{
		search,
		styles.Text.Render(fmt.Sprintf("%d %s found", m.result.Filtered, plural(m.result.Filtered, "contact", "contacts"))),
		styles.MutedText.Render("Sort ") + styles.Text.Render(params.SortBy.Label()+" "+arrow),
		styles.MutedText.Render("Page ") + styles.Text.Render(fmt.Sprintf("%d of %d", params.Page, pages)),
	}
	if params.FiltersActive() {
		parts = append(parts, styles.WarningText.Render("c clear filters"))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "   "))
}

func (m Model) emptyState(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Muted)).
		Render(text)
}

// renderGrid lays items out as cards, GridColumns per row when they fit.
func (m Model) renderGrid(items []contacts.Contact, cursor int, favs favorites.Set) string {
	cols := m.gridColumns()
	width := m.width/cols - 2
	if width < 12 {
		width = 12
	}

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(items[i], width, i == cursor, favs.Has(items[i].ID)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(c contacts.Contact, width int, focused, favorite bool) string {
	styles := m.theme.Styles()
	inner := width - 2

	star := styles.FaintText.Render("☆")
	if favorite {
		star = styles.WarningText.Render("★")
	}
	name := styles.Text.Bold(true).Render(truncate(c.FullName(), inner-2))

	var role []string
	for _, part := range []string{c.Title, c.Company} {
		if part = strings.TrimSpace(part); part != "" {
			role = append(role, part)
		}
	}

	lines := []string{
		star + " " + name,
		styles.MutedText.Render(truncate(orDash(strings.Join(role, " · ")), inner)),
		styles.Text.Render(truncate(orDash(c.Phone), inner)),
		styles.InfoText.Render(truncate(orDash(c.Email), inner)),
		styles.FaintText.Render(truncate(orDash(c.Location()), inner)),
	}

	card := styles.Card
	if focused {
		card = styles.CardFocus
	}
	return card.Width(width).Render(strings.Join(lines, "\n"))
}

// renderFavorites renders the favorite contacts in collection order.
func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	favs := view.Favorites(m.snap.Contacts, m.snap.Favorites)

	var b strings.Builder
	title := fmt.Sprintf("Favorites (%d)", len(favs))
	b.WriteString(lipgloss.NewStyle().Padding(0, 1).Render(styles.Text.Bold(true).Render(title)))
	b.WriteString("\n\n")

	switch {
	case len(favs) == 0 && m.snap.Loading:
		b.WriteString(m.emptyState(m.spinner.View() + " Loading contacts..."))
	case len(favs) == 0:
		b.WriteString(m.emptyState("No favorites yet. Press f on a contact to add one."))
	default:
		b.WriteString(m.renderGrid(favs, m.favCursor, m.snap.Favorites))
	}
	return b.String()
}

// handleFavoritesKey processes keyboard input for the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	favs := view.Favorites(m.snap.Contacts, m.snap.Favorites)
	m.favCursor = m.moveCursor(msg, m.favCursor, len(favs))
	c, ok := m.cursorContact(favs, m.favCursor)
	if !ok {
		return m, nil
	}
	return m.handleContactKey(msg, c)
}
