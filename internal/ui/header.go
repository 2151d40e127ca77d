package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/query"
)

// renderHeader renders the status bar: logo, API, counts, activity and the
// current location.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("rolo", styles.Logo)}

	if !compact {
		parts = append(parts, bg.Pair("API", truncateMiddle(m.apiURL, 32), styles.MutedText, styles.Text))
	}
	parts = append(parts,
		bg.Pair("Contacts", fmt.Sprintf("%d", len(m.snap.Contacts)), styles.MutedText, styles.Text),
		bg.Pair("★", fmt.Sprintf("%d", m.snap.Favorites.Len()), styles.WarningText, styles.Text),
	)

	if m.snap.Loading {
		parts = append(parts, bg.Sep(m.spinner.View())+bg.Render("Loading", styles.WarningText))
	} else if !m.snap.LastUpdated.IsZero() && !compact {
		parts = append(parts, bg.Render("Updated "+m.snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	left := bg.Join(parts, "  ")
	location := bg.Render(truncateMiddle(m.location.String(), 40), styles.AccentText)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(location) - 2
	if gap < 2 {
		return styles.Header.Width(m.width).Render(left)
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + location)
}

// renderCommandBar renders the command hints for the current surface.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	k := m.keys

	var commands []commandHint
	switch m.route.Page {
	case query.PageNew:
		commands = []commandHint{
			hint(k.NextField, ""),
			hint(k.Submit, ""),
			hint(k.Cancel, "List"),
		}
	case query.PageDetail:
		commands = []commandHint{
			hint(k.Favorite, "Favorite"),
			hint(k.Edit, ""),
			hint(k.Delete, ""),
			hint(k.Back, "List"),
			hint(k.CopyURL, "Copy"),
			hint(k.Help, "More"),
		}
	case query.PageFavorites:
		commands = []commandHint{
			hint(k.Open, "Open"),
			hint(k.Favorite, "Unfavorite"),
			hint(k.Back, "List"),
			hint(k.NewContact, "New"),
			hint(k.Help, "More"),
		}
	case query.PageActivity:
		commands = []commandHint{
			hint(k.Up, "Scroll"),
			hint(k.Refresh, ""),
			hint(k.Back, "List"),
			hint(k.Help, "More"),
		}
	default:
		commands = []commandHint{
			hint(k.Search, ""),
			hint(k.CycleSort, m.snap.Params.SortBy.Label()),
			hint(k.ToggleOrder, string(m.snap.Params.SortOrder)),
			{key: "[/]", desc: "Page"},
			hint(k.Open, "Open"),
			hint(k.Favorite, "Favorite"),
			hint(k.NewContact, "New"),
			hint(k.ViewFavorites, ""),
			hint(k.Help, "More"),
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderBanner shows the store error, a local notice or a toast. It returns
// "" when there is nothing to say.
func (m Model) renderBanner() string {
	styles := m.theme.Styles()
	switch {
	case m.snap.Error != "":
		return styles.Banner.Width(m.width).Render("Error: " + truncate(m.snap.Error, m.width-24) + "  (x to dismiss)")
	case m.notice != "":
		return styles.Banner.
			Background(lipgloss.Color(m.theme.Warning)).
			Width(m.width).
			Render(truncate(m.notice, m.width-20) + "  (x to dismiss)")
	case m.toast != "":
		return styles.Toast.Width(m.width).Render(m.toast)
	}
	return ""
}
