package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rolo/internal/logtail"
)

// formatEntry renders one parsed log line.
func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Level == "" {
		return styles.FaintText.Render(e.Raw)
	}

	var b strings.Builder
	if e.Time != "" {
		b.WriteString(styles.FaintText.Render(clockTime(e.Time)))
		b.WriteString(" ")
	}
	b.WriteString(styles.LevelStyle(e.Level).Width(6).Render(e.Level))
	b.WriteString(styles.Text.Render(e.Message))
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(a.Key + "="))
		b.WriteString(styles.Text.Render(a.Value))
	}
	return b.String()
}

// clockTime shortens an RFC 3339 timestamp to the time of day.
func clockTime(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Local().Format("15:04:05")
}

// refreshActivity rewrites the activity viewport from the loaded entries.
func (m *Model) refreshActivity() {
	if !m.ready {
		return
	}
	lines := make([]string, 0, len(m.activity))
	for _, e := range m.activity {
		lines = append(lines, m.formatEntry(e))
	}
	m.activityViewport.SetContent(strings.Join(lines, "\n"))
	m.activityViewport.GotoBottom()
}

func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	pad := lipgloss.NewStyle().Padding(0, 1)

	title := styles.Text.Bold(true).Render("Activity") + "  " +
		styles.FaintText.Render(truncateMiddle(m.logPath, 60))

	var body string
	switch {
	case m.activityErr != nil:
		body = styles.DangerText.Render("Cannot read log: " + m.activityErr.Error())
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to a file is disabled.")
	case len(m.activity) == 0:
		body = styles.MutedText.Render("No log entries yet.")
	default:
		body = m.activityViewport.View()
	}
	return pad.Render(title + "\n\n" + body)
}

// handleActivityKey scrolls the activity viewport.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Up, m.keys.Down) || msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
		var cmd tea.Cmd
		m.activityViewport, cmd = m.activityViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}
