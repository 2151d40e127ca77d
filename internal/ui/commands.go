package ui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rolo/internal/contacts"
	"github.com/five82/rolo/internal/logtail"
	"github.com/five82/rolo/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.State

// opDoneMsg reports the end of one remote operation. The store already holds
// its outcome; err is passed along so views can react to success.
type opDoneMsg struct {
	op      state.Op
	id      int64
	contact contacts.Contact
	err     error
}

type toastExpiredMsg struct {
	seq int
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

type clipboardMsg struct {
	text string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) fetchContactsCmd() tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return opDoneMsg{op: state.OpList, err: actions.FetchContacts(ctx)}
	}
}

func (m Model) fetchContactCmd(id int64) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return opDoneMsg{op: state.OpGet, id: id, err: actions.FetchContactByID(ctx, id)}
	}
}

func (m Model) createContactCmd(fields contacts.Fields) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		c, err := actions.CreateContact(ctx, fields)
		return opDoneMsg{op: state.OpCreate, id: c.ID, contact: c, err: err}
	}
}

func (m Model) updateContactCmd(c contacts.Contact) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return opDoneMsg{op: state.OpUpdate, id: c.ID, contact: c, err: actions.UpdateContact(ctx, c)}
	}
}

func (m Model) deleteContactCmd(c contacts.Contact) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return opDoneMsg{op: state.OpDelete, id: c.ID, contact: c, err: actions.DeleteContact(ctx, c.ID)}
	}
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLines)
		if err != nil {
			return activityMsg{err: err}
		}
		entries := make([]logtail.Entry, 0, len(lines))
		for _, line := range lines {
			entries = append(entries, logtail.Parse(line))
		}
		return activityMsg{entries: entries}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

func toastExpireCmd(seq int) tea.Cmd {
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
