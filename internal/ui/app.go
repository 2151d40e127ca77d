package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rolo/internal/logtail"
	"github.com/five82/rolo/internal/prefs"
	"github.com/five82/rolo/internal/query"
	"github.com/five82/rolo/internal/state"
	"github.com/five82/rolo/internal/view"
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Actions  *state.Actions
	Syncer   *query.Syncer
	Keeper   *prefs.Keeper
	Logger   *slog.Logger
	APIURL   string
	LogPath  string
	PollTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	actions  *state.Actions
	store    *state.Store
	syncer   *query.Syncer
	location *query.Location
	keeper   *prefs.Keeper
	logger   *slog.Logger
	engine   *view.Engine
	apiURL   string
	logPath  string
	pollTick time.Duration
	keys     keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	route  query.Route

	// Data state
	snap   state.State
	result view.Result

	// List state
	cursor    int
	favCursor int
	searching bool
	search    textinput.Model
	spinner   spinner.Model

	form     createForm
	modal    Modal
	showHelp bool

	detailViewport   viewport.Model
	activityViewport viewport.Model
	activity         []logtail.Entry
	activityErr      error

	// Notifications
	toast    string
	toastSeq int
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := ""
	if opts.Keeper != nil {
		themeName = opts.Keeper.Prefs().Theme
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name, phone, email or company"
	search.CharLimit = 128
	search.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	store := opts.Actions.Store
	m := Model{
		ctx:      ctx,
		actions:  opts.Actions,
		store:    store,
		syncer:   opts.Syncer,
		location: opts.Syncer.Location,
		keeper:   opts.Keeper,
		logger:   logger,
		engine:   &view.Engine{},
		apiURL:   opts.APIURL,
		logPath:  opts.LogPath,
		pollTick: pollTick,
		keys:     DefaultKeyMap(),
		theme:    GetTheme(themeName),
		route:    query.ParseRoute(opts.Syncer.Location.Path()),
		search:   search,
		spinner:  sp,
		form:     newCreateForm(),
	}
	m.applySnapshot(store.Snapshot())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.fetchContactsCmd(),
	}
	if cmd := m.routeCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(m.height-6, 3)
		if !m.ready {
			m.detailViewport = newViewport(m.width-4, h)
			m.activityViewport = newViewport(m.width-2, h)
		} else {
			m.detailViewport.Width, m.detailViewport.Height = m.width-4, h
			m.activityViewport.Width, m.activityViewport.Height = m.width-2, h
		}
		m.ready = true
		m.refreshDetail()
		m.refreshActivity()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		m.applySnapshot(state.State(msg))
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case activityMsg:
		m.activity, m.activityErr = msg.entries, msg.err
		m.refreshActivity()
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", "error", msg.err)
			m.notice = "Copy failed: " + msg.err.Error()
			return m, nil
		}
		return m, m.showToast("Copied " + msg.text)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// renderMain renders header, command bar, banner and the current surface.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the surface the route addresses.
func (m Model) renderContent() string {
	switch m.route.Page {
	case query.PageNew:
		return m.form.view(m.theme, m.width)
	case query.PageDetail:
		return m.renderDetail()
	case query.PageFavorites:
		return m.renderFavorites()
	case query.PageActivity:
		return m.renderActivity()
	default:
		return m.renderList()
	}
}

// handleKey processes keyboard input. Overlays and text inputs take keys
// before the global bindings do.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.route.Page == query.PageNew {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.keeper != nil {
			if err := m.keeper.SetTheme(m.theme.Name); err != nil {
				m.logger.Warn("save theme failed", "theme", m.theme.Name, "error", err)
				m.notice = "Theme not saved: " + err.Error()
			}
		}
		m.refreshDetail()
		m.refreshActivity()
		return m, nil

	case key.Matches(msg, m.keys.CopyURL):
		return m, copyCmd(m.location.String())

	case key.Matches(msg, m.keys.Dismiss):
		m.notice = ""
		if m.snap.Error != "" {
			m.store.ClearError()
			m.applySnapshot(m.store.Snapshot())
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		switch m.route.Page {
		case query.PageActivity:
			return m, loadActivityCmd(m.logPath)
		case query.PageDetail:
			return m, tea.Batch(m.fetchContactsCmd(), m.fetchContactCmd(m.route.ID))
		}
		return m, m.fetchContactsCmd()

	case key.Matches(msg, m.keys.ViewFavorites):
		return m, m.navigate(query.Route{Page: query.PageFavorites})

	case key.Matches(msg, m.keys.ViewActivity):
		return m, m.navigate(query.Route{Page: query.PageActivity})

	case key.Matches(msg, m.keys.NewContact):
		return m, m.navigate(query.Route{Page: query.PageNew})

	case key.Matches(msg, m.keys.Back):
		if m.route.Page != query.PageList {
			return m, m.navigate(query.Route{Page: query.PageList})
		}
		return m, nil
	}

	switch m.route.Page {
	case query.PageDetail:
		return m.handleDetailKey(msg)
	case query.PageFavorites:
		return m.handleFavoritesKey(msg)
	case query.PageActivity:
		return m.handleActivityKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleFormKey processes keyboard input on the create form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		return m, m.navigate(query.Route{Page: query.PageList})
	}
	cmd, submit := m.form.update(msg, m.keys)
	if submit {
		return m, tea.Batch(cmd, m.createContactCmd(m.form.fields()))
	}
	return m, cmd
}

// handleOpDone refreshes from the store after a remote operation and lets
// the surface that started it react.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.applySnapshot(m.store.Snapshot())

	if errors.Is(msg.err, state.ErrSuperseded) {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		cmds = append(cmds, cmd)
	}

	switch msg.op {
	case state.OpCreate:
		m.form.submitting = false
		if msg.err != nil {
			// Input is kept so the user can retry.
			if errs := fieldErrors(msg.err); len(errs) > 0 {
				m.form.errs = errs
			}
			break
		}
		m.form.reset()
		cmds = append(cmds, m.showToast("Contact created"))
	case state.OpUpdate:
		if msg.err == nil {
			cmds = append(cmds, m.showToast("Contact updated"))
		}
	case state.OpDelete:
		if msg.err == nil {
			if m.route.Page == query.PageDetail && m.route.ID == msg.id {
				cmds = append(cmds, m.navigate(query.Route{Page: query.PageList}))
			}
			cmds = append(cmds, m.showToast("Deleted "+msg.contact.FullName()))
		}
	}
	return m, tea.Batch(cmds...)
}

// navigate moves to r. The route changes only when the location accepted it.
func (m *Model) navigate(r query.Route) tea.Cmd {
	if err := m.location.Navigate(r.Path()); err != nil {
		m.logger.Warn("navigate failed", "path", r.Path(), "error", err)
		m.notice = err.Error()
		return nil
	}
	m.route = r
	m.searching = false
	m.search.Blur()
	m.refreshDetail()
	return m.routeCmd()
}

// routeCmd loads what the current route needs.
func (m *Model) routeCmd() tea.Cmd {
	switch m.route.Page {
	case query.PageDetail:
		return m.fetchContactCmd(m.route.ID)
	case query.PageActivity:
		return loadActivityCmd(m.logPath)
	case query.PageFavorites:
		if len(m.snap.Contacts) == 0 && !m.snap.Loading {
			return m.fetchContactsCmd()
		}
	case query.PageNew:
		return textinput.Blink
	}
	return nil
}

// applySnapshot takes a new store state and re-derives the visible page.
func (m *Model) applySnapshot(snap state.State) {
	m.snap = snap
	m.derive()
	m.refreshDetail()
}

// applyParams follows a syncer call. A failed location write already put the
// store back, so only the notice is left to show.
func (m *Model) applyParams(err error) {
	if err != nil {
		m.logger.Warn("update view parameters failed", "error", err)
		m.notice = err.Error()
	}
	m.snap.Params = m.store.Params()
	m.derive()
}

// derive recomputes the visible page and resets to page 1 when the current
// page fell off the end of the filtered result.
func (m *Model) derive() {
	m.result = m.engine.Derive(m.snap.Contacts, m.snap.Params)
	if m.result.ClampToFirst && m.syncer != nil {
		clamped, err := m.syncer.ClampPage(m.result.Filtered)
		if err != nil {
			m.logger.Warn("reset page failed", "error", err)
			m.notice = err.Error()
		}
		if clamped {
			m.snap.Params = m.store.Params()
			m.result = m.engine.Derive(m.snap.Contacts, m.snap.Params)
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.result.Items))
	m.favCursor = clampCursor(m.favCursor, len(view.Favorites(m.snap.Contacts, m.snap.Favorites)))
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastSeq++
	m.toast = text
	return toastExpireCmd(m.toastSeq)
}

// Run starts the Bubble Tea program and stops it when ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if opts.Context != nil {
		stop := context.AfterFunc(opts.Context, p.Quit)
		defer stop()
	}
	_, err := p.Run()
	if ferr := opts.Syncer.Location.Flush(); ferr != nil {
		m.logger.Warn("save last view failed", "error", ferr)
	}
	return err
}
