// Package tui is the terminal front end. Every key becomes a session command;
// the screen is redrawn from the session's state after each one.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"nordify/internal/config"
	"nordify/internal/log"
	"nordify/internal/session"
	"nordify/internal/tui/common"
	"nordify/internal/tui/components"
	"nordify/internal/tui/messages"
	"nordify/internal/tui/styles"
	"nordify/internal/tui/views"
	"nordify/pkg/types"
)

const panelWidth = 46

type Model struct {
	session *session.Session
	keys    types.KeyMap
	state   session.State

	browser *components.FileBrowser
	panel   *components.TransformPanel
	status  *components.StatusBar
	history *components.HistoryList
	help    help.Model
	body    viewport.Model

	focus    common.Focus
	busy     bool
	interval time.Duration
	opener   func(path string) error

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithOpener replaces OpenFile.
func WithOpener(open func(path string) error) Option {
	return func(m *Model) { m.opener = open }
}

// New creates the model over an open session. When cfg enables watching,
// the model checks for directory changes every watch.interval_ms.
func New(s *session.Session, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	styles.Apply(cfg)

	m := &Model{
		session: s,
		keys:    types.DefaultKeyMap(),
		browser: components.NewFileBrowser(),
		panel:   components.NewTransformPanel(),
		status:  components.NewStatusBar(),
		history: components.NewHistoryList(),
		help:    help.New(),
		body:    viewport.New(0, 0),
		opener:  OpenFile,
	}
	if cfg.Watch.Enabled {
		m.interval = time.Duration(cfg.Watch.IntervalMS) * time.Millisecond
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sync()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return messages.TickMsg(t)
	})
}

// View implements tea.Model
func (m *Model) View() string {
	content := views.RenderMainView(m)
	if m.height == 0 {
		return content
	}
	m.body.SetContent(content)
	return m.body.View()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case messages.DispatchedMsg:
		m.busy = false
		m.status.Stop()
		m.afterDispatch(msg.Events)

	case messages.TickMsg:
		if !m.busy {
			m.dispatch(session.Sync{})
		}
		return m, m.tick()

	case messages.OpenedMsg:
		if msg.Err != nil {
			m.status.SetError(msg.Err)
		} else {
			m.status.SetText("opened " + msg.Path)
		}

	case messages.HistoryMsg:
		if msg.Err != nil {
			m.status.SetError(msg.Err)
			return m, nil
		}
		m.history.Show(msg.Visits)

	case spinner.TickMsg:
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.body.Width = width
	m.body.Height = height

	browserWidth := width - panelWidth - 6
	if browserWidth < 20 {
		browserWidth = 20
	}
	// Banner, status line and help take the remaining rows
	m.browser.SetSize(browserWidth, height-6)
	m.panel.SetWidth(panelWidth)
	m.help.Width = width
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	// One command at a time
	if m.busy {
		return nil
	}
	if m.history.Open() {
		return m.handleHistoryKey(msg)
	}
	if m.focus.Editing() {
		return m.handleFieldKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.browser.List().MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.browser.List().MoveCursor(1)
	case key.Matches(msg, m.keys.Click):
		return m.click()
	case key.Matches(msg, m.keys.Filter):
		m.focus = common.Filter
		return m.browser.FocusFilter()
	case key.Matches(msg, m.keys.FocusK):
		if m.state.Mode != types.Knn {
			m.dispatch(session.SetMode{Mode: types.Knn})
		}
		m.focus = common.KValue
		return m.panel.FocusK()
	case key.Matches(msg, m.keys.Open):
		return m.openPreview()
	case key.Matches(msg, m.keys.History):
		return m.loadHistory()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Blur):
		m.browser.ClearFilter()
	case msg.String() == "pgup" || msg.String() == "pgdown":
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return cmd
	default:
		cmd, _ := m.command(msg)
		return cmd
	}
	return nil
}

// command runs the shared command surface. It reports false when msg is not
// one of its keys.
func (m *Model) command(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Preview):
		return m.dispatchAsync(session.Preview{}, "rendering preview"), true
	case key.Matches(msg, m.keys.Save):
		return m.dispatchAsync(session.Save{}, "saving"), true
	case key.Matches(msg, m.keys.Reset):
		m.dispatch(session.Reset{})
	case key.Matches(msg, m.keys.Delete):
		m.dispatch(session.DeleteSelected{})
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.FocusAddress):
		m.blur()
		m.focus = common.Address
		return m.browser.FocusAddress(), true
	case key.Matches(msg, m.keys.FocusFilename):
		m.blur()
		m.focus = common.Filename
		return m.panel.FocusFilename(), true
	case key.Matches(msg, m.keys.DirUp):
		m.dispatch(session.DirUp{})
	case key.Matches(msg, m.keys.ModeDefault):
		m.dispatch(session.SetMode{Mode: types.Default})
	case key.Matches(msg, m.keys.ModeCreative):
		m.dispatch(session.SetMode{Mode: types.Creative})
	case key.Matches(msg, m.keys.ModeKnn):
		m.dispatch(session.SetMode{Mode: types.Knn})
	default:
		return nil, false
	}
	return nil, true
}

// handleFieldKey routes keys while a text field has focus. Only modified
// keys reach the command surface.
func (m *Model) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Blur):
		if m.focus == common.Filter {
			m.browser.ClearFilter()
		}
		m.blur()
		return nil
	case msg.Type == tea.KeyEnter:
		return m.submitField()
	}

	if types.Modified(msg.String()) {
		if cmd, ok := m.command(msg); ok {
			return cmd
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case common.Address:
		cmd = m.browser.UpdateAddress(msg)
	case common.Filter:
		cmd = m.browser.UpdateFilter(msg)
	case common.Filename:
		cmd = m.panel.UpdateFilename(msg)
		m.dispatch(session.SetFilename{Name: m.panel.Filename()})
	case common.KValue:
		cmd = m.panel.UpdateK(msg)
		m.dispatch(session.SetKText{Text: m.panel.KText()})
	}
	return cmd
}

func (m *Model) submitField() tea.Cmd {
	focus := m.focus
	address := m.browser.Address()
	m.blur()
	if focus == common.Address {
		m.dispatch(session.Submit{Text: address})
	}
	return nil
}

func (m *Model) blur() {
	m.focus = common.Browse
	m.browser.Blur()
	m.panel.Blur()
	m.browser.ResetAddress(m.state.AddressText)
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.history.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.history.MoveCursor(1)
	case key.Matches(msg, m.keys.Click):
		dir := m.history.Current()
		m.history.Hide()
		if dir != "" {
			m.dispatch(session.Submit{Text: dir})
		}
	case key.Matches(msg, m.keys.Blur), key.Matches(msg, m.keys.History), key.Matches(msg, m.keys.Quit):
		m.history.Hide()
	}
	return nil
}

func (m *Model) click() tea.Cmd {
	entry := m.browser.List().Current()
	if entry == nil {
		return nil
	}
	m.dispatch(session.ClickEntry{Ordinal: entry.Ordinal, Generation: m.state.Generation})
	return nil
}

func (m *Model) openPreview() tea.Cmd {
	path := m.state.PreviewPath
	if path == "" {
		m.status.SetNotice("no preview yet, press p first")
		return nil
	}
	open := m.opener
	return func() tea.Msg {
		return messages.OpenedMsg{Path: path, Err: open(path)}
	}
}

func (m *Model) loadHistory() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		visits, err := s.Recent()
		return messages.HistoryMsg{Visits: visits, Err: err}
	}
}

// dispatch runs a quick command on the update loop.
func (m *Model) dispatch(cmd session.Command) {
	events, err := m.session.Dispatch(cmd)
	if err != nil {
		log.LogWithFields(log.F("command", cmd.String())).Debugf("command rejected: %v", err)
	}
	m.afterDispatch(events)
}

// dispatchAsync runs a render off the update loop. Further commands are
// ignored until it reports back.
func (m *Model) dispatchAsync(cmd session.Command, label string) tea.Cmd {
	m.busy = true
	s := m.session
	return tea.Batch(
		m.status.Start(label),
		func() tea.Msg {
			events, err := s.Dispatch(cmd)
			return messages.DispatchedMsg{Command: cmd.String(), Events: events, Err: err}
		},
	)
}

func (m *Model) afterDispatch(events []types.Event) {
	for _, ev := range events {
		if _, ok := ev.(types.DirectoryChanged); ok {
			m.browser.Home()
		}
	}
	m.sync()
}

// sync redraws from the session's state.
func (m *Model) sync() {
	m.state = m.session.State()
	m.browser.Sync(m.state.AddressText, m.state.Entries)
	m.panel.Sync(m.state)

	if m.status.Loading() {
		return
	}
	switch {
	case m.state.LastError != nil:
		m.status.SetError(m.state.LastError)
	case m.state.Notice != "":
		m.status.SetNotice(m.state.Notice)
	default:
		m.status.SetText("")
	}
}

// Focus returns the focused field.
func (m *Model) Focus() common.Focus { return m.focus }

// State returns the state last drawn.
func (m *Model) State() session.State { return m.state }

// Busy reports whether a render is running.
func (m *Model) Busy() bool { return m.busy }

// Cursor returns the position of the cursor in the visible list.
func (m *Model) Cursor() int { return m.browser.List().Cursor() }

// Status returns the status line text.
func (m *Model) Status() string { return m.status.Text() }

func (m *Model) BrowserView() string { return m.browser.View() }
func (m *Model) PanelView() string   { return m.panel.View() }
func (m *Model) StatusView() string  { return m.status.View() }
func (m *Model) HistoryView() string { return m.history.View() }
func (m *Model) HelpView() string    { return m.help.View(m.keys) }

// Run starts the terminal UI over s and blocks until the user quits.
func Run(s *session.Session, cfg *config.Config) error {
	p := tea.NewProgram(New(s, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
