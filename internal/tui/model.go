package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/logging"
)

// mode selects which key handler Update dispatches to.
type mode int

const (
	modeBrowse mode = iota
	modeConfirm
	modeSearch
	modeLogViewer
)

// Model is the Bubble Tea model driving the interactive result view. It
// owns no application state itself beyond rendering concerns: every
// mutation is expressed as an eventloop.Input sent to the loop, and the
// loop's next Snapshot is the only source of truth for what to draw.
type Model struct {
	loop   *eventloop.Loop
	cancel context.CancelFunc
	logger *logging.Logger

	snapshot eventloop.Snapshot
	spinner  spinner.Model
	search   textinput.Model

	mode      mode
	logViewer logViewerState

	width, height int
	quitting      bool
}

// New returns a Model that drives loop. cancel is called on a hard quit
// (ctrl+c) so the caller's context is torn down even if the loop's own
// graceful-quit path never gets a chance to run.
func New(loop *eventloop.Loop, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Placeholder = "search substring"
	ti.CharLimit = 128
	ti.Prompt = "/"

	return Model{
		loop:      loop,
		cancel:    cancel,
		logger:    logging.Get("tui"),
		spinner:   s,
		search:    ti,
		logViewer: newLogViewerState(),
		width:     80,
		height:    24,
	}
}

type snapshotMsg eventloop.Snapshot

func listenSnapshot(loop *eventloop.Loop) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-loop.Snapshots()
		if !ok {
			return snapshotMsg{Done: true}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenSnapshot(m.loop))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.loop.Send(eventloop.Input{Kind: eventloop.InputResize, Height: m.visibleRows()})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.snapshot = eventloop.Snapshot(msg)
		if m.snapshot.Done {
			return m, tea.Quit
		}
		if m.snapshot.PendingConfirm != nil && m.mode == modeBrowse {
			m.mode = modeConfirm
		} else if m.snapshot.PendingConfirm == nil && m.mode == modeConfirm {
			m.mode = modeBrowse
		}
		return m, listenSnapshot(m.loop)

	case spinner.TickMsg:
		if m.snapshot.ScanComplete {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.loop.Send(eventloop.Input{Kind: eventloop.InputQuit})
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeLogViewer:
		return m.handleLogViewerKey(key)
	case modeConfirm:
		if in, ok := confirmKeyToInput(key); ok {
			m.loop.Send(in)
		}
		return m, nil
	default:
		return m.handleBrowseKey(key)
	}
}

func (m Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.quitting = true
		m.loop.Send(eventloop.Input{Kind: eventloop.InputQuit})
		return m, nil
	case "l":
		m.mode = modeLogViewer
		m.logViewer.toggle()
		return m, nil
	case "/":
		m.mode = modeSearch
		m.search.SetValue("")
		m.search.Focus()
		return m, textinput.Blink
	}

	cursorTarget := m.cursorRowTarget()
	if in, ok := browseKeyToInput(key, cursorTarget, m.snapshot.Filter); ok {
		m.loop.Send(in)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.loop.Send(eventloop.Input{Kind: eventloop.InputFilterSearch, Text: m.search.Value()})
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case "esc":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleLogViewerKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "l", "esc", "q":
		m.mode = modeBrowse
		m.logViewer.open = false
		return m, nil
	case "up", "k":
		m.logViewer.scrollUp()
	case "down", "j":
		m.logViewer.scrollDown(m.height - 4)
	case "1":
		m.logViewer.filterLevel = logging.LevelDebug
	case "2":
		m.logViewer.filterLevel = logging.LevelInfo
	case "3":
		m.logViewer.filterLevel = logging.LevelWarn
	case "4":
		m.logViewer.filterLevel = logging.LevelError
	}
	return m, nil
}

func (m Model) cursorRowTarget() string {
	if m.snapshot.Cursor < 0 || m.snapshot.Cursor >= len(m.snapshot.Rows) {
		return ""
	}
	return m.snapshot.Rows[m.snapshot.Cursor].Target
}

// visibleRows is the number of result rows the list area can show,
// accounting for header/help/divider/footer chrome.
func (m Model) visibleRows() int {
	rows := m.height - 10
	if rows < 3 {
		rows = 3
	}
	return rows
}
