package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachesweep/cachesweep/internal/deleter"
	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/model"
	"github.com/cachesweep/cachesweep/internal/sensitivity"
	"github.com/cachesweep/cachesweep/internal/sizer"
	"github.com/cachesweep/cachesweep/internal/target"
	"github.com/cachesweep/cachesweep/internal/walker"
)

func newTestLoop(t *testing.T) *eventloop.Loop {
	t.Helper()
	matcher, err := target.New(map[string]string{"node_modules": "node"}, nil, nil, false)
	require.NoError(t, err)
	w := walker.New(walker.Options{
		Root:       t.TempDir(),
		Matcher:    matcher,
		Classifier: sensitivity.Default(nil),
	})
	return eventloop.New(eventloop.Config{
		Walker:  w,
		Sizer:   sizer.New(2),
		Deleter: deleter.New(true),
		SortKey: model.SortSizeDesc,
	})
}

func TestWindowSizeUpdatesDimensions(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	mm := updated.(Model)
	assert.Equal(t, 100, mm.width)
	assert.Equal(t, 40, mm.height)
}

func TestSnapshotDoneQuitsProgram(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})

	_, cmd := m.Update(snapshotMsg{Done: true})
	require.NotNil(t, cmd)
	msg := cmd()
	_, isQuit := msg.(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestSnapshotWithPendingConfirmEntersConfirmMode(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})
	assert.Equal(t, modeBrowse, m.mode)

	updated, _ := m.Update(snapshotMsg{
		PendingConfirm: &eventloop.ConfirmRequest{Kind: eventloop.ConfirmDeleteMarked, Indices: []int{0}},
	})
	mm := updated.(Model)
	assert.Equal(t, modeConfirm, mm.mode)

	updated, _ = mm.Update(snapshotMsg{PendingConfirm: nil})
	mm = updated.(Model)
	assert.Equal(t, modeBrowse, mm.mode)
}

func TestSlashKeyEntersSearchMode(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	mm := updated.(Model)
	assert.Equal(t, modeSearch, mm.mode)
}

func TestEnterInSearchModeAppliesFilterAndReturnsToBrowse(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})
	m.mode = modeSearch
	m.search.SetValue("node")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)
	assert.Equal(t, modeBrowse, mm.mode)
}

func TestLKeyTogglesLogViewer(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	mm := updated.(Model)
	assert.Equal(t, modeLogViewer, mm.mode)
	assert.True(t, mm.logViewer.open)

	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	mm = updated.(Model)
	assert.Equal(t, modeBrowse, mm.mode)
}

func TestCtrlCCancelsContextAndQuits(t *testing.T) {
	loop := newTestLoop(t)
	cancelled := false
	m := New(loop, func() { cancelled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	msg := cmd()
	_, isQuit := msg.(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.True(t, cancelled)
}

func TestViewDoesNotPanicAcrossModes(t *testing.T) {
	loop := newTestLoop(t)
	m := New(loop, func() {})
	m.snapshot.ScanComplete = true

	assert.NotPanics(t, func() { _ = m.View() })

	m.mode = modeSearch
	assert.NotPanics(t, func() { _ = m.View() })

	m.mode = modeLogViewer
	assert.NotPanics(t, func() { _ = m.View() })

	m.mode = modeBrowse
	m.snapshot.PendingConfirm = &eventloop.ConfirmRequest{Kind: eventloop.ConfirmSensitiveRefused, Indices: []int{0}}
	assert.NotPanics(t, func() { _ = m.View() })
}
