package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cachesweep/cachesweep/internal/logging"
)

func setupLogBuffer(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, logging.Init(logging.Config{
		Level:   "debug",
		Path:    dir + "/tui.log",
		TUIMode: true,
	}))
	t.Cleanup(func() { _ = logging.Close() })

	l := logging.Get("walker")
	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")
}

func TestFilterEntriesByLevelKeepsAtOrAbove(t *testing.T) {
	setupLogBuffer(t)
	all := entriesFromBuffer()
	require.Len(t, all, 4)

	warnAndAbove := filterEntriesByLevel(all, logging.LevelWarn)
	require.Len(t, warnAndAbove, 2)
	for _, e := range warnAndAbove {
		require.GreaterOrEqual(t, int(e.Level), int(logging.LevelWarn))
	}
}

func TestClampLogScroll(t *testing.T) {
	require.Equal(t, 0, clampLogScroll(0, 5, 10))    // fewer entries than visible rows
	require.Equal(t, 0, clampLogScroll(-3, 20, 10))  // negative clamps to zero
	require.Equal(t, 10, clampLogScroll(999, 20, 10)) // over-scroll clamps to max
	require.Equal(t, 5, clampLogScroll(5, 20, 10))
}

func TestLogViewerStateToggleAndScroll(t *testing.T) {
	setupLogBuffer(t)
	s := newLogViewerState()
	require.False(t, s.open)

	s.toggle()
	require.True(t, s.open)
	require.Equal(t, 0, s.scrollOffset)

	s.scrollDown(2)
	require.Equal(t, 1, s.scrollOffset)

	s.scrollUp()
	require.Equal(t, 0, s.scrollOffset)
}

func TestLogViewerRenderProducesNonEmptyOutput(t *testing.T) {
	setupLogBuffer(t)
	s := newLogViewerState()
	out := s.render(60, 8)
	require.NotEmpty(t, out)
}

func TestLogViewerRenderTooShortReturnsEmpty(t *testing.T) {
	s := newLogViewerState()
	require.Equal(t, "", s.render(60, 2))
}
