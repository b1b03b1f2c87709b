package tui

import (
	"fmt"
	"strings"

	"github.com/cachesweep/cachesweep/internal/logging"
)

// logViewerState is the TUI-local view over internal/logging's shared
// ring buffer: the buffer itself is process-wide (any component may log
// at any time), the scroll offset and level filter belong to this pane.
type logViewerState struct {
	open         bool
	filterLevel  logging.Level
	scrollOffset int
}

func newLogViewerState() logViewerState {
	return logViewerState{filterLevel: logging.LevelDebug}
}

func (s *logViewerState) toggle() {
	s.open = !s.open
	s.scrollOffset = 0
}

func (s *logViewerState) scrollUp() {
	if s.scrollOffset > 0 {
		s.scrollOffset--
	}
}

func (s *logViewerState) scrollDown(visibleRows int) {
	filtered := filterEntriesByLevel(entriesFromBuffer(), s.filterLevel)
	max := len(filtered) - visibleRows
	if max < 0 {
		max = 0
	}
	if s.scrollOffset < max {
		s.scrollOffset++
	}
}

func entriesFromBuffer() []logging.LogEntry {
	buf := logging.GetLogBuffer()
	if buf == nil {
		return nil
	}
	return buf.Entries()
}

func filterEntriesByLevel(entries []logging.LogEntry, min logging.Level) []logging.LogEntry {
	out := make([]logging.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}

func clampLogScroll(offset, total, visible int) int {
	if total <= visible {
		return 0
	}
	max := total - visible
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

func logLevelChar(l logging.Level) string {
	switch l {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

func logLevelStyled(l logging.Level, s string) string {
	switch l {
	case logging.LevelDebug:
		return logDebugStyle.Render(s)
	case logging.LevelWarn:
		return logWarnStyle.Render(s)
	case logging.LevelError:
		return logErrorStyle.Render(s)
	default:
		return logInfoStyle.Render(s)
	}
}

func (s *logViewerState) render(width, height int) string {
	if height < 3 {
		return ""
	}
	var b strings.Builder

	title := fmt.Sprintf(" Logs [%s] ", s.filterLevel)
	hint := "[1-4] level  [j/k] scroll  [l/esc] close"
	b.WriteString(titleStyle.Render(title) + mutedStyle.Render(hint))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	visible := height - 2
	if visible < 1 {
		visible = 1
	}

	filtered := filterEntriesByLevel(entriesFromBuffer(), s.filterLevel)
	s.scrollOffset = clampLogScroll(s.scrollOffset, len(filtered), visible)

	end := s.scrollOffset + visible
	if end > len(filtered) {
		end = len(filtered)
	}
	shown := filtered[s.scrollOffset:end]

	for _, e := range shown {
		b.WriteString(renderLogLine(e, width))
		b.WriteString("\n")
	}
	for i := len(shown); i < visible; i++ {
		b.WriteString("\n")
	}

	return b.String()
}

func renderLogLine(e logging.LogEntry, width int) string {
	timeStr := logTimeStyle.Render(e.Time.Format("15:04:05"))
	level := logLevelStyled(e.Level, "["+logLevelChar(e.Level)+"]")

	comp := e.Component
	if len(comp) > 10 {
		comp = comp[:10]
	}
	compStr := logComponentStyle.Render(comp)

	prefixWidth := 8 + 1 + 3 + 1 + len(comp) + 1 + 1
	msgWidth := width - prefixWidth
	if msgWidth < 10 {
		msgWidth = 10
	}
	msg := e.Message
	if len(msg) > msgWidth {
		msg = msg[:msgWidth-3] + "..."
	}

	return fmt.Sprintf("%s %s %s: %s", timeStr, level, compStr, msg)
}
