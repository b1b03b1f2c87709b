package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cachesweep/cachesweep/internal/eventloop"
	"github.com/cachesweep/cachesweep/internal/model"
)

func (m Model) View() string {
	if m.quitting {
		return mutedStyle.Render("shutting down...\n")
	}

	if !m.snapshot.ScanComplete {
		return m.renderScanning()
	}

	base := m.renderResults()

	switch {
	case m.mode == modeLogViewer:
		return frameStyle.Width(m.width - 2).Render(m.logViewer.render(m.width-6, m.height-6))
	case m.snapshot.PendingConfirm != nil:
		return m.overlay(base, m.renderConfirmDialog())
	case m.mode == modeSearch:
		return base + "\n" + m.search.View()
	default:
		return base
	}
}

func (m Model) renderScanning() string {
	contentWidth := m.width - 4
	var b strings.Builder
	b.WriteString(titleStyle.Render("  cache-sweep - scanning"))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s dirs visited: %s   matches so far: %s",
		m.spinner.View(),
		humanize.Comma(m.snapshot.DirsVisited),
		humanize.Comma(int64(len(m.snapshot.Rows)))))
	b.WriteString("\n")
	if m.snapshot.ScanErrCount > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d scan errors so far", m.snapshot.ScanErrCount)))
		b.WriteString("\n")
	}
	return frameStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderResults() string {
	contentWidth := m.width - 4
	if contentWidth < 60 {
		contentWidth = 60
	}

	if len(m.snapshot.Rows) == 0 {
		return m.renderEmpty(contentWidth)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderRows(contentWidth))
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(contentWidth))
	if len(m.snapshot.Notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.snapshot.Notices {
			b.WriteString(noticeStyle.Render("  ! " + n))
			b.WriteString("\n")
		}
	}

	return frameStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderEmpty(width int) string {
	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n\n")
	msg := "No matches under the current filter."
	if m.snapshot.Filter.Kind != model.FilterAll {
		msg = "No matches under the current filter. Press [esc] to clear it."
	}
	b.WriteString(center(mutedStyle.Render(msg), width))
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), width))
	b.WriteString("\n")
	return frameStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderHeader(width int) string {
	title := fmt.Sprintf("  cache-sweep - %d matches (%s)",
		m.snapshot.TotalCount, humanize.IBytes(uint64(m.snapshot.TotalBytes)))
	if !m.snapshot.ScanComplete {
		title += "  " + m.spinner.View()
	}
	return titleStyle.Render(title)
}

func (m Model) renderHelpBar() string {
	hints := []struct{ key, desc string }{
		{"space", "toggle"}, {"a", "all"}, {"n", "none"},
		{"enter", "delete"}, {"d", "delete marked"},
		{"s", "sort"}, {"t", "filter target"}, {"/", "search"},
		{"X", "show protected"}, {"l", "logs"}, {"q", "quit"},
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.key+"]")+" "+keyDescStyle.Render(h.desc))
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderRows(width int) string {
	var b strings.Builder
	visible := m.visibleRows()
	pathWidth := width - 20
	if pathWidth < 10 {
		pathWidth = 10
	}

	rows := m.snapshot.Rows
	offset := 0
	if m.snapshot.Cursor >= visible {
		offset = m.snapshot.Cursor - visible + 1
	}

	shown := 0
	for i := offset; i < len(rows) && shown < visible; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.snapshot.Cursor, pathWidth))
		b.WriteString("\n")
		shown++
	}
	for ; shown < visible; shown++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(r eventloop.Row, isCursor bool, pathWidth int) string {
	mark := unmarkedStyle.Render("[ ]")
	if r.Marked {
		mark = markedStyle.Render("[x]")
	}

	size := sizeStyle.Render(padLeft(sizeLabel(r), 10))

	cursorGlyph := " "
	if isCursor {
		cursorGlyph = cursorGlyphStyle.Render(">")
	}

	path := truncateMiddle(r.Path, pathWidth)
	if r.Sensitive {
		path = rowSensitive.Render(path + " (protected)")
	}

	status := statusLabel(r)

	line := fmt.Sprintf("  %s %s %s %s %s", mark, size, cursorGlyph, path, status)
	if isCursor {
		return rowCursorStyle.Width(pathWidth + 30).Render(line)
	}
	return rowNormalStyle.Render(line)
}

func sizeLabel(r eventloop.Row) string {
	switch r.Size.Kind {
	case model.SizeReady:
		return humanize.IBytes(uint64(r.Size.Bytes))
	case model.SizeFailed:
		return "error"
	case model.SizeComputing:
		return "..."
	default:
		return "pending"
	}
}

func statusLabel(r eventloop.Row) string {
	switch r.Delete.Kind {
	case model.DeleteDeleting:
		return mutedStyle.Render("deleting...")
	case model.DeleteFailed:
		return errStyle.Render("failed: " + r.Delete.Reason)
	default:
		return ""
	}
}

func (m Model) renderFooter(width int) string {
	left := fmt.Sprintf("  visited %s dirs", humanize.Comma(m.snapshot.DirsVisited))
	right := mutedStyle.Render("[up/down] navigate")
	spacing := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

func (m Model) renderConfirmDialog() string {
	req := m.snapshot.PendingConfirm
	var title, body string
	switch req.Kind {
	case eventloop.ConfirmDeleteMarked:
		title = "Confirm Deletion"
		body = fmt.Sprintf("Delete %d marked entries?\n[y] confirm  [n] cancel", len(req.Indices))
	case eventloop.ConfirmSensitiveRefused:
		title = "Protected Path"
		body = fmt.Sprintf("%d entries under a protected root were not deleted.\n[enter] dismiss", len(req.Indices))
	}

	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(dialogTextStyle.Render(body))
	return dialogBoxStyle.Render(b.String())
}

// overlay centers dialog over bg by line/column replacement. It does not
// attempt true alpha blending: the background lines under the dialog are
// simply covered, matching the teacher's own "simple overlay" approach.
func (m Model) overlay(bg, dialog string) string {
	bgLines := strings.Split(bg, "\n")
	dialogLines := strings.Split(dialog, "\n")

	dialogHeight := len(dialogLines)
	startRow := (m.height - dialogHeight) / 2
	if startRow < 0 {
		startRow = 0
	}
	dialogWidth := lipgloss.Width(dialog)
	startCol := (m.width - dialogWidth) / 2
	if startCol < 0 {
		startCol = 0
	}

	total := len(bgLines)
	if startRow+dialogHeight > total {
		total = startRow + dialogHeight
	}

	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i < startRow || i >= startRow+dialogHeight {
			if i < len(bgLines) {
				out = append(out, bgLines[i])
			} else {
				out = append(out, "")
			}
			continue
		}
		dialogLine := dialogLines[i-startRow]
		if i < len(bgLines) {
			bgLine := bgLines[i]
			cut := startCol
			if cut > len(bgLine) {
				cut = len(bgLine)
			}
			out = append(out, bgLine[:cut]+dialogLine)
		} else {
			out = append(out, strings.Repeat(" ", startCol)+dialogLine)
		}
	}
	return strings.Join(out, "\n")
}
