// Package tui renders eventloop.Snapshot values inside a terminal using
// Bubble Tea, Bubbles, and Lip Gloss, the same stack the teacher's
// cmd/sweep/tui package builds on.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorInfo    = lipgloss.Color("#00D9FF")
	colorOK      = lipgloss.Color("#28A745")
	colorWarn    = lipgloss.Color("#FFC107")
	colorDanger  = lipgloss.Color("#DC3545")
	colorMuted   = lipgloss.Color("#666666")
	colorSubtle  = lipgloss.Color("#3A3A3A")
	colorBorder  = lipgloss.Color("#333333")
	colorHilite  = lipgloss.Color("#1A1A2E")
	colorWhite   = lipgloss.Color("#FFFFFF")
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().Foreground(colorBorder)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)

	rowCursorStyle = lipgloss.NewStyle().Background(colorHilite).Foreground(colorWhite).Bold(true)
	rowNormalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	rowSensitive   = lipgloss.NewStyle().Foreground(colorWarn)

	markedStyle   = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	unmarkedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	sizeStyle = lipgloss.NewStyle().Width(11).Align(lipgloss.Right).Foreground(colorInfo)

	cursorGlyphStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	keyStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	keyDescStyle = lipgloss.NewStyle().Foreground(colorMuted)

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorWarn).
			Padding(1, 2).
			Width(52)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarn).Align(lipgloss.Center)
	dialogTextStyle  = lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Center)

	noticeStyle = lipgloss.NewStyle().Foreground(colorDanger)

	logTimeStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	logComponentStyle = lipgloss.NewStyle().Foreground(colorInfo)
	logDebugStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	logInfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	logWarnStyle      = lipgloss.NewStyle().Foreground(colorWarn)
	logErrorStyle     = lipgloss.NewStyle().Foreground(colorDanger)
)

func renderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return dividerStyle.Render(repeatRune('─', width))
}

func repeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

func truncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return "..." + s[len(s)-(maxLen-3):]
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return repeatRune(' ', width-len(s)) + s
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return repeatRune(' ', left) + s + repeatRune(' ', right)
}
