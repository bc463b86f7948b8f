package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/theme"
)

// Layout manages the terminal frame around the active view: one header
// row carrying the account status, the content area, one hint row.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for the active view after the
// header and the hint bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// fill pads a rendered segment to the full width in the given style's
// background so the bar reaches the right edge.
func (l Layout) fill(style lipgloss.Style, used int) string {
	gap := l.Width - used
	if gap < 0 {
		gap = 0
	}
	return style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)
}

// RenderHeader renders the top bar: view title on the left, account and
// mailbox status (unread counts, cached banner) on the right.
func (l Layout) RenderHeader(title, status string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	filler := l.fill(theme.HeaderStyle, lipgloss.Width(left)+lipgloss.Width(right))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderStatusBar renders the bottom bar with the active view's key
// hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)
	filler := l.fill(theme.StatusBarStyle, lipgloss.Width(rendered))
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame stacks the header, the active view, and the hint bar
// into the final frame.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
