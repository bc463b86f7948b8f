package candview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// CandidateItem wraps a model.Candidate for a bubbles/list.
type CandidateItem struct {
	Candidate model.Candidate
}

// FilterValue returns the string used for fuzzy filtering.
func (i CandidateItem) FilterValue() string { return i.Candidate.Name }

// CandidateDelegate renders one candidate row.
type CandidateDelegate struct{}

// Height returns the number of lines each item takes.
func (d CandidateDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d CandidateDelegate) Spacing() int { return 0 }

// Update handles per-item messages.
func (d CandidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single candidate row.
func (d CandidateDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CandidateItem)
	if !ok {
		return
	}

	c := ci.Candidate
	isSelected := index == m.Index()

	nameCol := lipgloss.NewStyle().Width(24).Render(truncate(c.Name, 24))

	title := ""
	if len(c.Titles) > 0 {
		title = truncate(c.Titles[0], 30)
	}
	titleCol := lipgloss.NewStyle().
		Width(32).
		Foreground(theme.ColorGray).
		Render(title)

	exp := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(fmt.Sprintf("%4.1fy", c.YearsExp))

	tags := ""
	if len(c.Tags) > 0 {
		display := c.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tags = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" #" + strings.Join(display, " #"))
	}

	dup := ""
	if c.IsDuplicate {
		dup = lipgloss.NewStyle().Foreground(theme.ColorYellow).Render(" DUP")
	}

	line := fmt.Sprintf("%s %s %s%s%s", nameCol, titleCol, exp, tags, dup)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
