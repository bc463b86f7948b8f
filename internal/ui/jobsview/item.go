package jobsview

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

// JobItem wraps a job requisition for the list component.
type JobItem struct {
	Job model.JobRequisition
}

func (i JobItem) FilterValue() string { return i.Job.Title }

// JobDelegate renders job rows.
type JobDelegate struct{}

func (d JobDelegate) Height() int  { return 1 }
func (d JobDelegate) Spacing() int { return 0 }

func (d JobDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d JobDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ji, ok := item.(JobItem)
	if !ok {
		return
	}
	job := ji.Job

	title := truncate(job.Title, 36)
	title = fmt.Sprintf("%-36s", title)

	skills := truncate(strings.Join(job.RequiredSkills, ", "), 34)
	exp := fmt.Sprintf("%4.1fy+", job.MinExp)

	loc := job.Location
	if job.RemoteOK {
		if loc != "" {
			loc += " / remote"
		} else {
			loc = "remote"
		}
	}

	line := title + " " +
		lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(exp) + " " +
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(fmt.Sprintf("%-34s", skills)) + " " +
		lipgloss.NewStyle().Foreground(theme.ColorSubtle).Render(loc)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render("> "+line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render("  "+line))
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
