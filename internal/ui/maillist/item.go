package maillist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// EmailItem wraps a model.EmailSummary so it can be used in a bubbles/list.
type EmailItem struct {
	Email model.EmailSummary
}

// FilterValue returns the string used for fuzzy filtering.
func (i EmailItem) FilterValue() string { return i.Email.Subject }

// EmailDelegate implements list.ItemDelegate for listing rows.
type EmailDelegate struct{}

// Height returns the number of lines each item takes.
func (d EmailDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d EmailDelegate) Spacing() int { return 0 }

// Update handles per-item messages.
func (d EmailDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single listing row.
func (d EmailDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmailItem)
	if !ok {
		return
	}

	e := ei.Email
	isSelected := index == m.Index()

	prefix := " "
	if !e.IsRead {
		prefix = "●"
	}

	attachment := " "
	if e.HasAttachments {
		attachment = "@"
	}

	sender := e.Sender
	if sender == "" {
		sender = e.SenderEmail
	}
	senderCol := lipgloss.NewStyle().Width(22).Render(truncate(sender, 22))

	subject := truncate(e.Subject, 60)
	if !e.IsRead {
		subject = theme.UnreadStyle.Render(subject)
	}
	if e.Importance == model.ImportanceHigh {
		subject = theme.ImportanceStyle(e.Importance).Render("! ") + subject
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(receivedLabel(e.Received))

	line := fmt.Sprintf("%s %s %s %s  %s", prefix, attachment, senderCol, subject, timeStr)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// receivedLabel formats the backend's ISO timestamp as a short relative
// label, falling back to the raw date part.
func receivedLabel(received string) string {
	t, err := time.Parse(time.RFC3339, received)
	if err != nil {
		if len(received) >= 10 {
			return received[:10]
		}
		return received
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
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
