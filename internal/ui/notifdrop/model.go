package notifdrop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/notify"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// CloseMsg signals the parent to close the dropdown.
type CloseMsg struct{}

// Model is the notification dropdown: recent items with read-state
// actions, backed by the shared center.
type Model struct {
	center *notify.Center
	keys   *keys.KeyMap

	selectedIdx int
	width       int
	height      int
}

// New creates the dropdown around the shared center.
func New(center *notify.Center, k *keys.KeyMap, width, height int) Model {
	return Model{center: center, keys: k, width: width, height: height}
}

// Init fetches the dropdown items.
func (m Model) Init() tea.Cmd {
	return m.center.Load()
}

// Update handles messages for the dropdown.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notify.ListMsg:
		m.center.HandleList(msg)
		if n := len(m.center.Items()); m.selectedIdx >= n && m.selectedIdx > 0 {
			m.selectedIdx = n - 1
		}
		return m, nil

	case notify.ReadResultMsg:
		m.center.HandleReadResult(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.center.Items()

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Notifications):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(items)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.selectedIdx < len(items) && !items[m.selectedIdx].Read {
			return m, m.center.MarkRead(items[m.selectedIdx].ID)
		}
		return m, nil

	case msg.String() == "a":
		return m, m.center.MarkAllRead()

	case msg.String() == "C":
		cmd := m.center.ClearRead()
		if n := len(m.center.Items()); m.selectedIdx >= n && m.selectedIdx > 0 {
			m.selectedIdx = n - 1
		}
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		return m, m.center.Load()
	}

	return m, nil
}

// View renders the dropdown panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	header := titleStyle.Render("Notifications")
	if c := m.center.Count(); c > 0 {
		header += lipgloss.NewStyle().Foreground(theme.ColorOrange).
			Render(fmt.Sprintf("  %d unread", c))
	}

	items := m.center.Items()
	var lines []string
	lines = append(lines, header, "")

	if len(items) == 0 {
		lines = append(lines, theme.HelpStyle.Render("Nothing here yet."))
	}

	for i, n := range items {
		lines = append(lines, m.renderItem(n, i == m.selectedIdx))
	}

	lines = append(lines, "",
		theme.HelpStyle.Render("enter mark read · a mark all · C clear read · esc close"))

	return theme.DetailPanelStyle.
		Width(min(m.width-4, 78)).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderItem(n model.Notification, selected bool) string {
	marker := "●"
	markerStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue)
	if n.Read {
		marker = " "
	}
	if n.Type == model.NotificationHighFitMatch && !n.Read {
		markerStyle = lipgloss.NewStyle().Foreground(theme.ColorGreen)
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	if n.Read {
		titleStyle = lipgloss.NewStyle().Foreground(theme.ColorGray)
	}

	line := fmt.Sprintf("%s %s %s",
		markerStyle.Render(marker),
		titleStyle.Render(truncate(n.Title, 40)),
		lipgloss.NewStyle().Foreground(theme.ColorSubtle).Render(truncate(n.Message, 30)),
	)
	if selected {
		return theme.SelectedItemStyle.Render("> " + line)
	}
	return theme.ListItemStyle.Render("  " + line)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
