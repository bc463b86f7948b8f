package maildetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// BackMsg signals the parent to navigate back to the listing.
type BackMsg struct{}

// DetailLoadedMsg carries the lazily fetched message body.
type DetailLoadedMsg struct {
	Detail *model.EmailDetail
	Err    error
}

// DownloadAttachmentMsg asks the parent to download one attachment.
type DownloadAttachmentMsg struct {
	EmailID      string
	AttachmentID string
	Name         string
}

// Model is the message detail view.
type Model struct {
	email    *model.EmailDetail
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool

	attachmentIndex int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.email = msg.Detail
		m.attachmentIndex = 0
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case msg.String() == "tab":
			if m.email != nil && len(m.email.Attachments) > 0 {
				m.attachmentIndex = (m.attachmentIndex + 1) % len(m.email.Attachments)
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.email != nil && len(m.email.Attachments) > 0 {
				att := m.email.Attachments[m.attachmentIndex]
				emailID := m.email.ID
				return m, func() tea.Msg {
					return DownloadAttachmentMsg{
						EmailID:      emailID,
						AttachmentID: att.ID,
						Name:         att.Name,
					}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading message...")
	}

	if m.email == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No message selected")
	}

	return m.viewport.View()
}

// renderContent builds the full message content for the viewport.
func (m Model) renderContent() string {
	if m.email == nil {
		return ""
	}

	e := m.email
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(e.Subject))

	if e.Importance == model.ImportanceHigh {
		sections = append(sections, theme.ImportanceStyle(e.Importance).Render("HIGH IMPORTANCE"))
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("From:"),
		valStyle.Render(recipientLabel(e.Sender)),
	))
	if len(e.ToRecipients) > 0 {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("To:"),
			valStyle.Render(recipientList(e.ToRecipients)),
		))
	}
	if len(e.CcRecipients) > 0 {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Cc:"),
			valStyle.Render(recipientList(e.CcRecipients)),
		))
	}
	if e.Received != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Date:"),
			valStyle.Render(e.Received),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	body := e.BodyText
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No plain-text body")
	}
	sections = append(sections, body)

	if len(e.Attachments) > 0 {
		sections = append(sections, "", separator, "")
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		sections = append(sections, headerStyle.Render(
			fmt.Sprintf("Attachments (%d) — tab to select, enter to download", len(e.Attachments)),
		))
		sections = append(sections, "")

		for i, a := range e.Attachments {
			line := fmt.Sprintf("%s (%s, %s)", a.Name, a.ContentType, sizeLabel(a.Size))
			if i == m.attachmentIndex {
				line = theme.SelectedItemStyle.Render(line)
			} else {
				line = theme.ListItemStyle.Render(line)
			}
			sections = append(sections, line)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

func recipientLabel(r model.Recipient) string {
	if r.Name != "" && r.Email != "" {
		return fmt.Sprintf("%s <%s>", r.Name, r.Email)
	}
	if r.Email != "" {
		return r.Email
	}
	return r.Name
}

func recipientList(rs []model.Recipient) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, recipientLabel(r))
	}
	return strings.Join(parts, ", ")
}

func sizeLabel(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
