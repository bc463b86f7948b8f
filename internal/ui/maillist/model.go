package maillist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/debounce"
	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/listing"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// SelectedEmailMsg is sent when the user opens a message.
type SelectedEmailMsg struct {
	ID string
}

// SearchCommittedMsg is sent when the debounced search value settles.
type SearchCommittedMsg struct {
	Value string
}

// NoticeMsg is a transient error notice for the status line.
type NoticeMsg struct {
	Text string
}

// FoldersLoadedMsg carries the folder sidebar data.
type FoldersLoadedMsg struct {
	Folders []model.Folder
	Err     error
}

// Model is the mailbox listing view: folder strip, searchable paginated
// listing, and the cached-data banner.
type Model struct {
	list       list.Model
	controller *listing.Controller
	keys       *keys.KeyMap

	folders       []model.Folder
	folderIndex   int
	defaultFolder string

	searchMode  bool
	searchInput textinput.Model
	debouncer   *debounce.Debouncer
	commitCh    chan string

	notice string
	width  int
	height int
}

// New creates the mailbox view around an existing listing controller.
// defaultFolder is selected once the folder strip loads; empty means
// the backend's default listing.
func New(ctrl *listing.Controller, k *keys.KeyMap, defaultFolder string, width, height int) Model {
	l := list.New([]list.Item{}, EmailDelegate{}, width, height-3)
	l.Title = "Mailbox"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search mail..."
	si.Prompt = "/ "
	si.Width = width - 4

	commitCh := make(chan string, 4)
	deb := debounce.New(debounce.DefaultWindow, func(value string) {
		select {
		case commitCh <- value:
		default:
		}
	})

	return Model{
		list:          l,
		controller:    ctrl,
		keys:          k,
		defaultFolder: defaultFolder,
		searchInput:   si,
		debouncer:     deb,
		commitCh:      commitCh,
		width:         width,
		height:        height,
	}
}

// Init starts the search-commit subscription and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForCommit(), m.controller.Refresh())
}

// waitForCommit bridges the debouncer's callback into the message loop.
func (m Model) waitForCommit() tea.Cmd {
	ch := m.commitCh
	return func() tea.Msg {
		value, ok := <-ch
		if !ok {
			return nil
		}
		return SearchCommittedMsg{Value: value}
	}
}

// Update handles messages for the mailbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listing.ResultMsg:
		if !m.controller.IsCurrent(msg) {
			return m, nil
		}
		if msg.Err != nil {
			m.notice = "Could not load the mailbox; showing the last known listing."
			return m, nil
		}
		m.notice = ""
		m.controller.Apply(msg)
		items := make([]list.Item, len(msg.Emails))
		for i, e := range msg.Emails {
			items[i] = EmailItem{Email: e}
		}
		return m, m.list.SetItems(items)

	case SearchCommittedMsg:
		return m, tea.Batch(m.controller.Search(msg.Value), m.waitForCommit())

	case FoldersLoadedMsg:
		if msg.Err == nil {
			firstLoad := len(m.folders) == 0
			m.folders = msg.Folders
			if firstLoad {
				return m, m.selectDefaultFolder()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search box is focused.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.debouncer.Submit()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.debouncer.Set("")
		m.debouncer.Submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Set(m.searchInput.Value())
	return m, cmd
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(EmailItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedEmailMsg{ID: item.Email.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.controller.Refresh()

	case key.Matches(msg, m.keys.NextPage):
		return m, m.controller.NextPage()

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.controller.PrevPage()

	case key.Matches(msg, m.keys.Folder):
		return m, m.cycleFolder()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selectDefaultFolder moves the strip to the configured starting folder
// when it exists, matched by name or id.
func (m *Model) selectDefaultFolder() tea.Cmd {
	if m.defaultFolder == "" {
		return nil
	}
	for i, f := range m.folders {
		if strings.EqualFold(f.Name, m.defaultFolder) || f.ID == m.defaultFolder {
			m.folderIndex = i
			return m.controller.SetFolder(f.ID)
		}
	}
	return nil
}

// cycleFolder moves to the next folder in the strip.
func (m *Model) cycleFolder() tea.Cmd {
	if len(m.folders) == 0 {
		return nil
	}
	m.folderIndex = (m.folderIndex + 1) % len(m.folders)
	return m.controller.SetFolder(m.folders[m.folderIndex].ID)
}

// Stop tears down the debouncer so no late commit fires.
func (m *Model) Stop() {
	m.debouncer.Stop()
}

// Searching reports whether the search input has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// View renders the mailbox view.
func (m Model) View() string {
	var rows []string

	if m.controller.Mode() == listing.ModeCached {
		rows = append(rows, theme.CachedBannerStyle.Render(
			"Showing cached data — the mail server is unreachable",
		))
	}
	if m.notice != "" {
		rows = append(rows, theme.ErrorStyle.Render(m.notice))
	}

	if m.searchMode {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	} else {
		rows = append(rows, m.folderStrip())
	}

	if len(m.list.Items()) == 0 {
		rows = append(rows, m.renderEmptyState())
	} else {
		rows = append(rows, m.list.View(), m.pageLine())
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// folderStrip renders the folder names with the active one highlighted.
func (m Model) folderStrip() string {
	if len(m.folders) == 0 {
		return ""
	}

	var parts []string
	for i, f := range m.folders {
		label := fmt.Sprintf("%s (%d)", f.Name, f.UnreadCount)
		if i == m.folderIndex {
			parts = append(parts, theme.SelectedItemStyle.Render(label))
		} else {
			parts = append(parts, theme.ListItemStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// pageLine renders the pagination status.
func (m Model) pageLine() string {
	page, pages := m.controller.Page()
	return theme.HelpStyle.Render(fmt.Sprintf(
		"page %d/%d · %d messages", page, pages, m.controller.Total(),
	))
}

// renderEmptyState shows guidance text when the listing is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 3).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.controller.Query().Search != "" {
		return style.Render("No matching messages.\nTry a different search.")
	}
	return style.Render("No messages in this folder.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}
