package candview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/candidates"
	"github.com/hnguyen/recruitmail/internal/debounce"
	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// mode is the view's input focus.
type mode int

const (
	modeList mode = iota
	modeProfile
	modeNotes
	modeTag
	modeSearch
)

// SearchCommittedMsg is sent when the debounced candidate search settles.
type SearchCommittedMsg struct {
	Value string
}

// Model is the candidates screen: searchable list plus a profile pane
// with editable notes and tags.
type Model struct {
	list       list.Model
	collection *candidates.Collection
	keys       *keys.KeyMap

	mode     mode
	selected int64

	notesArea textarea.Model
	tagInput  textinput.Model
	tagIndex  int

	searchInput textinput.Model
	debouncer   *debounce.Debouncer
	commitCh    chan string

	notice string
	width  int
	height int
}

// New creates the candidates view around the shared collection.
func New(coll *candidates.Collection, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, CandidateDelegate{}, width, height-3)
	l.Title = "Candidates"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	ta := textarea.New()
	ta.Placeholder = "notes..."
	ta.SetWidth(width - 8)
	ta.SetHeight(6)

	ti := textinput.New()
	ti.Placeholder = "add tag..."
	ti.Prompt = "# "

	si := textinput.New()
	si.Placeholder = "search candidates..."
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
		list:        l,
		collection:  coll,
		keys:        k,
		notesArea:   ta,
		tagInput:    ti,
		searchInput: si,
		debouncer:   deb,
		commitCh:    commitCh,
		width:       width,
		height:      height,
	}
}

// Init starts the search subscription and the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForCommit(), m.collection.Load(""))
}

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

// Update handles messages for the candidates view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case candidates.LoadedMsg:
		if msg.Err != nil {
			m.notice = "Could not load candidates."
			return m, nil
		}
		m.notice = ""
		m.collection.HandleLoaded(msg)
		return m, m.refreshItems()

	case candidates.NotesSavedMsg:
		if msg.Err != nil {
			m.notice = "Saving notes failed; your draft is kept."
		}
		m.collection.HandleNotesSaved(msg)
		return m, nil

	case candidates.TagsSavedMsg:
		if msg.Err != nil {
			m.notice = "Saving tags failed; change reverted."
		}
		m.collection.HandleTagsSaved(msg)
		return m, m.refreshItems()

	case SearchCommittedMsg:
		return m, tea.Batch(m.collection.Load(msg.Value), m.waitForCommit())

	case tea.KeyMsg:
		switch m.mode {
		case modeNotes:
			return m.handleNotesKeys(msg)
		case modeTag:
			return m.handleTagKeys(msg)
		case modeSearch:
			return m.handleSearchKeys(msg)
		case modeProfile:
			return m.handleProfileKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) refreshItems() tea.Cmd {
	all := m.collection.All()
	items := make([]list.Item, len(all))
	for i, c := range all {
		items[i] = CandidateItem{Candidate: c}
	}
	return m.list.SetItems(items)
}

func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(CandidateItem)
		if !ok {
			return m, nil
		}
		m.selected = item.Candidate.ID
		m.tagIndex = 0
		m.mode = modeProfile
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.collection.Load(m.debouncer.Committed())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	cand, ok := m.collection.Get(m.selected)
	if !ok {
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Notes):
		m.mode = modeNotes
		m.notesArea.SetValue(m.collection.NotesDraft(cand.ID))
		return m, m.notesArea.Focus()

	case key.Matches(msg, m.keys.AddTag):
		m.mode = modeTag
		m.tagInput.Reset()
		return m, m.tagInput.Focus()

	case msg.String() == "tab":
		if len(cand.Tags) > 0 {
			m.tagIndex = (m.tagIndex + 1) % len(cand.Tags)
		}
		return m, nil

	case msg.String() == "backspace", msg.String() == "delete":
		if len(cand.Tags) > 0 && m.tagIndex < len(cand.Tags) {
			tag := cand.Tags[m.tagIndex]
			if m.tagIndex > 0 {
				m.tagIndex--
			}
			return m, tea.Batch(m.collection.RemoveTag(cand.ID, tag), m.refreshItems())
		}
		return m, nil
	}

	return m, nil
}

// handleNotesKeys edits the notes buffer. Esc blurs the editor, which
// is the commit point; the buffer only reaches the server if it changed.
func (m Model) handleNotesKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeProfile
		m.notesArea.Blur()
		m.collection.EditNotes(m.selected, m.notesArea.Value())
		return m, m.collection.CommitNotes(m.selected)
	}

	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	m.collection.EditNotes(m.selected, m.notesArea.Value())
	return m, cmd
}

func (m Model) handleTagKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeProfile
		tag := strings.TrimSpace(m.tagInput.Value())
		m.tagInput.Reset()
		if tag == "" {
			return m, nil
		}
		return m, tea.Batch(m.collection.AddTag(m.selected, tag), m.refreshItems())

	case "esc":
		m.mode = modeProfile
		m.tagInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.debouncer.Submit()
		return m, nil

	case "esc":
		m.mode = modeList
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

// Stop tears down the debouncer.
func (m *Model) Stop() {
	m.debouncer.Stop()
}

// Editing reports whether a text input has keyboard focus.
func (m Model) Editing() bool {
	return m.mode == modeNotes || m.mode == modeTag || m.mode == modeSearch
}

// View renders the candidates view.
func (m Model) View() string {
	var rows []string
	if m.notice != "" {
		rows = append(rows, theme.ErrorStyle.Render(m.notice))
	}

	switch m.mode {
	case modeProfile, modeNotes, modeTag:
		rows = append(rows, m.renderProfile())
	case modeSearch:
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
		rows = append(rows, m.list.View())
	default:
		rows = append(rows, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderProfile draws the selected candidate's profile pane.
func (m Model) renderProfile() string {
	cand, ok := m.collection.Get(m.selected)
	if !ok {
		return theme.HelpStyle.Render("Candidate no longer available.")
	}

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var sections []string
	sections = append(sections, titleStyle.Render(cand.Name))

	meta := func(label, value string) {
		if value != "" {
			sections = append(sections, fmt.Sprintf(
				"%s %s", metaStyle.Render(label), valStyle.Render(value),
			))
		}
	}
	meta("Email:   ", cand.Email)
	meta("Phone:   ", cand.Phone)
	meta("Location:", cand.Location)
	meta("Titles:  ", strings.Join(cand.Titles, ", "))
	meta("Skills:  ", strings.Join(cand.Skills, ", "))
	meta("Exp:     ", fmt.Sprintf("%.1f years", cand.YearsExp))

	sections = append(sections, "")

	var tagParts []string
	for i, t := range cand.Tags {
		label := "#" + t
		if m.mode == modeProfile && i == m.tagIndex {
			tagParts = append(tagParts, theme.SelectedItemStyle.Render(label))
		} else {
			tagParts = append(tagParts, lipgloss.NewStyle().
				Foreground(theme.ColorMagenta).
				Render(label))
		}
	}
	tagLine := metaStyle.Render("Tags: ") + strings.Join(tagParts, " ")
	if m.mode == modeTag {
		tagLine += "  " + m.tagInput.View()
	}
	sections = append(sections, tagLine)

	sections = append(sections, "")
	sections = append(sections, metaStyle.Render("Notes (o to edit, esc saves):"))
	if m.mode == modeNotes {
		sections = append(sections, m.notesArea.View())
	} else {
		notes := m.collection.NotesDraft(cand.ID)
		if notes == "" {
			notes = theme.HelpStyle.Render("no notes yet")
		}
		sections = append(sections, notes)
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
	m.notesArea.SetWidth(width - 8)
}
