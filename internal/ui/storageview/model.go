package storageview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/theme"
)

const fetchTimeout = 30 * time.Second

// HealthMsg carries a storage health poll.
type HealthMsg struct {
	Health *api.StorageHealth
	Err    error
}

// BackupMsg carries the outcome of a backup trigger.
type BackupMsg struct {
	Result *api.BackupResult
	Err    error
}

// ClearedMsg carries the outcome of a clear-data request.
type ClearedMsg struct {
	Err error
}

// Model is the storage screen: health and row counts, backup, and the
// guarded clear-data action.
type Model struct {
	client *api.Client
	log    *logrus.Entry
	keys   *keys.KeyMap

	health  *api.StorageHealth
	confirm bool
	input   textinput.Model
	busy    bool

	notice string
	width  int
	height int
}

// New creates the storage view.
func New(client *api.Client, log *logrus.Entry, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type CONFIRM"
	ti.Prompt = "> "
	ti.CharLimit = 16

	return Model{
		client: client,
		log:    log,
		keys:   k,
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init fetches storage health.
func (m Model) Init() tea.Cmd {
	return m.loadHealth()
}

func (m Model) loadHealth() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		health, err := client.GetStorageHealth(ctx)
		return HealthMsg{Health: health, Err: err}
	}
}

func (m Model) backup() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		res, err := client.Backup(ctx)
		return BackupMsg{Result: res, Err: err}
	}
}

func (m Model) clearData(confirmation string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return ClearedMsg{Err: client.ClearData(ctx, confirmation)}
	}
}

// Update handles messages for the storage view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case HealthMsg:
		if msg.Err != nil {
			m.notice = "Could not load storage health."
			return m, nil
		}
		m.notice = ""
		m.health = msg.Health
		return m, nil

	case BackupMsg:
		m.busy = false
		if msg.Err != nil {
			m.notice = "Backup failed."
			return m, nil
		}
		m.notice = fmt.Sprintf("Backup written to %s", msg.Result.Path)
		return m, nil

	case ClearedMsg:
		m.busy = false
		if msg.Err != nil {
			if errors.Is(msg.Err, api.ErrConfirmRequired) {
				m.notice = "Confirmation did not match. Nothing was deleted."
			} else {
				m.notice = "Clearing data failed."
			}
			return m, nil
		}
		m.notice = "All server-side data cleared."
		return m, m.loadHealth()

	case tea.KeyMsg:
		if m.confirm {
			return m.handleConfirmKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadHealth()

	case msg.String() == "b":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, m.backup()

	case msg.String() == "D":
		m.confirm = true
		m.notice = ""
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.confirm = false
		m.input.Blur()
		phrase := m.input.Value()
		m.input.Reset()
		if phrase != "CONFIRM" {
			m.notice = "Confirmation did not match. Nothing was deleted."
			return m, nil
		}
		m.busy = true
		return m, m.clearData(phrase)

	case "esc":
		m.confirm = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the storage view.
func (m Model) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(14)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Storage"),
		"")

	if m.health == nil {
		lines = append(lines, theme.HelpStyle.Render("Loading health..."))
	} else {
		statusStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
		if m.health.Status != "ok" {
			statusStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed)
		}
		lines = append(lines,
			labelStyle.Render("Status")+statusStyle.Render(strings.ToUpper(m.health.Status)),
			labelStyle.Render("Database")+valStyle.Render(fmt.Sprintf("%.1f MB", m.health.DBSizeMB)),
			labelStyle.Render("Emails")+valStyle.Render(fmt.Sprintf("%d", m.health.Emails)),
			labelStyle.Render("Candidates")+valStyle.Render(fmt.Sprintf("%d", m.health.Candidates)),
			labelStyle.Render("Jobs")+valStyle.Render(fmt.Sprintf("%d", m.health.Jobs)),
		)
	}

	if m.confirm {
		lines = append(lines, "",
			theme.ErrorStyle.Render("This deletes ALL server-side data."),
			valStyle.Render("Type CONFIRM to proceed:"),
			m.input.View())
	}

	if m.notice != "" {
		lines = append(lines, "", valStyle.Render(m.notice))
	}

	help := "b backup · D clear all data · r refresh"
	if m.confirm {
		help = "enter submit · esc cancel"
	}
	lines = append(lines, "", theme.HelpStyle.Render(help))

	return theme.DetailPanelStyle.
		Width(min(m.width-4, 70)).
		Render(strings.Join(lines, "\n"))
}

// Confirming reports whether the clear-data confirmation input has
// keyboard focus.
func (m Model) Confirming() bool {
	return m.confirm
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
