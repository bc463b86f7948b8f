package schedview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/scheduler"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// CountdownTickMsg drives the per-second countdown while the view is
// active.
type CountdownTickMsg struct{}

// ReconcileTickMsg drives the periodic status re-poll while the view is
// active.
type ReconcileTickMsg struct{}

type field int

const (
	fieldInterval field = iota
	fieldFolder
	fieldSubject
	fieldCount
)

// Model is the scheduler screen: status line, countdown, and the
// combined settings form.
type Model struct {
	controller *scheduler.Controller
	keys       *keys.KeyMap

	editing bool
	focus   field
	inputs  [fieldCount]textinput.Model

	active bool
	notice string
	width  int
	height int
}

// New creates the scheduler view around the shared controller.
func New(controller *scheduler.Controller, k *keys.KeyMap, width, height int) Model {
	var inputs [fieldCount]textinput.Model

	interval := textinput.New()
	interval.Placeholder = "60"
	interval.Prompt = ""
	interval.CharLimit = 4
	inputs[fieldInterval] = interval

	folder := textinput.New()
	folder.Placeholder = "Inbox"
	folder.Prompt = ""
	inputs[fieldFolder] = folder

	subject := textinput.New()
	subject.Placeholder = "resume OR cv (optional)"
	subject.Prompt = ""
	inputs[fieldSubject] = subject

	return Model{
		controller: controller,
		keys:       k,
		inputs:     inputs,
		active:     true,
		width:      width,
		height:     height,
	}
}

// Init polls status and starts the ticks.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.controller.Load(), countdownTick(), m.reconcileTick())
}

// Activate restarts the ticks when the view regains focus.
func (m *Model) Activate() tea.Cmd {
	m.active = true
	return tea.Batch(m.controller.Load(), countdownTick(), m.reconcileTick())
}

// Deactivate stops the ticks when the user leaves the view.
func (m *Model) Deactivate() {
	m.active = false
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return CountdownTickMsg{}
	})
}

func (m Model) reconcileTick() tea.Cmd {
	return tea.Tick(m.controller.ReconcileEvery(), func(time.Time) tea.Msg {
		return ReconcileTickMsg{}
	})
}

// Update handles messages for the scheduler view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduler.StatusMsg:
		if msg.Err != nil {
			m.notice = "Could not reach the scheduler."
		} else {
			m.notice = ""
		}
		m.controller.HandleStatus(msg)
		if !m.editing {
			m.fillForm()
		}
		return m, nil

	case scheduler.SavedMsg:
		if msg.Err != nil {
			m.notice = "Saving scheduler settings failed."
		} else {
			m.notice = ""
		}
		m.controller.HandleSaved(msg)
		m.fillForm()
		return m, nil

	case scheduler.RunTriggeredMsg:
		m.controller.HandleRunTriggered(msg)
		if msg.Err != nil {
			m.notice = "Run-now request failed."
		}
		return m, nil

	case scheduler.RunWindowElapsedMsg:
		return m, m.controller.HandleRunWindowElapsed()

	case CountdownTickMsg:
		if !m.active {
			return m, nil
		}
		m.controller.TickCountdown()
		return m, countdownTick()

	case ReconcileTickMsg:
		if !m.active {
			return m, nil
		}
		return m, tea.Batch(m.controller.Load(), m.reconcileTick())

	case tea.KeyMsg:
		if m.editing {
			return m.handleFormKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "e":
		m.editing = true
		m.focus = fieldInterval
		m.fillForm()
		return m, m.inputs[fieldInterval].Focus()

	case msg.String() == " ", msg.String() == "enter":
		return m, m.controller.Toggle(m.formConfig())

	case key.Matches(msg, m.keys.RunNow):
		if m.controller.State() == scheduler.StateEnabledRunning {
			return m, nil
		}
		return m, m.controller.RunNow()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.controller.Load()
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.blurAll()
		cfg := m.formConfig()
		if cfg.IntervalMinutes < 1 || cfg.IntervalMinutes > 1440 {
			m.notice = "Interval must be between 1 and 1440 minutes."
			return m, nil
		}
		m.notice = ""
		return m, m.controller.Save(cfg)

	case "esc":
		m.editing = false
		m.blurAll()
		m.fillForm()
		return m, nil

	case "tab", "down":
		return m.cycleFocus(1)

	case "shift+tab", "up":
		return m.cycleFocus(-1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) cycleFocus(delta int) (Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
	return m, m.inputs[m.focus].Focus()
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// fillForm resets the inputs to the last confirmed configuration.
func (m *Model) fillForm() {
	cfg := m.controller.Config()
	m.inputs[fieldInterval].SetValue(fmt.Sprintf("%d", cfg.IntervalMinutes))
	m.inputs[fieldFolder].SetValue(cfg.Folder)
	m.inputs[fieldSubject].SetValue(cfg.SubjectFilter)
}

// formConfig builds the combined update payload from the form. The
// enabled flag rides along from the confirmed state so a save never
// flips it by accident.
func (m Model) formConfig() model.SchedulerConfig {
	cfg := m.controller.Config()
	var interval int
	fmt.Sscanf(strings.TrimSpace(m.inputs[fieldInterval].Value()), "%d", &interval)
	cfg.IntervalMinutes = interval
	cfg.Folder = strings.TrimSpace(m.inputs[fieldFolder].Value())
	cfg.SubjectFilter = strings.TrimSpace(m.inputs[fieldSubject].Value())
	return cfg
}

// View renders the scheduler view.
func (m Model) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(16)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	state := m.controller.State()
	cfg := m.controller.Config()

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Auto-Scrape Scheduler"),
		"",
		labelStyle.Render("State")+theme.SchedulerStateStyle(state.String()).Render(strings.ToUpper(state.String())),
	)

	if state != scheduler.StateDisabled {
		lines = append(lines,
			labelStyle.Render("Next run")+valStyle.Render(countdownLabel(m.controller.Countdown())))
	}
	if cfg.LastRun != "" {
		last := cfg.LastRun
		if cfg.LastRunSummary != "" {
			last += "  ·  " + cfg.LastRunSummary
		}
		lines = append(lines, labelStyle.Render("Last run")+valStyle.Render(last))
	}

	lines = append(lines, "", m.renderForm(labelStyle))

	if m.notice != "" {
		lines = append(lines, "", theme.ErrorStyle.Render(m.notice))
	}

	help := "space toggle · e edit · R run now · r refresh"
	if m.editing {
		help = "tab next field · enter save · esc cancel"
	}
	lines = append(lines, "", theme.HelpStyle.Render(help))

	return theme.DetailPanelStyle.
		Width(min(m.width-4, 80)).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderForm(labelStyle lipgloss.Style) string {
	rows := []string{
		labelStyle.Render("Interval (min)") + m.inputs[fieldInterval].View(),
		labelStyle.Render("Folder") + m.inputs[fieldFolder].View(),
		labelStyle.Render("Subject filter") + m.inputs[fieldSubject].View(),
	}
	return strings.Join(rows, "\n")
}

func countdownLabel(seconds int) string {
	if seconds <= 0 {
		return "due"
	}
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// Editing reports whether the settings form has keyboard focus.
func (m Model) Editing() bool {
	return m.editing
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
