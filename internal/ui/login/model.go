package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/credential"
	"github.com/hnguyen/recruitmail/internal/session"
	"github.com/hnguyen/recruitmail/internal/theme"
)

// formBindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	remember bool
}

// Model is the login screen. Rejected credentials and an unreachable
// backend share the single error line under the form.
type Model struct {
	gate *session.Gate
	log  *logrus.Entry

	form    *huh.Form
	fb      *formBindings
	busy    bool
	errText string

	width  int
	height int
}

// New creates the login view, pre-filling remembered credentials when
// the keyring has them.
func New(gate *session.Gate, log *logrus.Entry, width, height int) Model {
	fb := &formBindings{}
	if email, password, err := credential.LoadLogin(); err == nil {
		fb.email = email
		fb.password = password
		fb.remember = true
	}

	m := Model{
		gate:   gate,
		log:    log,
		fb:     fb,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case session.LoginResultMsg:
		m.busy = false
		if msg.ErrText != "" {
			m.errText = msg.ErrText
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.errText = ""
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	if m.fb.remember {
		if err := credential.SaveLogin(email, password); err != nil {
			m.log.WithError(err).Warn("saving credentials failed")
		}
	} else {
		if err := credential.ForgetLogin(); err != nil {
			m.log.WithError(err).Debug("clearing remembered credentials failed")
		}
	}

	m.busy = true
	m.errText = ""
	return m, m.gate.Login(email, password)
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mailbox Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Remember login").
				Value(&m.fb.remember),
		),
	).WithWidth(m.formWidth())
}

// View renders the login screen centered in the window.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginBottom(1)

	content := titleStyle.Render("recruitmail") + "\n" + m.form.View()

	if m.busy {
		content += "\n" + theme.HelpStyle.Render("Signing in...")
	}
	if m.errText != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errText)
	}

	panel := theme.BorderStyle.Padding(1, 3).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	if w > 70 {
		w = 70
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
