package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/model"
)

// State is the gate's position in the auth lifecycle.
type State int

const (
	// StateChecking means the silent startup probe is still in flight.
	StateChecking State = iota
	// StateLoggedOut means no server session exists; the login view owns
	// the screen.
	StateLoggedOut
	// StateReady means an authenticated session exists and the main views
	// may load data.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateLoggedOut:
		return "logged out"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// checkTimeout bounds the silent startup probe so a dead backend cannot
// hold the UI on the loading screen.
const checkTimeout = 15 * time.Second

// CheckedMsg is a tea.Msg carrying the result of the startup probe.
type CheckedMsg struct {
	Session *model.Session
	Err     error
}

// LoginResultMsg is a tea.Msg carrying the outcome of a login attempt.
// ErrText is already human-readable; an empty ErrText means success.
type LoginResultMsg struct {
	Session *model.Session
	ErrText string
}

// LoggedOutMsg is a tea.Msg sent after a logout round trip. The local
// session is dropped even when Err is set.
type LoggedOutMsg struct {
	Err error
}

// Gate owns the client-side view of the server session. All views
// consult it before loading data; an AuthError anywhere in the app
// funnels back through HandleAuthError.
type Gate struct {
	client  *api.Client
	log     *logrus.Entry
	state   State
	session model.Session
}

// NewGate creates a gate in the Checking state.
func NewGate(client *api.Client, log *logrus.Entry) *Gate {
	return &Gate{
		client: client,
		log:    log,
		state:  StateChecking,
	}
}

// State returns the current gate state.
func (g *Gate) State() State {
	return g.state
}

// Session returns the current session. Zero value while not Ready.
func (g *Gate) Session() model.Session {
	return g.session
}

// Check returns a tea.Cmd that probes for an existing server session.
// The password session is tried first; an anonymous answer falls
// through to the delegated-token probe.
func (g *Gate) Check() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		s, err := g.client.AuthStatus(ctx)
		if err == nil && s.Authenticated {
			return CheckedMsg{Session: s}
		}

		ds, derr := g.client.DelegatedStatus(ctx)
		if derr == nil && ds.Authenticated {
			return CheckedMsg{Session: ds}
		}

		// Neither probe authenticated. Report the first error so a dead
		// backend is distinguishable from a clean logged-out state.
		if err != nil && !api.IsAuthError(err) {
			return CheckedMsg{Err: err}
		}
		return CheckedMsg{Session: &model.Session{}}
	}
}

// HandleChecked applies the startup probe result and returns the new state.
func (g *Gate) HandleChecked(msg CheckedMsg) State {
	if msg.Err != nil {
		g.log.WithError(msg.Err).Warn("session check failed")
		g.state = StateLoggedOut
		g.session = model.Session{}
		return g.state
	}

	if msg.Session != nil && msg.Session.Authenticated {
		g.session = *msg.Session
		g.state = StateReady
	} else {
		g.session = model.Session{}
		g.state = StateLoggedOut
	}
	return g.state
}

// Login returns a tea.Cmd that authenticates with mailbox credentials.
// Failures come back as display-ready text; rejected credentials and an
// unreachable backend share the single error slot on the login form.
func (g *Gate) Login(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		s, err := g.client.Login(ctx, email, password)
		if err != nil {
			return LoginResultMsg{ErrText: loginErrText(err)}
		}
		return LoginResultMsg{Session: s}
	}
}

// HandleLoginResult applies a login outcome and returns the new state.
func (g *Gate) HandleLoginResult(msg LoginResultMsg) State {
	if msg.ErrText != "" {
		g.state = StateLoggedOut
		return g.state
	}
	g.session = *msg.Session
	g.state = StateReady
	g.log.WithField("method", string(g.session.Method)).Info("session ready")
	return g.state
}

// Logout returns a tea.Cmd that invalidates the server session for the
// active auth method.
func (g *Gate) Logout() tea.Cmd {
	method := g.session.Method
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return LoggedOutMsg{Err: g.client.Logout(ctx, method)}
	}
}

// HandleLoggedOut drops the local session. Dependent state (listing,
// folders, selection) is reset by the app when it sees the message.
func (g *Gate) HandleLoggedOut(msg LoggedOutMsg) State {
	if msg.Err != nil {
		g.log.WithError(msg.Err).Warn("logout request failed; dropping local session anyway")
	}
	g.session = model.Session{}
	g.state = StateLoggedOut
	return g.state
}

// HandleAuthError reacts to a 401 seen by any later request: the
// server-side session is gone, so the gate falls back to LoggedOut.
func (g *Gate) HandleAuthError() State {
	g.session = model.Session{}
	g.state = StateLoggedOut
	return g.state
}

// loginErrText folds login failures into one human-readable string.
func loginErrText(err error) string {
	if api.IsAuthError(err) {
		return "Login failed: the mailbox rejected these credentials."
	}
	return "Login failed: " + err.Error()
}
