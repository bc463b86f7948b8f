package session

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/hnguyen/recruitmail/internal/model"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestGateStartsChecking(t *testing.T) {
	g := NewGate(nil, testLog())
	assert.Equal(t, StateChecking, g.State())
}

func TestHandleCheckedTransitions(t *testing.T) {
	g := NewGate(nil, testLog())

	st := g.HandleChecked(CheckedMsg{Session: &model.Session{
		Authenticated: true,
		Method:        model.AuthMethodDelegated,
		User:          &model.User{Email: "recruiter@example.com"},
	}})
	assert.Equal(t, StateReady, st)
	assert.Equal(t, model.AuthMethodDelegated, g.Session().Method)

	st = g.HandleChecked(CheckedMsg{Session: &model.Session{}})
	assert.Equal(t, StateLoggedOut, st)
	assert.Empty(t, g.Session().Method)
}

func TestHandleCheckedErrorFallsToLoggedOut(t *testing.T) {
	g := NewGate(nil, testLog())
	st := g.HandleChecked(CheckedMsg{Err: errors.New("connection refused")})
	assert.Equal(t, StateLoggedOut, st)
}

func TestHandleLoginResult(t *testing.T) {
	g := NewGate(nil, testLog())

	st := g.HandleLoginResult(LoginResultMsg{ErrText: "Login failed: rejected"})
	assert.Equal(t, StateLoggedOut, st)

	st = g.HandleLoginResult(LoginResultMsg{Session: &model.Session{
		Authenticated: true,
		Method:        model.AuthMethodPassword,
	}})
	assert.Equal(t, StateReady, st)
}

func TestHandleLoggedOutDropsSessionEvenOnError(t *testing.T) {
	g := NewGate(nil, testLog())
	g.HandleLoginResult(LoginResultMsg{Session: &model.Session{
		Authenticated: true,
		Method:        model.AuthMethodPassword,
	}})

	st := g.HandleLoggedOut(LoggedOutMsg{Err: errors.New("network down")})
	assert.Equal(t, StateLoggedOut, st)
	assert.False(t, g.Session().Authenticated)
}

func TestHandleAuthError(t *testing.T) {
	g := NewGate(nil, testLog())
	g.HandleLoginResult(LoginResultMsg{Session: &model.Session{
		Authenticated: true,
		Method:        model.AuthMethodPassword,
	}})

	assert.Equal(t, StateLoggedOut, g.HandleAuthError())
	assert.False(t, g.Session().Authenticated)
}
