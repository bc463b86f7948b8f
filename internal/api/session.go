package api

import (
	"context"
	"fmt"

	"github.com/hnguyen/recruitmail/internal/model"
)

// loginRequest is the password login body.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthStatus performs the silent session check used at startup.
func (c *Client) AuthStatus(ctx context.Context) (*model.Session, error) {
	var s model.Session
	if err := c.Get(ctx, "/auth/status", &s); err != nil {
		return nil, err
	}
	if s.Authenticated && s.Method == "" {
		s.Method = model.AuthMethodPassword
	}
	return &s, nil
}

// DelegatedStatus checks for a delegated-token session, the secondary
// path attempted when the password session check comes back anonymous.
func (c *Client) DelegatedStatus(ctx context.Context) (*model.Session, error) {
	var s model.Session
	if err := c.Get(ctx, "/auth/delegated/status", &s); err != nil {
		return nil, err
	}
	if s.Authenticated {
		s.Method = model.AuthMethodDelegated
	}
	return &s, nil
}

// Login authenticates with mailbox credentials. On success the backend
// session cookie is retained by the client.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	req := loginRequest{Email: email, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	if err := c.Post(ctx, "/auth/login", req, nil); err != nil {
		return nil, err
	}

	c.log.WithField("email", email).Info("logged in")
	return &model.Session{
		Authenticated: true,
		Method:        model.AuthMethodPassword,
		User:          &model.User{Name: localPart(email), Email: email},
	}, nil
}

// Logout invalidates the server-side session for the given method.
func (c *Client) Logout(ctx context.Context, method model.AuthMethod) error {
	path := "/auth/logout"
	if method == model.AuthMethodDelegated {
		path = "/auth/delegated/logout"
	}
	if err := c.Post(ctx, path, nil, nil); err != nil {
		return err
	}
	c.log.Info("logged out")
	return nil
}

// localPart returns the part of an address before the @.
func localPart(email string) string {
	for i, r := range email {
		if r == '@' {
			return email[:i]
		}
	}
	return email
}
