package model

// AuthMethod identifies how the current mailbox session was established.
type AuthMethod string

const (
	AuthMethodPassword  AuthMethod = "password"
	AuthMethodDelegated AuthMethod = "delegated"
)

// User holds the identity attached to an authenticated session.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	JobTitle string `json:"job_title,omitempty"`
}

// Session is the client's view of the backend authentication state.
// It is established by a login call or a silent status check at startup
// and destroyed by logout; the client never persists it across runs.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	Method        AuthMethod `json:"method,omitempty"`
	User          *User      `json:"user,omitempty"`
}
