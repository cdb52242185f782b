package identity

import (
	"context"
	"errors"
)

// ErrNoSession indicates the presented credential resolved to no session.
var ErrNoSession = errors.New("no active session")

// Session identifies an authenticated member.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// ChangeFunc receives the session after every sign-in or sign-out. A nil
// session means signed out.
type ChangeFunc func(*Session)

// Provider verifies and manages member sessions. Implementations wrap an
// external identity service; tests use the Static provider.
type Provider interface {
	// Session resolves a bearer credential into the session it represents.
	Session(ctx context.Context, credential string) (*Session, error)

	// SignUp registers a new account and returns its session.
	SignUp(ctx context.Context, email, password, name string) (*Session, error)

	// SignIn authenticates an existing account with email and password.
	// Wrong credentials return ErrNoSession.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignOut revokes every credential issued to the user.
	SignOut(ctx context.Context, userID string) error

	// OnChange registers a callback fired after sign-up, sign-in and
	// sign-out.
	OnChange(fn ChangeFunc)
}
