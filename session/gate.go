package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/gallerydesk/api"
)

var (
	ErrInvalidCredentials = errors.New("session: invalid email or password")
	ErrRegistrationFailed = errors.New("session: registration failed")
)

// Authenticator is the part of the API the gate talks to.
type Authenticator interface {
	Login(ctx context.Context, c api.Credentials) (api.LoginResponse, error)
	Register(ctx context.Context, c api.Credentials) error
}

// Gate runs the login and register flows. Credentials are validated before
// anything is sent.
type Gate struct {
	auth Authenticator
}

// NewGate creates a gate over auth.
func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// Login validates c, exchanges it for a token and returns the new session.
// Every backend failure is reported as ErrInvalidCredentials, wrapping the
// cause.
func (g *Gate) Login(ctx context.Context, c api.Credentials) (Session, error) {
	if err := ValidateCredentials(c); err != nil {
		return Session{}, err
	}
	resp, err := g.auth.Login(ctx, c)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if resp.AccessToken == "" {
		return Session{}, fmt.Errorf("%w: empty access token", ErrInvalidCredentials)
	}
	return Session{
		Token:     resp.AccessToken,
		IsAdmin:   resp.IsAdmin,
		Email:     c.Email,
		ExpiresAt: TokenExpiry(resp.AccessToken),
	}, nil
}

// Register validates c and creates the account.
func (g *Gate) Register(ctx context.Context, c api.Credentials) error {
	if err := ValidateCredentials(c); err != nil {
		return err
	}
	if err := g.auth.Register(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	return nil
}
