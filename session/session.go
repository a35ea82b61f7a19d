// Package session keeps the signed-in user's bearer token in an encrypted
// cookie and gates login and registration against the backend.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Name is the cookie the session is stored in.
const Name = "gallerydesk_session"

// Fixed value keys. The expiry is never stored; it is read back from the
// token on every Load.
const (
	KeyToken   = "token"
	KeyIsAdmin = "isAdmin"
	KeyEmail   = "email"
)

// ErrExpired is returned by Load when the stored token has expired. The
// cookie has already been cleared.
var ErrExpired = errors.New("session: token expired")

// Session is the signed-in user as the frontend knows it.
type Session struct {
	Token     string
	IsAdmin   bool
	Email     string
	ExpiresAt time.Time
}

// LoggedIn reports whether the session carries a token.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// Expired reports whether the token's expiry is known and has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store is the explicit load/save lifecycle of a Session bound to a request.
type Store interface {
	Load(c echo.Context) (Session, error)
	Save(c echo.Context, s Session) error
	Clear(c echo.Context) error
}

// NewCookieStore creates the gorilla cookie store backing the session
// middleware. secret signs and encrypts the cookie.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return store
}

// CookieSessions implements Store on top of the echo-contrib session
// middleware, which must be installed on the router.
type CookieSessions struct {
	now func() time.Time
}

// NewCookieSessions creates a Store reading the Name cookie.
func NewCookieSessions() *CookieSessions {
	return &CookieSessions{now: time.Now}
}

func (s *CookieSessions) Load(c echo.Context) (Session, error) {
	sess, err := session.Get(Name, c)
	if err != nil {
		return Session{}, err
	}
	token, _ := sess.Values[KeyToken].(string)
	if token == "" {
		return Session{}, nil
	}
	isAdmin, _ := sess.Values[KeyIsAdmin].(bool)
	email, _ := sess.Values[KeyEmail].(string)
	out := Session{
		Token:     token,
		IsAdmin:   isAdmin,
		Email:     email,
		ExpiresAt: TokenExpiry(token),
	}
	if out.Expired(s.now()) {
		if err := s.Clear(c); err != nil {
			return Session{}, err
		}
		return Session{}, ErrExpired
	}
	return out, nil
}

func (s *CookieSessions) Save(c echo.Context, in Session) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return err
	}
	sess.Values[KeyToken] = in.Token
	sess.Values[KeyIsAdmin] = in.IsAdmin
	sess.Values[KeyEmail] = in.Email
	return sess.Save(c.Request(), c.Response())
}

func (s *CookieSessions) Clear(c echo.Context) error {
	sess, err := session.Get(Name, c)
	if err != nil {
		return err
	}
	delete(sess.Values, KeyToken)
	delete(sess.Values, KeyIsAdmin)
	delete(sess.Values, KeyEmail)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
