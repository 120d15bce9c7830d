// Package auth carries the signed-in user through request contexts.
//
// There is no real identity provider: a StubProvider hands out one fixed
// user taken from configuration.
package auth

import (
	"context"
	"errors"
	"strings"
)

var ErrNoSession = errors.New("no session")

// User is the profile shown in the dashboard header.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// Session is the authenticated state of one request.
type Session struct {
	User User
}

// Provider resolves the session for an incoming request.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

// StubProvider always returns the same user.
type StubProvider struct {
	user User
}

// DefaultUser is the profile used when none is configured.
var DefaultUser = User{
	ID:    "1123424534",
	Name:  "Yuri Battaglin",
	Email: "yuribattaglin@email.com",
	Photo: "https://github.com/yuribattaglin.png",
}

// NewStubProvider returns a provider for u. Empty fields fall back to
// DefaultUser.
func NewStubProvider(u User) *StubProvider {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = DefaultUser.ID
	}
	if u.Name == "" {
		u.Name = DefaultUser.Name
	}
	if u.Email == "" {
		u.Email = DefaultUser.Email
	}
	if u.Photo == "" {
		u.Photo = DefaultUser.Photo
	}
	return &StubProvider{user: u}
}

func (p *StubProvider) Session(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	return Session{User: p.user}, nil
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// UserID returns the current user id or ErrNoSession.
func UserID(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok || s.User.ID == "" {
		return "", ErrNoSession
	}
	return s.User.ID, nil
}
