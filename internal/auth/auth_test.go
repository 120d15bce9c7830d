package auth

import (
	"context"
	"errors"
	"testing"
)

func TestStubProviderDefaults(t *testing.T) {
	p := NewStubProvider(User{})
	s, err := p.Session(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.User != DefaultUser {
		t.Fatalf("expected default user, got %+v", s.User)
	}

	p = NewStubProvider(User{ID: "42", Name: "Ana"})
	s, _ = p.Session(context.Background())
	if s.User.ID != "42" || s.User.Name != "Ana" || s.User.Email != DefaultUser.Email {
		t.Fatalf("unexpected user %+v", s.User)
	}
}

func TestStubProviderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStubProvider(User{}).Session(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, err := UserID(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	ctx := WithSession(context.Background(), Session{User: User{ID: "7"}})
	id, err := UserID(ctx)
	if err != nil || id != "7" {
		t.Fatalf("UserID = %q, %v", id, err)
	}
	if _, err := UserID(WithSession(context.Background(), Session{})); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty user id must not count as a session")
	}
}
