package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("rider@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	email, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "rider@x.com" {
		t.Errorf("expected email rider@x.com, got %q", email)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	if _, err := manager.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("rider@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("rider@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
