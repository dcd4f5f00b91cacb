package service

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/jobtrackr/backend/internal/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(Claims{UserID: 42, Email: "jane@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Email = %q, want jane@example.com", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	svc.lifetime = -time.Minute

	token, err := svc.Issue(Claims{UserID: 1, Email: "a@b.com", Role: "user"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", time.Hour)
	verifier := NewTokenService("secret-two", time.Hour)

	token, err := issuer.Issue(Claims{UserID: 1, Email: "a@b.com", Role: "user"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Verify(wrong secret) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(tok); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestTokenDefaultLifetime(t *testing.T) {
	svc := NewTokenService("test-secret", 0)

	want := int((7 * 24 * time.Hour).Seconds())
	if got := svc.ExpiresIn(); got != want {
		t.Errorf("ExpiresIn = %d, want %d", got, want)
	}
}
