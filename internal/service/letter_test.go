package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jobtrackr/backend/internal/dto"
	"go.uber.org/zap"
)

func newLetterFixture(t *testing.T) (*LetterService, uint, uint) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	sessionSvc := NewSessionService(sessions, staticGeo{}, time.Hour, zap.NewNop())
	tokens := NewTokenService("test-secret", time.Hour)
	auth := NewAuthService(users, tokens, sessionSvc, zap.NewNop())
	apps := NewApplicationService(newFakeAppRepo(), zap.NewNop())

	registered, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Jane Doe", Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	created, err := apps.Create(context.Background(), registered.User.ID, dto.CreateApplicationRequest{
		Company: "Acme", Position: "Engineer", Location: "Berlin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	letters, err := NewLetterService(apps, auth, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLetterService: %v", err)
	}

	return letters, registered.User.ID, created.ID
}

func TestGenerateLetterTones(t *testing.T) {
	letters, userID, appID := newLetterFixture(t)

	for _, tone := range []string{"formal", "friendly", "enthusiastic"} {
		resp, err := letters.Generate(context.Background(), userID, appID, dto.LetterRequest{Tone: tone})
		if err != nil {
			t.Fatalf("Generate(%s): %v", tone, err)
		}
		for _, want := range []string{"Acme", "Engineer", "Jane Doe", "Berlin"} {
			if !strings.Contains(resp.Letter, want) {
				t.Errorf("%s letter missing %q", tone, want)
			}
		}
	}
}

func TestGenerateLetterUnknownToneFallsBack(t *testing.T) {
	letters, userID, appID := newLetterFixture(t)

	resp, err := letters.Generate(context.Background(), userID, appID, dto.LetterRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(resp.Letter, "Sincerely,") {
		t.Error("empty tone did not fall back to the formal template")
	}
}

func TestGenerateLetterWrongOwner(t *testing.T) {
	letters, _, appID := newLetterFixture(t)

	if _, err := letters.Generate(context.Background(), 999, appID, dto.LetterRequest{Tone: "formal"}); err == nil {
		t.Error("expected error generating a letter for someone else's application")
	}
}
