package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"go.uber.org/zap"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	sessionSvc := NewSessionService(sessions, staticGeo{}, time.Hour, zap.NewNop())
	tokens := NewTokenService("test-secret", time.Hour)
	auth := NewAuthService(users, tokens, sessionSvc, zap.NewNop())
	return auth, users, sessions
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	auth, users, _ := newAuthFixture()

	resp, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name:     "Jane",
		Email:    "Jane@Example.com",
		Password: "hunter22",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Token == "" {
		t.Error("expected a token in the register response")
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}

	row := users.stored(resp.User.ID)
	if row == nil {
		t.Fatal("user row missing")
	}
	if row.Password == "hunter22" {
		t.Error("plaintext password stored")
	}
	if !strings.HasPrefix(row.Password, "$2") {
		t.Errorf("stored password is not a bcrypt hash: %q", row.Password)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _ := newAuthFixture()

	req := dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "hunter22"}
	if _, err := auth.Register(context.Background(), req, ClientMeta{}); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Same address with different casing must collide
	req.Email = "JANE@example.com"
	if _, err := auth.Register(context.Background(), req, ClientMeta{}); !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("second Register = %v, want ErrEmailExists", err)
	}
}

func TestLoginGenericFailure(t *testing.T) {
	auth, _, _ := newAuthFixture()

	if _, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable
	cases := []dto.LoginRequest{
		{Email: "nobody@example.com", Password: "hunter22"},
		{Email: "jane@example.com", Password: "wrong-password"},
	}
	for _, req := range cases {
		if _, err := auth.Login(context.Background(), req, ClientMeta{}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Login(%s) = %v, want ErrInvalidCredentials", req.Email, err)
		}
	}
}

func TestLoginSuccessRecordsSession(t *testing.T) {
	auth, _, sessions := newAuthFixture()

	if _, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := auth.Login(context.Background(), dto.LoginRequest{
		Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{IP: "203.0.113.7", UserAgent: "Mozilla/5.0 (iPhone) Mobile"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.ExpiresIn != int(time.Hour.Seconds()) {
		t.Errorf("ExpiresIn = %d, want %d", resp.ExpiresIn, int(time.Hour.Seconds()))
	}
	auth.sessions.Wait()
	// register + login both record
	if got := sessions.count(); got != 2 {
		t.Errorf("session count = %d, want 2", got)
	}
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	auth, users, _ := newAuthFixture()

	if _, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := auth.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		GoogleID: "g-123",
		Name:     "Jane G",
		Email:    "jane@example.com",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}

	// Linked, not duplicated
	row := users.stored(resp.User.ID)
	if row.GoogleID != "g-123" {
		t.Errorf("GoogleID = %q, want g-123", row.GoogleID)
	}
	if len(users.users) != 1 {
		t.Errorf("user count = %d, want 1", len(users.users))
	}

	// Password login still works after linking
	if _, err := auth.Login(context.Background(), dto.LoginRequest{
		Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{}); err != nil {
		t.Errorf("Login after linking: %v", err)
	}
}

func TestGoogleLoginCreatesPasswordlessAccount(t *testing.T) {
	auth, users, _ := newAuthFixture()

	resp, err := auth.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		GoogleID: "g-456",
		Name:     "New User",
		Email:    "new@example.com",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}

	row := users.stored(resp.User.ID)
	if row.Password != "" {
		t.Errorf("OAuth account has a password hash: %q", row.Password)
	}

	// A second Google login resolves to the same account
	again, err := auth.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		GoogleID: "g-456",
		Name:     "New User",
		Email:    "new@example.com",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("second LoginWithGoogle: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Errorf("second login resolved to user %d, want %d", again.User.ID, resp.User.ID)
	}
}

func TestUpdateProfileEmailCollision(t *testing.T) {
	auth, _, _ := newAuthFixture()

	first, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "hunter22",
	}, ClientMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := auth.Register(context.Background(), dto.RegisterRequest{
		Name: "John", Email: "john@example.com", Password: "hunter22",
	}, ClientMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err = auth.UpdateProfile(context.Background(), first.User.ID, dto.UpdateProfileRequest{
		Email: "john@example.com",
	})
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("UpdateProfile = %v, want ErrEmailExists", err)
	}

	// Changing other fields still works
	updated, err := auth.UpdateProfile(context.Background(), first.User.ID, dto.UpdateProfileRequest{
		Employer: "Acme",
		Phone:    "+1-555-0100",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Employer != "Acme" || updated.Phone != "+1-555-0100" {
		t.Errorf("profile not updated: %+v", updated)
	}
}

func TestMeUnknownUser(t *testing.T) {
	auth, _, _ := newAuthFixture()

	if _, err := auth.Me(context.Background(), 999); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Me(999) = %v, want ErrUserNotFound", err)
	}
}
