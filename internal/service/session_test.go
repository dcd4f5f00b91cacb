package service

import (
	"context"
	"testing"
	"time"

	"github.com/jobtrackr/backend/internal/repository"
	"github.com/jobtrackr/backend/pkg/geoip"
	"go.uber.org/zap"
)

func TestClassifyDevice(t *testing.T) {
	cases := []struct {
		userAgent string
		want      string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", "mobile"},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", "mobile"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Mobile Safari", "mobile"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", "desktop"},
		{"curl/8.4.0", "desktop"},
		{"", "desktop"},
	}

	for _, tc := range cases {
		if got := ClassifyDevice(tc.userAgent); got != tc.want {
			t.Errorf("ClassifyDevice(%q) = %q, want %q", tc.userAgent, got, tc.want)
		}
	}
}

func TestRecordAsyncWritesSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, staticGeo{location: geoip.Location{Country: "Germany", City: "Berlin"}}, time.Hour, zap.NewNop())

	svc.RecordAsync(7, "203.0.113.7", "Mozilla/5.0 (iPhone) Mobile")
	svc.Wait()

	if repo.count() != 1 {
		t.Fatalf("session count = %d, want 1", repo.count())
	}

	session := repo.sessions[1]
	if session.UserID != 7 {
		t.Errorf("UserID = %d, want 7", session.UserID)
	}
	if session.Device != "mobile" {
		t.Errorf("Device = %q, want mobile", session.Device)
	}
	if session.Country != "Germany" || session.City != "Berlin" {
		t.Errorf("location = %q/%q, want Germany/Berlin", session.Country, session.City)
	}

	// TTL fixed at creation
	want := session.LoginAt.Add(time.Hour)
	if !session.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, want)
	}
}

func TestRecordAsyncSwallowsWriteFailure(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.createErr = context.DeadlineExceeded
	svc := NewSessionService(repo, staticGeo{}, time.Hour, zap.NewNop())

	// Must not panic or block; the failure is logged and dropped
	svc.RecordAsync(1, "203.0.113.7", "curl/8.4.0")
	svc.Wait()

	if repo.count() != 0 {
		t.Errorf("session count = %d, want 0", repo.count())
	}
}

func TestListAllFiltersDanglingSessions(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.records = []repository.SessionRecord{
		{ID: 1, UserID: 1, UserName: "Jane", UserEmail: "jane@example.com", UserFound: true},
		{ID: 2, UserID: 99, UserFound: false},
		{ID: 3, UserID: 2, UserName: "John", UserEmail: "john@example.com", UserFound: true},
	}
	svc := NewSessionService(repo, staticGeo{}, time.Hour, zap.NewNop())

	sessions, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	for _, s := range sessions {
		if s.UserName == "" {
			t.Errorf("session %d has no user name", s.ID)
		}
	}
}

func TestDeleteSessionIdempotent(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, staticGeo{}, time.Hour, zap.NewNop())

	svc.RecordAsync(1, "203.0.113.7", "curl/8.4.0")
	svc.Wait()

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Second delete of the same id is still a success
	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Errorf("repeat Delete: %v", err)
	}
}
