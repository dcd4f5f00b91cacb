package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/model"
	"github.com/jobtrackr/backend/internal/repository"
	"github.com/jobtrackr/backend/pkg/geoip"
	"go.uber.org/zap"
)

// GeoResolver resolves an IP to a coarse location hint.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) geoip.Location
}

// SessionService records login events for observability and lets admins
// inspect and revoke the records. It is deliberately decoupled from auth
// correctness: recording happens on a detached goroutine and a failed
// write is logged and dropped, never surfaced to the login path.
type SessionService struct {
	sessions repository.SessionRepository
	geo      GeoResolver
	logger   *zap.Logger
	ttl      time.Duration

	wg sync.WaitGroup
}

func NewSessionService(sessions repository.SessionRepository, geo GeoResolver, ttl time.Duration, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionService{
		sessions: sessions,
		geo:      geo,
		logger:   logger,
		ttl:      ttl,
	}
}

// RecordAsync dispatches a session write without making the caller wait.
// The goroutine runs on its own context so a request that has already
// completed cannot cancel the write mid-flight.
func (s *SessionService) RecordAsync(userID uint, ip, userAgent string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.record(ctx, userID, ip, userAgent); err != nil {
			s.logger.Error("Failed to record session",
				zap.Uint("user_id", userID),
				zap.String("ip", ip),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all in-flight session writes finish. Called during
// graceful shutdown so pending records are not lost with the process.
func (s *SessionService) Wait() {
	s.wg.Wait()
}

func (s *SessionService) record(ctx context.Context, userID uint, ip, userAgent string) error {
	now := time.Now()

	var location geoip.Location
	if s.geo != nil {
		location = s.geo.Lookup(ctx, ip)
	}

	session := &model.Session{
		UserID:    userID,
		LoginAt:   now,
		ExpiresAt: now.Add(s.ttl), // fixed at creation, never extended
		IP:        ip,
		UserAgent: userAgent,
		Device:    ClassifyDevice(userAgent),
		Country:   location.Country,
		City:      location.City,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return err
	}

	s.logger.Debug("Session recorded",
		zap.Uint("user_id", userID),
		zap.Uint("session_id", session.ID),
		zap.String("device", session.Device),
		zap.Time("expires_at", session.ExpiresAt),
	)

	return nil
}

// ListAll returns every live session joined with its owning user. Sessions
// whose user no longer resolves are filtered out, not errored on.
func (s *SessionService) ListAll(ctx context.Context) ([]dto.SessionResponse, error) {
	records, err := s.sessions.ListWithUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list sessions", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.SessionResponse, 0, len(records))
	for _, rec := range records {
		if !rec.UserFound {
			continue
		}
		responses = append(responses, dto.SessionResponse{
			ID:        rec.ID,
			UserID:    rec.UserID,
			UserName:  rec.UserName,
			UserEmail: rec.UserEmail,
			LoginAt:   rec.LoginAt,
			ExpiresAt: rec.ExpiresAt,
			IP:        rec.IP,
			UserAgent: rec.UserAgent,
			Device:    rec.Device,
			Country:   rec.Country,
			City:      rec.City,
		})
	}

	return responses, nil
}

// Delete removes one session record. Idempotent: deleting an id that is
// already gone succeeds.
func (s *SessionService) Delete(ctx context.Context, id uint) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete session",
			zap.Uint("session_id", id),
			zap.Error(err),
		)
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Session deleted", zap.Uint("session_id", id))
	return nil
}

// ClassifyDevice buckets a user-agent into mobile or desktop with a plain
// substring test. Best-effort observability metadata only — user agents
// are trivially spoofable and this is not a security boundary.
func ClassifyDevice(userAgent string) string {
	for _, marker := range []string{"Mobile", "Android", "iPhone"} {
		if strings.Contains(userAgent, marker) {
			return "mobile"
		}
	}
	return "desktop"
}
