package repository

import (
	"context"
	"time"

	"github.com/jobtrackr/backend/internal/model"
	"gorm.io/gorm"
)

// SessionRecord is one session row joined with its owning user.
// UserFound is false when the user no longer resolves (dangling reference);
// the service layer filters those out of admin listings.
type SessionRecord struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	LoginAt   time.Time `json:"login_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Device    string    `json:"device"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	UserFound bool      `json:"user_found"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// ListWithUsers returns all sessions left-joined with users, newest
	// login first. Dangling sessions come back with UserFound=false.
	ListWithUsers(ctx context.Context) ([]SessionRecord, error)
	// Delete removes one session and is idempotent: deleting an id that
	// does not exist is not an error.
	Delete(ctx context.Context, id uint) error
	// DeleteExpired hard-deletes every session whose expiry has passed
	// and reports how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) ListWithUsers(ctx context.Context) ([]SessionRecord, error) {
	var records []SessionRecord

	err := r.db.WithContext(ctx).
		Table("sessions").
		Select(`sessions.id, sessions.user_id, sessions.login_at, sessions.expires_at,
			sessions.ip, sessions.user_agent, sessions.device, sessions.country, sessions.city,
			COALESCE(users.name, '') AS user_name,
			COALESCE(users.email, '') AS user_email,
			(users.id IS NOT NULL) AS user_found`).
		Joins("LEFT JOIN users ON users.id = sessions.user_id AND users.deleted_at IS NULL").
		Where("sessions.deleted_at IS NULL").
		Order("sessions.login_at DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	// Unscoped: sessions are tracking rows, a soft-delete graveyard would
	// defeat the TTL cleanup. RowsAffected 0 is deliberately not an error.
	return r.db.WithContext(ctx).
		Unscoped().
		Delete(&model.Session{}, id).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", now).
		Delete(&model.Session{})

	return result.RowsAffected, result.Error
}
