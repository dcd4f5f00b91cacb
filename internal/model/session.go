package model

import (
	"time"

	"gorm.io/gorm"
)

// Session records one successful login for observability and administration.
// It references its user by id only; a session outliving its user is
// tolerated and filtered out on read. ExpiresAt is fixed at creation
// (login time + TTL) and never extended; a background cleanup job deletes
// rows once the expiry passes.
type Session struct {
	gorm.Model
	UserID    uint      `gorm:"column:user_id;index;not null"`
	LoginAt   time.Time `gorm:"column:login_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	IP        string    `gorm:"column:ip"`
	UserAgent string    `gorm:"column:user_agent"`
	Device    string    `gorm:"column:device"`
	Country   string    `gorm:"column:country"`
	City      string    `gorm:"column:city"`
}

// Expired reports whether the session's hard expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
