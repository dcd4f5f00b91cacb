package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a registered account. Exactly one authentication method is
// mandatory: Password holds a bcrypt hash and may be empty only when
// GoogleID is set (OAuth-only account). Email is stored lowercased and
// uniqueness is enforced by the database index, not application locking.
type User struct {
	gorm.Model
	Name     string `gorm:"column:name;not null"`
	Email    string `gorm:"column:email;unique;not null"`
	Password string `gorm:"column:password"`
	GoogleID string `gorm:"column:google_id;index:idx_users_google_id,where:google_id <> ''"`
	Role     string `gorm:"column:role;default:user;not null"`

	// Optional profile fields
	Address   string         `gorm:"column:address"`
	Phone     string         `gorm:"column:phone"`
	Employer  string         `gorm:"column:employer"`
	ResumeURL string         `gorm:"column:resume_url"`
	ImageURL  string         `gorm:"column:image_url"`
	Links     datatypes.JSON `gorm:"column:links"`

	LastLogin time.Time `gorm:"column:last_login"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// HasPassword reports whether the account can authenticate with a password.
// OAuth-only accounts have no hash and password login must fail closed.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
