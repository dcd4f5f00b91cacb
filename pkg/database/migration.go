package database

import (
	"github.com/jobtrackr/backend/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Application{},
	); err != nil {
		return err
	}

	return applyIndexes(db)
}

// applyIndexes creates the indexes AutoMigrate cannot express.
// Email uniqueness must be case-insensitive, so a functional index on
// lower(email) backs the store-level constraint the application relies on.
func applyIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email)) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
