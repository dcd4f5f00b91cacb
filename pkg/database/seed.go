package database

import (
	"strings"

	"github.com/jobtrackr/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	Name     string
	Email    string
	Password string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		Name:     "Admin",
		Email:    "admin@jobtrackr.local",
		Password: "Admin@123", // Change this in production!
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedAdmin(db)
}

// SeedAdmin creates the default admin user if not exists
func SeedAdmin(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existing model.User
	result := db.Where("email = ?", strings.ToLower(admin.Email)).First(&existing)

	if result.Error == nil {
		// Admin already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		Name:     admin.Name,
		Email:    strings.ToLower(admin.Email),
		Password: string(hashed),
		Role:     "admin",
	}

	return db.Create(&user).Error
}
