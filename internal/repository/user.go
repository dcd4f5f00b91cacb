package repository

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository is the credential store. Password hashing happens here,
// at the storage boundary: plaintext never crosses into a row, and default
// reads never carry the hash back out.
type UserRepository interface {
	// Create persists a new user. The Password field of the input is
	// plaintext and gets bcrypt-hashed before insert; it must be empty
	// for OAuth-only accounts.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByEmailWithPassword is the explicit opt-in read used for login
	// comparison; it is the only getter that returns the hash.
	GetByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	// Update applies the given column set. Email values must already be
	// normalized by the caller.
	Update(ctx context.Context, id uint, fields map[string]any) error
	UpdateLastLogin(ctx context.Context, id uint) error
	// VerifyPassword compares a candidate against the stored hash. It
	// fails closed (false) for accounts without a password hash.
	VerifyPassword(user *model.User, candidate string) bool
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// NormalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive end to end.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = NormalizeEmail(user.Email)

	// Exactly one authentication method is mandatory: a password unless an
	// OAuth identity is present.
	if user.Password == "" && user.GoogleID == "" {
		return apperrors.ErrNoCredentials
	}
	if user.Password != "" && len(user.Password) < 6 {
		return apperrors.ErrPasswordTooShort
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
		user.Password = string(hashed)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailExists
		}
		return err
	}

	// Callers get the model back without the hash
	user.Password = ""
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		return nil, result.Error
	}

	user.Password = ""
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (r *userRepository) GetByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).
		Where("lower(email) = ?", NormalizeEmail(email)).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).
		Where("google_id = ? AND google_id <> ''", googleID).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	user.Password = ""
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailExists
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", r.db.NowFunc()).Error
}

func (r *userRepository) VerifyPassword(user *model.User, candidate string) bool {
	if user == nil || !user.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}
