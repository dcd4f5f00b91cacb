package service

import (
	"context"
	"errors"

	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/model"
	"github.com/jobtrackr/backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientMeta carries the request attributes a session record needs.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// AuthService orchestrates registration, login, OAuth account linking and
// profile updates against the credential store and token service. Session
// recording is fire-and-forget: it never delays or fails an auth response.
type AuthService struct {
	users    repository.UserRepository
	tokens   *TokenService
	sessions *SessionService
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, sessions *SessionService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a password-based account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest, meta ClientMeta) (*dto.AuthResponse, error) {
	email := repository.NormalizeEmail(req.Email)

	// Pre-check for a friendlier error; the unique index on lower(email)
	// still backs this against concurrent registrations.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Warn("Registration with taken email", zap.String("email", email))
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    email,
		Password: req.Password,
		Role:     "user",
	}

	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return s.finishLogin(user, meta)
}

// Login authenticates an email/password pair. Unknown email and wrong
// password both yield the same generic failure so the response does not
// reveal which emails are registered.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, meta ClientMeta) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Login failed", zap.String("email", repository.NormalizeEmail(req.Email)))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.users.VerifyPassword(user, req.Password) {
		s.logger.Warn("Login failed", zap.String("email", user.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	user.Password = ""

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Best-effort timestamp; a failed update must not block login
		s.logger.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("email", user.Email))

	return s.finishLogin(user, meta)
}

// LoginWithGoogle resolves an external Google identity to a local account:
// an account already carrying the google id wins; otherwise an account
// sharing the email gets the id linked; otherwise a new passwordless
// account is created.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest, meta ClientMeta) (*dto.AuthResponse, error) {
	user, err := s.users.GetByGoogleID(ctx, req.GoogleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		user, err = s.linkOrCreateGoogleAccount(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in with Google",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return s.finishLogin(user, meta)
}

func (s *AuthService) linkOrCreateGoogleAccount(ctx context.Context, req dto.GoogleLoginRequest) (*model.User, error) {
	email := repository.NormalizeEmail(req.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		// Same email, no google id yet: link the external identity to the
		// existing account instead of creating a duplicate.
		if err := s.users.Update(ctx, existing.ID, map[string]any{"google_id": req.GoogleID}); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		existing.GoogleID = req.GoogleID

		s.logger.Info("Linked Google identity to existing account",
			zap.Uint("user_id", existing.ID),
			zap.String("email", existing.Email),
		)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    email,
		GoogleID: req.GoogleID,
		Role:     "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsDomainError(err) {
			return nil, err
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Created account from Google identity",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return user, nil
}

// Me returns the caller's profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies the provided fields. An email change re-checks
// uniqueness against other accounts before persisting.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	fields := make(map[string]any)
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" {
		email := repository.NormalizeEmail(req.Email)
		if email != user.Email {
			other, err := s.users.GetByEmail(ctx, email)
			if err == nil && other.ID != userID {
				return nil, apperrors.ErrEmailExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			fields["email"] = email
		}
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Employer != "" {
		fields["employer"] = req.Employer
	}
	if req.ResumeURL != "" {
		fields["resume_url"] = req.ResumeURL
	}
	if req.ImageURL != "" {
		fields["image_url"] = req.ImageURL
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, userID, fields); err != nil {
			if apperrors.IsDomainError(err) {
				return nil, err
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Profile updated", zap.Uint("user_id", userID))

	resp := toUserResponse(updated)
	return &resp, nil
}

// finishLogin issues the token, dispatches the fire-and-forget session
// write and shapes the response. Session recording failure can only be
// logged — by design it cannot reach this code path.
func (s *AuthService) finishLogin(user *model.User, meta ClientMeta) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	s.sessions.RecordAsync(user.ID, meta.IP, meta.UserAgent)

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: s.tokens.ExpiresIn(),
		User:      toUserResponse(user),
	}, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Address:   user.Address,
		Phone:     user.Phone,
		Employer:  user.Employer,
		ResumeURL: user.ResumeURL,
		ImageURL:  user.ImageURL,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
