package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jobtrackr/backend/internal/errors"
)

const tokenIssuer = "jobtrackr"

// Claims is the identity a token carries.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

// TokenService issues and verifies stateless bearer tokens. The signing
// secret is process-wide and must match across every instance verifying
// tokens issued by any instance. There is no revocation list: a leaked
// token stays valid until its expiry window closes. That is an accepted
// risk of the stateless design, bounded by the configured lifetime.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	if lifetime <= 0 {
		lifetime = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// tokenClaims is the JWT payload. The user id travels in the standard
// "sub" claim; email and role ride alongside it.
type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates and signs a token for the given claims.
func (s *TokenService) Issue(claims Claims) (string, error) {
	now := time.Now()

	c := tokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
// Malformed, tampered and expired tokens all come back as ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, apperrors.ErrInvalidToken
	}

	return &Claims{
		UserID: uint(userID),
		Email:  c.Email,
		Role:   c.Role,
	}, nil
}

// ExpiresIn returns the token lifetime in whole seconds, for clients.
func (s *TokenService) ExpiresIn() int {
	return int(s.lifetime.Seconds())
}
