package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/repository"
	"github.com/jobtrackr/backend/internal/service"
	"github.com/jobtrackr/backend/pkg/logger"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	tokens *service.TokenService
	users  repository.UserRepository
}

func NewJWTMiddleware(tokens *service.TokenService, users repository.UserRepository) *JWTMiddleware {
	return &JWTMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth validates the bearer token and re-resolves the user against
// the database, so a token issued before an account was deleted stops
// working immediately. The role set in context comes from the database
// row, not the token claim.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		claims, err := m.tokens.Verify(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.GetLogger().Warn("Token user not found in database",
				zap.String("path", c.Request.URL.Path),
				zap.Uint("user_id", claims.UserID),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(string(constants.CtxKeyUserID), user.ID)
		c.Set(string(constants.CtxKeyUserEmail), user.Email)
		c.Set(string(constants.CtxKeyUserRole), user.Role)

		c.Next()
	}
}

// RequireAdmin gates a route to admin users. Must run after RequireAuth.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(constants.CtxKeyUserRole))
		if role != constants.RoleAdmin {
			logger.GetLogger().Warn("Admin route access denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("role", role),
				zap.Uint("user_id", c.GetUint(string(constants.CtxKeyUserID))))
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(string(constants.CtxKeyUserID))
}
