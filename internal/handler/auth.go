package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/middleware"
	"github.com/jobtrackr/backend/internal/service"
	"github.com/jobtrackr/backend/pkg/logger"
	"github.com/jobtrackr/backend/pkg/validation"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	auth           *service.AuthService
	google         *service.GoogleProvider
	frontendOrigin string
}

func NewAuthHandler(auth *service.AuthService, google *service.GoogleProvider, frontendOrigin string) *AuthHandler {
	return &AuthHandler{
		auth:           auth,
		google:         google,
		frontendOrigin: frontendOrigin,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.auth.Register(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.auth.Login(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// GoogleLogin handles POST /api/auth/google for clients that complete the
// Google flow themselves and post the resulting identity.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.auth.LoginWithGoogle(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// GoogleRedirect handles GET /api/auth/google. It sets the state cookie
// and sends the browser to Google's consent screen.
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback. On success the
// browser lands back on the frontend with the token in the query string.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		logger.GetLogger().Warn("OAuth state mismatch", zap.String("client_ip", c.ClientIP()))
		h.redirectWithError(c, "invalid_state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.redirectWithError(c, "missing_code")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.redirectWithError(c, "exchange_failed")
		return
	}

	response, err := h.auth.LoginWithGoogle(c.Request.Context(), dto.GoogleLoginRequest{
		GoogleID: profile.ID,
		Name:     profile.Name,
		Email:    profile.Email,
	}, clientMeta(c))
	if err != nil {
		logger.GetLogger().Error("Google login failed after exchange", zap.Error(err))
		h.redirectWithError(c, "login_failed")
		return
	}

	c.Redirect(http.StatusFound, h.frontendOrigin+"/?token="+url.QueryEscape(response.Token))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response, err := h.auth.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.auth.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.frontendOrigin+"/login?error="+url.QueryEscape(code))
}

func clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
