package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/internal/constants"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/service"
)

type AdminHandler struct {
	sessions *service.SessionService
}

func NewAdminHandler(sessions *service.SessionService) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

// ListSessions handles GET /api/admin/monitoring
func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: sessions})
}

// DeleteSession handles DELETE /api/admin/monitoring/:id
func (h *AdminHandler) DeleteSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, "id must be a positive integer"))
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}
