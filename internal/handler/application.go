package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/middleware"
	"github.com/jobtrackr/backend/internal/service"
	"github.com/jobtrackr/backend/pkg/validation"
)

type ApplicationHandler struct {
	apps    *service.ApplicationService
	letters *service.LetterService
	reports *service.ReportService
}

func NewApplicationHandler(apps *service.ApplicationService, letters *service.LetterService, reports *service.ReportService) *ApplicationHandler {
	return &ApplicationHandler{
		apps:    apps,
		letters: letters,
		reports: reports,
	}
}

// Create handles POST /api/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.apps.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusCreated, response)
}

// List handles GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter dto.ApplicationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	params := constants.ParsePaginationParams(c)

	apps, total, err := h.apps.List(c.Request.Context(), middleware.UserID(c), filter, params.Limit, params.Offset, params.Search)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	pageTotal := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse(total, params.Page, pageTotal, apps))
}

// Get handles GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	response, err := h.apps.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.apps.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.apps.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgDeleted))
}

// Stats handles GET /api/applications/stats
func (h *ApplicationHandler) Stats(c *gin.Context) {
	response, err := h.apps.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Letter handles POST /api/applications/:id/letter
func (h *ApplicationHandler) Letter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.LetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, validation.MessagesFor(err)))
		return
	}

	response, err := h.letters.Generate(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Report handles GET /api/applications/report
func (h *ApplicationHandler) Report(c *gin.Context) {
	pdf, err := h.reports.Generate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	filename := fmt.Sprintf("applications-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Header(constants.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, constants.ContentTypePDF, pdf)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, "id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
