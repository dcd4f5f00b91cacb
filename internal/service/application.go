package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/model"
	"github.com/jobtrackr/backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationService owns the job-application CRUD and the dashboard
// aggregations. Every read and write is scoped to the calling user; an
// application owned by someone else is reported as not found, never as
// forbidden, so ids cannot be probed.
type ApplicationService struct {
	apps   repository.ApplicationRepository
	logger *zap.Logger
}

func NewApplicationService(apps repository.ApplicationRepository, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		apps:   apps,
		logger: logger,
	}
}

// Create persists a new application with an initial timeline entry.
func (s *ApplicationService) Create(ctx context.Context, userID uint, req dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	status := req.Status
	if status == "" {
		status = constants.StatusPending
	}
	jobType := req.JobType
	if jobType == "" {
		jobType = constants.JobTypeFullTime
	}

	app := &model.Application{
		UserID:   userID,
		Company:  req.Company,
		Position: req.Position,
		Status:   status,
		JobType:  jobType,
		Location: req.Location,
		Notes:    req.Notes,
		Timeline: newTimeline(status),
	}

	if err := s.apps.Create(ctx, app); err != nil {
		s.logger.Error("Failed to create application",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Application created",
		zap.Uint("application_id", app.ID),
		zap.Uint("user_id", userID),
		zap.String("company", app.Company),
	)

	resp := toApplicationResponse(app)
	return &resp, nil
}

// Get returns one application owned by the caller.
func (s *ApplicationService) Get(ctx context.Context, userID, id uint) (*dto.ApplicationResponse, error) {
	app, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	resp := toApplicationResponse(app)
	return &resp, nil
}

// List returns the caller's applications with the total count for
// pagination.
func (s *ApplicationService) List(ctx context.Context, userID uint, filter dto.ApplicationFilter, limit, offset int, search string) ([]dto.ApplicationResponse, int64, error) {
	apps, total, err := s.apps.ListByUser(ctx, userID, filter, limit, offset, search)
	if err != nil {
		s.logger.Error("Failed to list applications",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, toApplicationResponse(&apps[i]))
	}

	return responses, total, nil
}

// Update applies the provided fields. A status change appends a timeline
// entry; unchanged statuses do not.
func (s *ApplicationService) Update(ctx context.Context, userID, id uint, req dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Company != "" {
		app.Company = req.Company
	}
	if req.Position != "" {
		app.Position = req.Position
	}
	if req.JobType != "" {
		app.JobType = req.JobType
	}
	if req.Location != "" {
		app.Location = req.Location
	}
	if req.Notes != "" {
		app.Notes = req.Notes
	}
	if req.Status != "" && req.Status != app.Status {
		app.Status = req.Status
		app.Timeline = appendTimeline(app.Timeline, req.Status)
	}

	if err := s.apps.Update(ctx, app); err != nil {
		s.logger.Error("Failed to update application",
			zap.Uint("application_id", id),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Application updated",
		zap.Uint("application_id", app.ID),
		zap.Uint("user_id", userID),
		zap.String("status", app.Status),
	)

	resp := toApplicationResponse(app)
	return &resp, nil
}

// Delete removes one application owned by the caller.
func (s *ApplicationService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.apps.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		s.logger.Error("Failed to delete application",
			zap.Uint("application_id", id),
			zap.Error(err),
		)
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Application deleted",
		zap.Uint("application_id", id),
		zap.Uint("user_id", userID),
	)
	return nil
}

// statsMonths is the trailing window of the monthly chart.
const statsMonths = 6

// Stats aggregates the caller's applications per status and per month.
// Every known status appears in the map even when its count is zero, so
// clients never special-case missing keys.
func (s *ApplicationService) Stats(ctx context.Context, userID uint) (*dto.StatsResponse, error) {
	byStatus, err := s.apps.CountByStatus(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count applications by status",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	defaults := map[string]int64{
		constants.StatusPending:   0,
		constants.StatusInterview: 0,
		constants.StatusDeclined:  0,
		constants.StatusOffer:     0,
	}
	for _, row := range byStatus {
		defaults[row.Status] = row.Count
	}

	monthly, err := s.apps.MonthlyCounts(ctx, userID, statsMonths)
	if err != nil {
		s.logger.Error("Failed to count applications by month",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	months := make([]dto.MonthlyApplication, 0, len(monthly))
	for _, row := range monthly {
		months = append(months, dto.MonthlyApplication{
			Date:  row.Month.Format("Jan 2006"),
			Count: row.Count,
		})
	}

	return &dto.StatsResponse{
		Defaults:            defaults,
		MonthlyApplications: months,
	}, nil
}

// getOwned resolves an application and enforces ownership. Both a missing
// row and a row owned by another user come back as ErrApplicationNotFound.
func (s *ApplicationService) getOwned(ctx context.Context, userID, id uint) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if app.UserID != userID {
		s.logger.Warn("Application access denied",
			zap.Uint("application_id", id),
			zap.Uint("owner_id", app.UserID),
			zap.Uint("caller_id", userID),
		)
		return nil, apperrors.ErrApplicationNotFound
	}

	return app, nil
}

func newTimeline(status string) datatypes.JSON {
	return appendTimeline(nil, status)
}

func appendTimeline(timeline datatypes.JSON, status string) datatypes.JSON {
	var entries []model.TimelineEntry
	if len(timeline) > 0 {
		// A corrupt timeline is dropped rather than blocking the update
		_ = json.Unmarshal(timeline, &entries)
	}

	entries = append(entries, model.TimelineEntry{
		Status:    status,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})

	raw, err := json.Marshal(entries)
	if err != nil {
		return timeline
	}
	return raw
}

func toApplicationResponse(app *model.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:        app.ID,
		Company:   app.Company,
		Position:  app.Position,
		Status:    app.Status,
		JobType:   app.JobType,
		Location:  app.Location,
		Notes:     app.Notes,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}

	if len(app.Timeline) > 0 {
		var entries []model.TimelineEntry
		if err := json.Unmarshal(app.Timeline, &entries); err == nil {
			resp.Timeline = entries
		}
	}

	return resp
}
