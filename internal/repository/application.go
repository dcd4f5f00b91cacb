package repository

import (
	"context"
	"time"

	"github.com/jobtrackr/backend/internal/dto"
	"github.com/jobtrackr/backend/internal/model"
	"gorm.io/gorm"
)

// StatusCount is one row of the per-status aggregation.
type StatusCount struct {
	Status string
	Count  int64
}

// MonthCount is one row of the monthly aggregation, oldest first.
type MonthCount struct {
	Month time.Time
	Count int64
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id uint) (*model.Application, error)
	// ListByUser returns the owner's applications plus the total count
	// for pagination. Search matches company or position.
	ListByUser(ctx context.Context, userID uint, filter dto.ApplicationFilter, limit, offset int, search string) ([]model.Application, int64, error)
	Update(ctx context.Context, app *model.Application) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, userID uint) ([]StatusCount, error)
	// MonthlyCounts aggregates applications per calendar month over the
	// trailing window.
	MonthlyCounts(ctx context.Context, userID uint, months int) ([]MonthCount, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	result := r.db.WithContext(ctx).First(&app, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &app, nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID uint, filter dto.ApplicationFilter, limit, offset int, search string) ([]model.Application, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("company ILIKE ? OR position ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.Application
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Application{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, userID uint) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *applicationRepository) MonthlyCounts(ctx context.Context, userID uint, months int) ([]MonthCount, error) {
	var counts []MonthCount
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Select("date_trunc('month', created_at) AS month, count(*) AS count").
		Where("user_id = ?", userID).
		Where("created_at >= date_trunc('month', now()) - make_interval(months => ?)", months-1).
		Group("month").
		Order("month ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
