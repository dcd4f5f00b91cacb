package service

import (
	"context"
	"sync"
	"time"

	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"github.com/jobtrackr/backend/internal/model"
	"github.com/jobtrackr/backend/internal/repository"
	"github.com/jobtrackr/backend/pkg/geoip"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository mirroring the storage
// boundary semantics: bcrypt at Create, hashes stripped from default
// reads, duplicate emails rejected.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.Email = repository.NormalizeEmail(user.Email)

	if user.Password == "" && user.GoogleID == "" {
		return apperrors.ErrNoCredentials
	}
	if user.Password != "" && len(user.Password) < 6 {
		return apperrors.ErrPasswordTooShort
	}

	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailExists
		}
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.Password = string(hashed)
	}

	f.nextID++
	user.ID = f.nextID
	if user.Role == "" {
		user.Role = "user"
	}

	stored := *user
	f.users[user.ID] = &stored

	user.Password = ""
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := f.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (f *fakeUserRepo) GetByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = repository.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			cp := *u
			cp.Password = ""
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id uint, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		str, _ := value.(string)
		switch key {
		case "name":
			u.Name = str
		case "email":
			u.Email = str
		case "google_id":
			u.GoogleID = str
		case "address":
			u.Address = str
		case "phone":
			u.Phone = str
		case "employer":
			u.Employer = str
		case "resume_url":
			u.ResumeURL = str
		case "image_url":
			u.ImageURL = str
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = time.Now()
	return nil
}

func (f *fakeUserRepo) VerifyPassword(user *model.User, candidate string) bool {
	if user == nil || !user.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// stored returns the raw stored row, hash included.
func (f *fakeUserRepo) stored(id uint) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu        sync.Mutex
	nextID    uint
	sessions  map[uint]*model.Session
	records   []repository.SessionRecord
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	f.nextID++
	session.ID = f.nextID
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) ListWithUsers(_ context.Context) ([]repository.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for id, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// staticGeo returns a fixed location for every lookup.
type staticGeo struct {
	location geoip.Location
}

func (g staticGeo) Lookup(context.Context, string) geoip.Location {
	return g.location
}

// fakeAppRepo is an in-memory ApplicationRepository.
type fakeAppRepo struct {
	mu     sync.Mutex
	nextID uint
	apps   map[uint]*model.Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[uint]*model.Application)}
}

func (f *fakeAppRepo) Create(_ context.Context, app *model.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	app.ID = f.nextID
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeAppRepo) GetByID(_ context.Context, id uint) (*model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	app, ok := f.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeAppRepo) ListByUser(_ context.Context, userID uint, filter dto.ApplicationFilter, limit, offset int, search string) ([]model.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []model.Application
	for _, app := range f.apps {
		if app.UserID != userID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.JobType != "" && app.JobType != filter.JobType {
			continue
		}
		matched = append(matched, *app)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeAppRepo) Update(_ context.Context, app *model.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.apps[app.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	app.UpdatedAt = time.Now()
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeAppRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.apps[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeAppRepo) CountByStatus(_ context.Context, userID uint) ([]repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byStatus := make(map[string]int64)
	for _, app := range f.apps {
		if app.UserID == userID {
			byStatus[app.Status]++
		}
	}

	counts := make([]repository.StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		counts = append(counts, repository.StatusCount{Status: status, Count: count})
	}
	return counts, nil
}

func (f *fakeAppRepo) MonthlyCounts(_ context.Context, userID uint, months int) ([]repository.MonthCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byMonth := make(map[time.Time]int64)
	cutoff := time.Now().AddDate(0, -(months - 1), 0)
	for _, app := range f.apps {
		if app.UserID != userID || app.CreatedAt.Before(cutoff) {
			continue
		}
		month := time.Date(app.CreatedAt.Year(), app.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month]++
	}

	counts := make([]repository.MonthCount, 0, len(byMonth))
	for month, count := range byMonth {
		counts = append(counts, repository.MonthCount{Month: month, Count: count})
	}
	return counts, nil
}
