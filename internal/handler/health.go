package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/pkg/redis"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	cache   *redis.Client
	started time.Time
}

func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		started: time.Now(),
	}
}

// Health handles GET /health. The process is healthy when the database
// answers a ping; the cache is reported but never fails the check since
// the API degrades gracefully without it.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	if h.cache.IsEnabled() {
		cacheStatus = "up"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			cacheStatus = "down"
		}
	}

	c.JSON(status, gin.H{
		"name":     constants.AppName,
		"version":  constants.AppVersion,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
