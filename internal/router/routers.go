package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobtrackr/backend/config"
	"github.com/jobtrackr/backend/internal/handler"
	"github.com/jobtrackr/backend/internal/middleware"
)

type Router struct {
	authHandler        *handler.AuthHandler
	adminHandler       *handler.AdminHandler
	applicationHandler *handler.ApplicationHandler
	healthHandler      *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	admin *handler.AdminHandler,
	application *handler.ApplicationHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:        auth,
		adminHandler:       admin,
		applicationHandler: application,
		healthHandler:      health,
		jwtMw:              jwtMw,
		config:             cfg,
	}
}

func (r *Router) SetupRoutes(googleEnabled bool) *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(r.config.App.FrontendOrigin))

	router.GET("/health", r.healthHandler.Health)

	api := router.Group("/api")
	{
		api.Use(middleware.RateLimit(
			r.config.RateLimit.Request,
			time.Duration(r.config.RateLimit.Duration)*time.Second,
		))

		r.authRoutes(api, googleEnabled)
		r.adminRoutes(api)
		r.applicationRoutes(api)
	}

	return router
}
