package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup, googleEnabled bool) {
	auth := api.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/google", r.authHandler.GoogleLogin)

		// Browser OAuth flow, only mounted when credentials are configured
		if googleEnabled {
			auth.GET("/google", r.authHandler.GoogleRedirect)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
		}

		// Protected routes (JWT authentication required)
		protected := auth.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.GET("/me", r.authHandler.Me)
			protected.PUT("/profile", r.authHandler.UpdateProfile)
		}
	}
}
