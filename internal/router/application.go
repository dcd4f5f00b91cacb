package router

import "github.com/gin-gonic/gin"

func (r *Router) applicationRoutes(api *gin.RouterGroup) {
	apps := api.Group("/applications")
	apps.Use(r.jwtMw.RequireAuth())
	{
		apps.POST("", r.applicationHandler.Create)
		apps.GET("", r.applicationHandler.List)
		apps.GET("/stats", r.applicationHandler.Stats)
		apps.GET("/report", r.applicationHandler.Report)
		apps.GET("/:id", r.applicationHandler.Get)
		apps.PUT("/:id", r.applicationHandler.Update)
		apps.DELETE("/:id", r.applicationHandler.Delete)
		apps.POST("/:id/letter", r.applicationHandler.Letter)
	}
}
