package router

import "github.com/gin-gonic/gin"

func (r *Router) adminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(r.jwtMw.RequireAuth(), r.jwtMw.RequireAdmin())
	{
		admin.GET("/monitoring", r.adminHandler.ListSessions)
		admin.DELETE("/monitoring/:id", r.adminHandler.DeleteSession)
	}
}
