package admin

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminGroup.GET("/stats", controller.GetStats)                                           // GET /api/v1/admin/stats
		adminGroup.GET("/franchisees/:franchiseeId/earnings", controller.GetFranchiseeEarnings) // GET /api/v1/admin/franchisees/:franchiseeId/earnings
	}

	franchisee := rg.Group("/franchisee")
	franchisee.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles("FRANCHISEE", "ADMIN"))
	{
		franchisee.GET("/earnings", controller.GetMyEarnings) // GET /api/v1/franchisee/earnings
	}
}
