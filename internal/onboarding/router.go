package onboarding

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupOnboardingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// PUBLIC APPLICATION INTAKE

	franchisee := rg.Group("/franchisee")
	{
		franchisee.POST("/apply", controller.Apply)               // POST /api/v1/franchisee/apply
		franchisee.GET("/applications/:id", controller.GetStatus) // GET /api/v1/franchisee/applications/:id
	}

	// ADMIN REVIEW

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("/applications", controller.List)                    // GET /api/v1/admin/applications
		admin.PATCH("/applications/:id/approve", controller.Approve)   // PATCH /api/v1/admin/applications/:id/approve
		admin.PATCH("/applications/:id/reject", controller.Reject)     // PATCH /api/v1/admin/applications/:id/reject
		admin.PATCH("/applications/:id/activate", controller.Activate) // PATCH /api/v1/admin/applications/:id/activate
	}
}
