package territory

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTerritoryRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// PUBLIC RESOLUTION

	territories := rg.Group("/territories")
	{
		territories.GET("/resolve", controller.ResolvePostalCode) // GET /api/v1/territories/resolve?postal_code=xxx
		territories.GET("/:areaCode", controller.ResolveArea)     // GET /api/v1/territories/:areaCode
	}

	// FRANCHISEE SELF-SERVICE

	franchisee := rg.Group("/franchisee")
	franchisee.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles("FRANCHISEE", "ADMIN"))
	{
		franchisee.GET("/territories", controller.ListMyTerritories) // GET /api/v1/franchisee/territories
	}

	// ADMIN TERRITORY MANAGEMENT

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/assign-fsa", controller.AssignTerritory) // POST /api/v1/admin/assign-fsa
		admin.GET("/territories", controller.ListTerritories) // GET /api/v1/admin/territories
	}
}
