package catalog

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// PUBLIC CATALOG

	services := rg.Group("/services")
	{
		services.GET("", controller.ListEntries)  // GET /api/v1/services
		services.GET("/:id", controller.GetEntry) // GET /api/v1/services/:id
	}
	rg.GET("/addons", controller.ListAddOns) // GET /api/v1/addons

	// ADMIN CATALOG MANAGEMENT

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/services", controller.CreateEntry)    // POST /api/v1/admin/services
		admin.PUT("/services/:id", controller.UpdateEntry) // PUT /api/v1/admin/services/:id
		admin.POST("/addons", controller.CreateAddOn)      // POST /api/v1/admin/addons
		admin.PUT("/addons/:slug", controller.UpdateAddOn) // PUT /api/v1/admin/addons/:slug
	}
}
