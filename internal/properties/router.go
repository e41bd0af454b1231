package properties

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPropertyRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	props := rg.Group("/properties")
	props.Use(middleware.JWTAuthWithConfig(cfg))
	{
		props.POST("", controller.CreateProperty)                    // POST /api/v1/properties
		props.GET("", controller.ListProperties)                     // GET /api/v1/properties
		props.GET("/:id", controller.GetProperty)                    // GET /api/v1/properties/:id
		props.PUT("/:id", controller.UpdateProperty)                 // PUT /api/v1/properties/:id
		props.POST("/:id/deactivate", controller.DeactivateProperty) // POST /api/v1/properties/:id/deactivate
		props.POST("/:id/reactivate", controller.ReactivateProperty) // POST /api/v1/properties/:id/reactivate
	}
}
