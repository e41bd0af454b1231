package cancellation

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.GET("/:id/cancellation-preview", controller.PreviewCancellation) // GET /api/v1/bookings/:id/cancellation-preview
		bookings.POST("/:id/cancel", controller.CancelBooking)                    // POST /api/v1/bookings/:id/cancel
	}
}
