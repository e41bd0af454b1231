package bookings

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// CUSTOMER BOOKING FLOW

	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateBooking) // POST /api/v1/bookings
		bookings.GET("", controller.ListMyBookings) // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking) // GET /api/v1/bookings/:id
	}

	// FRANCHISEE JOB FLOW

	jobs := rg.Group("/franchisee/bookings")
	jobs.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles("FRANCHISEE", "ADMIN"))
	{
		jobs.GET("", controller.ListFranchiseeBookings)        // GET /api/v1/franchisee/bookings?open=true
		jobs.POST("/:id/accept", controller.AcceptBooking)     // POST /api/v1/franchisee/bookings/:id/accept
		jobs.POST("/:id/decline", controller.DeclineBooking)   // POST /api/v1/franchisee/bookings/:id/decline
		jobs.POST("/:id/start", controller.StartBooking)       // POST /api/v1/franchisee/bookings/:id/start
		jobs.POST("/:id/complete", controller.CompleteBooking) // POST /api/v1/franchisee/bookings/:id/complete
	}

	// ADMIN POOL VISIBILITY

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.GET("/bookings/pending", controller.ListPendingPool) // GET /api/v1/admin/bookings/pending
	}
}
