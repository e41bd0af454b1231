package reviews

import (
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReviewRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("/franchisee/:franchiseeId", controller.ListFranchiseeReviews) // GET /api/v1/reviews/franchisee/:franchiseeId

		authed := reviews.Group("")
		authed.Use(middleware.JWTAuthWithConfig(cfg))
		{
			authed.POST("", controller.CreateReview) // POST /api/v1/reviews
		}
	}
}
