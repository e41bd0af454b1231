package quotes

import (
	"github.com/gin-gonic/gin"
)

// SetupQuoteRoutes registers the quote endpoints. Quotes are open to
// anonymous visitors so the rate limiter applied upstream is the only
// guard on these routes.
func SetupQuoteRoutes(rg *gin.RouterGroup, controller *Controller) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", controller.GenerateSimpleQuote)    // POST /api/v1/quotes
		quotes.POST("/enhanced", controller.GenerateQuote) // POST /api/v1/quotes/enhanced
	}
}
