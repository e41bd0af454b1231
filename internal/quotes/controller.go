package quotes

import (
	"errors"
	"net/http"

	"cleangrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GenerateQuote handles the full multi-factor quote: rooms, features,
// condition, frequency, add-ons, promo and tax.
func (c *Controller) GenerateQuote(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	breakdown, err := c.service.GenerateQuote(ctx.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		message := "Failed to generate quote"
		switch {
		case IsInvalidInput(err):
			statusCode = http.StatusBadRequest
			message = "Invalid quote input"
		case errors.Is(err, ErrNoMatchingCatalogEntry):
			statusCode = http.StatusNotFound
			message = "No catalog entry matches the requested service"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote generated successfully", breakdown, nil)
}

// GenerateSimpleQuote handles the legacy single-service quote
func (c *Controller) GenerateSimpleQuote(ctx *gin.Context) {
	var req SimpleQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	quote, err := c.service.GenerateSimpleQuote(ctx.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		message := "Failed to generate quote"
		switch {
		case IsInvalidInput(err):
			statusCode = http.StatusBadRequest
			message = "Invalid quote input"
		case errors.Is(err, ErrNoMatchingCatalogEntry):
			statusCode = http.StatusNotFound
			message = "Service not found"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote generated successfully", quote, nil)
}
