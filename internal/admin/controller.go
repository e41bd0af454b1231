package admin

import (
	"net/http"

	"cleangrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetStats(ctx *gin.Context) {
	stats, err := c.service.GetPlatformStats(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get platform stats", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Platform stats retrieved successfully", stats, nil)
}

// GetMyEarnings serves the calling franchisee's own summary
func (c *Controller) GetMyEarnings(ctx *gin.Context) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return
	}
	franchiseeID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, err.Error())
		return
	}

	earnings, err := c.service.GetFranchiseeEarnings(ctx.Request.Context(), franchiseeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get earnings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Earnings retrieved successfully", earnings, nil)
}

// GetFranchiseeEarnings lets admins inspect any franchisee
func (c *Controller) GetFranchiseeEarnings(ctx *gin.Context) {
	franchiseeID, err := uuid.Parse(ctx.Param("franchiseeId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid franchisee ID", nil, err.Error())
		return
	}

	earnings, err := c.service.GetFranchiseeEarnings(ctx.Request.Context(), franchiseeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get earnings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Earnings retrieved successfully", earnings, nil)
}
