package territory

import (
	"errors"
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

// ResolveArea answers "who serves this area code" for booking screens
func (c *Controller) ResolveArea(ctx *gin.Context) {
	areaCode := ctx.Param("areaCode")

	assignment, err := c.service.ResolveFranchisee(ctx.Request.Context(), areaCode)
	if err != nil {
		var invalidCode *InvalidPostalCodeError
		statusCode := http.StatusInternalServerError
		message := "Failed to resolve territory"
		switch {
		case errors.As(err, &invalidCode):
			statusCode = http.StatusBadRequest
			message = "Invalid area code"
		case errors.Is(err, ErrNoFranchisee):
			statusCode = http.StatusNotFound
			message = "No franchisee serves this area"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Territory resolved successfully", assignment, nil)
}

// ResolvePostalCode derives the area code from a raw postal code before
// resolving, for clients that only hold the customer's postal code
func (c *Controller) ResolvePostalCode(ctx *gin.Context) {
	postalCode := ctx.Query("postal_code")
	if postalCode == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Postal code is required", nil, "missing postal_code query parameter")
		return
	}

	assignment, err := c.service.ResolveByPostalCode(ctx.Request.Context(), postalCode)
	if err != nil {
		var invalidCode *InvalidPostalCodeError
		statusCode := http.StatusInternalServerError
		message := "Failed to resolve territory"
		switch {
		case errors.As(err, &invalidCode):
			statusCode = http.StatusBadRequest
			message = "Invalid postal code"
		case errors.Is(err, ErrNoFranchisee):
			statusCode = http.StatusNotFound
			message = "No franchisee serves this area"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Territory resolved successfully", assignment, nil)
}

// AssignTerritory handles admin (re)assignment of an area code
func (c *Controller) AssignTerritory(ctx *gin.Context) {
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if req.AreaCode == "" && req.PostalCode == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Either area_code or postal_code is required", nil, "missing routing key")
		return
	}

	assignedBy := currentUserID(ctx)
	assignment, err := c.service.Assign(ctx.Request.Context(), req, assignedBy)
	if err != nil {
		var invalidCode *InvalidPostalCodeError
		var storage *StorageUnavailableError
		statusCode := http.StatusInternalServerError
		message := "Failed to assign territory"
		switch {
		case errors.As(err, &invalidCode):
			statusCode = http.StatusBadRequest
			message = "Invalid postal code"
		case errors.Is(err, ErrInvalidStatus):
			statusCode = http.StatusBadRequest
			message = "Invalid protection status"
		case errors.As(err, &storage):
			statusCode = http.StatusServiceUnavailable
			message = "Territory storage unavailable"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Territory assigned successfully", assignment, nil)
}

// ListTerritories returns every assignment for the admin dashboard
func (c *Controller) ListTerritories(ctx *gin.Context) {
	assignments, err := c.service.ListAssignments(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list territories", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Territories retrieved successfully", assignments, nil)
}

// ListMyTerritories returns the calling franchisee's own areas
func (c *Controller) ListMyTerritories(ctx *gin.Context) {
	franchiseeID := currentUserID(ctx)
	if franchiseeID == nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return
	}

	assignments, err := c.service.ListByFranchisee(ctx.Request.Context(), *franchiseeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list territories", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Territories retrieved successfully", assignments, nil)
}

func currentUserID(ctx *gin.Context) *uuid.UUID {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return nil
	}
	return &id
}
