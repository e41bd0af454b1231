package properties

import (
	"errors"
	"net/http"

	"cleangrid/internal/shared/utils/response"
	"cleangrid/internal/territory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateProperty(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req CreatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	property, err := c.service.Create(ctx.Request.Context(), customerID, req)
	if err != nil {
		var invalidCode *territory.InvalidPostalCodeError
		statusCode := http.StatusInternalServerError
		message := "Failed to create property"
		if errors.As(err, &invalidCode) {
			statusCode = http.StatusBadRequest
			message = "Invalid postal code"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Property created successfully", property, nil)
}

func (c *Controller) GetProperty(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, err.Error())
		return
	}

	property, err := c.service.Get(ctx.Request.Context(), customerID, id)
	if err != nil {
		respondPropertyError(ctx, err, "Failed to get property")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Property retrieved successfully", property, nil)
}

func (c *Controller) ListProperties(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	list, err := c.service.List(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list properties", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Properties retrieved successfully", list, nil)
}

func (c *Controller) UpdateProperty(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, err.Error())
		return
	}

	var req UpdatePropertyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	property, err := c.service.Update(ctx.Request.Context(), customerID, id, req)
	if err != nil {
		respondPropertyError(ctx, err, "Failed to update property")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Property updated successfully", property, nil)
}

func (c *Controller) DeactivateProperty(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, err.Error())
		return
	}

	if err := c.service.Deactivate(ctx.Request.Context(), customerID, id); err != nil {
		respondPropertyError(ctx, err, "Failed to deactivate property")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Property deactivated successfully", nil, nil)
}

func (c *Controller) ReactivateProperty(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid property ID", nil, err.Error())
		return
	}

	if err := c.service.Reactivate(ctx.Request.Context(), customerID, id); err != nil {
		respondPropertyError(ctx, err, "Failed to reactivate property")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Property reactivated successfully", nil, nil)
}

func respondPropertyError(ctx *gin.Context, err error, message string) {
	var invalidCode *territory.InvalidPostalCodeError
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		statusCode = http.StatusForbidden
	case errors.Is(err, ErrHasActiveBookings):
		statusCode = http.StatusConflict
	case errors.As(err, &invalidCode):
		statusCode = http.StatusBadRequest
	}
	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}

func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
