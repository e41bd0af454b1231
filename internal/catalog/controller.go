package catalog

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

// PUBLIC CATALOG

func (c *Controller) ListEntries(ctx *gin.Context) {
	entries, err := c.service.ListEntries(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get service catalog", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Service catalog retrieved successfully", entries, nil)
}

func (c *Controller) GetEntry(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid catalog entry ID", nil, err.Error())
		return
	}

	entry, err := c.service.GetEntry(ctx.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrEntryNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get catalog entry", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Catalog entry retrieved successfully", entry, nil)
}

func (c *Controller) ListAddOns(ctx *gin.Context) {
	addOns, err := c.service.ListAddOns(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get add-ons", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Add-ons retrieved successfully", addOns, nil)
}

// ADMIN CATALOG MANAGEMENT

func (c *Controller) CreateEntry(ctx *gin.Context) {
	var req CreateServiceEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	adminID := c.currentUserID(ctx)
	entry, err := c.service.CreateEntry(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create catalog entry", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Catalog entry created successfully", entry, nil)
}

func (c *Controller) UpdateEntry(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid catalog entry ID", nil, err.Error())
		return
	}

	var req UpdateServiceEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	adminID := c.currentUserID(ctx)
	entry, err := c.service.UpdateEntry(ctx.Request.Context(), id, adminID, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrEntryNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update catalog entry", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Catalog entry updated successfully", entry, nil)
}

func (c *Controller) CreateAddOn(ctx *gin.Context) {
	var req CreateAddOnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	addOn, err := c.service.CreateAddOn(ctx.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrDuplicateSlug) {
			statusCode = http.StatusConflict
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to create add-on", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Add-on created successfully", addOn, nil)
}

func (c *Controller) UpdateAddOn(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if slug == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Add-on slug is required", nil, "missing slug")
		return
	}

	var req UpdateAddOnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	addOn, err := c.service.UpdateAddOn(ctx.Request.Context(), slug, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrAddOnNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update add-on", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Add-on updated successfully", addOn, nil)
}

func (c *Controller) currentUserID(ctx *gin.Context) uuid.UUID {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil
	}
	return id
}
