package onboarding

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

// Apply accepts a public franchisee application
func (c *Controller) Apply(ctx *gin.Context) {
	var req ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	application, err := c.service.Apply(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateApplication):
			response.RespondJSON(ctx, "error", http.StatusConflict, "An application with this email already exists", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to submit application", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated,
		"Application submitted successfully. You will be contacted within 5 business days.",
		map[string]interface{}{
			"application_id": application.ID.String(),
			"status":         application.Status,
		}, nil)
}

// GetStatus lets an applicant check progress with just their
// application ID
func (c *Controller) GetStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid application ID", nil, err.Error())
		return
	}

	status, err := c.service.GetStatus(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get application", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Application retrieved successfully", status, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	statusFilter := ctx.Query("status")
	if statusFilter != "" && !IsValidApplicationStatus(statusFilter) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid status filter", nil, nil)
		return
	}

	applications, err := c.service.List(ctx.Request.Context(), ApplicationStatus(statusFilter))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list applications", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Applications retrieved successfully", map[string]interface{}{
		"applications": applications,
		"count":        len(applications),
	}, nil)
}

func (c *Controller) Approve(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid application ID", nil, err.Error())
		return
	}

	adminID, ok := c.actorID(ctx)
	if !ok {
		return
	}

	var req ApproveRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	application, err := c.service.Approve(ctx.Request.Context(), id, adminID, &req)
	if err != nil {
		c.respondReviewError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK,
		"Application approved. The applicant can now register and be activated.", application, nil)
}

func (c *Controller) Reject(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid application ID", nil, err.Error())
		return
	}

	var req RejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "A rejection reason is required", nil, err.Error())
		return
	}

	application, err := c.service.Reject(ctx.Request.Context(), id, req.Reason)
	if err != nil {
		c.respondReviewError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Application rejected", application, nil)
}

func (c *Controller) Activate(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid application ID", nil, err.Error())
		return
	}

	adminID, ok := c.actorID(ctx)
	if !ok {
		return
	}

	application, err := c.service.Activate(ctx.Request.Context(), id, adminID)
	if err != nil {
		if errors.Is(err, ErrNoLinkedAccount) {
			response.RespondJSON(ctx, "error", http.StatusConflict,
				"The applicant must register an account with the application email before activation", nil, nil)
			return
		}
		c.respondReviewError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Franchisee activated and can now accept bookings", application, nil)
}

func (c *Controller) actorID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return uuid.Nil, false
	}
	adminID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, err.Error())
		return uuid.Nil, false
	}
	return adminID, true
}

func (c *Controller) respondReviewError(ctx *gin.Context, err error) {
	var stateErr *InvalidStateError
	switch {
	case errors.Is(err, ErrApplicationNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Application not found", nil, nil)
	case errors.As(err, &stateErr):
		response.RespondJSON(ctx, "error", http.StatusConflict, stateErr.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update application", nil, err.Error())
	}
}
