package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"cleangrid/internal/bookings"
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

func (c *Controller) CreateReview(ctx *gin.Context) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return
	}
	customerID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, err.Error())
		return
	}

	var req CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	review, err := c.service.Create(ctx.Request.Context(), customerID, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		message := "Failed to create review"
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			statusCode = http.StatusNotFound
			message = "Booking not found"
		case errors.Is(err, ErrNotBookingOwner):
			statusCode = http.StatusForbidden
			message = "Booking does not belong to you"
		case errors.Is(err, ErrNotReviewable):
			statusCode = http.StatusConflict
			message = "Booking is not reviewable"
		case errors.Is(err, ErrAlreadyExists):
			statusCode = http.StatusConflict
			message = "Booking already reviewed"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Review created successfully", review, nil)
}

// ListFranchiseeReviews is public: customers browse ratings before booking
func (c *Controller) ListFranchiseeReviews(ctx *gin.Context) {
	franchiseeID, err := uuid.Parse(ctx.Param("franchiseeId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid franchisee ID", nil, err.Error())
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, summary, err := c.service.ListForFranchisee(ctx.Request.Context(), franchiseeID, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list reviews", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reviews retrieved successfully", gin.H{
		"summary": summary,
		"reviews": list,
	}, nil)
}
