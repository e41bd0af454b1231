package cancellation

import (
	"errors"
	"net/http"

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

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PreviewCancellation shows the refund split without cancelling
func (c *Controller) PreviewCancellation(ctx *gin.Context) {
	customerID, bookingID, ok := c.parseIDs(ctx)
	if !ok {
		return
	}

	outcome, err := c.service.Preview(ctx.Request.Context(), customerID, bookingID)
	if err != nil {
		respondCancellationError(ctx, err, "Failed to preview cancellation")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation preview generated", outcome, nil)
}

// CancelBooking cancels and applies the refund split
func (c *Controller) CancelBooking(ctx *gin.Context) {
	customerID, bookingID, ok := c.parseIDs(ctx)
	if !ok {
		return
	}

	var req cancelRequest
	_ = ctx.ShouldBindJSON(&req)

	booking, outcome, err := c.service.Cancel(ctx.Request.Context(), customerID, bookingID, req.Reason)
	if err != nil {
		respondCancellationError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", gin.H{
		"booking": booking,
		"outcome": outcome,
	}, nil)
}

func (c *Controller) parseIDs(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user context")
		return uuid.Nil, uuid.Nil, false
	}
	customerID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return customerID, bookingID, true
}

func respondCancellationError(ctx *gin.Context, err error, message string) {
	var cannotCancel *CannotCancelError
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrNotBookingOwner):
		statusCode = http.StatusForbidden
	case errors.As(err, &cannotCancel):
		statusCode = http.StatusConflict
	}
	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}
