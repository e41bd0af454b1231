package bookings

import (
	"context"
	"errors"
	"net/http"

	"cleangrid/internal/properties"
	"cleangrid/internal/quotes"
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

// CUSTOMER OPERATIONS

func (c *Controller) CreateBooking(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := c.service.Create(ctx.Request.Context(), customerID, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		message := "Failed to create booking"
		switch {
		case errors.Is(err, properties.ErrPropertyNotFound):
			statusCode = http.StatusNotFound
			message = "Property not found"
		case errors.Is(err, properties.ErrNotOwner):
			statusCode = http.StatusForbidden
			message = "Property does not belong to you"
		case errors.Is(err, ErrPropertyInactive), errors.Is(err, ErrScheduleInPast):
			statusCode = http.StatusBadRequest
			message = "Booking request rejected"
		case quotes.IsInvalidInput(err):
			statusCode = http.StatusBadRequest
			message = "Invalid quote input"
		case errors.Is(err, quotes.ErrNoMatchingCatalogEntry):
			statusCode = http.StatusNotFound
			message = "No catalog entry matches the requested service"
		}
		response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)

	booking, err := c.service.Get(ctx.Request.Context(), userID, roleStr, id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrBookingNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, ErrNotBookingOwner):
			statusCode = http.StatusForbidden
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get booking", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (c *Controller) ListMyBookings(ctx *gin.Context) {
	customerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	bookings, err := c.service.ListForCustomer(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

// FRANCHISEE OPERATIONS

func (c *Controller) ListFranchiseeBookings(ctx *gin.Context) {
	franchiseeID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	openOnly := ctx.Query("open") == "true"

	bookings, err := c.service.ListForFranchisee(ctx.Request.Context(), franchiseeID, openOnly)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (c *Controller) AcceptBooking(ctx *gin.Context) {
	c.transition(ctx, c.service.Accept, "Booking accepted successfully")
}

func (c *Controller) StartBooking(ctx *gin.Context) {
	c.transition(ctx, c.service.Start, "Booking started successfully")
}

func (c *Controller) CompleteBooking(ctx *gin.Context) {
	c.transition(ctx, c.service.Complete, "Booking completed successfully")
}

func (c *Controller) DeclineBooking(ctx *gin.Context) {
	franchiseeID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	// The decline reason is optional; an empty body is fine
	var req DeclineBookingRequest
	_ = ctx.ShouldBindJSON(&req)

	booking, err := c.service.Decline(ctx.Request.Context(), franchiseeID, id, req.Reason)
	if err != nil {
		respondTransitionError(ctx, err, "Failed to decline booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking declined successfully", booking, nil)
}

// ADMIN OPERATIONS

func (c *Controller) ListPendingPool(ctx *gin.Context) {
	bookings, err := c.service.ListPendingPool(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list pending bookings", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Pending bookings retrieved successfully", bookings, nil)
}

func (c *Controller) transition(ctx *gin.Context, op func(ctxReq context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error), successMessage string) {
	franchiseeID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := op(ctx.Request.Context(), franchiseeID, id)
	if err != nil {
		respondTransitionError(ctx, err, "Failed to update booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, successMessage, booking, nil)
}

func respondTransitionError(ctx *gin.Context, err error, message string) {
	var invalidTransition *InvalidTransitionError
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBookingNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrNotAssignedToYou):
		statusCode = http.StatusForbidden
	case errors.As(err, &invalidTransition):
		statusCode = http.StatusConflict
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
