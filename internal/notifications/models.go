package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"cleangrid/internal/bookings"
)

// Booking lifecycle event types carried over the notifications topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingAssigned  = "booking.assigned"
	EventBookingAccepted  = "booking.accepted"
	EventBookingDeclined  = "booking.declined"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventBookingCancelled = "booking.cancelled"
)

type EventStatus string

const (
	EventStatusQueued  EventStatus = "QUEUED"
	EventStatusSending EventStatus = "SENDING"
	EventStatusSent    EventStatus = "SENT"
	EventStatusFailed  EventStatus = "FAILED"
)

// BookingEvent is the message published for every booking lifecycle change.
// It carries a denormalized snapshot of the booking so consumers never have
// to read it back from the database.
type BookingEvent struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`

	BookingID    uuid.UUID  `json:"booking_id"`
	BookingRef   string     `json:"booking_ref"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	FranchiseeID *uuid.UUID `json:"franchisee_id,omitempty"`
	AreaCode     string     `json:"area_code"`

	ServiceLevel string    `json:"service_level"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	TotalPrice   float64   `json:"total_price"`
	RefundAmount float64   `json:"refund_amount,omitempty"`
	Status       string    `json:"status"`

	OccurredAt time.Time `json:"occurred_at"`

	EventStatus EventStatus `json:"event_status"`
	RetryCount  int         `json:"retry_count"`
	MaxRetries  int         `json:"max_retries"`
	LastError   *string     `json:"last_error,omitempty"`
}

// NewBookingEvent builds an event from a booking snapshot.
func NewBookingEvent(eventType string, booking *bookings.Booking) *BookingEvent {
	return &BookingEvent{
		ID:           uuid.New(),
		Type:         eventType,
		BookingID:    booking.ID,
		BookingRef:   booking.BookingRef,
		CustomerID:   booking.CustomerID,
		FranchiseeID: booking.FranchiseeID,
		AreaCode:     booking.AreaCode,
		ServiceLevel: booking.ServiceLevel,
		ScheduledAt:  booking.ScheduledAt,
		TotalPrice:   booking.TotalPrice,
		RefundAmount: booking.RefundAmount,
		Status:       string(booking.Status),
		OccurredAt:   time.Now(),
		EventStatus:  EventStatusQueued,
		MaxRetries:   3,
	}
}

// PartitionKey keys the Kafka message by booking so events for one booking
// stay ordered on a single partition.
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *BookingEvent) ShouldRetry() bool {
	return e.RetryCount < e.MaxRetries && e.EventStatus == EventStatusFailed
}

func (e *BookingEvent) MarkFailed(err error) {
	e.EventStatus = EventStatusFailed
	errorStr := err.Error()
	e.LastError = &errorStr
}

func (e *BookingEvent) MarkSent() {
	e.EventStatus = EventStatusSent
	e.LastError = nil
}

// Subject returns the customer-facing email subject for an event.
func (e *BookingEvent) Subject() string {
	switch e.Type {
	case EventBookingCreated:
		return "We received your booking " + e.BookingRef
	case EventBookingAssigned:
		return "A cleaning team has been assigned to " + e.BookingRef
	case EventBookingAccepted:
		return "Your booking " + e.BookingRef + " is confirmed"
	case EventBookingDeclined:
		return "We are finding a new team for " + e.BookingRef
	case EventBookingStarted:
		return "Your cleaning for " + e.BookingRef + " is underway"
	case EventBookingCompleted:
		return "Your cleaning for " + e.BookingRef + " is complete"
	case EventBookingCancelled:
		return "Your booking " + e.BookingRef + " has been cancelled"
	default:
		return "Update on your booking " + e.BookingRef
	}
}
