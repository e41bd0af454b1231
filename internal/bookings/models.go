package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"cleangrid/internal/quotes"

	"github.com/google/uuid"
)

// BookingStatus is the booking lifecycle state
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusAssigned   BookingStatus = "assigned"
	StatusAccepted   BookingStatus = "accepted"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// EscrowStatus is the payment custody state of a booking
type EscrowStatus string

const (
	EscrowHeld          EscrowStatus = "held"
	EscrowReleased      EscrowStatus = "released_to_franchisee"
	EscrowRefunded      EscrowStatus = "refunded_to_customer"
	EscrowPartialRefund EscrowStatus = "partial_refund"
)

// QuoteSnapshot freezes the full price breakdown at booking time so
// later catalog or pricing changes never alter an existing booking.
type QuoteSnapshot quotes.QuoteBreakdown

func (qs QuoteSnapshot) Value() (driver.Value, error) {
	return json.Marshal(qs)
}

func (qs *QuoteSnapshot) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, qs)
	case string:
		return json.Unmarshal([]byte(v), qs)
	default:
		return fmt.Errorf("cannot scan %T into QuoteSnapshot", value)
	}
}

// Booking is a scheduled cleaning visit. FranchiseeID is nil while the
// booking sits in the unassigned pool.
type Booking struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef   string     `gorm:"unique;not null;size:20" json:"booking_ref"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	PropertyID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"property_id"`
	FranchiseeID *uuid.UUID `gorm:"type:uuid;index" json:"franchisee_id"`
	AreaCode     string     `gorm:"type:varchar(3);not null;index" json:"area_code"`

	ServiceLevel string `gorm:"type:varchar(20);not null" json:"service_level"`
	Condition    string `gorm:"type:varchar(10);not null" json:"condition"`
	Frequency    string `gorm:"type:varchar(10);not null" json:"frequency"`

	ScheduledAt time.Time     `gorm:"not null;index" json:"scheduled_at"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Quote      QuoteSnapshot `gorm:"type:jsonb;not null" json:"quote"`
	TotalPrice float64       `gorm:"not null;check:total_price >= 0" json:"total_price"`

	EscrowStatus     EscrowStatus `gorm:"type:varchar(30);not null;default:'held'" json:"escrow_status"`
	FranchiseePayout float64      `gorm:"default:0" json:"franchisee_payout"`
	RefundAmount     float64      `gorm:"default:0" json:"refund_amount"`
	CancellationFee  float64      `gorm:"default:0" json:"cancellation_fee"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

type CreateBookingRequest struct {
	PropertyID    string                  `json:"property_id" binding:"required,uuid"`
	ServiceLevel  string                  `json:"service_level" binding:"required,oneof=standard deep move_in_out post_reno"`
	Condition     string                  `json:"condition" binding:"omitempty,oneof=light normal heavy"`
	Frequency     string                  `json:"frequency" binding:"omitempty,oneof=one_time weekly biweekly monthly"`
	ScheduledAt   time.Time               `json:"scheduled_at" binding:"required"`
	AddOns        []quotes.AddOnSelection `json:"add_ons"`
	PromoDiscount float64                 `json:"promo_discount" binding:"min=0"`
	Notes         string                  `json:"notes" binding:"max=2000"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
