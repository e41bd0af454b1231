package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of a completed visit. One review per
// booking; the unique index enforces it.
type Review struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID    uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID   uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	FranchiseeID uuid.UUID `json:"franchisee_id" gorm:"type:uuid;not null;index"`
	Rating       int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment      string    `json:"comment" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// RatingSummary aggregates a franchisee's public rating
type RatingSummary struct {
	FranchiseeID  string  `json:"franchisee_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}
