package reviews

import (
	"context"
	"errors"
	"fmt"

	"cleangrid/internal/bookings"

	"github.com/google/uuid"
)

var (
	ErrNotReviewable   = errors.New("only completed bookings can be reviewed")
	ErrNotBookingOwner = errors.New("booking does not belong to this customer")
)

type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateReviewRequest) (*Review, error)
	ListForFranchisee(ctx context.Context, franchiseeID uuid.UUID, limit int) ([]Review, *RatingSummary, error)
}

type service struct {
	repo        Repository
	bookingRepo bookings.Repository
}

func NewService(repo Repository, bookingRepo bookings.Repository) Service {
	return &service{repo: repo, bookingRepo: bookingRepo}
}

// Create records a rating for a completed booking. The booking's
// franchisee is denormalized onto the review so the public listing
// never joins through bookings.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateReviewRequest) (*Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != bookings.StatusCompleted || booking.FranchiseeID == nil {
		return nil, ErrNotReviewable
	}

	if _, err := s.repo.GetByBookingID(bookingID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrReviewNotFound) {
		return nil, err
	}

	review := &Review{
		BookingID:    bookingID,
		CustomerID:   customerID,
		FranchiseeID: *booking.FranchiseeID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := s.repo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) ListForFranchisee(ctx context.Context, franchiseeID uuid.UUID, limit int) ([]Review, *RatingSummary, error) {
	list, err := s.repo.ListByFranchisee(franchiseeID, limit)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.repo.Summary(franchiseeID)
	if err != nil {
		return nil, nil, err
	}
	return list, summary, nil
}
