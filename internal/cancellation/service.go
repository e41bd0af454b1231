package cancellation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cleangrid/internal/bookings"
	"cleangrid/internal/shared/config"
	"cleangrid/pkg/logger"

	"github.com/google/uuid"
)

// CannotCancelError reports a booking whose state forbids cancellation
type CannotCancelError struct {
	Status bookings.BookingStatus
}

func (e *CannotCancelError) Error() string {
	return fmt.Sprintf("booking in status %s cannot be cancelled", e.Status)
}

var ErrNotBookingOwner = errors.New("booking does not belong to this customer")

type Service interface {
	Preview(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*Outcome, error)
	Cancel(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID, reason string) (*bookings.Booking, *Outcome, error)
	SetNotifier(notifier bookings.Notifier)
}

type service struct {
	repo     bookings.Repository
	cfg      *config.Config
	notifier bookings.Notifier
	now      func() time.Time
}

func NewService(repo bookings.Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg, now: time.Now}
}

func (s *service) SetNotifier(notifier bookings.Notifier) {
	s.notifier = notifier
}

// Preview computes the refund split without touching the booking
func (s *service) Preview(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID) (*Outcome, error) {
	booking, err := s.repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, ErrNotBookingOwner
	}
	if !booking.Status.IsCancellable() {
		return nil, &CannotCancelError{Status: booking.Status}
	}

	outcome := Calculate(booking.TotalPrice, booking.ScheduledAt, s.now(), s.cfg.Cancellation)
	return &outcome, nil
}

// Cancel applies the same calculation Preview showed, under a row lock
// so a racing accept or start cannot slip past the state check.
func (s *service) Cancel(ctx context.Context, customerID uuid.UUID, bookingID uuid.UUID, reason string) (*bookings.Booking, *Outcome, error) {
	var outcome Outcome
	share := s.cfg.Escrow.FranchiseeSharePct / 100

	booking, err := s.repo.UpdateWithLock(bookingID, func(b *bookings.Booking) error {
		if b.CustomerID != customerID {
			return ErrNotBookingOwner
		}
		if !b.Status.IsCancellable() {
			return &CannotCancelError{Status: b.Status}
		}

		outcome = Calculate(b.TotalPrice, b.ScheduledAt, s.now(), s.cfg.Cancellation)

		b.Status = bookings.StatusCancelled
		b.RefundAmount = outcome.RefundAmount
		b.CancellationFee = outcome.CancellationFee
		now := s.now()
		b.CancelledAt = &now
		if reason != "" {
			b.Notes = b.Notes + "\nCancelled: " + reason
		}

		// A cancelled booking is always on the refund side of escrow,
		// even when the refunded amount works out to zero. Full release
		// is reserved for completed visits.
		if outcome.RefundAmount >= b.TotalPrice {
			b.EscrowStatus = bookings.EscrowRefunded
		} else {
			b.EscrowStatus = bookings.EscrowPartialRefund
		}

		// The retained fee is split like a completed visit when a
		// franchisee was already holding the job
		if b.FranchiseeID != nil && outcome.CancellationFee > 0 {
			b.FranchiseePayout = roundMoney(outcome.CancellationFee * share)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.GetDefault().LogBookingCancelled(ctx, booking.ID.String(), customerID.String(), outcome.RefundAmount)

	if s.notifier != nil {
		s.notifier.PublishBookingEvent(ctx, "booking.cancelled", booking)
	}
	return booking, &outcome, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
