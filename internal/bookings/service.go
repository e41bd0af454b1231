package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cleangrid/internal/properties"
	"cleangrid/internal/quotes"
	"cleangrid/internal/shared/config"
	"cleangrid/internal/territory"
	"cleangrid/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotBookingOwner      = errors.New("booking does not belong to this customer")
	ErrNotAssignedToYou     = errors.New("booking is not assigned to this franchisee")
	ErrPropertyInactive     = errors.New("property is deactivated")
	ErrScheduleInPast       = errors.New("scheduled time must be in the future")
	ErrBookingNotCancelable = errors.New("booking can no longer be cancelled")
)

// TerritoryResolver is the slice of the territory registry booking
// creation needs
type TerritoryResolver interface {
	ResolveFranchisee(ctx context.Context, areaCode string) (*territory.AssignmentResponse, error)
}

// PropertySource loads a customer-owned property profile
type PropertySource interface {
	Get(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*properties.Property, error)
}

// Notifier publishes booking lifecycle events. Publishing is best
// effort; a failed publish never fails the booking operation.
type Notifier interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *Booking)
}

type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*Booking, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]Booking, error)
	ListForFranchisee(ctx context.Context, franchiseeID uuid.UUID, openOnly bool) ([]Booking, error)
	ListPendingPool(ctx context.Context) ([]Booking, error)

	Accept(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error)
	Decline(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID, reason string) (*Booking, error)
	Start(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error)
	Complete(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error)

	// HasOpenBookings implements properties.BookingChecker
	HasOpenBookings(ctx context.Context, propertyID uuid.UUID) (bool, error)

	SetNotifier(notifier Notifier)
}

type service struct {
	repo         Repository
	quoteService quotes.Service
	resolver     TerritoryResolver
	props        PropertySource
	cfg          *config.Config
	notifier     Notifier
}

func NewService(repo Repository, quoteService quotes.Service, resolver TerritoryResolver, props PropertySource, cfg *config.Config) Service {
	return &service{
		repo:         repo,
		quoteService: quoteService,
		resolver:     resolver,
		props:        props,
		cfg:          cfg,
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Create books a visit: quotes the property, freezes the breakdown,
// routes the booking by area code and places the payment in escrow.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrScheduleInPast
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	property, err := s.props.Get(ctx, customerID, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.Active {
		return nil, ErrPropertyInactive
	}

	condition := req.Condition
	if condition == "" {
		condition = string(quotes.ConditionNormal)
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = string(quotes.FrequencyOneTime)
	}

	// The booking price is the same engine output every quote screen
	// shows; there is no second pricing path.
	breakdown, err := s.quoteService.GenerateQuote(ctx, quotes.QuoteRequest{
		PropertyClass: quotes.PropertyClass(property.PropertyClass),
		ServiceLevel:  quotes.ServiceLevel(req.ServiceLevel),
		Condition:     quotes.Condition(condition),
		Frequency:     quotes.Frequency(frequency),
		Rooms: quotes.RoomCounts{
			Bedrooms:    property.Bedrooms,
			Bathrooms:   property.Bathrooms,
			Kitchens:    property.Kitchens,
			LivingRooms: property.LivingRooms,
			DiningRooms: property.DiningRooms,
		},
		Features: quotes.FeatureFlags{
			Stairs:      property.HasStairs,
			Hallways:    property.HasHallways,
			LaundryRoom: property.HasLaundryRoom,
			Kitchenette: property.HasKitchenette,
		},
		SquareFeet:    property.SquareFeet,
		AddOns:        req.AddOns,
		TaxRate:       s.cfg.Pricing.TaxRate,
		PromoDiscount: req.PromoDiscount,
	})
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		BookingRef:   generateBookingRef(),
		CustomerID:   customerID,
		PropertyID:   property.ID,
		AreaCode:     property.AreaCode,
		ServiceLevel: req.ServiceLevel,
		Condition:    condition,
		Frequency:    frequency,
		ScheduledAt:  req.ScheduledAt,
		Status:       StatusPending,
		Quote:        QuoteSnapshot(*breakdown),
		TotalPrice:   breakdown.GrandTotal,
		EscrowStatus: EscrowHeld,
		Notes:        req.Notes,
	}

	// Route by area code; no routable franchisee leaves the booking in
	// the pending pool for later assignment
	assignment, err := s.resolver.ResolveFranchisee(ctx, property.AreaCode)
	if err == nil && assignment.FranchiseeID != nil {
		franchiseeID, parseErr := uuid.Parse(*assignment.FranchiseeID)
		if parseErr == nil {
			booking.FranchiseeID = &franchiseeID
			booking.Status = StatusAssigned
		}
	} else if err != nil && !errors.Is(err, territory.ErrNoFranchisee) {
		return nil, err
	}

	if err := s.repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.AreaCode, customerID.String())

	s.publish(ctx, "booking.created", booking)
	if booking.Status == StatusAssigned {
		s.publish(ctx, "booking.assigned", booking)
	}
	return booking, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if role == "ADMIN" {
		return booking, nil
	}
	if booking.CustomerID == userID {
		return booking, nil
	}
	if booking.FranchiseeID != nil && *booking.FranchiseeID == userID {
		return booking, nil
	}
	return nil, ErrNotBookingOwner
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByCustomer(customerID)
}

func (s *service) ListForFranchisee(ctx context.Context, franchiseeID uuid.UUID, openOnly bool) ([]Booking, error) {
	var statuses []BookingStatus
	if openOnly {
		statuses = []BookingStatus{StatusAssigned, StatusAccepted, StatusInProgress}
	}
	return s.repo.ListByFranchisee(franchiseeID, statuses)
}

func (s *service) ListPendingPool(ctx context.Context) ([]Booking, error) {
	return s.repo.ListPending()
}

func (s *service) Accept(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.UpdateWithLock(id, func(b *Booking) error {
		if b.FranchiseeID == nil || *b.FranchiseeID != franchiseeID {
			return ErrNotAssignedToYou
		}
		next, err := Transition(b.Status, StatusAccepted)
		if err != nil {
			return err
		}
		b.Status = next
		now := time.Now()
		b.AcceptedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.accepted", booking)
	return booking, nil
}

// Decline returns an assigned booking to the pending pool and
// immediately re-resolves the territory, so a reassigned area routes
// the booking to its new holder without waiting for admin action.
func (s *service) Decline(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID, reason string) (*Booking, error) {
	declined, err := s.repo.UpdateWithLock(id, func(b *Booking) error {
		if b.FranchiseeID == nil || *b.FranchiseeID != franchiseeID {
			return ErrNotAssignedToYou
		}
		next, err := Transition(b.Status, StatusPending)
		if err != nil {
			return err
		}
		b.Status = next
		b.FranchiseeID = nil
		if reason != "" {
			b.Notes = strings.TrimSpace(b.Notes + "\nDeclined: " + reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.declined", declined)

	assignment, resolveErr := s.resolver.ResolveFranchisee(ctx, declined.AreaCode)
	if resolveErr != nil || assignment.FranchiseeID == nil {
		return declined, nil
	}
	newHolder, parseErr := uuid.Parse(*assignment.FranchiseeID)
	if parseErr != nil || newHolder == franchiseeID {
		// Area still belongs to the decliner; stay in the pool
		return declined, nil
	}

	reassigned, err := s.repo.UpdateWithLock(id, func(b *Booking) error {
		next, err := Transition(b.Status, StatusAssigned)
		if err != nil {
			return err
		}
		b.Status = next
		b.FranchiseeID = &newHolder
		return nil
	})
	if err != nil {
		return declined, nil
	}
	s.publish(ctx, "booking.assigned", reassigned)
	return reassigned, nil
}

func (s *service) Start(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.UpdateWithLock(id, func(b *Booking) error {
		if b.FranchiseeID == nil || *b.FranchiseeID != franchiseeID {
			return ErrNotAssignedToYou
		}
		next, err := Transition(b.Status, StatusInProgress)
		if err != nil {
			return err
		}
		b.Status = next
		now := time.Now()
		b.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.started", booking)
	return booking, nil
}

// Complete finishes the visit and releases escrow: the franchisee
// receives their configured share, the remainder is the platform fee.
func (s *service) Complete(ctx context.Context, franchiseeID uuid.UUID, id uuid.UUID) (*Booking, error) {
	share := s.cfg.Escrow.FranchiseeSharePct / 100

	booking, err := s.repo.UpdateWithLock(id, func(b *Booking) error {
		if b.FranchiseeID == nil || *b.FranchiseeID != franchiseeID {
			return ErrNotAssignedToYou
		}
		next, err := Transition(b.Status, StatusCompleted)
		if err != nil {
			return err
		}
		b.Status = next
		b.EscrowStatus = EscrowReleased
		b.FranchiseePayout = roundMoney(b.TotalPrice * share)
		now := time.Now()
		b.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking.completed", booking)
	return booking, nil
}

func (s *service) HasOpenBookings(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	return s.repo.HasOpenBookings(propertyID)
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishBookingEvent(ctx, eventType, booking)
}

func generateBookingRef() string {
	return "CG-" + strings.ToUpper(uuid.New().String()[:8])
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
