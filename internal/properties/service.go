package properties

import (
	"context"
	"errors"
	"fmt"

	"cleangrid/internal/territory"

	"github.com/google/uuid"
)

var (
	ErrNotOwner            = errors.New("property does not belong to this customer")
	ErrHasActiveBookings   = errors.New("property has bookings that are not yet completed or cancelled")
	ErrPropertyDeactivated = errors.New("property is deactivated")
)

// BookingChecker reports whether a property still has bookings in a
// non-terminal state. The bookings service implements it; the interface
// lives here to keep the dependency one-way.
type BookingChecker interface {
	HasOpenBookings(ctx context.Context, propertyID uuid.UUID) (bool, error)
}

type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreatePropertyRequest) (*Property, error)
	Get(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*Property, error)
	List(ctx context.Context, customerID uuid.UUID) ([]Property, error)
	Update(ctx context.Context, customerID uuid.UUID, id uuid.UUID, req UpdatePropertyRequest) (*Property, error)
	Deactivate(ctx context.Context, customerID uuid.UUID, id uuid.UUID) error
	Reactivate(ctx context.Context, customerID uuid.UUID, id uuid.UUID) error

	SetBookingChecker(checker BookingChecker)
}

type service struct {
	repo           Repository
	bookingChecker BookingChecker
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetBookingChecker injects the booking lookup after both services exist
func (s *service) SetBookingChecker(checker BookingChecker) {
	s.bookingChecker = checker
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreatePropertyRequest) (*Property, error) {
	postalCode, err := territory.NormalizePostalCode(req.PostalCode)
	if err != nil {
		return nil, err
	}
	areaCode, err := territory.DeriveAreaCode(postalCode)
	if err != nil {
		return nil, err
	}

	property := &Property{
		CustomerID:     customerID,
		Label:          req.Label,
		PropertyClass:  req.PropertyClass,
		AddressLine:    req.AddressLine,
		City:           req.City,
		Province:       req.Province,
		PostalCode:     postalCode,
		AreaCode:       areaCode,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Kitchens:       req.Kitchens,
		LivingRooms:    req.LivingRooms,
		DiningRooms:    req.DiningRooms,
		SquareFeet:     req.SquareFeet,
		HasStairs:      req.HasStairs,
		HasHallways:    req.HasHallways,
		HasLaundryRoom: req.HasLaundryRoom,
		HasKitchenette: req.HasKitchenette,
		Active:         true,
	}
	if err := s.repo.Create(property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return property, nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*Property, error) {
	return s.getOwned(customerID, id)
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]Property, error) {
	return s.repo.ListByCustomer(customerID)
}

func (s *service) Update(ctx context.Context, customerID uuid.UUID, id uuid.UUID, req UpdatePropertyRequest) (*Property, error) {
	property, err := s.getOwned(customerID, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		property.Label = *req.Label
	}
	if req.AddressLine != nil {
		property.AddressLine = *req.AddressLine
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.Province != nil {
		property.Province = *req.Province
	}
	if req.PostalCode != nil {
		postalCode, err := territory.NormalizePostalCode(*req.PostalCode)
		if err != nil {
			return nil, err
		}
		areaCode, err := territory.DeriveAreaCode(postalCode)
		if err != nil {
			return nil, err
		}
		property.PostalCode = postalCode
		property.AreaCode = areaCode
	}

	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.Kitchens != nil {
		property.Kitchens = *req.Kitchens
	}
	if req.LivingRooms != nil {
		property.LivingRooms = *req.LivingRooms
	}
	if req.DiningRooms != nil {
		property.DiningRooms = *req.DiningRooms
	}
	if req.SquareFeet != nil {
		property.SquareFeet = *req.SquareFeet
	}
	if req.HasStairs != nil {
		property.HasStairs = *req.HasStairs
	}
	if req.HasHallways != nil {
		property.HasHallways = *req.HasHallways
	}
	if req.HasLaundryRoom != nil {
		property.HasLaundryRoom = *req.HasLaundryRoom
	}
	if req.HasKitchenette != nil {
		property.HasKitchenette = *req.HasKitchenette
	}

	if err := s.repo.Update(property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return property, nil
}

// Deactivate hides a property from booking flows. A property with open
// bookings cannot be deactivated; cancel or complete them first.
func (s *service) Deactivate(ctx context.Context, customerID uuid.UUID, id uuid.UUID) error {
	property, err := s.getOwned(customerID, id)
	if err != nil {
		return err
	}
	if !property.Active {
		return nil
	}

	if s.bookingChecker != nil {
		open, err := s.bookingChecker.HasOpenBookings(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check bookings: %w", err)
		}
		if open {
			return ErrHasActiveBookings
		}
	}

	property.Active = false
	return s.repo.Update(property)
}

// Reactivate always succeeds for an owned property
func (s *service) Reactivate(ctx context.Context, customerID uuid.UUID, id uuid.UUID) error {
	property, err := s.getOwned(customerID, id)
	if err != nil {
		return err
	}
	if property.Active {
		return nil
	}
	property.Active = true
	return s.repo.Update(property)
}

func (s *service) getOwned(customerID uuid.UUID, id uuid.UUID) (*Property, error) {
	property, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if property.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	return property, nil
}
