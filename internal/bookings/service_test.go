package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"cleangrid/internal/properties"
	"cleangrid/internal/quotes"
	"cleangrid/internal/shared/config"
	"cleangrid/internal/territory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (m *memoryBookingRepo) Create(b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m *memoryBookingRepo) GetByID(id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryBookingRepo) ListByCustomer(customerID uuid.UUID) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryBookingRepo) ListByFranchisee(franchiseeID uuid.UUID, statuses []BookingStatus) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.FranchiseeID == nil || *b.FranchiseeID != franchiseeID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if b.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memoryBookingRepo) ListPending() ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.Status == StatusPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryBookingRepo) HasOpenBookings(propertyID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PropertyID == propertyID && b.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryBookingRepo) CountByStatus() (map[BookingStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[BookingStatus]int64)
	for _, b := range m.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (m *memoryBookingRepo) SumPayoutsByFranchisee(franchiseeID uuid.UUID) (float64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var gross, payout float64
	for _, b := range m.bookings {
		if b.FranchiseeID != nil && *b.FranchiseeID == franchiseeID && b.Status == StatusCompleted {
			gross += b.TotalPrice
			payout += b.FranchiseePayout
		}
	}
	return gross, payout, nil
}

func (m *memoryBookingRepo) CompletedRevenue() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, b := range m.bookings {
		if b.Status == StatusCompleted {
			total += b.TotalPrice
		}
	}
	return total, nil
}

func (m *memoryBookingRepo) UpdateWithLock(id uuid.UUID, mutate func(*Booking) error) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	working := *b
	if err := mutate(&working); err != nil {
		return nil, err
	}
	m.bookings[id] = &working
	copied := working
	return &copied, nil
}

type stubResolver struct {
	byArea map[string]uuid.UUID
}

func (s *stubResolver) ResolveFranchisee(ctx context.Context, areaCode string) (*territory.AssignmentResponse, error) {
	id, ok := s.byArea[areaCode]
	if !ok {
		return nil, territory.ErrNoFranchisee
	}
	idStr := id.String()
	return &territory.AssignmentResponse{
		AreaCode:     areaCode,
		FranchiseeID: &idStr,
		Status:       territory.StatusProtected,
	}, nil
}

type stubProperties struct {
	props map[uuid.UUID]*properties.Property
}

func (s *stubProperties) Get(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*properties.Property, error) {
	p, ok := s.props[id]
	if !ok {
		return nil, properties.ErrPropertyNotFound
	}
	if p.CustomerID != customerID {
		return nil, properties.ErrNotOwner
	}
	return p, nil
}

type stubCatalog struct{}

func (stubCatalog) FindPricingEntry(ctx context.Context, class quotes.PropertyClass, level quotes.ServiceLevel) (*quotes.PricingEntry, error) {
	return &quotes.PricingEntry{
		ID:                   uuid.New().String(),
		Name:                 "Standard Clean",
		BasePriceResidential: 49,
		BasePriceCommercial:  85,
		BaseDurationMinutes:  30,
	}, nil
}

func (stubCatalog) ResolveAddOns(ctx context.Context, ids []string) (map[string]quotes.AddOnDef, error) {
	return map[string]quotes.AddOnDef{}, nil
}

func (stubCatalog) GetPricingEntryByID(ctx context.Context, id string) (*quotes.PricingEntry, error) {
	return nil, nil
}

func newTestService(t *testing.T, resolver TerritoryResolver, props PropertySource) (Service, *memoryBookingRepo) {
	t.Helper()
	repo := newMemoryBookingRepo()
	cfg := &config.Config{
		Pricing: config.PricingDefaults{TaxRate: 0.13},
		Escrow:  config.EscrowConfig{FranchiseeSharePct: 80},
	}
	quoteSvc := quotes.NewService(quotes.NewEngine(quotes.DefaultPricingConfig()), stubCatalog{})
	return NewService(repo, quoteSvc, resolver, props, cfg), repo
}

func testProperty(customerID uuid.UUID) *properties.Property {
	return &properties.Property{
		ID:            uuid.New(),
		CustomerID:    customerID,
		PropertyClass: "residential",
		PostalCode:    "M5V3A8",
		AreaCode:      "3A8",
		Bedrooms:      2,
		Bathrooms:     1,
		Kitchens:      1,
		Active:        true,
	}
}

func TestCreateBooking_RoutesToTerritoryHolder(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)

	booking, err := svc.Create(context.Background(), customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		Condition:    "light",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusAssigned, booking.Status)
	require.NotNil(t, booking.FranchiseeID)
	assert.Equal(t, franchiseeID, *booking.FranchiseeID)
	assert.Equal(t, "3A8", booking.AreaCode)
	assert.Equal(t, EscrowHeld, booking.EscrowStatus)
	assert.Equal(t, booking.Quote.GrandTotal, booking.TotalPrice)
	assert.Greater(t, booking.TotalPrice, 0.0)
}

func TestCreateBooking_UnassignedAreaGoesToPool(t *testing.T) {
	customerID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)

	booking, err := svc.Create(context.Background(), customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, booking.Status)
	assert.Nil(t, booking.FranchiseeID)

	pool, err := svc.ListPendingPool(context.Background())
	require.NoError(t, err)
	assert.Len(t, pool, 1)
}

func TestCreateBooking_Rejections(t *testing.T) {
	customerID := uuid.New()
	property := testProperty(customerID)
	inactive := testProperty(customerID)
	inactive.Active = false

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{
			property.ID: property,
			inactive.ID: inactive,
		}},
	)
	ctx := context.Background()

	_, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrScheduleInPast)

	_, err = svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   inactive.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrPropertyInactive)

	_, err = svc.Create(ctx, uuid.New(), CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, properties.ErrNotOwner)
}

func TestBookingLifecycle_AcceptStartComplete(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		Condition:    "light",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	booking, err = svc.Accept(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, booking.Status)
	assert.NotNil(t, booking.AcceptedAt)

	booking, err = svc.Start(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, booking.Status)

	booking, err = svc.Complete(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, booking.Status)
	assert.Equal(t, EscrowReleased, booking.EscrowStatus)
	assert.InDelta(t, booking.TotalPrice*0.8, booking.FranchiseePayout, 0.01)
	assert.NotNil(t, booking.CompletedAt)
}

func TestAccept_WrongFranchisee(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, uuid.New(), booking.ID)
	assert.ErrorIs(t, err, ErrNotAssignedToYou)
}

func TestDecline_ReturnsToPoolWhenAreaStillHeldByDecliner(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	declined, err := svc.Decline(ctx, franchiseeID, booking.ID, "fully booked that day")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, declined.Status)
	assert.Nil(t, declined.FranchiseeID)
}

func TestDecline_ReassignsWhenTerritoryTransferred(t *testing.T) {
	customerID := uuid.New()
	oldHolder := uuid.New()
	newHolder := uuid.New()
	property := testProperty(customerID)

	resolver := &stubResolver{byArea: map[string]uuid.UUID{"3A8": oldHolder}}
	svc, _ := newTestService(t, resolver,
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	// Territory changes hands before the decline
	resolver.byArea["3A8"] = newHolder

	reassigned, err := svc.Decline(ctx, oldHolder, booking.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, reassigned.Status)
	require.NotNil(t, reassigned.FranchiseeID)
	assert.Equal(t, newHolder, *reassigned.FranchiseeID)
}

func TestDecline_AllowedAfterAccepting(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Accept(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)

	declined, err := svc.Decline(ctx, franchiseeID, booking.ID, "crew member out sick")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, declined.Status)
	assert.Nil(t, declined.FranchiseeID)
}

func TestHasOpenBookings_BlocksUntilTerminal(t *testing.T) {
	customerID := uuid.New()
	franchiseeID := uuid.New()
	property := testProperty(customerID)

	svc, _ := newTestService(t,
		&stubResolver{byArea: map[string]uuid.UUID{"3A8": franchiseeID}},
		&stubProperties{props: map[uuid.UUID]*properties.Property{property.ID: property}},
	)
	ctx := context.Background()

	booking, err := svc.Create(ctx, customerID, CreateBookingRequest{
		PropertyID:   property.ID.String(),
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)

	open, err := svc.HasOpenBookings(ctx, property.ID)
	require.NoError(t, err)
	assert.True(t, open)

	_, err = svc.Accept(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)
	_, err = svc.Start(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, franchiseeID, booking.ID)
	require.NoError(t, err)

	open, err = svc.HasOpenBookings(ctx, property.ID)
	require.NoError(t, err)
	assert.False(t, open)
}
