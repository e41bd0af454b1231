package properties

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleangrid/internal/territory"
)

type memoryPropertyRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Property
}

func newMemoryPropertyRepo() *memoryPropertyRepo {
	return &memoryPropertyRepo{rows: make(map[uuid.UUID]*Property)}
}

func (m *memoryPropertyRepo) Create(property *Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	copied := *property
	m.rows[property.ID] = &copied
	return nil
}

func (m *memoryPropertyRepo) GetByID(id uuid.UUID) (*Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryPropertyRepo) ListByCustomer(customerID uuid.UUID) ([]Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []Property
	for _, p := range m.rows {
		if p.CustomerID == customerID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (m *memoryPropertyRepo) Update(property *Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[property.ID]; !ok {
		return ErrPropertyNotFound
	}
	copied := *property
	m.rows[property.ID] = &copied
	return nil
}

type stubBookingChecker struct {
	open bool
}

func (s stubBookingChecker) HasOpenBookings(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	return s.open, nil
}

func createRequest() CreatePropertyRequest {
	return CreatePropertyRequest{
		Label:         "Home",
		PropertyClass: "residential",
		AddressLine:   "210 King St W",
		City:          "Toronto",
		Province:      "ON",
		PostalCode:    "M5V 3A8",
		Bedrooms:      2,
		Bathrooms:     1,
		Kitchens:      1,
	}
}

func TestCreate_NormalizesPostalAndDerivesAreaCode(t *testing.T) {
	svc := NewService(newMemoryPropertyRepo())
	customerID := uuid.New()

	property, err := svc.Create(context.Background(), customerID, createRequest())
	require.NoError(t, err)

	assert.Equal(t, "M5V3A8", property.PostalCode)
	assert.Equal(t, "3A8", property.AreaCode)
	assert.True(t, property.Active)
}

func TestCreate_RejectsMalformedPostalCode(t *testing.T) {
	svc := NewService(newMemoryPropertyRepo())
	req := createRequest()
	req.PostalCode = "12345"

	_, err := svc.Create(context.Background(), uuid.New(), req)

	var invalid *territory.InvalidPostalCodeError
	require.ErrorAs(t, err, &invalid)
}

func TestUpdate_PostalCodeChangeRederivesAreaCode(t *testing.T) {
	svc := NewService(newMemoryPropertyRepo())
	customerID := uuid.New()
	ctx := context.Background()

	property, err := svc.Create(ctx, customerID, createRequest())
	require.NoError(t, err)

	newPostal := "K1A 0B1"
	updated, err := svc.Update(ctx, customerID, property.ID, UpdatePropertyRequest{PostalCode: &newPostal})
	require.NoError(t, err)

	assert.Equal(t, "K1A0B1", updated.PostalCode)
	assert.Equal(t, "0B1", updated.AreaCode)
}

func TestDeactivate_BlockedByOpenBookings(t *testing.T) {
	repo := newMemoryPropertyRepo()
	svc := NewService(repo)
	svc.SetBookingChecker(stubBookingChecker{open: true})
	customerID := uuid.New()
	ctx := context.Background()

	property, err := svc.Create(ctx, customerID, createRequest())
	require.NoError(t, err)

	err = svc.Deactivate(ctx, customerID, property.ID)
	assert.ErrorIs(t, err, ErrHasActiveBookings)

	stored, err := repo.GetByID(property.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestDeactivate_ThenReactivate(t *testing.T) {
	repo := newMemoryPropertyRepo()
	svc := NewService(repo)
	svc.SetBookingChecker(stubBookingChecker{open: false})
	customerID := uuid.New()
	ctx := context.Background()

	property, err := svc.Create(ctx, customerID, createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, customerID, property.ID))
	stored, err := repo.GetByID(property.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	// Reactivation has no booking precondition
	require.NoError(t, svc.Reactivate(ctx, customerID, property.ID))
	stored, err = repo.GetByID(property.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestOwnershipGuards(t *testing.T) {
	svc := NewService(newMemoryPropertyRepo())
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	property, err := svc.Create(ctx, owner, createRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, property.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Deactivate(ctx, stranger, property.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}
