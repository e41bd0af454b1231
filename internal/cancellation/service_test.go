package cancellation

import (
	"context"
	"sync"
	"testing"
	"time"

	"cleangrid/internal/bookings"
	"cleangrid/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*bookings.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeBookingRepo) Create(b *bookings.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	copied := *b
	f.rows[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(id uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) ListByCustomer(uuid.UUID) ([]bookings.Booking, error) { return nil, nil }
func (f *fakeBookingRepo) ListByFranchisee(uuid.UUID, []bookings.BookingStatus) ([]bookings.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) ListPending() ([]bookings.Booking, error)      { return nil, nil }
func (f *fakeBookingRepo) HasOpenBookings(uuid.UUID) (bool, error)       { return false, nil }
func (f *fakeBookingRepo) CountByStatus() (map[bookings.BookingStatus]int64, error) {
	return nil, nil
}
func (f *fakeBookingRepo) SumPayoutsByFranchisee(uuid.UUID) (float64, float64, error) {
	return 0, 0, nil
}

func (f *fakeBookingRepo) CompletedRevenue() (float64, error) {
	return 0, nil
}

func (f *fakeBookingRepo) UpdateWithLock(id uuid.UUID, mutate func(*bookings.Booking) error) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	working := *b
	if err := mutate(&working); err != nil {
		return nil, err
	}
	f.rows[id] = &working
	copied := working
	return &copied, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Cancellation: config.CancellationConfig{
			FullRefundHours:    48,
			PartialRefundHours: 24,
			PartialRefundPct:   50,
		},
		Escrow: config.EscrowConfig{FranchiseeSharePct: 80},
	}
}

func seedBooking(t *testing.T, repo *fakeBookingRepo, customerID uuid.UUID, status bookings.BookingStatus, total float64, scheduledAt time.Time) *bookings.Booking {
	t.Helper()
	b := &bookings.Booking{
		ID:           uuid.New(),
		BookingRef:   "CG-TEST0001",
		CustomerID:   customerID,
		PropertyID:   uuid.New(),
		AreaCode:     "3A8",
		ServiceLevel: "standard",
		Condition:    "normal",
		Frequency:    "one_time",
		ScheduledAt:  scheduledAt,
		Status:       status,
		TotalPrice:   total,
		EscrowStatus: bookings.EscrowHeld,
	}
	require.NoError(t, repo.Create(b))
	return b
}

func newFixedClockService(repo *fakeBookingRepo, now time.Time) Service {
	svc := NewService(repo, testConfig()).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPreviewMatchesCancel(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo()
	customerID := uuid.New()
	booking := seedBooking(t, repo, customerID, bookings.StatusAssigned, 200, now.Add(36*time.Hour))

	svc := newFixedClockService(repo, now)
	ctx := context.Background()

	preview, err := svc.Preview(ctx, customerID, booking.ID)
	require.NoError(t, err)

	cancelled, outcome, err := svc.Cancel(ctx, customerID, booking.ID, "plans changed")
	require.NoError(t, err)

	assert.Equal(t, preview.RefundAmount, outcome.RefundAmount)
	assert.Equal(t, preview.CancellationFee, outcome.CancellationFee)
	assert.Equal(t, preview.Band, outcome.Band)
	assert.Equal(t, outcome.RefundAmount, cancelled.RefundAmount)
	assert.Equal(t, outcome.CancellationFee, cancelled.CancellationFee)
}

func TestCancel_EscrowDisposition(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	franchiseeID := uuid.New()

	cases := []struct {
		name       string
		offset     time.Duration
		wantEscrow bookings.EscrowStatus
		wantRefund float64
		wantPayout float64
	}{
		{"full refund", 60 * time.Hour, bookings.EscrowRefunded, 200, 0},
		{"partial refund", 30 * time.Hour, bookings.EscrowPartialRefund, 100, 80},
		// Zero refund still lands on the refund side: full release is
		// reserved for completed visits.
		{"no refund", 10 * time.Hour, bookings.EscrowPartialRefund, 0, 160},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBookingRepo()
			booking := seedBooking(t, repo, customerID, bookings.StatusAssigned, 200, now.Add(tc.offset))
			booking, err := repo.UpdateWithLock(booking.ID, func(b *bookings.Booking) error {
				b.FranchiseeID = &franchiseeID
				return nil
			})
			require.NoError(t, err)

			svc := newFixedClockService(repo, now)
			cancelled, outcome, err := svc.Cancel(context.Background(), customerID, booking.ID, "")
			require.NoError(t, err)

			assert.Equal(t, bookings.StatusCancelled, cancelled.Status)
			assert.Equal(t, tc.wantEscrow, cancelled.EscrowStatus)
			assert.Equal(t, tc.wantRefund, outcome.RefundAmount)
			assert.Equal(t, tc.wantPayout, cancelled.FranchiseePayout)
			assert.NotNil(t, cancelled.CancelledAt)
		})
	}
}

func TestCancel_StateGuards(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	for _, status := range []bookings.BookingStatus{
		bookings.StatusInProgress,
		bookings.StatusCompleted,
		bookings.StatusCancelled,
	} {
		repo := newFakeBookingRepo()
		booking := seedBooking(t, repo, customerID, status, 200, now.Add(72*time.Hour))
		svc := newFixedClockService(repo, now)

		_, _, err := svc.Cancel(context.Background(), customerID, booking.ID, "")
		var cannotCancel *CannotCancelError
		require.ErrorAs(t, err, &cannotCancel, "status %s", status)
		assert.Equal(t, status, cannotCancel.Status)

		_, err = svc.Preview(context.Background(), customerID, booking.ID)
		require.ErrorAs(t, err, &cannotCancel, "preview status %s", status)
	}
}

func TestCancel_OwnershipGuard(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeBookingRepo()
	booking := seedBooking(t, repo, uuid.New(), bookings.StatusPending, 200, now.Add(72*time.Hour))
	svc := newFixedClockService(repo, now)

	_, _, err := svc.Cancel(context.Background(), uuid.New(), booking.ID, "")
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}
