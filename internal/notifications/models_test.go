package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleangrid/internal/bookings"
	"cleangrid/internal/users"
)

func sampleBooking() *bookings.Booking {
	franchiseeID := uuid.New()
	return &bookings.Booking{
		ID:           uuid.New(),
		BookingRef:   "CG-A1B2C3D4",
		CustomerID:   uuid.New(),
		FranchiseeID: &franchiseeID,
		AreaCode:     "3A8",
		ServiceLevel: "standard",
		ScheduledAt:  time.Now().Add(72 * time.Hour),
		Status:       bookings.StatusAssigned,
		TotalPrice:   241.82,
	}
}

func TestNewBookingEvent_SnapshotsBooking(t *testing.T) {
	booking := sampleBooking()

	event := NewBookingEvent(EventBookingAssigned, booking)

	assert.Equal(t, EventBookingAssigned, event.Type)
	assert.Equal(t, booking.ID, event.BookingID)
	assert.Equal(t, booking.BookingRef, event.BookingRef)
	assert.Equal(t, booking.CustomerID, event.CustomerID)
	assert.Equal(t, booking.FranchiseeID, event.FranchiseeID)
	assert.Equal(t, "3A8", event.AreaCode)
	assert.Equal(t, 241.82, event.TotalPrice)
	assert.Equal(t, string(bookings.StatusAssigned), event.Status)
	assert.Equal(t, EventStatusQueued, event.EventStatus)
	assert.Equal(t, 3, event.MaxRetries)
}

func TestBookingEvent_PartitionKeyIsBookingID(t *testing.T) {
	booking := sampleBooking()

	created := NewBookingEvent(EventBookingCreated, booking)
	completed := NewBookingEvent(EventBookingCompleted, booking)

	assert.Equal(t, booking.ID.String(), created.PartitionKey())
	assert.Equal(t, created.PartitionKey(), completed.PartitionKey())
}

func TestBookingEvent_RetryLifecycle(t *testing.T) {
	event := NewBookingEvent(EventBookingCreated, sampleBooking())

	assert.False(t, event.ShouldRetry())

	event.MarkFailed(errors.New("smtp timeout"))
	require.NotNil(t, event.LastError)
	assert.Equal(t, "smtp timeout", *event.LastError)
	assert.True(t, event.ShouldRetry())

	event.RetryCount = event.MaxRetries
	assert.False(t, event.ShouldRetry())

	event.MarkSent()
	assert.Equal(t, EventStatusSent, event.EventStatus)
	assert.Nil(t, event.LastError)
}

func TestBookingEvent_SubjectPerType(t *testing.T) {
	booking := sampleBooking()

	tests := []struct {
		eventType string
		contains  string
	}{
		{EventBookingCreated, "received your booking"},
		{EventBookingAssigned, "assigned"},
		{EventBookingAccepted, "confirmed"},
		{EventBookingDeclined, "finding a new team"},
		{EventBookingStarted, "underway"},
		{EventBookingCompleted, "complete"},
		{EventBookingCancelled, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			event := NewBookingEvent(tt.eventType, booking)
			assert.Contains(t, event.Subject(), tt.contains)
			assert.Contains(t, event.Subject(), booking.BookingRef)
		})
	}
}

func TestBookingEvent_JSONRoundTrip(t *testing.T) {
	event := NewBookingEvent(EventBookingCancelled, sampleBooking())
	event.RefundAmount = 120.91

	data, err := event.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "booking.cancelled")
	assert.Contains(t, string(data), event.BookingRef)
}

func TestMockEmailService_RecordsSends(t *testing.T) {
	mock := NewMockEmailService()
	event := NewBookingEvent(EventBookingCompleted, sampleBooking())

	err := mock.SendBookingEmail(context.Background(), event, "jo@example.com", "Jo Smith")
	require.NoError(t, err)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "jo@example.com", mock.Sent[0].To)
	assert.Equal(t, EventBookingCompleted, mock.Sent[0].Type)
}

type flakyEmailService struct {
	failuresLeft int
	sends        int
}

func (f *flakyEmailService) SendBookingEmail(ctx context.Context, event *BookingEvent, toEmail, toName string) error {
	f.sends++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return fmt.Errorf("connection refused")
	}
	return nil
}

func TestEventHandler_SendWithRetryEventuallySucceeds(t *testing.T) {
	flaky := &flakyEmailService{failuresLeft: 2}
	handler := &eventHandler{
		consumer: &kafkaConsumer{
			config:       &ConsumerConfig{MaxRetries: 3, RetryBackoff: time.Millisecond},
			emailService: flaky,
		},
	}

	event := NewBookingEvent(EventBookingCreated, sampleBooking())
	user := &users.User{FirstName: "Jo", LastName: "Smith", Email: "jo@example.com"}

	err := handler.sendWithRetry(context.Background(), event, user)
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.sends)
	assert.Equal(t, 2, event.RetryCount)
}

func TestEventHandler_SendWithRetryGivesUp(t *testing.T) {
	flaky := &flakyEmailService{failuresLeft: 10}
	handler := &eventHandler{
		consumer: &kafkaConsumer{
			config:       &ConsumerConfig{MaxRetries: 2, RetryBackoff: time.Millisecond},
			emailService: flaky,
		},
	}

	event := NewBookingEvent(EventBookingCreated, sampleBooking())
	user := &users.User{FirstName: "Jo", LastName: "Smith", Email: "jo@example.com"}

	err := handler.sendWithRetry(context.Background(), event, user)
	require.Error(t, err)
	assert.Equal(t, 3, flaky.sends)
}
