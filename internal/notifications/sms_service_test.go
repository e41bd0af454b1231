package notifications

import (
	"context"
	"testing"
	"time"

	"cleangrid/internal/users"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSBody_CustomerFacingEvents(t *testing.T) {
	booking := sampleBooking()

	cases := []struct {
		eventType string
		contains  []string
	}{
		{EventBookingCreated, []string{booking.BookingRef, "booked"}},
		{EventBookingAccepted, []string{booking.BookingRef, "confirmed"}},
		{EventBookingStarted, []string{booking.BookingRef, "underway"}},
		{EventBookingCompleted, []string{booking.BookingRef, "complete"}},
		{EventBookingCancelled, []string{booking.BookingRef, "cancelled"}},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			event := NewBookingEvent(tc.eventType, booking)
			body := smsBody(event, "Jo")
			require.NotEmpty(t, body)
			assert.Contains(t, body, "Jo")
			for _, want := range tc.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestSMSBody_InternalEventsAreSilent(t *testing.T) {
	booking := sampleBooking()

	for _, eventType := range []string{EventBookingAssigned, EventBookingDeclined} {
		event := NewBookingEvent(eventType, booking)
		assert.Empty(t, smsBody(event, "Jo"), eventType)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+14165550101":   "+14165550101",
		"416-555-0101":   "+14165550101",
		"(416) 555 0101": "+14165550101",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePhone(in), in)
	}
}

func TestMockSMSService_RecordsNormalizedRecipient(t *testing.T) {
	mock := NewMockSMSService()
	event := NewBookingEvent(EventBookingCreated, sampleBooking())

	require.NoError(t, mock.SendBookingSMS(context.Background(), event, "416-555-0101", "Jo"))
	require.NoError(t, mock.SendBookingSMS(context.Background(), NewBookingEvent(EventBookingAssigned, sampleBooking()), "416-555-0101", "Jo"))

	// Silent events leave no record
	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "+14165550101", mock.Sent[0].To)
	assert.Equal(t, EventBookingCreated, mock.Sent[0].Type)
}

type staticUserDirectory struct {
	user *users.User
}

func (d *staticUserDirectory) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	return d.user, nil
}

func TestProcessMessage_TextsAlongsideEmail(t *testing.T) {
	emails := NewMockEmailService()
	texts := NewMockSMSService()
	handler := &eventHandler{
		consumer: &kafkaConsumer{
			config:       &ConsumerConfig{MaxRetries: 1, RetryBackoff: time.Millisecond},
			emailService: emails,
			smsService:   texts,
			userDirectory: &staticUserDirectory{user: &users.User{
				FirstName: "Jo",
				LastName:  "Smith",
				Email:     "jo@example.com",
				Phone:     "416-555-0101",
			}},
			deadLetter: NoopProducer{},
		},
	}

	event := NewBookingEvent(EventBookingCompleted, sampleBooking())
	payload, err := event.ToJSON()
	require.NoError(t, err)

	err = handler.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload})
	require.NoError(t, err)

	require.Len(t, emails.Sent, 1)
	require.Len(t, texts.Sent, 1)
	assert.Equal(t, EventBookingCompleted, texts.Sent[0].Type)
	assert.Equal(t, "+14165550101", texts.Sent[0].To)
}

func TestProcessMessage_NoPhoneNoText(t *testing.T) {
	emails := NewMockEmailService()
	texts := NewMockSMSService()
	handler := &eventHandler{
		consumer: &kafkaConsumer{
			config:       &ConsumerConfig{MaxRetries: 1, RetryBackoff: time.Millisecond},
			emailService: emails,
			smsService:   texts,
			userDirectory: &staticUserDirectory{user: &users.User{
				FirstName: "Ana",
				LastName:  "Costa",
				Email:     "ana@example.com",
			}},
			deadLetter: NoopProducer{},
		},
	}

	event := NewBookingEvent(EventBookingCreated, sampleBooking())
	payload, err := event.ToJSON()
	require.NoError(t, err)

	require.NoError(t, handler.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload}))
	require.Len(t, emails.Sent, 1)
	assert.Empty(t, texts.Sent)
}
