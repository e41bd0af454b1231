package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"cleangrid/internal/shared/config"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSService texts customers about booking lifecycle changes. SMS is a
// companion channel to email and is always best effort.
type SMSService interface {
	SendBookingSMS(ctx context.Context, event *BookingEvent, toPhone, firstName string) error
}

type TwilioSettings struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func TwilioSettingsFrom(cfg *config.Config) *TwilioSettings {
	return &TwilioSettings{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
	}
}

// IsConfigured reports whether Twilio credentials are present. When
// false, callers should fall back to the mock service.
func (s *TwilioSettings) IsConfigured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

type twilioSMSService struct {
	settings *TwilioSettings
	client   *twilio.RestClient
}

func NewTwilioSMSService(settings *TwilioSettings) (SMSService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("twilio configuration incomplete: account SID, auth token and from number are required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: settings.AccountSID,
		Password: settings.AuthToken,
	})

	return &twilioSMSService{settings: settings, client: client}, nil
}

func (s *twilioSMSService) SendBookingSMS(ctx context.Context, event *BookingEvent, toPhone, firstName string) error {
	body := smsBody(event, firstName)
	if body == "" {
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizePhone(toPhone))
	params.SetFrom(s.settings.FromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS for booking %s: %w", event.BookingRef, err)
	}
	if resp.Sid != nil {
		log.Printf("📱 [Twilio] Sent %s SMS for booking %s, SID %s", event.Type, event.BookingRef, *resp.Sid)
	}
	return nil
}

// normalizePhone coerces a bare North American number into E.164
func normalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	cleaned := strings.NewReplacer("-", "", " ", "", "(", "", ")", "").Replace(phone)
	return "+1" + cleaned
}

// smsBody renders the short-form text for an event. Events without a
// customer-facing SMS return an empty string.
func smsBody(event *BookingEvent, firstName string) string {
	when := event.ScheduledAt.Format("Mon Jan 2 at 3:04 PM")

	switch event.Type {
	case EventBookingCreated:
		return fmt.Sprintf("CleanGrid: Hi %s, your %s cleaning %s is booked for %s. We'll text you when a cleaner is assigned.",
			firstName, event.ServiceLevel, event.BookingRef, when)
	case EventBookingAccepted:
		return fmt.Sprintf("CleanGrid: Hi %s, a cleaner has confirmed your booking %s for %s.",
			firstName, event.BookingRef, when)
	case EventBookingStarted:
		return fmt.Sprintf("CleanGrid: Hi %s, your cleaning %s is underway.", firstName, event.BookingRef)
	case EventBookingCompleted:
		return fmt.Sprintf("CleanGrid: Hi %s, your cleaning %s is complete. Total charged: $%.2f. We'd love a review!",
			firstName, event.BookingRef, event.TotalPrice)
	case EventBookingCancelled:
		return fmt.Sprintf("CleanGrid: Hi %s, booking %s has been cancelled. Refund issued: $%.2f.",
			firstName, event.BookingRef, event.RefundAmount)
	default:
		// Assignment shuffles (assigned/declined) are internal noise to
		// the customer; they only hear about confirmations.
		return ""
	}
}

// MockSMSService records texts instead of sending them.
type MockSMSService struct {
	mu   sync.Mutex
	Sent []MockSMS
}

type MockSMS struct {
	To   string
	Body string
	Type string
}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (m *MockSMSService) SendBookingSMS(ctx context.Context, event *BookingEvent, toPhone, firstName string) error {
	body := smsBody(event, firstName)
	if body == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MockSMS{To: normalizePhone(toPhone), Body: body, Type: event.Type})
	log.Printf("📱 [Mock] SMS to %s: %s", toPhone, body)
	return nil
}
