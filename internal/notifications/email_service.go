package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"sync"
	"time"

	"cleangrid/internal/shared/config"
)

// EmailService sends booking lifecycle emails to customers.
type EmailService interface {
	SendBookingEmail(ctx context.Context, event *BookingEvent, toEmail, toName string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func SMTPConfigFrom(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  "CleanGrid",
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// IsConfigured reports whether enough SMTP settings are present to send
// real mail. When false, callers should fall back to the mock service.
func (c *SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.FromEmail != ""
}

type smtpEmailService struct {
	config *SMTPConfig
	tmpl   *template.Template
}

func NewSMTPEmailService(config *SMTPConfig) (EmailService, error) {
	if !config.IsConfigured() {
		return nil, fmt.Errorf("SMTP configuration incomplete: host, username, password and from email are required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("SMTP port must be between 1 and 65535")
	}

	tmpl, err := template.New("booking_email").Parse(bookingEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking email template: %w", err)
	}

	return &smtpEmailService{config: config, tmpl: tmpl}, nil
}

func (s *smtpEmailService) SendBookingEmail(ctx context.Context, event *BookingEvent, toEmail, toName string) error {
	log.Printf("📧 [SMTP] Sending %s email to %s (%s)", event.Type, toEmail, toName)

	var body bytes.Buffer
	data := map[string]interface{}{
		"Name":         toName,
		"BookingRef":   event.BookingRef,
		"ServiceLevel": event.ServiceLevel,
		"ScheduledAt":  event.ScheduledAt.Format("Monday, January 2 2006 at 3:04 PM"),
		"TotalPrice":   fmt.Sprintf("%.2f", event.TotalPrice),
		"RefundAmount": fmt.Sprintf("%.2f", event.RefundAmount),
		"Status":       event.Status,
		"IsCancelled":  event.Type == EventBookingCancelled,
	}
	if err := s.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render booking email: %w", err)
	}

	message := s.buildMessage(toEmail, event.Subject(), body.String())
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, toEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 [SMTP] Email sent to %s", toEmail)
	return nil
}

func (s *smtpEmailService) buildMessage(to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

// sendWithSTARTTLS upgrades a plain connection to TLS before authenticating.
func (s *smtpEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		ServerName: s.config.Host,
	}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

const bookingEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi {{.Name}},</h2>
  <p>Here is an update on your cleaning booking <strong>{{.BookingRef}}</strong>.</p>
  <table cellpadding="6">
    <tr><td><strong>Service</strong></td><td>{{.ServiceLevel}}</td></tr>
    <tr><td><strong>Scheduled for</strong></td><td>{{.ScheduledAt}}</td></tr>
    <tr><td><strong>Status</strong></td><td>{{.Status}}</td></tr>
    <tr><td><strong>Total</strong></td><td>${{.TotalPrice}}</td></tr>
    {{if .IsCancelled}}<tr><td><strong>Refund</strong></td><td>${{.RefundAmount}}</td></tr>{{end}}
  </table>
  <p>Thanks for choosing CleanGrid.</p>
</body>
</html>`

// MockEmailService records sent emails in memory. Used in development when
// SMTP is not configured and in tests.
type MockEmailService struct {
	mu   sync.Mutex
	Sent []MockEmail
}

type MockEmail struct {
	To      string
	Subject string
	Type    string
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) SendBookingEmail(ctx context.Context, event *BookingEvent, toEmail, toName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MockEmail{To: toEmail, Subject: event.Subject(), Type: event.Type})
	log.Printf("📧 [MOCK] Would send %s email to %s (%s)", event.Type, toEmail, toName)
	return nil
}
