package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Payload is the event content handed to a sender. Delivery mechanics
// (templating, batching, provider retries) are the sender's concern.
type Payload struct {
	Event           string `json:"event"`
	ComplaintNumber string `json:"complaint_number"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
}

// Sender delivers a notification to a recipient. Implementations are
// fallible external collaborators; callers queue or retry, never the engine.
type Sender interface {
	Notify(ctx context.Context, recipient string, payload Payload) error
}

// ErrInvalidRecipient is returned when a sender is given an empty recipient.
var ErrInvalidRecipient = errors.New("invalid recipient")

// getShadowAddress returns the only allowed recipient when EMAIL_MODE=shadow.
// All mail goes here.
func getShadowAddress() string {
	if os.Getenv("EMAIL_MODE") != "shadow" {
		return ""
	}
	addr := os.Getenv("EMAIL_SHADOW_ADDRESS")
	if addr == "" {
		addr = "grievance-shadow@hrm-sub.local"
	}
	return addr
}

// EmailSender sends email through the configured mail API. If
// EMAIL_MODE=shadow, the recipient is forced to EMAIL_SHADOW_ADDRESS.
// Without MAIL_API_KEY it is a no-op (local runs without real send).
type EmailSender struct {
	apiKey     string
	apiURL     string
	shadowAddr string
}

// NewEmailSender creates an email sender (reads EMAIL_MODE,
// EMAIL_SHADOW_ADDRESS, MAIL_API_KEY, MAIL_API_URL from env).
func NewEmailSender() *EmailSender {
	apiURL := os.Getenv("MAIL_API_URL")
	if apiURL == "" {
		apiURL = "https://api.sendgrid.com/v3/mail/send"
	}
	return &EmailSender{
		apiKey:     os.Getenv("MAIL_API_KEY"),
		apiURL:     apiURL,
		shadowAddr: getShadowAddress(),
	}
}

const maxMailRetries = 3

// Notify sends one email. In shadow mode the recipient is overridden.
func (s *EmailSender) Notify(ctx context.Context, recipient string, payload Payload) error {
	if s.shadowAddr != "" {
		recipient = s.shadowAddr
	}
	if recipient == "" {
		return ErrInvalidRecipient
	}
	if s.apiKey == "" {
		return nil
	}
	return s.sendViaAPI(ctx, recipient, payload)
}

func (s *EmailSender) sendViaAPI(ctx context.Context, recipient string, payload Payload) error {
	fromEmail := os.Getenv("MAIL_FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = "noreply@hrm-sub.local"
	}
	fromName := os.Getenv("MAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Grievance Desk"
	}
	body := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]interface{}{{"email": recipient}}},
		},
		"from":    map[string]string{"email": fromEmail, "name": fromName},
		"subject": payload.Subject,
		"content": []map[string]string{{"type": "text/plain", "value": payload.Body}},
	}
	raw, _ := json.Marshal(body)

	var lastErr error
	for attempt := 0; attempt < maxMailRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(raw))
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("mail api status %d", resp.StatusCode)
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	return lastErr
}

// SMSSender delivers over an SMS gateway. Mock implementation; a production
// deployment plugs the gateway client in here.
type SMSSender struct{}

// NewSMSSender creates a new SMS sender
func NewSMSSender() *SMSSender {
	return &SMSSender{}
}

// Notify sends an SMS notification (mock implementation).
func (s *SMSSender) Notify(ctx context.Context, recipient string, payload Payload) error {
	if recipient == "" {
		return ErrInvalidRecipient
	}
	return nil
}
