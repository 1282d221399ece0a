package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient addresses
	From    string   // Sender address, e.g. "SIG Website <noreply@example.org>"; empty uses the sender default
	Subject string
	HTML    string
	Text    string // Plain-text alternative
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers operator notifications.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
