// Package email renders and sends the customer emails of the shop.
package email

import "context"

// Email represents an email message to be sent.
type Email struct {
	To       []string          // Recipient email addresses
	From     string            // Sender, "Name <address>" or a bare address
	Subject  string
	TextBody string
	HTMLBody string            // optional
	Headers  map[string]string // optional
}

// Sender defines the interface for sending emails.
type Sender interface {
	// Send sends an email message and returns the provider's message ID, if
	// there is one.
	Send(ctx context.Context, email *Email) (string, error)
}
