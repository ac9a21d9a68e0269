package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string // optional
	Timeout  time.Duration
}

// SMTPSender implements Sender using go-mail.
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates an SMTP sender. Timeout defaults to 30 seconds.
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPSender{config: config, logger: logger}
}

// Send sends an email via SMTP.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(email.Subject)

	// Prefer HTML with a text fallback.
	switch {
	case email.HTMLBody != "" && email.TextBody != "":
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	}

	for key, value := range email.Headers {
		msg.SetGenHeader(mail.Header(key), value)
	}

	client, err := mail.NewClient(s.config.Host, s.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error().Err(err).Strs("to", email.To).Str("host", s.config.Host).Msg("smtp: failed to send email")
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug().Strs("to", email.To).Str("subject", email.Subject).Msg("smtp: email sent")

	// SMTP doesn't hand back a message ID reliably.
	return fmt.Sprintf("smtp-%d-%d", time.Now().UnixNano(), len(email.To)), nil
}

// clientOptions picks the TLS mode from the port.
func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(s.config.Timeout),
	}

	switch s.config.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// 25, or 1025 for a local catcher.
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if s.config.Username != "" && s.config.Password != "" {
		opts = append(opts,
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}
	return opts
}

// LogSender writes emails to the logger instead of sending them.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, email *Email) (string, error) {
	s.logger.Info().
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.TextBody).
		Msg("email not sent, log driver")
	return "", nil
}
