package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopapi/internal/events"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service handles email composition and sending. It reacts to the domain
// events of the shop as an events.Publisher.
type Service struct {
	sender        Sender
	fromAddress   string
	fromName      string
	verifyURL     string
	templateCache *template.Template
	logger        zerolog.Logger
}

// Config groups the Service settings.
type Config struct {
	FromAddress string
	FromName    string
	VerifyURL   string
}

// NewService creates a new email service
func NewService(sender Sender, cfg Config, logger zerolog.Logger) (*Service, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Service{
		sender:        sender,
		fromAddress:   cfg.FromAddress,
		fromName:      cfg.FromName,
		verifyURL:     cfg.VerifyURL,
		templateCache: tmpl,
		logger:        logger,
	}, nil
}

// Publish implements events.Publisher. Events without an email are ignored.
func (s *Service) Publish(ctx context.Context, e events.Event) error {
	switch e := e.(type) {
	case events.CustomerRegistered:
		if e.VerificationToken == "" {
			return nil
		}
		return s.SendVerification(ctx, VerificationEmail{
			Email:     e.Email,
			Token:     e.VerificationToken,
			VerifyURL: s.verifyURL,
		})
	case events.OrderCompleted:
		if e.CustomerEmail == "" {
			return nil
		}
		return s.SendOrderConfirmation(ctx, OrderConfirmationEmail{
			Email:       e.CustomerEmail,
			OrderNumber: e.Number,
			Total:       e.Total,
			Currency:    e.Currency,
			CompletedAt: e.CompletedAt,
		})
	}
	return nil
}

// SendVerification sends the account verification email
func (s *Service) SendVerification(ctx context.Context, data VerificationEmail) error {
	if err := s.send(ctx, data.Email, data); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	if err := s.send(ctx, data.Email, data); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to string, data Template) error {
	htmlBody, textBody, err := s.renderTemplate(data.TemplateName(), data)
	if err != nil {
		return err
	}

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	id, err := s.sender.Send(ctx, &Email{
		To:       []string{to},
		From:     from,
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return err
	}

	s.logger.Debug().Str("template", data.TemplateName()).Str("message_id", id).Msg("email sent")
	return nil
}

// Helper method to render a template
func (s *Service) renderTemplate(templateName string, data any) (string, string, error) {
	var htmlBuf bytes.Buffer
	if err := s.templateCache.ExecuteTemplate(&htmlBuf, templateName, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</h2>", "\n\n")
	text = strings.ReplaceAll(text, "</h3>", "\n\n")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
