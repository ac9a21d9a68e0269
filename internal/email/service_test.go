package email

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/events"
)

func TestGeneratePlainText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		contains []string
		excludes []string
	}{
		{
			name:     "simple paragraph",
			html:     "<p>Hello, World!</p>",
			contains: []string{"Hello, World!"},
			excludes: []string{"<p>", "</p>"},
		},
		{
			name:     "line breaks",
			html:     "Line 1<br>Line 2<br/>Line 3<br />Line 4",
			contains: []string{"Line 1", "Line 2", "Line 3", "Line 4"},
			excludes: []string{"<br>", "<br/>", "<br />"},
		},
		{
			name:     "headings",
			html:     "<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>",
			contains: []string{"Title", "Subtitle", "Section"},
			excludes: []string{"<h1>", "</h1>", "<h2>", "</h2>", "<h3>", "</h3>"},
		},
		{
			name:     "nested tags",
			html:     "<div><p><strong>Bold text</strong> and <em>italic</em></p></div>",
			contains: []string{"Bold text", "and", "italic"},
			excludes: []string{"<div>", "<p>", "<strong>", "<em>"},
		},
		{
			name:     "HTML entities",
			html:     "Price: $10 &amp; shipping &nbsp; included &lt;$5&gt; &quot;free&quot;",
			contains: []string{"Price: $10 & shipping", "included <$5>", "\"free\""},
			excludes: []string{"&amp;", "&nbsp;", "&lt;", "&gt;", "&quot;"},
		},
		{
			name:     "links stripped",
			html:     `<a href="https://example.com">Click here</a>`,
			contains: []string{"Click here"},
			excludes: []string{"<a", "href", "</a>"},
		},
		{
			name:     "empty content",
			html:     "",
			contains: []string{},
			excludes: []string{},
		},
		{
			name: "email template structure",
			html: `
				<div class="email-content">
					<h2>Welcome!</h2>
					<p>Thank you for signing up.</p>
					<p>Click <a href="https://example.com/verify">here</a> to verify.</p>
				</div>
			`,
			contains: []string{"Welcome!", "Thank you for signing up", "here", "to verify"},
			excludes: []string{"<div", "<h2>", "<p>", "<a href"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := generatePlainText(tt.html)

			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("generatePlainText() result should contain %q, got: %q", want, result)
				}
			}

			for _, exclude := range tt.excludes {
				if strings.Contains(result, exclude) {
					t.Errorf("generatePlainText() result should not contain %q, got: %q", exclude, result)
				}
			}
		})
	}
}

func TestGeneratePlainText_WhitespaceHandling(t *testing.T) {
	html := `
		<p>   Line with spaces   </p>
		<p></p>
		<p>Another line</p>
	`

	result := generatePlainText(html)

	// Should not have empty lines (they get filtered)
	lines := strings.Split(result, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" && line != "" {
			t.Error("generatePlainText() should not have blank lines with only whitespace")
		}
	}

	// Should contain the actual content
	if !strings.Contains(result, "Line with spaces") {
		t.Error("generatePlainText() should contain trimmed content")
	}
	if !strings.Contains(result, "Another line") {
		t.Error("generatePlainText() should contain 'Another line'")
	}
}

type recordingSender struct {
	sent []*Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, e *Email) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, e)
	return "msg-1", nil
}

func newTestService(t *testing.T, sender Sender) *Service {
	t.Helper()
	svc, err := NewService(sender, Config{
		FromAddress: "shop@example.com",
		FromName:    "Shop",
		VerifyURL:   "https://shop.example.com/verify",
	}, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestService_Publish(t *testing.T) {
	completedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		event       events.Event
		wantSubject string
		wantTo      string
		wantText    []string
	}{
		{
			name:        "registration with token",
			event:       events.CustomerRegistered{Email: "vinny@example.com", ChannelCode: "WEB_GB", VerificationToken: "tok123"},
			wantSubject: "Verify your email address",
			wantTo:      "vinny@example.com",
			wantText:    []string{"Welcome!", "https://shop.example.com/verify?token=tok123", "Verification token: tok123"},
		},
		{
			name: "completed order",
			event: events.OrderCompleted{
				Token: "CART", Number: "000000001", CustomerEmail: "oliver@queen.com",
				Total: 2499, Currency: "GBP", CompletedAt: completedAt,
			},
			wantSubject: "Your order #000000001 has been placed",
			wantTo:      "oliver@queen.com",
			wantText:    []string{"Order number: #000000001", "Placed on 1 May 2024", "Total: 24.99 GBP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			svc := newTestService(t, sender)

			require.NoError(t, svc.Publish(context.Background(), tt.event))

			require.Len(t, sender.sent, 1)
			sent := sender.sent[0]
			assert.Equal(t, []string{tt.wantTo}, sent.To)
			assert.Equal(t, "Shop <shop@example.com>", sent.From)
			assert.Equal(t, tt.wantSubject, sent.Subject)
			assert.Contains(t, sent.HTMLBody, "<html>")
			for _, want := range tt.wantText {
				assert.Contains(t, sent.TextBody, want)
			}
		})
	}
}

func TestService_Publish_Ignored(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(t, sender)
	ctx := context.Background()

	require.NoError(t, svc.Publish(ctx, events.CustomerRegistered{Email: "vinny@example.com"}))
	require.NoError(t, svc.Publish(ctx, events.CartPickedUp{Token: "CART", ChannelCode: "WEB_GB"}))
	require.NoError(t, svc.Publish(ctx, events.CustomerEnabled{Email: "vinny@example.com"}))

	assert.Empty(t, sender.sent)
}

func TestService_Publish_SenderFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(t, &recordingSender{err: boom})

	err := svc.Publish(context.Background(), events.CustomerRegistered{Email: "vinny@example.com", VerificationToken: "tok"})

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "verification email")
}

func TestLogSender(t *testing.T) {
	var logs bytes.Buffer

	id, err := NewLogSender(zerolog.New(&logs)).Send(context.Background(), &Email{
		To:       []string{"vinny@example.com"},
		Subject:  "Hello",
		TextBody: "Body",
	})

	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Contains(t, logs.String(), `"subject":"Hello"`)
}
