package email

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Template is the data of one kind of email.
type Template interface {
	Subject() string
	TemplateName() string
}

// VerificationEmail asks a new customer to confirm their address.
type VerificationEmail struct {
	Email     string
	Token     string
	VerifyURL string // storefront page, the token is appended as ?token=
}

func (e VerificationEmail) Subject() string {
	return "Verify your email address"
}

func (e VerificationEmail) TemplateName() string {
	return "verification"
}

// Link is VerifyURL carrying the token.
func (e VerificationEmail) Link() string {
	u, err := url.Parse(e.VerifyURL)
	if err != nil {
		return e.VerifyURL
	}
	q := u.Query()
	q.Set("token", e.Token)
	u.RawQuery = q.Encode()
	return u.String()
}

// OrderConfirmationEmail confirms a completed checkout.
type OrderConfirmationEmail struct {
	Email       string
	OrderNumber string
	Total       int64 // minor units
	Currency    string
	CompletedAt time.Time
}

func (e OrderConfirmationEmail) Subject() string {
	return "Your order #" + e.OrderNumber + " has been placed"
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation"
}

// FormattedTotal renders the total with two decimals, e.g. "19.99 GBP".
func (e OrderConfirmationEmail) FormattedTotal() string {
	return decimal.New(e.Total, -2).StringFixed(2) + " " + e.Currency
}
