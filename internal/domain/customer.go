package domain

import (
	"context"
	"time"
)

// =============================================================================
// CUSTOMER DOMAIN ERRORS
// =============================================================================

var (
	ErrCustomerNotFound = &Error{Code: ENOTFOUND, Message: "Customer not found"}
	ErrUserNotFound     = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrAddressNotFound  = &Error{Code: ENOTFOUND, Message: "Address not found"}
	ErrEmailTaken       = &Error{Code: ECONFLICT, Message: "Email is already used"}
	ErrInvalidLogin     = &Error{Code: EUNAUTHORIZED, Message: "Invalid credentials."}
	ErrUserDisabled     = &Error{Code: EUNAUTHORIZED, Message: "Account is disabled."}
	ErrTokenNotFound    = &Error{Code: ENOTFOUND, Message: "Verification token not found"}
)

// Genders accepted on the customer profile.
const (
	GenderUnknown = "u"
	GenderMale    = "m"
	GenderFemale  = "f"
)

// Customer is a person placing orders. A guest customer has no ShopUser.
type Customer struct {
	ID                     int64      `json:"id"`
	Email                  string     `json:"email"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	Birthday               *time.Time `json:"birthday,omitempty"`
	Gender                 string     `json:"gender"`
	PhoneNumber            string     `json:"phoneNumber"`
	SubscribedToNewsletter bool       `json:"subscribedToNewsletter"`
	GroupCode              string     `json:"group,omitempty"`
	DefaultAddressID       *int64     `json:"defaultAddressId,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ShopUser is the account of a registered customer.
type ShopUser struct {
	CustomerID        int64      `json:"customerId"`
	PasswordHash      string     `json:"-"`
	Enabled           bool       `json:"enabled"`
	VerificationToken string     `json:"-"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
}

// Enable activates the account and clears the verification token.
func (u *ShopUser) Enable(now time.Time) {
	u.Enabled = true
	u.VerificationToken = ""
	if u.VerifiedAt == nil {
		u.VerifiedAt = &now
	}
}

// CustomerRepository persists customers and their accounts.
type CustomerRepository interface {
	// FindCustomerByEmail returns ErrCustomerNotFound when no customer uses email.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// FindCustomer returns ErrCustomerNotFound when id is unknown.
	FindCustomer(ctx context.Context, id int64) (*Customer, error)

	// CreateCustomer stores c and sets its ID.
	CreateCustomer(ctx context.Context, c *Customer) error

	UpdateCustomer(ctx context.Context, c *Customer) error

	// FindUserByCustomer returns ErrUserNotFound for guest customers.
	FindUserByCustomer(ctx context.Context, customerID int64) (*ShopUser, error)

	// FindUserByVerificationToken returns ErrTokenNotFound when no user
	// carries the token.
	FindUserByVerificationToken(ctx context.Context, token string) (*ShopUser, error)

	CreateUser(ctx context.Context, u *ShopUser) error
	UpdateUser(ctx context.Context, u *ShopUser) error
}
