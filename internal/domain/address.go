package domain

import "context"

// Address is a postal address. Address book entries carry the owning
// customer; order addresses are copies without one.
type Address struct {
	ID           int64  `json:"id,omitempty"`
	CustomerID   *int64 `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company,omitempty"`
	Street       string `json:"street"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	CountryCode  string `json:"countryCode"`
	ProvinceCode string `json:"provinceCode,omitempty"`
	ProvinceName string `json:"provinceName,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// BelongsTo reports whether the address is in customerID's address book.
func (a *Address) BelongsTo(customerID int64) bool {
	return a.CustomerID != nil && *a.CustomerID == customerID
}

// Copy returns a detached copy usable as an order address.
func (a Address) Copy() *Address {
	a.ID = 0
	a.CustomerID = nil
	return &a
}

// AddressRepository persists address book entries.
type AddressRepository interface {
	// FindAddress returns ErrAddressNotFound when id is unknown.
	FindAddress(ctx context.Context, id int64) (*Address, error)

	// ListByCustomer returns the address book of a customer ordered by ID.
	ListByCustomer(ctx context.Context, customerID int64) ([]Address, error)

	// CreateAddress stores a and sets its ID.
	CreateAddress(ctx context.Context, a *Address) error

	UpdateAddress(ctx context.Context, a *Address) error
	DeleteAddress(ctx context.Context, id int64) error
}
