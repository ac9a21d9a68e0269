package service

import (
	"context"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
)

// CreateAddress adds an entry to a customer's address book.
func (s *Shop) CreateAddress(ctx context.Context, cmd command.CreateAddress) error {
	customer, err := s.customers.FindCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return err
	}

	address, err := s.orderAddress(ctx, cmd.Address)
	if err != nil {
		return err
	}
	address.CustomerID = &customer.ID

	if err := s.addresses.CreateAddress(ctx, address); err != nil {
		return err
	}
	if cmd.CreatedID != nil {
		*cmd.CreatedID = address.ID
	}
	return nil
}

// UpdateAddress replaces an entry of the customer's address book.
func (s *Shop) UpdateAddress(ctx context.Context, cmd command.UpdateAddress) error {
	customer, existing, err := s.ownAddress(ctx, cmd.CustomerID, cmd.AddressID)
	if err != nil {
		return err
	}

	address, err := s.orderAddress(ctx, cmd.Address)
	if err != nil {
		return err
	}
	address.ID = existing.ID
	address.CustomerID = &customer.ID

	return s.addresses.UpdateAddress(ctx, address)
}

// RemoveAddress deletes an entry of the customer's address book.
func (s *Shop) RemoveAddress(ctx context.Context, cmd command.RemoveAddress) error {
	_, address, err := s.ownAddress(ctx, cmd.CustomerID, cmd.AddressID)
	if err != nil {
		return err
	}
	return s.addresses.DeleteAddress(ctx, address.ID)
}

// SetDefaultAddress marks an entry of the address book as default.
func (s *Shop) SetDefaultAddress(ctx context.Context, cmd command.SetDefaultAddress) error {
	customer, address, err := s.ownAddress(ctx, cmd.CustomerID, cmd.AddressID)
	if err != nil {
		return err
	}

	customer.DefaultAddressID = &address.ID
	customer.UpdatedAt = s.now()
	return s.customers.UpdateCustomer(ctx, customer)
}

// ownAddress loads an address of the customer. Addresses of other customers
// are reported as not found.
func (s *Shop) ownAddress(ctx context.Context, customerID, id int64) (*domain.Customer, *domain.Address, error) {
	customer, err := s.customers.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	address, err := s.addresses.FindAddress(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !address.BelongsTo(customer.ID) {
		return nil, nil, domain.ErrAddressNotFound
	}
	return customer, address, nil
}
