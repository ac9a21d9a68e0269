package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/shopapi/internal/domain"
)

const addressColumns = `id, customer_id, first_name, last_name, company, street, city, postcode,
	country_code, province_code, province_name, phone_number`

func scanAddress(row pgx.Row) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.FirstName, &a.LastName, &a.Company, &a.Street, &a.City,
		&a.Postcode, &a.CountryCode, &a.ProvinceCode, &a.ProvinceName, &a.PhoneNumber)
	return a, err
}

func (s *Store) FindAddress(ctx context.Context, id int64) (*domain.Address, error) {
	a, err := scanAddress(s.db(ctx).QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrAddressNotFound)
	}
	return &a, nil
}

func (s *Store) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Address, error) {
	rows, err := s.db(ctx).Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	addresses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Address, error) {
		return scanAddress(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan addresses: %w", err)
	}
	return addresses, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *domain.Address) error {
	err := s.db(ctx).QueryRow(ctx,
		`INSERT INTO addresses (customer_id, first_name, last_name, company, street, city, postcode,
			country_code, province_code, province_name, phone_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		a.CustomerID, a.FirstName, a.LastName, a.Company, a.Street, a.City, a.Postcode,
		a.CountryCode, a.ProvinceCode, a.ProvinceName, a.PhoneNumber,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (s *Store) UpdateAddress(ctx context.Context, a *domain.Address) error {
	tag, err := s.db(ctx).Exec(ctx,
		`UPDATE addresses SET customer_id = $2, first_name = $3, last_name = $4, company = $5, street = $6,
			city = $7, postcode = $8, country_code = $9, province_code = $10, province_name = $11,
			phone_number = $12
		 WHERE id = $1`,
		a.ID, a.CustomerID, a.FirstName, a.LastName, a.Company, a.Street,
		a.City, a.Postcode, a.CountryCode, a.ProvinceCode, a.ProvinceName, a.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}

// DeleteAddress relies on the foreign key to clear the owner's default.
func (s *Store) DeleteAddress(ctx context.Context, id int64) error {
	tag, err := s.db(ctx).Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}
