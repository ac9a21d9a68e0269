package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/shopapi/internal/domain"
)

const customerColumns = `id, email, first_name, last_name, birthday, gender, phone_number,
	subscribed_to_newsletter, group_code, default_address_id, created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Birthday, &c.Gender, &c.PhoneNumber,
		&c.SubscribedToNewsletter, &c.GroupCode, &c.DefaultAddressID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}
	return &c, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return scanCustomer(s.db(ctx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE LOWER(email) = LOWER($1)`, email))
}

func (s *Store) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return scanCustomer(s.db(ctx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	err := s.db(ctx).QueryRow(ctx,
		`INSERT INTO customers (email, first_name, last_name, birthday, gender, phone_number,
			subscribed_to_newsletter, group_code, default_address_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		c.Email, c.FirstName, c.LastName, c.Birthday, c.Gender, c.PhoneNumber,
		c.SubscribedToNewsletter, c.GroupCode, c.DefaultAddressID, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	tag, err := s.db(ctx).Exec(ctx,
		`UPDATE customers SET email = $2, first_name = $3, last_name = $4, birthday = $5, gender = $6,
			phone_number = $7, subscribed_to_newsletter = $8, group_code = $9, default_address_id = $10,
			updated_at = $11
		 WHERE id = $1`,
		c.ID, c.Email, c.FirstName, c.LastName, c.Birthday, c.Gender,
		c.PhoneNumber, c.SubscribedToNewsletter, c.GroupCode, c.DefaultAddressID, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

const userColumns = `customer_id, password_hash, enabled, COALESCE(verification_token, ''), verified_at, last_login`

func scanUser(row pgx.Row, missing error) (*domain.ShopUser, error) {
	var u domain.ShopUser
	err := row.Scan(&u.CustomerID, &u.PasswordHash, &u.Enabled, &u.VerificationToken, &u.VerifiedAt, &u.LastLogin)
	if err != nil {
		return nil, notFound(err, missing)
	}
	return &u, nil
}

func (s *Store) FindUserByCustomer(ctx context.Context, customerID int64) (*domain.ShopUser, error) {
	return scanUser(s.db(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM shop_users WHERE customer_id = $1`, customerID), domain.ErrUserNotFound)
}

func (s *Store) FindUserByVerificationToken(ctx context.Context, token string) (*domain.ShopUser, error) {
	if token == "" {
		return nil, domain.ErrTokenNotFound
	}
	return scanUser(s.db(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM shop_users WHERE verification_token = $1`, token), domain.ErrTokenNotFound)
}

func (s *Store) CreateUser(ctx context.Context, u *domain.ShopUser) error {
	_, err := s.db(ctx).Exec(ctx,
		`INSERT INTO shop_users (customer_id, password_hash, enabled, verification_token, verified_at, last_login)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.CustomerID, u.PasswordHash, u.Enabled, nullIfEmpty(u.VerificationToken), u.VerifiedAt, u.LastLogin,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.ShopUser) error {
	tag, err := s.db(ctx).Exec(ctx,
		`UPDATE shop_users SET password_hash = $2, enabled = $3, verification_token = $4,
			verified_at = $5, last_login = $6
		 WHERE customer_id = $1`,
		u.CustomerID, u.PasswordHash, u.Enabled, nullIfEmpty(u.VerificationToken), u.VerifiedAt, u.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
