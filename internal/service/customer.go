package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
)

// RegisterCustomer creates a customer with an account. A guest customer with
// the same email is upgraded.
func (s *Shop) RegisterCustomer(ctx context.Context, cmd command.RegisterCustomer) error {
	if _, err := s.channels.FindChannel(ctx, cmd.ChannelCode); err != nil {
		return err
	}

	hash, err := s.hashPassword(cmd.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return domain.NewValidationError("customer.register", "plainPassword", "Password must be at least 8 characters long.")
	}
	if err != nil {
		return err
	}

	now := s.now()
	customer, err := s.customers.FindCustomerByEmail(ctx, cmd.Email)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		customer = &domain.Customer{Email: cmd.Email, Gender: domain.GenderUnknown, CreatedAt: now}
	case err != nil:
		return fmt.Errorf("failed to find customer: %w", err)
	default:
		if _, err := s.customers.FindUserByCustomer(ctx, customer.ID); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("failed to find user: %w", err)
		}
	}

	customer.FirstName = cmd.FirstName
	customer.LastName = cmd.LastName
	customer.PhoneNumber = cmd.PhoneNumber
	customer.UpdatedAt = now

	if customer.ID == 0 {
		err = s.customers.CreateCustomer(ctx, customer)
	} else {
		err = s.customers.UpdateCustomer(ctx, customer)
	}
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}

	user := &domain.ShopUser{CustomerID: customer.ID, PasswordHash: hash, Enabled: true}
	if s.verificationRequired {
		user.Enabled = false
		user.VerificationToken = s.newToken()
	}
	if err := s.customers.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	events.Record(ctx, events.CustomerRegistered{
		Email:             customer.Email,
		ChannelCode:       cmd.ChannelCode,
		VerificationToken: user.VerificationToken,
	})
	if s.metrics != nil {
		s.metrics.Signups.WithLabelValues(cmd.ChannelCode).Inc()
	}
	return nil
}

// VerifyAccount enables the account holding the verification token.
func (s *Shop) VerifyAccount(ctx context.Context, cmd command.VerifyAccount) error {
	user, err := s.customers.FindUserByVerificationToken(ctx, cmd.Token)
	if err != nil {
		return err
	}
	customer, err := s.customers.FindCustomer(ctx, user.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to find customer: %w", err)
	}
	return s.enable(ctx, customer, user)
}

// EnableCustomer enables the account of a customer.
func (s *Shop) EnableCustomer(ctx context.Context, cmd command.EnableCustomer) error {
	customer, err := s.customers.FindCustomerByEmail(ctx, cmd.Email)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	user, err := s.customers.FindUserByCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}
	return s.enable(ctx, customer, user)
}

func (s *Shop) enable(ctx context.Context, customer *domain.Customer, user *domain.ShopUser) error {
	user.Enable(s.now())
	if err := s.customers.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	events.Record(ctx, events.CustomerEnabled{Email: customer.Email})
	if s.metrics != nil {
		s.metrics.EmailVerified.Inc()
	}
	return nil
}

// UpdateCustomer replaces the profile of the logged in customer.
func (s *Shop) UpdateCustomer(ctx context.Context, cmd command.UpdateCustomer) error {
	customer, err := s.customers.FindCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return err
	}

	customer.FirstName = cmd.FirstName
	customer.LastName = cmd.LastName
	customer.Email = cmd.Email
	customer.Birthday = cmd.Birthday
	customer.Gender = cmd.Gender
	if customer.Gender == "" {
		customer.Gender = domain.GenderUnknown
	}
	customer.PhoneNumber = cmd.PhoneNumber
	customer.SubscribedToNewsletter = cmd.SubscribedToNewsletter
	customer.UpdatedAt = s.now()

	return s.customers.UpdateCustomer(ctx, customer)
}

// Login checks the credentials of an enabled account and records the login.
func (s *Shop) Login(ctx context.Context, email, password string) (*domain.Customer, error) {
	customer, user, err := s.findAccount(ctx, email)
	if err == nil {
		err = auth.VerifyPassword(password, user.PasswordHash)
	}

	switch {
	case err == nil && !user.Enabled:
		err = domain.ErrUserDisabled
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, auth.ErrPasswordMismatch):
		err = domain.ErrInvalidLogin
	}
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.Logins.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.customers.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return customer, nil
}

func (s *Shop) findAccount(ctx context.Context, email string) (*domain.Customer, *domain.ShopUser, error) {
	customer, err := s.customers.FindCustomerByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, nil, err
	}
	user, err := s.customers.FindUserByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, nil, err
	}
	return customer, user, nil
}

func (s *Shop) hashPassword(password string) (string, error) {
	if s.passwordCost == 0 {
		return auth.HashPassword(password)
	}
	return auth.HashPasswordWithCost(password, s.passwordCost)
}
