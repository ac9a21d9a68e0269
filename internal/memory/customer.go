package memory

import (
	"context"
	"strings"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customerByEmail(email); ok {
		return cloneCustomer(&c), nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (s *Store) customerByEmail(email string) (domain.Customer, bool) {
	for _, c := range s.data.customers {
		if strings.EqualFold(c.Email, email) {
			return c, true
		}
	}
	return domain.Customer{}, false
}

func (s *Store) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(&c), nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, taken := s.customerByEmail(c.Email); taken {
		return domain.ErrEmailTaken
	}
	s.data.lastCustomerID++
	c.ID = s.data.lastCustomerID
	s.data.customers[c.ID] = *cloneCustomer(c)
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, ok := s.data.customers[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	if other, taken := s.customerByEmail(c.Email); taken && other.ID != c.ID {
		return domain.ErrEmailTaken
	}
	s.data.customers[c.ID] = *cloneCustomer(c)
	return nil
}

func (s *Store) FindUserByCustomer(ctx context.Context, customerID int64) (*domain.ShopUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.data.users[customerID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(&u), nil
}

func (s *Store) FindUserByVerificationToken(ctx context.Context, token string) (*domain.ShopUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if token == "" {
		return nil, domain.ErrTokenNotFound
	}
	for _, u := range s.data.users {
		if u.VerificationToken == token {
			return cloneUser(&u), nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (s *Store) CreateUser(ctx context.Context, u *domain.ShopUser) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, ok := s.data.customers[u.CustomerID]; !ok {
		return domain.ErrCustomerNotFound
	}
	if _, exists := s.data.users[u.CustomerID]; exists {
		return domain.ErrEmailTaken
	}
	s.data.users[u.CustomerID] = *cloneUser(u)
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.ShopUser) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, ok := s.data.users[u.CustomerID]; !ok {
		return domain.ErrUserNotFound
	}
	s.data.users[u.CustomerID] = *cloneUser(u)
	return nil
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := *c
	out.Birthday = clonePtr(c.Birthday)
	out.DefaultAddressID = clonePtr(c.DefaultAddressID)
	return &out
}

func cloneUser(u *domain.ShopUser) *domain.ShopUser {
	out := *u
	out.VerifiedAt = clonePtr(u.VerifiedAt)
	out.LastLogin = clonePtr(u.LastLogin)
	return &out
}
