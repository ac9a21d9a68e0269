package memory

import (
	"context"
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindAddress(ctx context.Context, id int64) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data.addresses[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	return cloneAddress(&a), nil
}

func (s *Store) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Address
	for _, a := range s.data.addresses {
		if a.BelongsTo(customerID) {
			out = append(out, *cloneAddress(&a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *domain.Address) error {
	unlock := s.write(ctx)
	defer unlock()

	s.data.lastAddressID++
	a.ID = s.data.lastAddressID
	s.data.addresses[a.ID] = *cloneAddress(a)
	return nil
}

func (s *Store) UpdateAddress(ctx context.Context, a *domain.Address) error {
	unlock := s.write(ctx)
	defer unlock()

	if _, ok := s.data.addresses[a.ID]; !ok {
		return domain.ErrAddressNotFound
	}
	s.data.addresses[a.ID] = *cloneAddress(a)
	return nil
}

// DeleteAddress also clears the address as its owner's default.
func (s *Store) DeleteAddress(ctx context.Context, id int64) error {
	unlock := s.write(ctx)
	defer unlock()

	a, ok := s.data.addresses[id]
	if !ok {
		return domain.ErrAddressNotFound
	}
	delete(s.data.addresses, id)

	if a.CustomerID != nil {
		if c, ok := s.data.customers[*a.CustomerID]; ok && c.DefaultAddressID != nil && *c.DefaultAddressID == id {
			c.DefaultAddressID = nil
			s.data.customers[c.ID] = c
		}
	}
	return nil
}

func cloneAddress(a *domain.Address) *domain.Address {
	out := *a
	out.CustomerID = clonePtr(a.CustomerID)
	return &out
}
