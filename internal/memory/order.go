package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dukerupert/shopapi/internal/domain"
)

func (s *Store) FindCartByToken(ctx context.Context, token string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.data.tokens[token]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	o := s.data.orders[id]
	if !o.IsCart() {
		return nil, domain.ErrCartNotFound
	}
	return cloneOrder(&o), nil
}

func (s *Store) FindByToken(ctx context.Context, token string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.data.tokens[token]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o := s.data.orders[id]
	return cloneOrder(&o), nil
}

func (s *Store) FindLatestCart(ctx context.Context, customerID int64, channelCode string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Order
	for _, o := range s.data.orders {
		if !o.IsCart() || o.ChannelCode != channelCode || !o.BelongsTo(customerID) {
			continue
		}
		if latest == nil || o.UpdatedAt.After(latest.UpdatedAt) ||
			(o.UpdatedAt.Equal(latest.UpdatedAt) && o.ID > latest.ID) {
			o := o
			latest = &o
		}
	}
	if latest == nil {
		return nil, domain.ErrCartNotFound
	}
	return cloneOrder(latest), nil
}

func (s *Store) ListPlaced(ctx context.Context, customerID int64) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.data.orders {
		if o.IsCart() || !o.BelongsTo(customerID) {
			continue
		}
		out = append(out, *cloneOrder(&o))
	}
	sort.Slice(out, func(i, j int) bool {
		return completedAt(&out[i]).After(completedAt(&out[j]))
	})
	return out, nil
}

func completedAt(o *domain.Order) time.Time {
	if o.CheckoutCompletedAt != nil {
		return *o.CheckoutCompletedAt
	}
	return o.UpdatedAt
}

func (s *Store) Save(ctx context.Context, o *domain.Order) error {
	unlock := s.write(ctx)
	defer unlock()

	if o.ID == 0 {
		if _, taken := s.data.tokens[o.Token]; taken {
			return domain.Conflict("memory.save_order", fmt.Sprintf("Order with token %s already exists", o.Token))
		}
		s.data.lastOrderID++
		o.ID = s.data.lastOrderID
	} else if _, ok := s.data.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}

	s.data.orders[o.ID] = *cloneOrder(o)
	s.data.tokens[o.Token] = o.ID
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	unlock := s.write(ctx)
	defer unlock()

	o, ok := s.data.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.data.orders, id)
	delete(s.data.tokens, o.Token)
	return nil
}

func (s *Store) NextNumber(ctx context.Context) (string, error) {
	unlock := s.write(ctx)
	defer unlock()

	s.data.lastNumber++
	return fmt.Sprintf("%09d", s.data.lastNumber), nil
}

func (s *Store) DeleteCartsUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	unlock := s.write(ctx)
	defer unlock()

	var n int64
	for id, o := range s.data.orders {
		if o.IsCart() && o.UpdatedAt.Before(before) {
			delete(s.data.orders, id)
			delete(s.data.tokens, o.Token)
			n++
		}
	}
	return n, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	out.CustomerID = clonePtr(o.CustomerID)
	out.Items = append([]domain.OrderItem(nil), o.Items...)
	out.Adjustments = append([]domain.Adjustment(nil), o.Adjustments...)
	out.Shipments = append([]domain.Shipment(nil), o.Shipments...)
	out.Payments = append([]domain.Payment(nil), o.Payments...)
	if o.ShippingAddress != nil {
		out.ShippingAddress = o.ShippingAddress.Copy()
	}
	if o.BillingAddress != nil {
		out.BillingAddress = o.BillingAddress.Copy()
	}
	out.CheckoutCompletedAt = clonePtr(o.CheckoutCompletedAt)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
