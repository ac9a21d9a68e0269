package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/shopapi/internal/domain"
)

func scanOrder(row pgx.Row, missing error) (*domain.Order, error) {
	var (
		id   int64
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		return nil, notFound(err, missing)
	}
	var o domain.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to decode order %d: %w", id, err)
	}
	o.ID = id
	return &o, nil
}

// FindCartByToken locks the cart row inside a transaction.
func (s *Store) FindCartByToken(ctx context.Context, token string) (*domain.Order, error) {
	return scanOrder(s.db(ctx).QueryRow(ctx,
		`SELECT id, data FROM orders WHERE token = $1 AND state = $2`+forUpdate(ctx),
		token, domain.OrderStateCart), domain.ErrCartNotFound)
}

func (s *Store) FindByToken(ctx context.Context, token string) (*domain.Order, error) {
	return scanOrder(s.db(ctx).QueryRow(ctx,
		`SELECT id, data FROM orders WHERE token = $1`, token), domain.ErrOrderNotFound)
}

func (s *Store) FindLatestCart(ctx context.Context, customerID int64, channelCode string) (*domain.Order, error) {
	return scanOrder(s.db(ctx).QueryRow(ctx,
		`SELECT id, data FROM orders
		 WHERE customer_id = $1 AND channel_code = $2 AND state = $3
		 ORDER BY updated_at DESC, id DESC
		 LIMIT 1`+forUpdate(ctx),
		customerID, channelCode, domain.OrderStateCart), domain.ErrCartNotFound)
}

func (s *Store) ListPlaced(ctx context.Context, customerID int64) ([]domain.Order, error) {
	rows, err := s.db(ctx).Query(ctx,
		`SELECT id, data FROM orders
		 WHERE customer_id = $1 AND state <> $2
		 ORDER BY COALESCE(checkout_completed_at, updated_at) DESC, id DESC`,
		customerID, domain.OrderStateCart)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		o, err := scanOrder(row, domain.ErrOrderNotFound)
		if err != nil {
			return domain.Order{}, err
		}
		return *o, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}
	return orders, nil
}

func (s *Store) Save(ctx context.Context, o *domain.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	if o.ID == 0 {
		err := s.db(ctx).QueryRow(ctx,
			`INSERT INTO orders (token, number, channel_code, state, customer_id, checkout_completed_at,
				created_at, updated_at, data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			o.Token, nullIfEmpty(o.Number), o.ChannelCode, o.State, o.CustomerID, o.CheckoutCompletedAt,
			o.CreatedAt, o.UpdatedAt, data,
		).Scan(&o.ID)
		if isUniqueViolation(err) {
			return domain.Conflict("postgres.save_order", fmt.Sprintf("Order with token %s already exists", o.Token))
		}
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	}

	tag, err := s.db(ctx).Exec(ctx,
		`UPDATE orders SET number = $2, channel_code = $3, state = $4, customer_id = $5,
			checkout_completed_at = $6, updated_at = $7, data = $8
		 WHERE id = $1`,
		o.ID, nullIfEmpty(o.Number), o.ChannelCode, o.State, o.CustomerID,
		o.CheckoutCompletedAt, o.UpdatedAt, data,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.db(ctx).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *Store) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := s.db(ctx).QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}
	return fmt.Sprintf("%09d", n), nil
}

func (s *Store) DeleteCartsUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx,
		`DELETE FROM orders WHERE state = $1 AND updated_at < $2`, domain.OrderStateCart, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired carts: %w", err)
	}
	return tag.RowsAffected(), nil
}
