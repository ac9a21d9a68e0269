// Package jobs holds the periodic maintenance jobs of the shop.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopapi/internal/domain"
)

// JobTypeRemoveExpiredCarts names the expired cart removal in logs.
const JobTypeRemoveExpiredCarts = "cleanup:expired_carts"

// CartStore is the part of the order repository the remover needs.
type CartStore interface {
	DeleteCartsUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// ExpiredCartRemover deletes carts nobody touched for TTL.
type ExpiredCartRemover struct {
	store  CartStore
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

var _ CartStore = (domain.OrderRepository)(nil)

// NewExpiredCartRemover creates a remover. A nil now uses time.Now.
func NewExpiredCartRemover(store CartStore, ttl time.Duration, now func() time.Time, logger zerolog.Logger) *ExpiredCartRemover {
	if now == nil {
		now = time.Now
	}
	return &ExpiredCartRemover{store: store, ttl: ttl, now: now, logger: logger}
}

// Run removes the expired carts once and reports how many were deleted.
func (r *ExpiredCartRemover) Run(ctx context.Context) (int64, error) {
	before := r.now().Add(-r.ttl)

	n, err := r.store.DeleteCartsUpdatedBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to remove expired carts: %w", err)
	}
	if n > 0 {
		r.logger.Info().
			Str("job_type", JobTypeRemoveExpiredCarts).
			Int64("removed", n).
			Time("before", before).
			Msg("expired carts removed")
	}
	return n, nil
}

// Name identifies the job in worker logs.
func (r *ExpiredCartRemover) Name() string { return JobTypeRemoveExpiredCarts }
