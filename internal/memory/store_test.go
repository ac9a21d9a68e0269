package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/fixtures"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	d, err := fixtures.Default()
	require.NoError(t, err)

	s := New()
	require.NoError(t, s.Load(context.Background(), d))
	return s
}

func newCart(t *testing.T, s *Store, token string) *domain.Order {
	t.Helper()

	channel, err := s.FindChannel(context.Background(), "WEB_GB")
	require.NoError(t, err)

	cart := domain.NewCart(token, channel, time.Now())
	require.NoError(t, s.Save(context.Background(), cart))
	return cart
}

func TestLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	product, err := s.FindProductByVariant(ctx, "SMALL_RED_LOGAN_HAT_CODE")
	require.NoError(t, err)
	assert.Equal(t, "LOGAN_HAT_CODE", product.Code)

	customer, err := s.FindCustomerByEmail(ctx, "OLIVER@queen.com")
	require.NoError(t, err)
	assert.Equal(t, "Oliver", customer.FirstName)

	user, err := s.FindUserByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, user.Enabled)

	addresses, err := s.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 1)

	guest, err := s.FindCustomerByEmail(ctx, "guest@example.com")
	require.NoError(t, err)
	_, err = s.FindUserByCustomer(ctx, guest.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	reviews, err := s.ListReviews(ctx, "LOGAN_MUG_CODE", domain.ReviewStatusAccepted)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Awesome mug", reviews[0].Title)
}

func TestOrders(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cart := newCart(t, s, "CART")
	assert.NotZero(t, cart.ID)

	t.Run("returned carts are copies", func(t *testing.T) {
		found, err := s.FindCartByToken(ctx, "CART")
		require.NoError(t, err)
		_, err = found.AddItem("LOGAN_MUG_CODE", "LOGAN_MUG_CODE", 1, 1999)
		require.NoError(t, err)

		again, err := s.FindCartByToken(ctx, "CART")
		require.NoError(t, err)
		assert.True(t, again.IsEmpty())
	})

	t.Run("placed orders are not carts", func(t *testing.T) {
		placed := newCart(t, s, "PLACED")
		placed.State = domain.OrderStateNew
		require.NoError(t, s.Save(ctx, placed))

		_, err := s.FindCartByToken(ctx, "PLACED")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)

		found, err := s.FindByToken(ctx, "PLACED")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStateNew, found.State)
	})

	t.Run("duplicate token", func(t *testing.T) {
		channel, _ := s.FindChannel(ctx, "WEB_GB")
		err := s.Save(ctx, domain.NewCart("CART", channel, time.Now()))
		assert.True(t, domain.IsCode(err, domain.ECONFLICT))
	})

	t.Run("numbers are sequential", func(t *testing.T) {
		first, err := s.NextNumber(ctx)
		require.NoError(t, err)
		second, err := s.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "000000001", first)
		assert.Equal(t, "000000002", second)
	})
}

func TestFindLatestCart(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	customer, err := s.FindCustomerByEmail(ctx, "oliver@queen.com")
	require.NoError(t, err)

	_, err = s.FindLatestCart(ctx, customer.ID, "WEB_GB")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	older := newCart(t, s, "OLDER")
	older.AssignCustomer(customer)
	older.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.Save(ctx, older))

	newer := newCart(t, s, "NEWER")
	newer.AssignCustomer(customer)
	require.NoError(t, s.Save(ctx, newer))

	latest, err := s.FindLatestCart(ctx, customer.ID, "WEB_GB")
	require.NoError(t, err)
	assert.Equal(t, "NEWER", latest.Token)

	_, err = s.FindLatestCart(ctx, customer.ID, "WEB_DE")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestDeleteCartsUpdatedBefore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	stale := newCart(t, s, "STALE")
	stale.UpdatedAt = time.Now().Add(-72 * time.Hour)
	require.NoError(t, s.Save(ctx, stale))
	newCart(t, s, "FRESH")

	n, err := s.DeleteCartsUpdatedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.FindByToken(ctx, "STALE")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = s.FindByToken(ctx, "FRESH")
	assert.NoError(t, err)
}

func TestWithinTx(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	newCart(t, s, "CART")

	t.Run("rolls back on failure", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithinTx(ctx, func(ctx context.Context) error {
			require.NoError(t, s.IncrementUsage(ctx, []string{"BANANA_PROMOTION"}, "BANANAS"))

			cart, err := s.FindCartByToken(ctx, "CART")
			require.NoError(t, err)
			require.NoError(t, s.Delete(ctx, cart.ID))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.FindCartByToken(ctx, "CART")
		assert.NoError(t, err)
		coupon, err := s.FindCoupon(ctx, "BANANAS")
		require.NoError(t, err)
		assert.Zero(t, coupon.Used)
	})

	t.Run("commits on success", func(t *testing.T) {
		err := s.WithinTx(ctx, func(ctx context.Context) error {
			return s.WithinTx(ctx, func(ctx context.Context) error {
				return s.IncrementUsage(ctx, []string{"BANANA_PROMOTION"}, "BANANAS")
			})
		})
		require.NoError(t, err)

		promotion, err := s.FindPromotion(ctx, "BANANA_PROMOTION")
		require.NoError(t, err)
		assert.Equal(t, 1, promotion.Used)
	})
}

func TestCustomers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	err := s.CreateCustomer(ctx, &domain.Customer{Email: "Oliver@Queen.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	user, err := s.FindUserByVerificationToken(ctx, "DMITRI_VERIFICATION_TOKEN")
	require.NoError(t, err)
	assert.False(t, user.Enabled)

	_, err = s.FindUserByVerificationToken(ctx, "")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestDeleteAddress_ClearsDefault(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	customer, err := s.FindCustomerByEmail(ctx, "oliver@queen.com")
	require.NoError(t, err)
	addresses, err := s.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.NotEmpty(t, addresses)

	id := addresses[0].ID
	customer.DefaultAddressID = &id
	require.NoError(t, s.UpdateCustomer(ctx, customer))

	require.NoError(t, s.DeleteAddress(ctx, id))

	customer, err = s.FindCustomerByEmail(ctx, "oliver@queen.com")
	require.NoError(t, err)
	assert.Nil(t, customer.DefaultAddressID)
	assert.ErrorIs(t, s.DeleteAddress(ctx, id), domain.ErrAddressNotFound)
}
