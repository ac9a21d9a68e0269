package pricing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/fixtures"
	"github.com/dukerupert/shopapi/internal/memory"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		weights []int64
		want    []int64
	}{
		{name: "even split", amount: -100, weights: []int64{50, 50}, want: []int64{-50, -50}},
		{name: "remainder to first lines", amount: -100, weights: []int64{1, 1, 1}, want: []int64{-34, -33, -33}},
		{name: "proportional", amount: 300, weights: []int64{100, 200}, want: []int64{100, 200}},
		{name: "zero weights skipped", amount: -10, weights: []int64{0, 3}, want: []int64{0, -10}},
		{name: "nothing to distribute", amount: 0, weights: []int64{10, 20}, want: []int64{0, 0}},
		{name: "no lines", amount: 10, weights: nil, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distribute(tt.amount, tt.weights)

			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestProcessor(t *testing.T, promotions ...domain.Promotion) (*Processor, *memory.Store) {
	t.Helper()

	d, err := fixtures.Default()
	require.NoError(t, err)
	d.Promotions = append(d.Promotions, promotions...)
	store := memory.New()
	require.NoError(t, store.Load(context.Background(), d))

	return NewProcessor(Config{
		Catalog:    store,
		Channels:   store,
		Promotions: store,
		Customers:  store,
		Orders:     store,
	}), store
}

func TestProcessor_Process_EmptyCart(t *testing.T) {
	p, store := newTestProcessor(t)
	channel, err := store.FindChannel(context.Background(), "WEB_GB")
	require.NoError(t, err)

	cart := domain.NewCart("EMPTY", channel, time.Now())
	require.NoError(t, p.Process(context.Background(), cart))

	assert.Empty(t, cart.Shipments)
	assert.Empty(t, cart.Payments)
	assert.Empty(t, cart.Adjustments)
	assert.Zero(t, cart.Total())
}

func TestProcessor_Process_RefreshesPrices(t *testing.T) {
	p, store := newTestProcessor(t)
	channel, err := store.FindChannel(context.Background(), "WEB_GB")
	require.NoError(t, err)

	cart := domain.NewCart("CART", channel, time.Now())
	_, err = cart.AddItem("LOGAN_MUG_CODE", "LOGAN_MUG_CODE", 2, 1)
	require.NoError(t, err)

	require.NoError(t, p.Process(context.Background(), cart))

	assert.Equal(t, int64(1999), cart.Items[0].UnitPrice)
	assert.Equal(t, int64(3998), cart.ItemsTotal())
	require.Len(t, cart.Payments, 1)
	assert.Equal(t, cart.Total(), cart.Payments[0].Amount)
	assert.Equal(t, "PBC", cart.Payments[0].MethodCode)
}

func TestProcessor_Process_SkipsPlacedOrders(t *testing.T) {
	p, _ := newTestProcessor(t)
	order := &domain.Order{State: domain.OrderStateNew, Items: []domain.OrderItem{{VariantCode: "LOGAN_MUG_CODE", Quantity: 1, UnitPrice: 5}}}

	require.NoError(t, p.Process(context.Background(), order))

	assert.Equal(t, int64(5), order.Items[0].UnitPrice)
}

func TestProcessor_Process_NthOrderRule(t *testing.T) {
	secondOrder := domain.Promotion{
		Code:     "SECOND_ORDER",
		Name:     "Second order",
		Channels: []string{"WEB_GB"},
		Rules:    []domain.PromotionRule{{Type: domain.RuleNthOrder, Count: 2}},
		Actions:  []domain.PromotionAction{{Type: domain.ActionOrderFixedDiscount, Amount: map[string]int64{"WEB_GB": 100}}},
	}

	tests := []struct {
		name     string
		guest    bool
		placed   int
		wantDeal bool
	}{
		{name: "first order", placed: 0, wantDeal: false},
		{name: "second order", placed: 1, wantDeal: true},
		{name: "third order", placed: 2, wantDeal: false},
		{name: "cart without customer", guest: true, wantDeal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p, store := newTestProcessor(t, secondOrder)
			channel, err := store.FindChannel(ctx, "WEB_GB")
			require.NoError(t, err)
			customer, err := store.FindCustomerByEmail(ctx, "oliver@queen.com")
			require.NoError(t, err)

			for i := range tt.placed {
				order := domain.NewCart(fmt.Sprintf("PLACED_%d", i), channel, time.Now())
				order.AssignCustomer(customer)
				order.State = domain.OrderStateNew
				require.NoError(t, store.Save(ctx, order))
			}

			cart := domain.NewCart("CART", channel, time.Now())
			_, err = cart.AddItem("LOGAN_MUG_CODE", "LOGAN_MUG_CODE", 2, 1)
			require.NoError(t, err)
			if !tt.guest {
				cart.AssignCustomer(customer)
			}

			require.NoError(t, p.Process(ctx, cart))

			if tt.wantDeal {
				assert.Contains(t, cart.PromotionCodes(), "SECOND_ORDER")
			} else {
				assert.NotContains(t, cart.PromotionCodes(), "SECOND_ORDER")
			}
		})
	}
}
