package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/shopapi/internal/bus"
	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
	"github.com/dukerupert/shopapi/internal/fixtures"
	"github.com/dukerupert/shopapi/internal/memory"
	"github.com/dukerupert/shopapi/internal/pricing"
	"github.com/dukerupert/shopapi/internal/shipping"
	"github.com/dukerupert/shopapi/internal/tax"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testShop struct {
	shop   *Shop
	store  *memory.Store
	bus    *bus.Bus
	events *events.Recorder
}

type option func(*Config)

func withVerification(token string) option {
	return func(c *Config) {
		c.VerificationRequired = true
		c.NewToken = func() string { return token }
	}
}

func newTestShop(t *testing.T, opts ...option) *testShop {
	t.Helper()

	d, err := fixtures.Default()
	require.NoError(t, err)
	store := memory.New()
	require.NoError(t, store.Load(context.Background(), d))

	now := func() time.Time { return fixedNow }
	registry := shipping.NewRegistry()
	processor := pricing.NewProcessor(pricing.Config{
		Catalog:    store,
		Channels:   store,
		Promotions: store,
		Customers:  store,
		Orders:     store,
		Shipping:   registry,
		Tax:        tax.NewPercentageCalculator(store),
		Now:        now,
	})

	cfg := Config{
		Orders:       store,
		Catalog:      store,
		Channels:     store,
		Customers:    store,
		Addresses:    store,
		Promotions:   store,
		Processor:    processor,
		Shipping:     registry,
		PasswordCost: bcrypt.MinCost,
		Now:          now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	shop := New(cfg)

	recorder := &events.Recorder{}
	b := bus.New(bus.PublishEvents(recorder, zerolog.Nop()), bus.Transactional(store))
	shop.Register(b)

	return &testShop{shop: shop, store: store, bus: b, events: recorder}
}

func (ts *testShop) dispatch(t *testing.T, cmd command.Command) error {
	t.Helper()
	return ts.bus.Dispatch(context.Background(), cmd)
}

func (ts *testShop) mustDispatch(t *testing.T, cmds ...command.Command) {
	t.Helper()
	for _, cmd := range cmds {
		require.NoError(t, ts.dispatch(t, cmd), "dispatching %s", cmd.CommandName())
	}
}

func (ts *testShop) cart(t *testing.T, token string) *domain.Order {
	t.Helper()
	order, err := ts.store.FindByToken(context.Background(), token)
	require.NoError(t, err)
	return order
}

func (ts *testShop) customerID(t *testing.T, email string) int64 {
	t.Helper()
	customer, err := ts.store.FindCustomerByEmail(context.Background(), email)
	require.NoError(t, err)
	return customer.ID
}

// cartWithMug picks up a WEB_GB cart holding one mug.
func (ts *testShop) cartWithMug(t *testing.T, token string) {
	t.Helper()
	ts.mustDispatch(t,
		command.PickupCart{Token: token, ChannelCode: "WEB_GB"},
		command.PutSimpleItemToCart{Token: token, ProductCode: "LOGAN_MUG_CODE", Quantity: 1},
	)
}

func gbAddress() command.Address {
	return command.Address{
		FirstName:   "Sherlock",
		LastName:    "Holmes",
		Street:      "Baker Street 221b",
		City:        "London",
		Postcode:    "NW1",
		CountryCode: "GB",
	}
}
