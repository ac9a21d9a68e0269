// Package memory is an in-process implementation of the shop repositories.
// It backs the development server and the HTTP tests.
package memory

import (
	"context"
	"sync"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/fixtures"
)

var (
	_ domain.OrderRepository     = (*Store)(nil)
	_ domain.CatalogRepository   = (*Store)(nil)
	_ domain.ChannelRepository   = (*Store)(nil)
	_ domain.CustomerRepository  = (*Store)(nil)
	_ domain.AddressRepository   = (*Store)(nil)
	_ domain.PromotionRepository = (*Store)(nil)
	_ domain.Transactor          = (*Store)(nil)
)

// Store keeps every aggregate in maps guarded by a mutex. Stored values are
// never modified in place, so a shallow copy of the maps is a consistent
// snapshot.
type Store struct {
	// txMu serializes transactions and writes made outside of them.
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

type state struct {
	channels        map[string]domain.Channel
	countries       map[string]domain.Country
	zones           []domain.Zone
	shippingMethods []domain.ShippingMethod
	paymentMethods  []domain.PaymentMethod
	taxRates        []domain.TaxRate

	products map[string]domain.Product
	variants map[string]string // variant code -> product code
	reviews  []domain.ProductReview

	promotions map[string]domain.Promotion
	coupons    map[string]domain.Coupon

	customers map[int64]domain.Customer
	users     map[int64]domain.ShopUser
	addresses map[int64]domain.Address

	orders map[int64]domain.Order
	tokens map[string]int64

	lastCustomerID int64
	lastAddressID  int64
	lastOrderID    int64
	lastReviewID   int64
	lastNumber     int64
}

// New returns an empty store.
func New() *Store {
	return &Store{data: state{
		channels:   make(map[string]domain.Channel),
		countries:  make(map[string]domain.Country),
		products:   make(map[string]domain.Product),
		variants:   make(map[string]string),
		promotions: make(map[string]domain.Promotion),
		coupons:    make(map[string]domain.Coupon),
		customers:  make(map[int64]domain.Customer),
		users:      make(map[int64]domain.ShopUser),
		addresses:  make(map[int64]domain.Address),
		orders:     make(map[int64]domain.Order),
		tokens:     make(map[string]int64),
	}}
}

// Load replaces the reference data with d and creates its customers.
func (s *Store) Load(ctx context.Context, d *fixtures.Data) error {
	s.mu.Lock()
	for _, c := range d.Channels {
		s.data.channels[c.Code] = c
	}
	for _, c := range d.Countries {
		s.data.countries[c.Code] = c
	}
	s.data.zones = append([]domain.Zone(nil), d.Zones...)
	s.data.shippingMethods = append([]domain.ShippingMethod(nil), d.ShippingMethods...)
	s.data.paymentMethods = append([]domain.PaymentMethod(nil), d.PaymentMethods...)
	s.data.taxRates = append([]domain.TaxRate(nil), d.TaxRates...)
	for _, p := range d.Products {
		s.data.products[p.Code] = p
		for _, v := range p.Variants {
			s.data.variants[v.Code] = p.Code
		}
	}
	for _, p := range d.Promotions {
		s.data.promotions[p.Code] = p
	}
	for _, c := range d.Coupons {
		s.data.coupons[c.Code] = c
	}
	for _, r := range d.Reviews {
		s.data.lastReviewID++
		r.ID = s.data.lastReviewID
		s.data.reviews = append(s.data.reviews, r)
	}
	s.mu.Unlock()

	return fixtures.LoadCustomers(ctx, d, s)
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// WithinTx runs fn with exclusive access to the store and restores the state
// from before fn when it fails. Nested calls join the running transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write locks the store for a mutation. Inside a transaction the caller
// already holds txMu.
func (s *Store) write(ctx context.Context) func() {
	if !inTx(ctx) {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx(ctx) {
			s.txMu.Unlock()
		}
	}
}

func (st state) clone() state {
	out := st
	out.channels = cloneMap(st.channels)
	out.countries = cloneMap(st.countries)
	out.products = cloneMap(st.products)
	out.variants = cloneMap(st.variants)
	out.promotions = cloneMap(st.promotions)
	out.coupons = cloneMap(st.coupons)
	out.customers = cloneMap(st.customers)
	out.users = cloneMap(st.users)
	out.addresses = cloneMap(st.addresses)
	out.orders = cloneMap(st.orders)
	out.tokens = cloneMap(st.tokens)
	out.reviews = append([]domain.ProductReview(nil), st.reviews...)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
