package view

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dukerupert/shopapi/internal/domain"
)

// Factory builds views that need catalog or channel data.
type Factory struct {
	catalog  domain.CatalogRepository
	channels domain.ChannelRepository
}

func NewFactory(catalog domain.CatalogRepository, channels domain.ChannelRepository) *Factory {
	return &Factory{catalog: catalog, channels: channels}
}

// CartSummary renders an order with product names in the order's locale.
func (f *Factory) CartSummary(ctx context.Context, order *domain.Order) (*CartSummary, error) {
	channel, err := f.channels.FindChannel(ctx, order.ChannelCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel %s: %w", order.ChannelCode, err)
	}
	shippingMethods, err := f.channels.ListShippingMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping methods: %w", err)
	}
	paymentMethods, err := f.channels.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}

	price := func(amount int64) Price {
		return Price{Current: amount, Currency: order.CurrencyCode}
	}

	summary := &CartSummary{
		TokenValue:    order.Token,
		Channel:       order.ChannelCode,
		Currency:      order.CurrencyCode,
		Locale:        order.LocaleCode,
		CheckoutState: order.CheckoutState,
		Items:         make([]Item, 0, len(order.Items)),
		Totals: Totals{
			Total:     order.Total(),
			Items:     order.ItemsTotal(),
			Taxes:     order.AdjustmentsTotal(domain.AdjustmentTax),
			Shipping:  order.AdjustmentsTotal(domain.AdjustmentShipping),
			Promotion: order.AdjustmentsTotal(domain.AdjustmentPromotion),
		},
		ShippingAddress: NewAddress(order.ShippingAddress, nil),
		BillingAddress:  NewAddress(order.BillingAddress, nil),
		Payments:        make([]Payment, 0, len(order.Payments)),
		Shipments:       make([]Shipment, 0, len(order.Shipments)),
		CartDiscounts:   map[string]CartDiscount{},
		CouponCode:      order.CouponCode,
	}

	for _, item := range order.Items {
		product, err := f.catalog.FindProductByVariant(ctx, item.VariantCode)
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return nil, fmt.Errorf("failed to load variant %s: %w", item.VariantCode, err)
		}

		pv := Product{Code: item.ProductCode, Name: item.ProductCode, ChannelCode: order.ChannelCode}
		if product != nil {
			pv = NewProduct(product, channel, order.LocaleCode)
			pv.Options = nil
			pv.Variants = nil
			if v, ok := product.Variant(item.VariantCode); ok {
				pv.Variants = []Variant{NewVariant(product, v, channel)}
			}
		}

		summary.Items = append(summary.Items, Item{
			ID:       item.ID,
			Quantity: item.Quantity,
			Total:    item.Total(),
			Product:  pv,
		})
	}

	for _, a := range order.Adjustments {
		if a.Type != domain.AdjustmentPromotion {
			continue
		}
		d := summary.CartDiscounts[a.OriginCode]
		d.Name = a.Label
		d.Amount = price(d.Amount.Current + a.Amount)
		summary.CartDiscounts[a.OriginCode] = d
	}

	for _, s := range order.Shipments {
		sv := Shipment{State: s.State}
		for i := range shippingMethods {
			if shippingMethods[i].Code == s.MethodCode {
				m := NewShippingMethod(&shippingMethods[i], shippingCharge(order, s.MethodCode), order.CurrencyCode)
				sv.Method = &m
			}
		}
		summary.Shipments = append(summary.Shipments, sv)
	}

	for _, p := range order.Payments {
		pv := Payment{State: p.State, Price: price(p.Amount)}
		for i := range paymentMethods {
			if paymentMethods[i].Code == p.MethodCode {
				m := NewPaymentMethod(&paymentMethods[i])
				pv.Method = &m
			}
		}
		summary.Payments = append(summary.Payments, pv)
	}

	return summary, nil
}

// PlacedOrder renders a completed order.
func (f *Factory) PlacedOrder(ctx context.Context, order *domain.Order) (*PlacedOrder, error) {
	summary, err := f.CartSummary(ctx, order)
	if err != nil {
		return nil, err
	}
	return &PlacedOrder{
		CartSummary:         *summary,
		Number:              order.Number,
		State:               order.State,
		PaymentState:        order.PaymentState,
		ShippingState:       order.ShippingState,
		CheckoutCompletedAt: order.CheckoutCompletedAt,
	}, nil
}

func shippingCharge(order *domain.Order, methodCode string) int64 {
	var total int64
	for _, a := range order.Adjustments {
		if a.Type == domain.AdjustmentShipping && a.OriginCode == methodCode {
			total += a.Amount
		}
	}
	return total
}

// NewProduct renders a product in the channel. Variants without a price in
// the channel are left out.
func NewProduct(p *domain.Product, channel *domain.Channel, locale string) Product {
	t := p.Translation(locale, channel.DefaultLocale)

	out := Product{
		Code:        p.Code,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		ChannelCode: channel.Code,
		Variants:    make([]Variant, 0, len(p.Variants)),
	}
	for _, o := range p.Options {
		opt := Option{Code: o.Code, Name: o.Name}
		for _, v := range o.Values {
			opt.Values = append(opt.Values, OptionValue{Code: v.Code, Value: v.Value})
		}
		out.Options = append(out.Options, opt)
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if _, ok := v.Price(channel.Code); !ok || !v.Enabled {
			continue
		}
		out.Variants = append(out.Variants, NewVariant(p, v, channel))
	}
	return out
}

// NewVariant renders a variant with its channel price. Axis follows the
// product's option order.
func NewVariant(p *domain.Product, v *domain.ProductVariant, channel *domain.Channel) Variant {
	price, _ := v.Price(channel.Code)

	out := Variant{
		Code:     v.Code,
		Name:     v.Name,
		Axis:     []string{},
		NameAxis: map[string]string{},
		Price:    Price{Current: price, Currency: channel.BaseCurrency},
	}

	optionCodes := make([]string, 0, len(v.OptionValues))
	for option := range v.OptionValues {
		optionCodes = append(optionCodes, option)
	}
	position := make(map[string]int, len(p.Options))
	for i, o := range p.Options {
		position[o.Code] = i
	}
	sort.Slice(optionCodes, func(i, j int) bool {
		return position[optionCodes[i]] < position[optionCodes[j]]
	})

	for _, option := range optionCodes {
		value := v.OptionValues[option]
		out.Axis = append(out.Axis, value)
		out.NameAxis[value] = p.OptionValueName(option, value)
	}
	return out
}

// NewAddress returns nil for a nil address. defaultID marks the customer's
// default address book entry.
func NewAddress(a *domain.Address, defaultID *int64) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		Street:       a.Street,
		City:         a.City,
		Postcode:     a.Postcode,
		CountryCode:  a.CountryCode,
		ProvinceCode: a.ProvinceCode,
		ProvinceName: a.ProvinceName,
		PhoneNumber:  a.PhoneNumber,
		Default:      defaultID != nil && a.ID != 0 && *defaultID == a.ID,
	}
}

// NewAddressBook renders a customer's address book.
func NewAddressBook(addresses []domain.Address, defaultID *int64) []Address {
	out := make([]Address, 0, len(addresses))
	for i := range addresses {
		out = append(out, *NewAddress(&addresses[i], defaultID))
	}
	return out
}

func NewCustomer(c *domain.Customer) Customer {
	return Customer{
		ID:                     c.ID,
		FirstName:              c.FirstName,
		LastName:               c.LastName,
		Email:                  c.Email,
		Birthday:               c.Birthday,
		Gender:                 c.Gender,
		PhoneNumber:            c.PhoneNumber,
		SubscribedToNewsletter: c.SubscribedToNewsletter,
	}
}

func NewProductReview(r *domain.ProductReview) ProductReview {
	return ProductReview{
		Title:     r.Title,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Author:    r.AuthorEmail,
		CreatedAt: r.CreatedAt,
	}
}

func NewShippingMethod(m *domain.ShippingMethod, price int64, currency string) ShippingMethod {
	return ShippingMethod{
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Price:       Price{Current: price, Currency: currency},
	}
}

func NewPaymentMethod(m *domain.PaymentMethod) PaymentMethod {
	return PaymentMethod{
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Instructions: m.Instructions,
	}
}
