// Package view defines the JSON representations returned by the shop API.
package view

import "time"

// Price is an amount in minor units of a currency.
type Price struct {
	Current  int64  `json:"current"`
	Currency string `json:"currency"`
}

// CartSummary is the full representation of a cart.
type CartSummary struct {
	TokenValue      string                  `json:"tokenValue"`
	Channel         string                  `json:"channel"`
	Currency        string                  `json:"currency"`
	Locale          string                  `json:"locale"`
	CheckoutState   string                  `json:"checkoutState"`
	Items           []Item                  `json:"items"`
	Totals          Totals                  `json:"totals"`
	ShippingAddress *Address                `json:"shippingAddress,omitempty"`
	BillingAddress  *Address                `json:"billingAddress,omitempty"`
	Payments        []Payment               `json:"payments"`
	Shipments       []Shipment              `json:"shipments"`
	CartDiscounts   map[string]CartDiscount `json:"cartDiscounts"`
	CouponCode      string                  `json:"couponCode,omitempty"`
}

// PlacedOrder is a cart after checkout completion.
type PlacedOrder struct {
	CartSummary
	Number              string     `json:"number"`
	State               string     `json:"state"`
	PaymentState        string     `json:"paymentState"`
	ShippingState       string     `json:"shippingState"`
	CheckoutCompletedAt *time.Time `json:"checkoutCompletedAt,omitempty"`
}

// Totals break the order total down by origin.
type Totals struct {
	Total     int64 `json:"total"`
	Items     int64 `json:"items"`
	Taxes     int64 `json:"taxes"`
	Shipping  int64 `json:"shipping"`
	Promotion int64 `json:"promotion"`
}

// Item is a cart line. Product.Variants holds the chosen variant only.
type Item struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"quantity"`
	Total    int64   `json:"total"`
	Product  Product `json:"product"`
}

// CartDiscount is the total granted by one promotion.
type CartDiscount struct {
	Name   string `json:"name"`
	Amount Price  `json:"amount"`
}

type Payment struct {
	State  string         `json:"state"`
	Method *PaymentMethod `json:"method,omitempty"`
	Price  Price          `json:"price"`
}

type Shipment struct {
	State  string          `json:"state"`
	Method *ShippingMethod `json:"method,omitempty"`
}

type PaymentMethod struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type ShippingMethod struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Price  `json:"price"`
}

// AvailableShippingMethods lists, per shipment, the methods keyed by code.
type AvailableShippingMethods struct {
	Shipments []ShipmentMethods `json:"shipments"`
}

type ShipmentMethods struct {
	Methods map[string]ShippingMethod `json:"methods"`
}

// AvailablePaymentMethods lists, per payment, the methods keyed by code.
type AvailablePaymentMethods struct {
	Payments []PaymentMethods `json:"payments"`
}

type PaymentMethods struct {
	Methods map[string]PaymentMethod `json:"methods"`
}

// EstimatedShippingCost is the price of shipping a cart to a destination.
type EstimatedShippingCost struct {
	Price Price `json:"price"`
}

type Address struct {
	ID           int64  `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company,omitempty"`
	Street       string `json:"street"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	CountryCode  string `json:"countryCode"`
	ProvinceCode string `json:"provinceCode,omitempty"`
	ProvinceName string `json:"provinceName,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Default      bool   `json:"default,omitempty"`
}

type Customer struct {
	ID                     int64      `json:"id"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	Email                  string     `json:"email"`
	Birthday               *time.Time `json:"birthday,omitempty"`
	Gender                 string     `json:"gender"`
	PhoneNumber            string     `json:"phoneNumber,omitempty"`
	SubscribedToNewsletter bool       `json:"subscribedToNewsletter"`
}

type Product struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ChannelCode string    `json:"channelCode"`
	Options     []Option  `json:"options,omitempty"`
	Variants    []Variant `json:"variants"`
}

type Option struct {
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

type OptionValue struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Variant carries its option values twice: Axis lists the value codes and
// NameAxis maps each code to its display value.
type Variant struct {
	Code     string            `json:"code"`
	Name     string            `json:"name,omitempty"`
	Axis     []string          `json:"axis"`
	NameAxis map[string]string `json:"nameAxis"`
	Price    Price             `json:"price"`
}

type ProductReview struct {
	Title     string    `json:"title"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Items []T `json:"items"`
}

// Paginate slices items into the requested page. page starts at 1.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Page: page, Limit: limit, Pages: pages, Total: total, Items: out}
}
