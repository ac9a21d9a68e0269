package domain

import (
	"context"
	"time"
)

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart with given token does not exist"}
	ErrOrderNotFound    = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item does not exist"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity of an order item cannot be lower than 1"}
	ErrShipmentNotFound = &Error{Code: ENOTFOUND, Message: "Shipment not found"}
	ErrPaymentNotFound  = &Error{Code: ENOTFOUND, Message: "Payment not found"}
	ErrNoCustomer       = &Error{Code: EINVALID, Message: "Customer should be assigned before the order is completed"}

	// ErrWrongUser is returned when a cart is claimed for a registered
	// customer by somebody else.
	ErrWrongUser = &Error{Code: EUNAUTHORIZED, Message: "You need to be logged in with the same user that wants to complete the order"}
)

// Order states.
const (
	OrderStateCart      = "cart"
	OrderStateNew       = "new"
	OrderStateCancelled = "cancelled"
)

// Checkout states.
const (
	CheckoutStateCart             = "cart"
	CheckoutStateAddressed        = "addressed"
	CheckoutStateShippingSelected = "shipping_selected"
	CheckoutStatePaymentSelected  = "payment_selected"
	CheckoutStateCompleted        = "completed"
)

// Payment and shipment states.
const (
	PaymentStateCart            = "cart"
	PaymentStateAwaitingPayment = "awaiting_payment"
	PaymentStateNew             = "new"
	PaymentStateProcessing      = "processing"
	PaymentStateCompleted       = "completed"

	ShipmentStateCart  = "cart"
	ShipmentStateReady = "ready"
)

// Adjustment types.
const (
	AdjustmentPromotion = "order_promotion"
	AdjustmentShipping  = "shipping"
	AdjustmentTax       = "tax"
)

// Order is a cart until checkout completes; afterwards it is a placed order.
type Order struct {
	ID            int64  `json:"id"`
	Token         string `json:"tokenValue"`
	Number        string `json:"number,omitempty"`
	ChannelCode   string `json:"channel"`
	CurrencyCode  string `json:"currency"`
	LocaleCode    string `json:"locale"`
	State         string `json:"state"`
	CheckoutState string `json:"checkoutState"`
	PaymentState  string `json:"paymentState"`
	ShippingState string `json:"shippingState"`
	CustomerID    *int64 `json:"customerId,omitempty"`

	Items       []OrderItem  `json:"items"`
	Adjustments []Adjustment `json:"adjustments"`
	Shipments   []Shipment   `json:"shipments"`
	Payments    []Payment    `json:"payments"`

	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	BillingAddress  *Address `json:"billingAddress,omitempty"`
	CouponCode      string   `json:"couponCode,omitempty"`
	Notes           string   `json:"notes,omitempty"`

	// LastItemID keeps item identifiers unique within the order after removals.
	LastItemID int64 `json:"lastItemId"`

	CheckoutCompletedAt *time.Time `json:"checkoutCompletedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// OrderItem is a line of an order. UnitPrice is in minor units.
type OrderItem struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"productCode"`
	VariantCode string `json:"variantCode"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

// Total is the undiscounted line total.
func (i *OrderItem) Total() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Adjustment changes the order total. Promotions are negative.
type Adjustment struct {
	Type       string `json:"type"`
	Label      string `json:"label"`
	OriginCode string `json:"originCode,omitempty"`
	Amount     int64  `json:"amount"`
}

// Shipment is addressed by its index in Order.Shipments.
type Shipment struct {
	MethodCode string `json:"method,omitempty"`
	State      string `json:"state"`
}

// Payment is addressed by its index in Order.Payments.
type Payment struct {
	MethodCode string `json:"method,omitempty"`
	State      string `json:"state"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Reference  string `json:"reference,omitempty"`
}

// NewCart returns an empty cart in the channel.
func NewCart(token string, channel *Channel, now time.Time) *Order {
	return &Order{
		Token:         token,
		ChannelCode:   channel.Code,
		CurrencyCode:  channel.BaseCurrency,
		LocaleCode:    channel.DefaultLocale,
		State:         OrderStateCart,
		CheckoutState: CheckoutStateCart,
		PaymentState:  PaymentStateCart,
		ShippingState: ShipmentStateCart,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsCart reports whether checkout has not completed yet.
func (o *Order) IsCart() bool {
	return o.State == OrderStateCart
}

// IsEmpty reports whether the order has no items.
func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// Item returns the item with the given ID.
func (o *Order) Item(id int64) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// AddItem adds quantity units of the variant. An existing line for the same
// variant is incremented instead of adding a second one.
func (o *Order) AddItem(productCode, variantCode string, quantity int, unitPrice int64) (*OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	for i := range o.Items {
		if o.Items[i].VariantCode == variantCode {
			o.Items[i].Quantity += quantity
			return &o.Items[i], nil
		}
	}

	o.LastItemID++
	o.Items = append(o.Items, OrderItem{
		ID:          o.LastItemID,
		ProductCode: productCode,
		VariantCode: variantCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	return &o.Items[len(o.Items)-1], nil
}

// ChangeItemQuantity sets the quantity of an item.
func (o *Order) ChangeItemQuantity(id int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item, ok := o.Item(id)
	if !ok {
		return ErrCartItemNotFound
	}
	item.Quantity = quantity
	return nil
}

// RemoveItem removes an item.
func (o *Order) RemoveItem(id int64) error {
	for i := range o.Items {
		if o.Items[i].ID == id {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// TotalQuantity is the number of units in the order.
func (o *Order) TotalQuantity() int {
	n := 0
	for i := range o.Items {
		n += o.Items[i].Quantity
	}
	return n
}

// ItemsTotal is the sum of the item totals.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Total()
	}
	return total
}

// AdjustmentsTotal sums the adjustments of the given type, or of every type
// when adjustmentType is empty.
func (o *Order) AdjustmentsTotal(adjustmentType string) int64 {
	var total int64
	for _, a := range o.Adjustments {
		if adjustmentType == "" || a.Type == adjustmentType {
			total += a.Amount
		}
	}
	return total
}

// RemoveAdjustments drops all adjustments of the given type.
func (o *Order) RemoveAdjustments(adjustmentType string) {
	kept := o.Adjustments[:0]
	for _, a := range o.Adjustments {
		if a.Type != adjustmentType {
			kept = append(kept, a)
		}
	}
	o.Adjustments = kept
}

// AddAdjustment appends a non-zero adjustment.
func (o *Order) AddAdjustment(a Adjustment) {
	if a.Amount == 0 {
		return
	}
	o.Adjustments = append(o.Adjustments, a)
}

// Total is the amount to pay. It never drops below zero.
func (o *Order) Total() int64 {
	total := o.ItemsTotal() + o.AdjustmentsTotal("")
	if total < 0 {
		return 0
	}
	return total
}

// PromotionCodes lists the promotions currently applied.
func (o *Order) PromotionCodes() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, a := range o.Adjustments {
		if a.Type == AdjustmentPromotion && !seen[a.OriginCode] {
			seen[a.OriginCode] = true
			codes = append(codes, a.OriginCode)
		}
	}
	return codes
}

// AssignCustomer attaches the order to a customer.
func (o *Order) AssignCustomer(c *Customer) {
	id := c.ID
	o.CustomerID = &id
}

// BelongsTo reports whether the order is attached to the customer.
func (o *Order) BelongsTo(customerID int64) bool {
	return o.CustomerID != nil && *o.CustomerID == customerID
}

// OrderRepository persists orders and carts.
type OrderRepository interface {
	// FindCartByToken returns ErrCartNotFound when the token is unknown or
	// the order is no longer a cart. Inside a transaction the row is locked.
	FindCartByToken(ctx context.Context, token string) (*Order, error)

	// FindByToken returns an order in any state, ErrOrderNotFound otherwise.
	FindByToken(ctx context.Context, token string) (*Order, error)

	// FindLatestCart returns the most recently updated cart of a customer in
	// the channel, ErrCartNotFound when there is none.
	FindLatestCart(ctx context.Context, customerID int64, channelCode string) (*Order, error)

	// ListPlaced returns the placed orders of a customer, newest first.
	ListPlaced(ctx context.Context, customerID int64) ([]Order, error)

	// Save inserts or updates the order and sets its ID on insert.
	Save(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id int64) error

	// NextNumber returns the next order number.
	NextNumber(ctx context.Context) (string, error)

	// DeleteCartsUpdatedBefore removes abandoned carts and reports how many
	// were removed.
	DeleteCartsUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Transactor runs fn inside a unit of work. Repositories obtained from the
// same store use the transaction carried by the context.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
