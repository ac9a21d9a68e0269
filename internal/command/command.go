// Package command holds the messages dispatched on the command bus. Each
// command describes one intended state change; its handler lives in the
// service package.
package command

import "time"

// Command is a message with a stable name used for routing, logging and
// metrics.
type Command interface {
	CommandName() string
}

// =============================================================================
// Cart
// =============================================================================

// PickupCart creates an empty cart with the given token in a channel.
// CustomerID, when set, assigns the cart to a logged in customer.
type PickupCart struct {
	Token       string
	ChannelCode string
	CustomerID  int64
}

func (PickupCart) CommandName() string { return "pickup_cart" }

// PutSimpleItemToCart adds a product that has a single variant.
type PutSimpleItemToCart struct {
	Token       string
	ProductCode string
	Quantity    int
}

func (PutSimpleItemToCart) CommandName() string { return "put_simple_item_to_cart" }

// PutVariantBasedConfigurableItemToCart adds a variant chosen by code.
type PutVariantBasedConfigurableItemToCart struct {
	Token       string
	ProductCode string
	VariantCode string
	Quantity    int
}

func (PutVariantBasedConfigurableItemToCart) CommandName() string {
	return "put_variant_based_configurable_item_to_cart"
}

// PutOptionBasedConfigurableItemToCart adds the variant matching all of the
// given option values, keyed by option code.
type PutOptionBasedConfigurableItemToCart struct {
	Token       string
	ProductCode string
	Options     map[string]string
	Quantity    int
}

func (PutOptionBasedConfigurableItemToCart) CommandName() string {
	return "put_option_based_configurable_item_to_cart"
}

// ChangeItemQuantity sets the quantity of a cart item.
type ChangeItemQuantity struct {
	Token    string
	ItemID   int64
	Quantity int
}

func (ChangeItemQuantity) CommandName() string { return "change_item_quantity" }

// RemoveItemFromCart removes a cart item.
type RemoveItemFromCart struct {
	Token  string
	ItemID int64
}

func (RemoveItemFromCart) CommandName() string { return "remove_item_from_cart" }

// DropCart deletes a cart.
type DropCart struct {
	Token string
}

func (DropCart) CommandName() string { return "drop_cart" }

// AddCoupon applies a promotion coupon to a cart.
type AddCoupon struct {
	Token      string
	CouponCode string
}

func (AddCoupon) CommandName() string { return "add_coupon" }

// RemoveCoupon removes the coupon from a cart. Removing from a cart without a
// coupon is a no-op.
type RemoveCoupon struct {
	Token string
}

func (RemoveCoupon) CommandName() string { return "remove_coupon" }

// =============================================================================
// Checkout
// =============================================================================

// AssignCustomerToCart attaches the customer with Email to the cart, creating
// a guest customer when none exists. AuthenticatedCustomerID is the customer
// of the logged in user, 0 for anonymous requests.
type AssignCustomerToCart struct {
	Token                   string
	Email                   string
	AuthenticatedCustomerID int64
}

func (AssignCustomerToCart) CommandName() string { return "assign_customer_to_cart" }

// Address is the address payload carried by checkout commands.
type Address struct {
	FirstName    string
	LastName     string
	Company      string
	Street       string
	City         string
	Postcode     string
	CountryCode  string
	ProvinceCode string
	PhoneNumber  string
}

// AddressOrder sets the shipping and billing address. A missing billing
// address defaults to the shipping address.
type AddressOrder struct {
	Token           string
	ShippingAddress Address
	BillingAddress  *Address
}

func (AddressOrder) CommandName() string { return "address_order" }

// ChooseShippingMethod selects the method of the shipment at ShipmentIndex.
type ChooseShippingMethod struct {
	Token              string
	ShipmentIndex      int
	ShippingMethodCode string
}

func (ChooseShippingMethod) CommandName() string { return "choose_shipping_method" }

// ChoosePaymentMethod selects the method of the payment at PaymentIndex.
type ChoosePaymentMethod struct {
	Token             string
	PaymentIndex      int
	PaymentMethodCode string
}

func (ChoosePaymentMethod) CommandName() string { return "choose_payment_method" }

// CompleteOrder places the order.
type CompleteOrder struct {
	Token                   string
	Notes                   string
	AuthenticatedCustomerID int64
}

func (CompleteOrder) CommandName() string { return "complete_order" }

// =============================================================================
// Customer
// =============================================================================

// RegisterCustomer creates a customer with an account in a channel.
type RegisterCustomer struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	ChannelCode string
}

func (RegisterCustomer) CommandName() string { return "register_customer" }

// VerifyAccount enables the account carrying the verification token.
type VerifyAccount struct {
	Token string
}

func (VerifyAccount) CommandName() string { return "verify_account" }

// EnableCustomer enables the account of the customer with Email.
type EnableCustomer struct {
	Email string
}

func (EnableCustomer) CommandName() string { return "enable_customer" }

// UpdateCustomer replaces the profile of the logged in customer.
type UpdateCustomer struct {
	CustomerID             int64
	FirstName              string
	LastName               string
	Email                  string
	Birthday               *time.Time
	Gender                 string
	PhoneNumber            string
	SubscribedToNewsletter bool
}

func (UpdateCustomer) CommandName() string { return "update_customer" }

// =============================================================================
// Address book
// =============================================================================

// CreateAddress adds an entry to the address book of the customer.
// CreatedID receives the ID of the new entry.
type CreateAddress struct {
	CustomerID int64
	Address    Address
	CreatedID  *int64
}

func (CreateAddress) CommandName() string { return "create_address" }

// UpdateAddress replaces an address book entry.
type UpdateAddress struct {
	CustomerID int64
	AddressID  int64
	Address    Address
}

func (UpdateAddress) CommandName() string { return "update_address" }

// RemoveAddress deletes an address book entry.
type RemoveAddress struct {
	CustomerID int64
	AddressID  int64
}

func (RemoveAddress) CommandName() string { return "remove_address" }

// SetDefaultAddress marks an address book entry as default.
type SetDefaultAddress struct {
	CustomerID int64
	AddressID  int64
}

func (SetDefaultAddress) CommandName() string { return "set_default_address" }

// =============================================================================
// Catalog
// =============================================================================

// AddReview submits a product review. Reviews wait for acceptance.
type AddReview struct {
	ProductCode string
	Title       string
	Rating      int
	Comment     string
	Email       string
}

func (AddReview) CommandName() string { return "add_review" }
