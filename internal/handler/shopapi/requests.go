package shopapi

import (
	"strings"
	"time"

	"github.com/dukerupert/shopapi/internal/command"
)

// newCartToken in place of a cart token creates the cart on the fly.
const newCartToken = "new"

type pickupRequest struct {
	Channel string `json:"channel" validate:"required,channel_exists"`
}

type cartRequest struct {
	Token string `param:"token" json:"-" validate:"cart_exists"`
}

// itemPayload is one item to put into a cart. The variant code or the
// options select a variant of a configurable product.
type itemPayload struct {
	ProductCode string            `json:"productCode"`
	VariantCode string            `json:"variantCode"`
	Options     map[string]string `json:"options"`
	Quantity    int               `json:"quantity"`
}

type simpleItemRequest struct {
	Token       string `param:"token" json:"-" validate:"cart_exists"`
	ProductCode string `json:"productCode" validate:"required,product_exists,product_simple"`
	Quantity    int    `json:"quantity" validate:"quantity"`
}

type variantItemRequest struct {
	Token       string `param:"token" json:"-" validate:"cart_exists"`
	ProductCode string `json:"productCode" validate:"required,product_exists,product_configurable"`
	VariantCode string `json:"variantCode" validate:"required,variant_exists=ProductCode"`
	Quantity    int    `json:"quantity" validate:"quantity"`
}

type optionItemRequest struct {
	Token       string            `param:"token" json:"-" validate:"cart_exists"`
	ProductCode string            `json:"productCode" validate:"required,product_exists,product_configurable"`
	Options     map[string]string `json:"options" validate:"required"`
	Quantity    int               `json:"quantity" validate:"quantity"`
}

// request returns the struct to validate and the command to dispatch for
// putting the item into the cart with token.
func (p itemPayload) request(token string) (any, command.Command) {
	switch {
	case p.VariantCode != "":
		return &variantItemRequest{Token: token, ProductCode: p.ProductCode, VariantCode: p.VariantCode, Quantity: p.Quantity},
			command.PutVariantBasedConfigurableItemToCart{Token: token, ProductCode: p.ProductCode, VariantCode: p.VariantCode, Quantity: p.Quantity}
	case len(p.Options) > 0:
		return &optionItemRequest{Token: token, ProductCode: p.ProductCode, Options: p.Options, Quantity: p.Quantity},
			command.PutOptionBasedConfigurableItemToCart{Token: token, ProductCode: p.ProductCode, Options: p.Options, Quantity: p.Quantity}
	default:
		return &simpleItemRequest{Token: token, ProductCode: p.ProductCode, Quantity: p.Quantity},
			command.PutSimpleItemToCart{Token: token, ProductCode: p.ProductCode, Quantity: p.Quantity}
	}
}

type putItemRequest struct {
	Token string `param:"token" json:"-"`
	itemPayload
}

type putItemsRequest struct {
	Token string        `param:"token" json:"-"`
	Items []itemPayload `json:"items"`
}

type changeQuantityRequest struct {
	Token    string `param:"token" json:"-" validate:"cart_exists"`
	ItemID   int64  `param:"id" json:"-" validate:"cart_item_exists=Token"`
	Quantity int    `json:"quantity" validate:"quantity"`
}

type removeItemRequest struct {
	Token  string `param:"token" json:"-" validate:"cart_exists"`
	ItemID int64  `param:"id" json:"-" validate:"cart_item_exists=Token"`
}

type couponRequest struct {
	Token  string `param:"token" json:"-" validate:"cart_exists"`
	Coupon string `json:"coupon" validate:"required,coupon_valid=Token"`
}

type estimateRequest struct {
	Token        string `param:"token" json:"-" validate:"cart_exists"`
	CountryCode  string `query:"countryCode" json:"-" validate:"required,country_exists"`
	ProvinceCode string `query:"provinceCode" json:"-" validate:"province_in_country=CountryCode"`
}

type addressPayload struct {
	FirstName    string `json:"firstName" validate:"required,max=255"`
	LastName     string `json:"lastName" validate:"required,max=255"`
	Company      string `json:"company" validate:"max=255"`
	Street       string `json:"street" validate:"required,max=255"`
	City         string `json:"city" validate:"required,max=255"`
	Postcode     string `json:"postcode" validate:"required,max=32"`
	CountryCode  string `json:"countryCode" validate:"required,country_exists"`
	ProvinceCode string `json:"provinceCode" validate:"province_in_country=CountryCode"`
	PhoneNumber  string `json:"phoneNumber" validate:"max=64"`
}

func (a addressPayload) command() command.Address {
	return command.Address{
		FirstName:    strings.TrimSpace(a.FirstName),
		LastName:     strings.TrimSpace(a.LastName),
		Company:      strings.TrimSpace(a.Company),
		Street:       strings.TrimSpace(a.Street),
		City:         strings.TrimSpace(a.City),
		Postcode:     strings.TrimSpace(a.Postcode),
		CountryCode:  a.CountryCode,
		ProvinceCode: a.ProvinceCode,
		PhoneNumber:  strings.TrimSpace(a.PhoneNumber),
	}
}

type addressOrderRequest struct {
	Token           string          `param:"token" json:"-" validate:"cart_exists"`
	ShippingAddress addressPayload  `json:"shippingAddress"`
	BillingAddress  *addressPayload `json:"billingAddress" validate:"omitempty"`
}

type chooseMethodRequest struct {
	Token  string `param:"token" json:"-" validate:"cart_exists"`
	Index  int    `param:"id" json:"-" validate:"gte=0"`
	Method string `json:"method" validate:"required"`
}

type completeRequest struct {
	Token string `param:"token" json:"-" validate:"cart_exists"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes" validate:"max=1000"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Token    string `json:"token" validate:"omitempty,cart_exists"`
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email,max=255,unique_email"`
	Password    string `json:"plainPassword" validate:"required"`
	FirstName   string `json:"firstName" validate:"required,max=255"`
	LastName    string `json:"lastName" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=64"`
	Channel     string `json:"channel" validate:"required,channel_exists"`
}

type verifyRequest struct {
	Token string `query:"token" json:"-" validate:"required"`
}

type updateCustomerRequest struct {
	FirstName              string `json:"firstName" validate:"required,max=255"`
	LastName               string `json:"lastName" validate:"required,max=255"`
	Email                  string `json:"email" validate:"required,email,max=255"`
	Birthday               string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Gender                 string `json:"gender" validate:"omitempty,oneof=m f u"`
	PhoneNumber            string `json:"phoneNumber" validate:"max=64"`
	SubscribedToNewsletter bool   `json:"subscribedToNewsletter"`
}

func (r updateCustomerRequest) command(customerID int64) command.UpdateCustomer {
	cmd := command.UpdateCustomer{
		CustomerID:             customerID,
		FirstName:              strings.TrimSpace(r.FirstName),
		LastName:               strings.TrimSpace(r.LastName),
		Email:                  strings.TrimSpace(r.Email),
		Gender:                 r.Gender,
		PhoneNumber:            strings.TrimSpace(r.PhoneNumber),
		SubscribedToNewsletter: r.SubscribedToNewsletter,
	}
	if birthday, err := time.Parse(time.DateOnly, r.Birthday); err == nil {
		cmd.Birthday = &birthday
	}
	return cmd
}

type addressIDRequest struct {
	ID int64 `param:"id" json:"-"`
}

type addressBookRequest struct {
	ID int64 `param:"id" json:"-"`
	addressPayload
}

type productRequest struct {
	Code    string `param:"code" json:"-"`
	Channel string `query:"channel" json:"-"`
	Locale  string `query:"locale" json:"-"`
}

type reviewsRequest struct {
	Code  string `param:"code" json:"-"`
	Page  int    `query:"page" json:"-" validate:"gte=0"`
	Limit int    `query:"limit" json:"-" validate:"gte=0,lte=100"`
}

type addReviewRequest struct {
	Code    string `param:"code" json:"-" validate:"product_exists"`
	Title   string `json:"title" validate:"required,max=255"`
	Rating  int    `json:"rating" validate:"rating"`
	Comment string `json:"comment" validate:"required,max=5000"`
	Email   string `json:"email" validate:"required,email"`
}
