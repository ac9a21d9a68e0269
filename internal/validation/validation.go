// Package validation checks request payloads with go-playground/validator and
// reports violations as a domain.ValidationError with localized messages.
//
// Besides the built-in tags it registers rules backed by the repositories:
//
//	cart_exists                 token of an existing cart
//	cart_item_exists=<Token>    item id inside the cart named by the Token field
//	product_exists              product code
//	product_simple              product sold without variant choice
//	product_configurable        product with several variants or options
//	variant_exists=<Product>    variant code of the product named by the field
//	coupon_valid=<Token>        coupon applicable to the cart
//	country_exists              enabled country code
//	province_in_country=<Field> province of the country named by the field
//	channel_exists              enabled channel code
//	unique_email                email not used by a shop account
package validation

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/i18n"
	"github.com/dukerupert/shopapi/internal/pricing"
)

// CouponChecker decides whether a coupon applies to a cart.
type CouponChecker interface {
	CheckCoupon(ctx context.Context, order *domain.Order, code string) (pricing.CouponStatus, error)
}

// Deps are the repositories the custom rules read.
type Deps struct {
	Orders    domain.OrderRepository
	Catalog   domain.CatalogRepository
	Channels  domain.ChannelRepository
	Customers domain.CustomerRepository
	Coupons   CouponChecker
}

// Validator validates request structs.
type Validator struct {
	validate *validator.Validate
	deps     Deps
}

// New creates a validator and registers the shop rules.
func New(deps Deps) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), deps: deps}

	v.validate.RegisterTagNameFunc(fieldName)
	v.validate.RegisterAlias("quantity", "required,gte=1")
	v.validate.RegisterAlias("rating", "required,min=1,max=5")

	rules := map[string]validator.FuncCtx{
		"cart_exists":          v.cartExists,
		"cart_item_exists":     v.cartItemExists,
		"product_exists":       v.productExists,
		"product_simple":       v.productSimple,
		"product_configurable": v.productConfigurable,
		"variant_exists":       v.variantExists,
		"coupon_valid":         v.couponValid,
		"country_exists":       v.countryExists,
		"province_in_country":  v.provinceInCountry,
		"channel_exists":       v.channelExists,
		"unique_email":         v.uniqueEmail,
	}
	for tag, fn := range rules {
		// Registration only fails for empty tags or nil funcs.
		_ = v.validate.RegisterValidationCtx(tag, fn)
	}

	return v
}

// fieldName reports fields by their JSON name, falling back to the path or
// query parameter they are bound from.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "param", "query"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// failure carries repository errors out of rule functions, which can only
// report a boolean.
type failure struct {
	mu  sync.Mutex
	err error
}

type failureKey struct{}

func (v *Validator) fail(ctx context.Context, err error) bool {
	if f, ok := ctx.Value(failureKey{}).(*failure); ok {
		f.mu.Lock()
		if f.err == nil {
			f.err = err
		}
		f.mu.Unlock()
	}
	// Reported as valid so the infrastructure error is not shown as a violation.
	return true
}

// Validate checks s. It returns a *domain.ValidationError with messages in
// locale, a repository error, or nil.
func (v *Validator) Validate(ctx context.Context, locale string, s any) error {
	f := &failure{}
	err := v.validate.StructCtx(context.WithValue(ctx, failureKey{}, f), s)

	if f.err != nil {
		return f.err
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &domain.ValidationError{Op: "validation.validate"}
	for _, fe := range fieldErrs {
		verr.Add(path(fe), Message(locale, fe))
	}
	return verr
}

// path strips the root struct name from the namespace.
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Message renders a violation in locale.
func Message(locale string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return i18n.T(locale, i18n.MsgNotBlank)
	case "email":
		return i18n.T(locale, i18n.MsgInvalidEmail)
	case "max":
		return i18n.T(locale, i18n.MsgTooLong, paramInt(fe.Param()))
	case "min":
		return i18n.T(locale, i18n.MsgTooShort, paramInt(fe.Param()))
	case "oneof":
		return i18n.T(locale, i18n.MsgInvalidChoice)
	case "eqfield":
		return i18n.T(locale, i18n.MsgPasswordMismatch)
	case "quantity":
		return i18n.T(locale, i18n.MsgMinQuantity)
	case "rating":
		return i18n.T(locale, i18n.MsgRatingRange, 1, 5)
	case "cart_exists":
		return i18n.T(locale, i18n.MsgCartNotFound)
	case "cart_item_exists":
		return i18n.T(locale, i18n.MsgCartItemNotFound)
	case "product_exists":
		return i18n.T(locale, i18n.MsgProductNotFound)
	case "product_simple":
		return i18n.T(locale, i18n.MsgProductNotSimple)
	case "product_configurable":
		return i18n.T(locale, i18n.MsgProductNotConfigured)
	case "variant_exists":
		return i18n.T(locale, i18n.MsgVariantNotFound)
	case "coupon_valid":
		return i18n.T(locale, i18n.MsgCouponInvalid)
	case "country_exists":
		return i18n.T(locale, i18n.MsgCountryNotFound)
	case "province_in_country":
		return i18n.T(locale, i18n.MsgProvinceNotInCountry)
	case "channel_exists":
		return i18n.T(locale, i18n.MsgChannelNotFound)
	case "unique_email":
		return i18n.T(locale, i18n.MsgEmailTaken)
	}
	return i18n.T(locale, i18n.MsgInvalidChoice)
}

func paramInt(p string) int {
	n, _ := strconv.Atoi(p)
	return n
}
