package validation

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/pricing"
)

// sibling returns the string value of the field named by the tag parameter.
func sibling(fl validator.FieldLevel) string {
	field := fl.Parent()
	if field.Kind() == reflect.Pointer {
		field = field.Elem()
	}
	f := field.FieldByName(fl.Param())
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}

func (v *Validator) findCart(ctx context.Context, token string) (*domain.Order, bool) {
	if token == "" {
		return nil, false
	}
	cart, err := v.deps.Orders.FindCartByToken(ctx, token)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, false
	}
	if err != nil {
		v.fail(ctx, err)
		return nil, false
	}
	return cart, true
}

func (v *Validator) findProduct(ctx context.Context, code string) (*domain.Product, bool) {
	product, err := v.deps.Catalog.FindProduct(ctx, code)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, false
	}
	if err != nil {
		v.fail(ctx, err)
		return nil, false
	}
	return product, true
}

func (v *Validator) cartExists(ctx context.Context, fl validator.FieldLevel) bool {
	_, ok := v.findCart(ctx, fl.Field().String())
	return ok
}

func (v *Validator) cartItemExists(ctx context.Context, fl validator.FieldLevel) bool {
	cart, ok := v.findCart(ctx, sibling(fl))
	if !ok {
		// Reported by cart_exists on the token.
		return true
	}
	_, ok = cart.Item(fl.Field().Int())
	return ok
}

func (v *Validator) productExists(ctx context.Context, fl validator.FieldLevel) bool {
	_, ok := v.findProduct(ctx, fl.Field().String())
	return ok
}

func (v *Validator) productSimple(ctx context.Context, fl validator.FieldLevel) bool {
	product, ok := v.findProduct(ctx, fl.Field().String())
	return ok && product.IsSimple()
}

func (v *Validator) productConfigurable(ctx context.Context, fl validator.FieldLevel) bool {
	product, ok := v.findProduct(ctx, fl.Field().String())
	return ok && product.IsConfigurable()
}

func (v *Validator) variantExists(ctx context.Context, fl validator.FieldLevel) bool {
	product, ok := v.findProduct(ctx, sibling(fl))
	if !ok {
		return true
	}
	_, ok = product.Variant(fl.Field().String())
	return ok
}

func (v *Validator) couponValid(ctx context.Context, fl validator.FieldLevel) bool {
	cart, ok := v.findCart(ctx, sibling(fl))
	if !ok {
		return true
	}
	status, err := v.deps.Coupons.CheckCoupon(ctx, cart, fl.Field().String())
	if err != nil {
		return v.fail(ctx, err)
	}
	return status == pricing.CouponValid
}

func (v *Validator) countryExists(ctx context.Context, fl validator.FieldLevel) bool {
	_, err := v.deps.Channels.FindCountry(ctx, fl.Field().String())
	if errors.Is(err, domain.ErrCountryNotFound) {
		return false
	}
	if err != nil {
		return v.fail(ctx, err)
	}
	return true
}

// provinceInCountry accepts an empty province. Countries without provinces
// accept none.
func (v *Validator) provinceInCountry(ctx context.Context, fl validator.FieldLevel) bool {
	province := fl.Field().String()
	if province == "" {
		return true
	}
	country, err := v.deps.Channels.FindCountry(ctx, sibling(fl))
	if errors.Is(err, domain.ErrCountryNotFound) {
		// Reported on the country.
		return true
	}
	if err != nil {
		return v.fail(ctx, err)
	}
	return country.HasProvince(province)
}

func (v *Validator) channelExists(ctx context.Context, fl validator.FieldLevel) bool {
	_, err := v.deps.Channels.FindChannel(ctx, fl.Field().String())
	if errors.Is(err, domain.ErrChannelNotFound) {
		return false
	}
	if err != nil {
		return v.fail(ctx, err)
	}
	return true
}

// uniqueEmail allows emails of guest customers, who may still register.
func (v *Validator) uniqueEmail(ctx context.Context, fl validator.FieldLevel) bool {
	customer, err := v.deps.Customers.FindCustomerByEmail(ctx, fl.Field().String())
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return true
	}
	if err != nil {
		return v.fail(ctx, err)
	}

	_, err = v.deps.Customers.FindUserByCustomer(ctx, customer.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return true
	}
	if err != nil {
		return v.fail(ctx, err)
	}
	return false
}
