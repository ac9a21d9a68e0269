package domain

import (
	"context"
	"time"
)

// =============================================================================
// PRODUCT DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrVariantNotFound = &Error{Code: ENOTFOUND, Message: "Variant not found"}

	// ErrVariantNotMatched is returned when no variant carries all the
	// requested option values.
	ErrVariantNotMatched = &Error{Code: ENOTFOUND, Message: "Variant with given options does not exist"}
)

// Product is a sellable product. A simple product has exactly one variant and
// no options; a configurable product has options its variants are built from.
type Product struct {
	Code         string                        `json:"code" yaml:"code"`
	Translations map[string]ProductTranslation `json:"translations" yaml:"translations"`
	Options      []ProductOption               `json:"options,omitempty" yaml:"options"`
	Variants     []ProductVariant              `json:"variants" yaml:"variants"`
	Channels     []string                      `json:"channels" yaml:"channels"`
	Enabled      bool                          `json:"enabled" yaml:"enabled"`
}

// ProductTranslation holds the locale dependent product fields.
type ProductTranslation struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// ProductOption is an axis variants differ on, e.g. HAT_SIZE.
type ProductOption struct {
	Code   string               `json:"code" yaml:"code"`
	Name   string               `json:"name" yaml:"name"`
	Values []ProductOptionValue `json:"values" yaml:"values"`
}

// ProductOptionValue is one value of an option, e.g. HAT_SIZE_S.
type ProductOptionValue struct {
	Code  string `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
}

// ProductVariant is the purchasable unit. Prices are in minor units keyed by
// channel code.
type ProductVariant struct {
	Code         string            `json:"code" yaml:"code"`
	Name         string            `json:"name,omitempty" yaml:"name"`
	OptionValues map[string]string `json:"optionValues,omitempty" yaml:"optionValues"`
	Prices       map[string]int64  `json:"prices" yaml:"prices"`
	TaxCategory  string            `json:"taxCategory,omitempty" yaml:"taxCategory"`
	Enabled      bool              `json:"enabled" yaml:"enabled"`
}

// IsSimple reports whether the product is sold without choosing a variant.
func (p *Product) IsSimple() bool {
	return len(p.Options) == 0 && len(p.Variants) == 1
}

// IsConfigurable is the negation of IsSimple.
func (p *Product) IsConfigurable() bool {
	return !p.IsSimple()
}

// AvailableIn reports whether the product is sold in the channel.
func (p *Product) AvailableIn(channelCode string) bool {
	return p.Enabled && contains(p.Channels, channelCode)
}

// Translation returns the translation for locale, falling back to
// fallbackLocale and then to any translation.
func (p *Product) Translation(locale, fallbackLocale string) ProductTranslation {
	if t, ok := p.Translations[locale]; ok {
		return t
	}
	if t, ok := p.Translations[fallbackLocale]; ok {
		return t
	}
	for _, t := range p.Translations {
		return t
	}
	return ProductTranslation{Name: p.Code}
}

// Variant returns the variant with the given code.
func (p *Product) Variant(code string) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].Code == code {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// VariantByOptions returns the first variant whose option values contain
// every requested option value.
func (p *Product) VariantByOptions(options map[string]string) (*ProductVariant, bool) {
	if len(options) == 0 {
		return nil, false
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		matched := true
		for option, value := range options {
			if v.OptionValues[option] != value {
				matched = false
				break
			}
		}
		if matched {
			return v, true
		}
	}
	return nil, false
}

// OptionValueName returns the display value for an option value code.
func (p *Product) OptionValueName(optionCode, valueCode string) string {
	for _, o := range p.Options {
		if o.Code != optionCode {
			continue
		}
		for _, v := range o.Values {
			if v.Code == valueCode {
				return v.Value
			}
		}
	}
	return valueCode
}

// Price returns the variant price in the channel.
func (v *ProductVariant) Price(channelCode string) (int64, bool) {
	price, ok := v.Prices[channelCode]
	return price, ok
}

// =============================================================================
// REVIEWS
// =============================================================================

// Review statuses.
const (
	ReviewStatusNew      = "new"
	ReviewStatusAccepted = "accepted"
	ReviewStatusRejected = "rejected"
)

// ProductReview is a customer review of a product. New reviews are listed
// only after acceptance.
type ProductReview struct {
	ID          int64     `json:"id" yaml:"-"`
	ProductCode string    `json:"productCode" yaml:"product"`
	Title       string    `json:"title" yaml:"title"`
	Rating      int       `json:"rating" yaml:"rating"`
	Comment     string    `json:"comment" yaml:"comment"`
	AuthorEmail string    `json:"authorEmail" yaml:"author"`
	Status      string    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// CatalogRepository gives access to products and their reviews.
type CatalogRepository interface {
	// FindProduct returns ErrProductNotFound when code is unknown.
	FindProduct(ctx context.Context, code string) (*Product, error)

	// FindProductByVariant returns the product owning the variant code.
	FindProductByVariant(ctx context.Context, variantCode string) (*Product, error)

	// ListReviews returns the reviews of a product with the given status,
	// newest first.
	ListReviews(ctx context.Context, productCode, status string) ([]ProductReview, error)

	// AddReview stores a review and sets its ID.
	AddReview(ctx context.Context, review *ProductReview) error
}
