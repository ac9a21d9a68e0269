// Package fixtures loads shop reference data and sample customers from YAML.
package fixtures

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/shopapi/internal/auth"
	"github.com/dukerupert/shopapi/internal/domain"
)

//go:embed shop.yaml
var defaultShop []byte

// Data is the content of a fixtures file.
type Data struct {
	Channels        []domain.Channel        `yaml:"channels"`
	Countries       []domain.Country        `yaml:"countries"`
	Zones           []domain.Zone           `yaml:"zones"`
	ShippingMethods []domain.ShippingMethod `yaml:"shippingMethods"`
	PaymentMethods  []domain.PaymentMethod  `yaml:"paymentMethods"`
	TaxRates        []domain.TaxRate        `yaml:"taxRates"`
	Products        []domain.Product        `yaml:"products"`
	Reviews         []domain.ProductReview  `yaml:"reviews"`
	Promotions      []domain.Promotion      `yaml:"promotions"`
	Coupons         []domain.Coupon         `yaml:"coupons"`
	Customers       []Customer              `yaml:"customers"`
}

// Customer is a sample customer. Without a password it is a guest.
type Customer struct {
	Email             string    `yaml:"email"`
	FirstName         string    `yaml:"firstName"`
	LastName          string    `yaml:"lastName"`
	PhoneNumber       string    `yaml:"phoneNumber"`
	Group             string    `yaml:"group"`
	Password          string    `yaml:"password"`
	Enabled           bool      `yaml:"enabled"`
	VerificationToken string    `yaml:"verificationToken"`
	Addresses         []Address `yaml:"addresses"`
}

// Address is an address book entry of a sample customer.
type Address struct {
	FirstName    string `yaml:"firstName"`
	LastName     string `yaml:"lastName"`
	Company      string `yaml:"company"`
	Street       string `yaml:"street"`
	City         string `yaml:"city"`
	Postcode     string `yaml:"postcode"`
	CountryCode  string `yaml:"countryCode"`
	ProvinceCode string `yaml:"provinceCode"`
	PhoneNumber  string `yaml:"phoneNumber"`
}

// Default returns the embedded sample shop.
func Default() (*Data, error) {
	return Parse(defaultShop)
}

// LoadFile reads a fixtures file. An empty path loads the embedded shop.
func LoadFile(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes fixtures from r.
func Load(r io.Reader) (*Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(b)
}

// Parse decodes fixtures from YAML.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &d, nil
}

// CustomerStore is what LoadCustomers writes to.
type CustomerStore interface {
	domain.CustomerRepository
	domain.AddressRepository
}

// LoadCustomers creates the sample customers with their accounts and
// address books. Passwords are hashed with the minimal bcrypt cost.
func LoadCustomers(ctx context.Context, d *Data, store CustomerStore) error {
	for _, fc := range d.Customers {
		_, err := store.FindCustomerByEmail(ctx, fc.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			return fmt.Errorf("failed to look up customer %s: %w", fc.Email, err)
		}

		customer := &domain.Customer{
			Email:       fc.Email,
			FirstName:   fc.FirstName,
			LastName:    fc.LastName,
			PhoneNumber: fc.PhoneNumber,
			GroupCode:   fc.Group,
			Gender:      domain.GenderUnknown,
		}
		if err := store.CreateCustomer(ctx, customer); err != nil {
			return fmt.Errorf("failed to create customer %s: %w", fc.Email, err)
		}

		if fc.Password != "" {
			hash, err := auth.HashPasswordWithCost(fc.Password, bcrypt.MinCost)
			if err != nil {
				return fmt.Errorf("failed to hash password of %s: %w", fc.Email, err)
			}
			user := &domain.ShopUser{
				CustomerID:        customer.ID,
				PasswordHash:      hash,
				Enabled:           fc.Enabled,
				VerificationToken: fc.VerificationToken,
			}
			if err := store.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("failed to create user %s: %w", fc.Email, err)
			}
		}

		for _, fa := range fc.Addresses {
			id := customer.ID
			address := &domain.Address{
				CustomerID:   &id,
				FirstName:    fa.FirstName,
				LastName:     fa.LastName,
				Company:      fa.Company,
				Street:       fa.Street,
				City:         fa.City,
				Postcode:     fa.Postcode,
				CountryCode:  fa.CountryCode,
				ProvinceCode: fa.ProvinceCode,
				PhoneNumber:  fa.PhoneNumber,
			}
			if err := store.CreateAddress(ctx, address); err != nil {
				return fmt.Errorf("failed to create address of %s: %w", fc.Email, err)
			}
		}
	}
	return nil
}
