package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/events"
)

func registration(email string) command.RegisterCustomer {
	return command.RegisterCustomer{
		Email:       email,
		Password:    "somepassword",
		FirstName:   "Vin",
		LastName:    "Diesel",
		ChannelCode: "WEB_GB",
	}
}

func TestRegisterCustomer_WithVerification(t *testing.T) {
	ts := newTestShop(t, withVerification("SOME_TOKEN"))
	ctx := context.Background()

	ts.mustDispatch(t, registration("vinny@fandf.com"))

	registered := ts.events.Events()[0].(events.CustomerRegistered)
	assert.Equal(t, "vinny@fandf.com", registered.Email)
	assert.Equal(t, "SOME_TOKEN", registered.VerificationToken)

	_, err := ts.shop.Login(ctx, "vinny@fandf.com", "somepassword")
	assert.ErrorIs(t, err, domain.ErrUserDisabled)

	ts.mustDispatch(t, command.VerifyAccount{Token: "SOME_TOKEN"})
	assert.Equal(t, "customer.enabled", ts.events.Names()[1])

	customer, err := ts.shop.Login(ctx, "vinny@fandf.com", "somepassword")
	require.NoError(t, err)
	assert.Equal(t, "Vin Diesel", customer.FullName())

	user, err := ts.store.FindUserByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, user.VerificationToken)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, fixedNow, *user.LastLogin)

	err = ts.dispatch(t, command.VerifyAccount{Token: "SOME_TOKEN"})
	assert.ErrorIs(t, err, domain.ErrTokenNotFound, "tokens are single use")
}

func TestRegisterCustomer(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func() command.RegisterCustomer
		wantErr error
	}{
		{
			name: "enabled right away",
			cmd:  func() command.RegisterCustomer { return registration("vinny@fandf.com") },
		},
		{
			name: "guest becomes registered",
			cmd:  func() command.RegisterCustomer { return registration("guest@example.com") },
		},
		{
			name:    "email taken",
			cmd:     func() command.RegisterCustomer { return registration("OLIVER@queen.com") },
			wantErr: domain.ErrEmailTaken,
		},
		{
			name: "unknown channel",
			cmd: func() command.RegisterCustomer {
				cmd := registration("vinny@fandf.com")
				cmd.ChannelCode = "WEB_US"
				return cmd
			},
			wantErr: domain.ErrChannelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestShop(t)
			cmd := tt.cmd()

			err := ts.dispatch(t, cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			customer, err := ts.shop.Login(context.Background(), cmd.Email, cmd.Password)
			require.NoError(t, err)
			assert.Equal(t, "Vin", customer.FirstName)
			assert.Equal(t, []string{"customer.registered"}, ts.events.Names())
		})
	}
}

func TestRegisterCustomer_ShortPassword(t *testing.T) {
	ts := newTestShop(t)
	cmd := registration("vinny@fandf.com")
	cmd.Password = "short"

	err := ts.dispatch(t, cmd)

	require.True(t, domain.IsValidationError(err))
	assert.Contains(t, domain.GetValidationFields(err), "plainPassword")
	_, err = ts.store.FindCustomerByEmail(context.Background(), "vinny@fandf.com")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestEnableCustomer(t *testing.T) {
	ts := newTestShop(t)
	ctx := context.Background()

	_, err := ts.shop.Login(ctx, "dmitri@example.com", "dmitripass")
	assert.ErrorIs(t, err, domain.ErrUserDisabled)

	ts.mustDispatch(t, command.EnableCustomer{Email: "dmitri@example.com"})

	_, err = ts.shop.Login(ctx, "dmitri@example.com", "dmitripass")
	assert.NoError(t, err)

	err = ts.dispatch(t, command.EnableCustomer{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = ts.dispatch(t, command.EnableCustomer{Email: "guest@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "guests have no account")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestShop(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "oliver@queen.com", password: "wrong"},
		{name: "unknown email", email: "nobody@example.com", password: "123password"},
		{name: "guest", email: "guest@example.com", password: "123password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.shop.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidLogin)
		})
	}
}

func TestUpdateCustomer(t *testing.T) {
	ts := newTestShop(t)
	birthday := time.Date(1985, 7, 4, 0, 0, 0, 0, time.UTC)
	oliver := ts.customerID(t, "oliver@queen.com")

	ts.mustDispatch(t, command.UpdateCustomer{
		CustomerID:             oliver,
		FirstName:              "Ollie",
		LastName:               "Queen",
		Email:                  "ollie@queen.com",
		Birthday:               &birthday,
		PhoneNumber:            "0918972132",
		SubscribedToNewsletter: true,
	})

	customer, err := ts.store.FindCustomerByEmail(context.Background(), "ollie@queen.com")
	require.NoError(t, err)
	assert.Equal(t, "Ollie", customer.FirstName)
	assert.Equal(t, domain.GenderUnknown, customer.Gender)
	assert.True(t, customer.SubscribedToNewsletter)
	assert.Equal(t, "retail", customer.GroupCode, "group is not part of the profile")

	assert.Equal(t, oliver, customer.ID)

	err = ts.dispatch(t, command.UpdateCustomer{CustomerID: oliver, Email: "dmitri@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	err = ts.dispatch(t, command.UpdateCustomer{CustomerID: 999, Email: "nobody@example.com"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestAddressBook(t *testing.T) {
	ts := newTestShop(t)
	ctx := context.Background()
	owner := ts.customerID(t, "oliver@queen.com")

	var id int64
	scotland := gbAddress()
	scotland.ProvinceCode = "GB-SCT"
	ts.mustDispatch(t, command.CreateAddress{CustomerID: owner, Address: scotland, CreatedID: &id})
	require.NotZero(t, id)

	created, err := ts.store.FindAddress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Scotland", created.ProvinceName)

	t.Run("update", func(t *testing.T) {
		changed := scotland
		changed.Street = "Royal Mile 1"
		ts.mustDispatch(t, command.UpdateAddress{CustomerID: owner, AddressID: id, Address: changed})

		got, err := ts.store.FindAddress(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Royal Mile 1", got.Street)
	})

	t.Run("set default", func(t *testing.T) {
		ts.mustDispatch(t, command.SetDefaultAddress{CustomerID: owner, AddressID: id})

		customer, err := ts.store.FindCustomer(ctx, owner)
		require.NoError(t, err)
		require.NotNil(t, customer.DefaultAddressID)
		assert.Equal(t, id, *customer.DefaultAddressID)
	})

	t.Run("someone else's address", func(t *testing.T) {
		dmitri := ts.customerID(t, "dmitri@example.com")
		for _, cmd := range []command.Command{
			command.UpdateAddress{CustomerID: dmitri, AddressID: id, Address: scotland},
			command.RemoveAddress{CustomerID: dmitri, AddressID: id},
			command.SetDefaultAddress{CustomerID: dmitri, AddressID: id},
		} {
			assert.ErrorIs(t, ts.dispatch(t, cmd), domain.ErrAddressNotFound, cmd.CommandName())
		}
	})

	t.Run("invalid province", func(t *testing.T) {
		bad := gbAddress()
		bad.ProvinceCode = "DE-BY"
		err := ts.dispatch(t, command.CreateAddress{CustomerID: owner, Address: bad})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("remove", func(t *testing.T) {
		ts.mustDispatch(t, command.RemoveAddress{CustomerID: owner, AddressID: id})

		_, err := ts.store.FindAddress(ctx, id)
		assert.ErrorIs(t, err, domain.ErrAddressNotFound)

		customer, err := ts.store.FindCustomer(ctx, owner)
		require.NoError(t, err)
		assert.Nil(t, customer.DefaultAddressID)
	})
}

func TestAddReview(t *testing.T) {
	ts := newTestShop(t)
	ctx := context.Background()

	ts.mustDispatch(t, command.AddReview{
		ProductCode: "LOGAN_MUG_CODE",
		Title:       "Nice",
		Rating:      4,
		Comment:     "Really nice",
		Email:       "sherlock@example.com",
	})

	pending, err := ts.store.ListReviews(ctx, "LOGAN_MUG_CODE", domain.ReviewStatusNew)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Nice", pending[0].Title)
	assert.Equal(t, fixedNow, pending[0].CreatedAt)

	accepted, err := ts.store.ListReviews(ctx, "LOGAN_MUG_CODE", domain.ReviewStatusAccepted)
	require.NoError(t, err)
	assert.Len(t, accepted, 1, "new reviews wait for acceptance")

	err = ts.dispatch(t, command.AddReview{ProductCode: "NOPE", Title: "x", Rating: 3, Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
