package shopapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/handler"
	"github.com/dukerupert/shopapi/internal/view"
)

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	jwt := api.login(t, "oliver@queen.com", "123password")

	rec := api.do(t, request{method: http.MethodGet, path: "/shop-api/me", token: jwt})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[view.Customer](t, rec)
	assert.Equal(t, "oliver@queen.com", me.Email)
	assert.Equal(t, "Oliver", me.FirstName)
	assert.Equal(t, "Queen", me.LastName)
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{name: "wrong password", body: map[string]string{"email": "oliver@queen.com", "password": "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown email", body: map[string]string{"email": "nobody@example.com", "password": "123password"}, wantStatus: http.StatusUnauthorized},
		{name: "guest without account", body: map[string]string{"email": "guest@example.com", "password": "123password"}, wantStatus: http.StatusUnauthorized},
		{name: "disabled account", body: map[string]string{"email": "dmitri@example.com", "password": "dmitripass"}, wantStatus: http.StatusUnauthorized},
		{name: "blank password", body: map[string]string{"email": "oliver@queen.com"}, wantStatus: http.StatusBadRequest},
	}

	api := newTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{method: http.MethodPost, path: "/shop-api/login", body: tt.body})
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestLogin_AssignsCart(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)

	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/login",
		body:   map[string]string{"email": "oliver@queen.com", "password": "123password", "token": token},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := api.order(t, token)
	require.NotNil(t, order.CustomerID)
	// The cart is reprocessed for the retail customer.
	assert.Equal(t, int64(-250), order.AdjustmentsTotal(domain.AdjustmentPromotion))
}

func TestMe_Unauthorized(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name        string
		header      map[string]string
		wantMessage string
	}{
		{name: "no token", wantMessage: "JWT Token not found"},
		{name: "invalid token", header: map[string]string{"Authorization": "Bearer not-a-token"}, wantMessage: "Invalid or expired token."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{method: http.MethodGet, path: "/shop-api/me", header: tt.header})

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantMessage, decode[handler.ErrorBody](t, rec).Message)
		})
	}
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/register",
		body: map[string]string{
			"email":         "vinny@example.com",
			"plainPassword": "somepassword",
			"firstName":     "Vincenzo",
			"lastName":      "Fortunato",
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	jwt := api.login(t, "vinny@example.com", "somepassword")
	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/me", token: jwt})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vincenzo", decode[view.Customer](t, rec).FirstName)
}

func TestRegister_Invalid(t *testing.T) {
	valid := func() map[string]string {
		return map[string]string{
			"email":         "vinny@example.com",
			"plainPassword": "somepassword",
			"firstName":     "Vincenzo",
			"lastName":      "Fortunato",
		}
	}

	tests := []struct {
		name      string
		change    func(body map[string]string)
		wantField string
	}{
		{name: "email taken", change: func(b map[string]string) { b["email"] = "oliver@queen.com" }, wantField: "email"},
		{name: "invalid email", change: func(b map[string]string) { b["email"] = "vinny" }, wantField: "email"},
		{name: "no first name", change: func(b map[string]string) { delete(b, "firstName") }, wantField: "firstName"},
		{name: "unknown channel", change: func(b map[string]string) { b["channel"] = "WEB_US" }, wantField: "channel"},
		{name: "short password", change: func(b map[string]string) { b["plainPassword"] = "short" }, wantField: "plainPassword"},
	}

	api := newTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.change(body)

			rec := api.do(t, request{method: http.MethodPost, path: "/shop-api/register", body: body})

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[handler.ErrorBody](t, rec).Errors, tt.wantField)
		})
	}
}

func TestRegister_GuestEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/register",
		body: map[string]string{
			"email":         "guest@example.com",
			"plainPassword": "guestpassword",
			"firstName":     "Sarah",
			"lastName":      "Guest",
		},
	})

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	api.login(t, "guest@example.com", "guestpassword")
}

func TestVerifyAccount(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{method: http.MethodGet, path: "/shop-api/verify-account?token=DMITRI_VERIFICATION_TOKEN"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	api.login(t, "dmitri@example.com", "dmitripass")

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/verify-account?token=DMITRI_VERIFICATION_TOKEN"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/verify-account"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	api := newTestAPI(t)
	jwt := api.login(t, "oliver@queen.com", "123password")

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/me",
		token:  jwt,
		body: map[string]any{
			"firstName":              "Ollie",
			"lastName":               "Queen",
			"email":                  "oliver@queen.com",
			"birthday":               "1985-05-16",
			"gender":                 "m",
			"subscribedToNewsletter": true,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[view.Customer](t, rec)
	assert.Equal(t, "Ollie", me.FirstName)
	assert.Equal(t, "m", me.Gender)
	assert.True(t, me.SubscribedToNewsletter)
	require.NotNil(t, me.Birthday)
	assert.Equal(t, 1985, me.Birthday.Year())
}

func TestUpdateMe_EmailChangeKeepsIdentity(t *testing.T) {
	api := newTestAPI(t)
	jwt := api.login(t, "oliver@queen.com", "123password")

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/me",
		token:  jwt,
		body:   map[string]any{"firstName": "Oliver", "lastName": "Queen", "email": "green.arrow@queen.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/register",
		body: map[string]string{
			"email":         "oliver@queen.com",
			"plainPassword": "impostor-password",
			"firstName":     "Impostor",
			"lastName":      "Queen",
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	tests := []struct {
		name      string
		method    string
		path      string
		body      any
		wantEmail string
	}{
		{name: "me", method: http.MethodGet, path: "/shop-api/me", wantEmail: "green.arrow@queen.com"},
		{
			name:      "update",
			method:    http.MethodPut,
			path:      "/shop-api/me",
			body:      map[string]any{"firstName": "Oliver", "lastName": "Queen", "email": "green.arrow@queen.com", "phoneNumber": "555"},
			wantEmail: "green.arrow@queen.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{method: tt.method, path: tt.path, token: jwt, body: tt.body})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			me := decode[view.Customer](t, rec)
			assert.Equal(t, tt.wantEmail, me.Email)
			assert.Equal(t, "Oliver", me.FirstName)
		})
	}

	impostor := api.login(t, "oliver@queen.com", "impostor-password")
	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/me", token: impostor})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Impostor", decode[view.Customer](t, rec).FirstName)
}

func TestUpdateMe_Invalid(t *testing.T) {
	api := newTestAPI(t)
	jwt := api.login(t, "oliver@queen.com", "123password")

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{name: "gender", body: map[string]any{"firstName": "O", "lastName": "Q", "email": "oliver@queen.com", "gender": "x"}, wantField: "gender"},
		{name: "birthday", body: map[string]any{"firstName": "O", "lastName": "Q", "email": "oliver@queen.com", "birthday": "16.05.1985"}, wantField: "birthday"},
		{name: "email", body: map[string]any{"firstName": "O", "lastName": "Q"}, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{method: http.MethodPut, path: "/shop-api/me", token: jwt, body: tt.body})

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[handler.ErrorBody](t, rec).Errors, tt.wantField)
		})
	}

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/me",
		body:   map[string]any{"firstName": "O", "lastName": "Q", "email": "oliver@queen.com"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
