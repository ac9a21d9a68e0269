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

// checkoutUntilPayment addresses the cart and chooses FedEx and pay by check.
func (a *testAPI) checkoutUntilPayment(t *testing.T, token string) {
	t.Helper()

	steps := []request{
		{method: http.MethodPut, path: "/shop-api/checkout/" + token + "/address", body: map[string]any{"shippingAddress": gbAddress()}},
		{method: http.MethodPut, path: "/shop-api/checkout/" + token + "/shipping/0", body: map[string]string{"method": "FEDEX"}},
		{method: http.MethodPut, path: "/shop-api/checkout/" + token + "/payment/0", body: map[string]string{"method": "PBC"}},
	}
	for _, step := range steps {
		rec := a.do(t, step)
		require.Equal(t, http.StatusNoContent, rec.Code, "%s %s: %s", step.method, step.path, rec.Body.String())
	}
}

func TestCheckout_Guest(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)
	api.checkoutUntilPayment(t, token)

	rec := api.do(t, request{method: http.MethodGet, path: "/shop-api/checkout/" + token})
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[view.CartSummary](t, rec)
	assert.Equal(t, domain.CheckoutStatePaymentSelected, summary.CheckoutState)
	require.NotNil(t, summary.ShippingAddress)
	require.NotNil(t, summary.BillingAddress)
	assert.Equal(t, "London", summary.BillingAddress.City)
	require.Len(t, summary.Shipments, 1)
	require.NotNil(t, summary.Shipments[0].Method)
	assert.Equal(t, "FEDEX", summary.Shipments[0].Method.Code)
	assert.Equal(t, int64(150), summary.Shipments[0].Method.Price.Current)
	require.Len(t, summary.Payments, 1)
	require.NotNil(t, summary.Payments[0].Method)
	assert.Equal(t, "PBC", summary.Payments[0].Method.Code)
	// 1999 item, 150 shipping, 400 VAT
	assert.Equal(t, int64(2549), summary.Totals.Total)

	rec = api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/checkout/" + token + "/complete",
		body:   map[string]string{"email": "john@example.com", "notes": "Ring twice"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	order := api.order(t, token)
	assert.Equal(t, domain.OrderStateNew, order.State)
	assert.Equal(t, "000000001", order.Number)
	assert.Equal(t, "Ring twice", order.Notes)

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/carts/" + token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_AvailableMethods(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/checkout/" + token + "/address",
		body:   map[string]any{"shippingAddress": gbAddress()},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/checkout/" + token + "/shipping"})
	require.Equal(t, http.StatusOK, rec.Code)
	shipping := decode[view.AvailableShippingMethods](t, rec)
	require.Len(t, shipping.Shipments, 1)
	methods := shipping.Shipments[0].Methods
	assert.Len(t, methods, 2)
	assert.Equal(t, int64(500), methods["DHL"].Price.Current)
	assert.Equal(t, int64(150), methods["FEDEX"].Price.Current)
	assert.Equal(t, "GBP", methods["FEDEX"].Price.Currency)

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/checkout/" + token + "/payment"})
	require.Equal(t, http.StatusOK, rec.Code)
	payment := decode[view.AvailablePaymentMethods](t, rec)
	require.Len(t, payment.Payments, 1)
	assert.Contains(t, payment.Payments[0].Methods, "PBC")
	assert.Contains(t, payment.Payments[0].Methods, "CASH_ON_DELIVERY")
	assert.NotContains(t, payment.Payments[0].Methods, "CARD")
}

func TestCheckout_AvailableMethods_EmptyCart(t *testing.T) {
	api := newTestAPI(t)
	token := api.pickup(t, "")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "shipping", path: "/shipping", want: `{"shipments":[]}`},
		{name: "payment", path: "/payment", want: `{"payments":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{method: http.MethodGet, path: "/shop-api/checkout/" + token + tt.path})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestCheckout_Address_Invalid(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)

	address := gbAddress()
	delete(address, "firstName")
	billing := gbAddress()
	billing["countryCode"] = "DE"
	billing["provinceCode"] = "GB-SCT"

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/checkout/" + token + "/address",
		body:   map[string]any{"shippingAddress": address, "billingAddress": billing},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decode[handler.ErrorBody](t, rec)
	assert.Equal(t, []string{"This value should not be blank."}, body.Errors["shippingAddress.firstName"])
	assert.Equal(t, []string{"Province does not belong to the country."}, body.Errors["billingAddress.provinceCode"])
	assert.Nil(t, api.order(t, token).ShippingAddress)
}

func TestCheckout_ValidationMessagesInGerman(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)

	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/checkout/" + token + "/address",
		body:   map[string]any{"shippingAddress": map[string]string{}},
		header: map[string]string{"Accept-Language": "de-DE,de;q=0.9"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[handler.ErrorBody](t, rec)
	assert.Equal(t, "Validierung fehlgeschlagen", body.Message)
	assert.Equal(t, []string{"Dieser Wert sollte nicht leer sein."}, body.Errors["shippingAddress.city"])
}

func TestCheckout_ChooseMethod_Errors(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)
	rec := api.do(t, request{
		method: http.MethodPut,
		path:   "/shop-api/checkout/" + token + "/address",
		body:   map[string]any{"shippingAddress": gbAddress()},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	tests := []struct {
		name       string
		path       string
		method     string
		wantStatus int
	}{
		{name: "method of another zone", path: "/shipping/0", method: "DHL_EU", wantStatus: http.StatusBadRequest},
		{name: "unknown shipment", path: "/shipping/3", method: "DHL", wantStatus: http.StatusNotFound},
		{name: "blank method", path: "/shipping/0", method: "", wantStatus: http.StatusBadRequest},
		{name: "unknown payment", path: "/payment/5", method: "PBC", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, request{
				method: http.MethodPut,
				path:   "/shop-api/checkout/" + token + tt.path,
				body:   map[string]string{"method": tt.method},
			})
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestCheckout_Complete_WrongUser(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)
	api.checkoutUntilPayment(t, token)

	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/checkout/" + token + "/complete",
		body:   map[string]string{"email": "oliver@queen.com"},
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	body := decode[handler.ErrorBody](t, rec)
	assert.Equal(t, "You need to be logged in with the same user that wants to complete the order", body.Message)
	assert.True(t, api.order(t, token).IsCart())
}

func TestCheckout_Complete_WithoutCustomer(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)
	api.checkoutUntilPayment(t, token)

	rec := api.do(t, request{method: http.MethodPost, path: "/shop-api/checkout/" + token + "/complete"})

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.True(t, api.order(t, token).IsCart())
}

func TestCheckout_Complete_MissingCart(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/checkout/NOPE/complete",
		body:   map[string]string{"email": "john@example.com"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[handler.ErrorBody](t, rec).Errors, "token")
}

func TestCheckout_LoggedInCustomer(t *testing.T) {
	api := newTestAPI(t)
	jwt := api.login(t, "oliver@queen.com", "123password")

	token := api.pickup(t, jwt)
	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/carts/" + token + "/items",
		body:   map[string]any{"productCode": "LOGAN_MUG_CODE", "quantity": 1},
		token:  jwt,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	// Retail customers get the welcome discount.
	cart := decode[view.CartSummary](t, rec)
	assert.Equal(t, int64(-250), cart.Totals.Promotion)

	api.checkoutUntilPayment(t, token)
	rec = api.do(t, request{method: http.MethodPost, path: "/shop-api/checkout/" + token + "/complete", token: jwt})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/orders", token: jwt})
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]view.PlacedOrder](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, token, orders[0].TokenValue)
	assert.Equal(t, "000000001", orders[0].Number)
	assert.Equal(t, domain.OrderStateNew, orders[0].State)

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/orders/" + token, token: jwt})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "000000001", decode[view.PlacedOrder](t, rec).Number)
}

func TestOrders_OtherCustomersOrderIsHidden(t *testing.T) {
	api := newTestAPI(t)
	token := api.cartWithMug(t)
	api.checkoutUntilPayment(t, token)
	rec := api.do(t, request{
		method: http.MethodPost,
		path:   "/shop-api/checkout/" + token + "/complete",
		body:   map[string]string{"email": "john@example.com"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	jwt := api.login(t, "oliver@queen.com", "123password")

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/orders/" + token, token: jwt})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/orders", token: jwt})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]view.PlacedOrder](t, rec))

	rec = api.do(t, request{method: http.MethodGet, path: "/shop-api/orders"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
