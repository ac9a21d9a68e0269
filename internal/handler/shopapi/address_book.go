package shopapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/view"
)

// AddressBookHandler handles the address book of the logged in customer.
type AddressBookHandler struct {
	*base
}

// List handles GET /address-book.
func (h *AddressBookHandler) List(c echo.Context) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return err
	}

	addresses, err := h.addresses.ListByCustomer(c.Request().Context(), customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewAddressBook(addresses, customer.DefaultAddressID))
}

// Create handles POST /address-book.
func (h *AddressBookHandler) Create(c echo.Context) error {
	var req addressPayload
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var id int64
	cmd := command.CreateAddress{
		CustomerID: middleware.CustomerID(ctx),
		Address:    req.command(),
		CreatedID:  &id,
	}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return h.renderAddress(c, http.StatusCreated, id)
}

// Update handles PUT /address-book/:id.
func (h *AddressBookHandler) Update(c echo.Context) error {
	var req addressBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.validate(ctx, c, &req.addressPayload); err != nil {
		return err
	}

	cmd := command.UpdateAddress{
		CustomerID: middleware.CustomerID(ctx),
		AddressID:  req.ID,
		Address:    req.command(),
	}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return h.renderAddress(c, http.StatusOK, req.ID)
}

// Remove handles DELETE /address-book/:id.
func (h *AddressBookHandler) Remove(c echo.Context) error {
	var req addressIDRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	cmd := command.RemoveAddress{CustomerID: middleware.CustomerID(ctx), AddressID: req.ID}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDefault handles PATCH /address-book/:id/default.
func (h *AddressBookHandler) SetDefault(c echo.Context) error {
	var req addressIDRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	cmd := command.SetDefaultAddress{CustomerID: middleware.CustomerID(ctx), AddressID: req.ID}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AddressBookHandler) renderAddress(c echo.Context, status int, id int64) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return err
	}
	address, err := h.addresses.FindAddress(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(status, view.NewAddress(address, customer.DefaultAddressID))
}
