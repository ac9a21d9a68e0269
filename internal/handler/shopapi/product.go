package shopapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/shopapi/internal/command"
	"github.com/dukerupert/shopapi/internal/domain"
	"github.com/dukerupert/shopapi/internal/i18n"
	"github.com/dukerupert/shopapi/internal/middleware"
	"github.com/dukerupert/shopapi/internal/view"
)

// ProductHandler handles the catalog routes.
type ProductHandler struct {
	*base
}

// Show handles GET /products/by-code/:code. The product is rendered in the
// channel given by the channel query parameter, in one of its locales.
func (h *ProductHandler) Show(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	channel, err := h.channels.FindChannel(ctx, h.channelCode(req.Channel))
	if err != nil {
		return err
	}
	product, err := h.catalog.FindProduct(ctx, req.Code)
	if err != nil {
		return err
	}
	if !product.Enabled || !product.AvailableIn(channel.Code) {
		return domain.ErrProductNotFound
	}

	locale := i18n.Negotiate(req.Locale, c.Request().Header.Get(headerAcceptLanguage), channel.Locales, channel.DefaultLocale)
	return c.JSON(http.StatusOK, view.NewProduct(product, channel, locale))
}

// Reviews handles GET /products/by-code/:code/reviews. Only accepted reviews
// are listed.
func (h *ProductHandler) Reviews(c echo.Context) error {
	var req reviewsRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.catalog.FindProduct(ctx, req.Code); err != nil {
		return err
	}
	reviews, err := h.catalog.ListReviews(ctx, req.Code, domain.ReviewStatusAccepted)
	if err != nil {
		return err
	}

	items := make([]view.ProductReview, 0, len(reviews))
	for i := range reviews {
		items = append(items, view.NewProductReview(&reviews[i]))
	}
	return c.JSON(http.StatusOK, view.Paginate(items, req.Page, req.Limit))
}

// AddReview handles POST /products/by-code/:code/reviews. The email defaults
// to the logged in customer's.
func (h *ProductHandler) AddReview(c echo.Context) error {
	ctx := c.Request().Context()

	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Email == "" && middleware.CustomerID(ctx) != 0 {
		customer, err := h.currentCustomer(c)
		if err != nil {
			return err
		}
		req.Email = customer.Email
	}
	if err := h.validate(ctx, c, &req); err != nil {
		return err
	}

	cmd := command.AddReview{
		ProductCode: req.Code,
		Title:       req.Title,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Email:       req.Email,
	}
	if err := h.dispatch(ctx, cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}
