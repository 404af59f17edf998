package handler

import (
	"errors"
	"net/http"

	"storefront-api/internal/dto"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	quoteService    service.QuoteService
}

func NewCheckoutHandler(checkoutService service.CheckoutService, quoteService service.QuoteService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		quoteService:    quoteService,
	}
}

func (h *CheckoutHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.checkoutService.CreatePaymentIntent(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingRequiredField) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": service.ErrPaymentIntentFailed.Error(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) ShippingRates(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ShippingRatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	return c.JSON(http.StatusOK, h.quoteService.ShippingRates(ctx, req.Items, req.Address))
}

func (h *CheckoutHandler) TaxQuote(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TaxRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	return c.JSON(http.StatusOK, h.quoteService.TaxQuote(ctx, req.Items, req.Address))
}
