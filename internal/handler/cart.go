package handler

import (
	"net/http"

	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func userIDFromContext(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}
	return userID, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	items, err := h.cartService.Get(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CartResponse{
		Items:     items,
		ItemCount: service.ItemCount(items),
		Subtotal:  service.Subtotal(items),
	})
}

// PutCart is the asynchronous mirror write fired after each client-side
// mutation; last write wins.
func (h *CartHandler) PutCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.Put(ctx, userID, req.Items); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// MergeCart runs on sign-in: union of server and local items, local wins
// ties, merged result written back and returned.
func (h *CartHandler) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	merged, err := h.cartService.Merge(ctx, userID, req.Items)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CartResponse{
		Items:     merged,
		ItemCount: service.ItemCount(merged),
		Subtotal:  service.Subtotal(merged),
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Clear(ctx, userID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
