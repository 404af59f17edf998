package handler

import (
	"net/http"

	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService  service.CatalogService
	trackingService service.TrackingService
}

func NewCatalogHandler(catalogService service.CatalogService, trackingService service.TrackingService) *CatalogHandler {
	return &CatalogHandler{
		catalogService:  catalogService,
		trackingService: trackingService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListActive(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Get(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) TrackShipment(c echo.Context) error {
	ctx := c.Request().Context()

	carrier := c.Param("carrier")
	number := c.Param("number")
	if carrier == "" || number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing carrier or tracking number")
	}

	info, err := h.trackingService.Track(ctx, carrier, number)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, info)
}
