package server

import (
	"log/slog"

	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	authmw "storefront-api/internal/middleware"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	cartHandler     *handler.CartHandler
	catalogHandler  *handler.CatalogHandler
	adminHandler    *handler.AdminHandler
	jwtSecret       string
}

func NewServer(
	cfg *config.Config,
	checkoutService service.CheckoutService,
	quoteService service.QuoteService,
	webhookService service.WebhookService,
	cartService service.CartService,
	catalogService service.CatalogService,
	trackingService service.TrackingService,
	adminService service.AdminService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, quoteService),
		webhookHandler:  handler.NewWebhookHandler(webhookService),
		cartHandler:     handler.NewCartHandler(cartService),
		catalogHandler:  handler.NewCatalogHandler(catalogService, trackingService),
		adminHandler:    handler.NewAdminHandler(adminService),
		jwtSecret:       cfg.Auth.JWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.GET("/tracking/:carrier/:number", s.catalogHandler.TrackShipment)

	// -------- checkout --------
	checkout := api.Group("/checkout")
	checkout.POST("/shipping-rates", s.checkoutHandler.ShippingRates)
	checkout.POST("/tax", s.checkoutHandler.TaxQuote)
	checkout.POST("/payment-intent", s.checkoutHandler.CreatePaymentIntent)

	// -------- payment processor callbacks --------
	api.POST("/webhooks/payment", s.webhookHandler.HandlePaymentWebhook)

	// -------- signed-in cart mirror --------
	cart := api.Group("/cart", authmw.UserAuth(s.jwtSecret))
	cart.GET("", s.cartHandler.GetCart)
	cart.PUT("", s.cartHandler.PutCart)
	cart.POST("/merge", s.cartHandler.MergeCart)
	cart.DELETE("", s.cartHandler.ClearCart)

	// -------- back office --------
	admin := api.Group("/admin", authmw.AdminAuth(s.jwtSecret))
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/orders/:orderId", s.adminHandler.GetOrder)
	admin.PATCH("/orders/:orderId/status", s.adminHandler.UpdateOrderStatus)
	admin.POST("/products", s.adminHandler.SaveProduct)
	admin.PUT("/products/:id", s.adminHandler.SaveProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeleteProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
