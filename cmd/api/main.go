package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/logger"
	"storefront-api/internal/repository"
	"storefront-api/internal/server"
	"storefront-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(&cfg.Log)

	db := client.InitDBClient(&cfg.Database)
	paymentClient := client.NewPaymentClient(&cfg.Payment)
	shippingClient := client.NewShippingClient(&cfg.Shipping)
	taxClient := client.NewTaxClient(&cfg.Tax)
	emailClient := client.NewEmailClient(&cfg.Email)

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if cfg.Environment.Name == "development" {
		if err := productRepo.Seed(context.Background()); err != nil {
			slog.Warn("seed products", "error", err)
		}
	}

	checkoutService := service.NewCheckoutService(paymentClient, orderRepo)
	quoteService := service.NewQuoteService(
		shippingClient, taxClient, productRepo,
		cfg.Checkout.FreeShippingThreshold,
		cfg.Checkout.DefaultItemWeight,
	)
	webhookService := service.NewWebhookService(
		paymentClient, emailClient,
		orderRepo, cartRepo, webhookEventRepo,
	)
	cartService := service.NewCartService(cartRepo)
	catalogService := service.NewCatalogService(productRepo)
	trackingService := service.NewTrackingService(shippingClient)
	adminService := service.NewAdminService(orderRepo, productRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		cfg,
		checkoutService,
		quoteService,
		webhookService,
		cartService,
		catalogService,
		trackingService,
		adminService,
	)

	slog.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	slog.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		os.Exit(1)
	}
}
