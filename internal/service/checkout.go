package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

// Caller-facing checkout error taxonomy.
var (
	ErrMissingRequiredField = errors.New("missing_required_field")
	ErrPaymentIntentFailed  = errors.New("payment_intent_creation_failed")
)

type CheckoutService interface {
	CreatePaymentIntent(ctx context.Context, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
}

type checkoutServiceImpl struct {
	paymentClient client.PaymentClient
	orderRepo     repository.OrderRepository
}

func NewCheckoutService(
	paymentClient client.PaymentClient,
	orderRepo repository.OrderRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		paymentClient: paymentClient,
		orderRepo:     orderRepo,
	}
}

// CreatePaymentIntent is checkout step three. It persists the pending order
// snapshot first so the webhook has something to reconcile against, then
// requests the payment intent. The order write is optimistic: a storage
// failure is logged and swallowed rather than blocking checkout, so a paid
// intent can exist without an order (the webhook logs that as a critical
// reconciliation miss). Intent creation failure is fatal and retryable by
// the caller.
func (s *checkoutServiceImpl) CreatePaymentIntent(ctx context.Context, req *dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount", ErrMissingRequiredField)
	}
	if req.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId", ErrMissingRequiredField)
	}

	order := &model.Order{
		OrderID:       req.OrderID,
		Email:         req.Email,
		Subtotal:      req.Amount - req.Shipping - req.Tax,
		Shipping:      req.Shipping,
		Tax:           req.Tax,
		Total:         req.Amount,
		Status:        model.OrderStatusPendingPayment,
		PaymentStatus: model.PaymentStatusPending,
	}
	if req.UserID != "" {
		order.UserID = &req.UserID
	}
	if req.ShippingService != "" {
		order.ShippingService = &req.ShippingService
	}
	if err := order.SetLineItems(req.Items); err != nil {
		slog.Error("serialize order items", "orderId", req.OrderID, "error", err)
	}
	if err := order.SetAddress(req.ShippingAddress); err != nil {
		slog.Error("serialize shipping address", "orderId", req.OrderID, "error", err)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		slog.Error("pre-create pending order failed, continuing checkout",
			"orderId", req.OrderID, "error", err)
	}

	intent, err := s.paymentClient.CreateIntent(ctx, req.Amount, "usd", req.OrderID, req.UserID)
	if err != nil {
		slog.Error("create payment intent", "orderId", req.OrderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentIntentFailed, err)
	}

	return &dto.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}
