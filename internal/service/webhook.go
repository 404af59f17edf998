package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront-api/internal/client"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"gorm.io/gorm"
)

const (
	orderLookupAttempts = 3
	orderLookupDelay    = 500 * time.Millisecond
)

// WebhookService reconciles asynchronous payment-processor events with
// order state. HandleEvent returns an error only for signature or payload
// failures; once the event is verified every downstream problem is logged
// and the processor still gets a success acknowledgment, so it does not
// retry-storm a handler that already committed state.
type WebhookService interface {
	HandleEvent(ctx context.Context, signatureHeader string, body []byte) error
}

type webhookServiceImpl struct {
	paymentClient    client.PaymentClient
	emailClient      client.EmailClient
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	webhookEventRepo repository.WebhookEventRepository

	lookupAttempts int
	lookupDelay    time.Duration
}

func NewWebhookService(
	paymentClient client.PaymentClient,
	emailClient client.EmailClient,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	webhookEventRepo repository.WebhookEventRepository,
) WebhookService {
	return &webhookServiceImpl{
		paymentClient:    paymentClient,
		emailClient:      emailClient,
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		webhookEventRepo: webhookEventRepo,
		lookupAttempts:   orderLookupAttempts,
		lookupDelay:      orderLookupDelay,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, signatureHeader string, body []byte) error {
	if err := s.paymentClient.VerifyWebhookSignature(signatureHeader, body); err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	var event model.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	if event.ID != "" {
		seen, err := s.webhookEventRepo.Exists(ctx, event.ID)
		if err != nil {
			slog.Warn("webhook event dedup lookup failed", "event", event.ID, "error", err)
		}
		if seen {
			slog.Info("webhook event already processed", "event", event.ID, "type", event.Type)
			return nil
		}
	}

	// Handlers report whether they reached a terminal outcome. An event
	// that could still succeed on redelivery (order not yet created,
	// transient store failure) must stay unmarked so the processor's
	// redelivery re-runs the full reconciliation path.
	committed := true
	switch event.Type {
	case "payment_intent.succeeded":
		committed = s.handlePaymentSucceeded(ctx, &event)
	case "payment_intent.payment_failed":
		committed = s.handlePaymentFailed(ctx, &event)
	case "checkout.session.completed":
		committed = s.handleSessionCompleted(ctx, &event)
	case "charge.refunded":
		committed = s.handleChargeRefunded(ctx, &event)
	default:
		slog.Debug("ignoring webhook event", "type", event.Type)
	}

	if committed && event.ID != "" {
		if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
			slog.Warn("mark webhook event processed", "event", event.ID, "error", err)
		}
	}

	return nil
}

func (s *webhookServiceImpl) handlePaymentSucceeded(ctx context.Context, event *model.PaymentEvent) bool {
	var intent model.PaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		slog.Error("decode payment intent from event", "event", event.ID, "error", err)
		return true // the payload will not improve on redelivery
	}

	orderID := intent.Metadata["order_id"]
	if orderID == "" {
		slog.Error("payment_intent.succeeded without order_id metadata", "intent", intent.ID)
		return true
	}

	order := s.findOrderWithRetry(ctx, orderID)
	if order == nil {
		// The money moved but there is nothing to reconcile against yet.
		// Leaving the event unmarked keeps processor redelivery as the
		// retry path once the optimistic pre-create lands.
		slog.Error("CRITICAL: paid order not found, reconciliation abandoned",
			"orderId", orderID, "intent", intent.ID)
		return false
	}

	err := s.orderRepo.UpdateByOrderID(ctx, orderID, map[string]interface{}{
		"status":            model.OrderStatusProcessing,
		"payment_status":    model.PaymentStatusPaid,
		"payment_intent_id": intent.ID,
	})
	if err != nil {
		slog.Error("mark order paid", "orderId", orderID, "error", err)
		return false
	}

	// Best-effort from here on; neither step may block the other.
	if order.UserID != nil {
		if err := s.cartRepo.Clear(ctx, *order.UserID); err != nil {
			slog.Warn("clear cart after payment", "orderId", orderID, "user", *order.UserID, "error", err)
		}
	}
	s.sendConfirmation(ctx, order)
	return true
}

func (s *webhookServiceImpl) handlePaymentFailed(ctx context.Context, event *model.PaymentEvent) bool {
	var intent model.PaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		slog.Error("decode payment intent from event", "event", event.ID, "error", err)
		return true
	}

	orderID := intent.Metadata["order_id"]
	if orderID == "" {
		slog.Warn("payment_intent.payment_failed without order_id metadata", "intent", intent.ID)
		return true
	}

	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		slog.Warn("order not found for failed payment", "orderId", orderID, "error", err)
		return false
	}

	reason := "payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Message != "" {
		reason = "payment failed: " + intent.LastPaymentError.Message
	}

	err = s.orderRepo.UpdateByOrderID(ctx, orderID, map[string]interface{}{
		"status":         model.OrderStatusCancelled,
		"payment_status": model.PaymentStatusFailed,
		"notes":          appendNote(order.Notes, reason),
	})
	if err != nil {
		slog.Error("mark order failed", "orderId", orderID, "error", err)
		return false
	}
	return true
}

// handleSessionCompleted covers the hosted-checkout flow where no order was
// pre-created. When the session's metadata names an order that already
// exists, the existing record is reconciled instead of inserting a
// duplicate.
func (s *webhookServiceImpl) handleSessionCompleted(ctx context.Context, event *model.PaymentEvent) bool {
	var session model.CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		slog.Error("decode checkout session from event", "event", event.ID, "error", err)
		return true
	}

	orderID := session.Metadata["order_id"]
	if orderID != "" {
		existing, err := s.orderRepo.FindByOrderID(ctx, orderID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("lookup order for completed session", "orderId", orderID, "error", err)
			return false
		}
		if existing != nil {
			err := s.orderRepo.UpdateByOrderID(ctx, orderID, map[string]interface{}{
				"status":            model.OrderStatusProcessing,
				"payment_status":    model.PaymentStatusPaid,
				"payment_intent_id": session.PaymentIntent,
			})
			if err != nil {
				slog.Error("reconcile order from completed session", "orderId", orderID, "error", err)
				return false
			}
			if existing.UserID != nil {
				if err := s.cartRepo.Clear(ctx, *existing.UserID); err != nil {
					slog.Warn("clear cart after session", "orderId", orderID, "error", err)
				}
			}
			s.sendConfirmation(ctx, existing)
			return true
		}
	}

	if orderID == "" {
		orderID = model.NewOrderID()
	}

	items, err := s.paymentClient.ListSessionLineItems(ctx, session.ID)
	if err != nil {
		slog.Warn("fetch session line items", "session", session.ID, "error", err)
	}

	shipping := session.TotalDetails.AmountShipping
	tax := session.TotalDetails.AmountTax
	order := &model.Order{
		OrderID:       orderID,
		Email:         session.CustomerEmail,
		Subtotal:      session.AmountTotal - shipping - tax,
		Shipping:      shipping,
		Tax:           tax,
		Total:         session.AmountTotal,
		Status:        model.OrderStatusProcessing,
		PaymentStatus: model.PaymentStatusPaid,
	}
	if session.PaymentIntent != "" {
		order.PaymentIntentID = &session.PaymentIntent
	}
	if err := order.SetLineItems(items); err != nil {
		slog.Error("serialize session items", "orderId", orderID, "error", err)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		slog.Error("create order from completed session", "orderId", orderID, "error", err)
		return false
	}

	s.sendConfirmation(ctx, order)
	return true
}

func (s *webhookServiceImpl) handleChargeRefunded(ctx context.Context, event *model.PaymentEvent) bool {
	var charge model.Charge
	if err := json.Unmarshal(event.Data.Object, &charge); err != nil {
		slog.Error("decode charge from event", "event", event.ID, "error", err)
		return true
	}
	if charge.PaymentIntent == "" {
		slog.Warn("charge.refunded without payment_intent", "charge", charge.ID)
		return true
	}

	order, err := s.orderRepo.FindByPaymentIntentID(ctx, charge.PaymentIntent)
	if err != nil {
		slog.Warn("order not found for refund", "intent", charge.PaymentIntent, "error", err)
		return false
	}

	updates := map[string]interface{}{
		"payment_status": model.PaymentStatusPartial,
		"notes": appendNote(order.Notes,
			fmt.Sprintf("refunded $%.2f", float64(charge.AmountRefunded)/100)),
	}
	if charge.Refunded {
		updates["payment_status"] = model.PaymentStatusRefunded
		updates["status"] = model.OrderStatusCancelled
	}

	if err := s.orderRepo.UpdateByOrderID(ctx, order.OrderID, updates); err != nil {
		slog.Error("mark order refunded", "orderId", order.OrderID, "error", err)
		return false
	}
	return true
}

// findOrderWithRetry re-checks a short bounded window to cover the race
// where the optimistic pre-create lands just after the webhook arrives.
func (s *webhookServiceImpl) findOrderWithRetry(ctx context.Context, orderID string) *model.Order {
	for attempt := 0; attempt < s.lookupAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.lookupDelay):
			}
		}

		order, err := s.orderRepo.FindByOrderID(ctx, orderID)
		if err == nil {
			return order
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("order lookup failed", "orderId", orderID, "error", err)
			return nil
		}
	}
	return nil
}

// sendConfirmation emails the order's stored snapshot at most once: the
// confirmation_sent_at stamp makes redelivered success events a no-op.
func (s *webhookServiceImpl) sendConfirmation(ctx context.Context, order *model.Order) {
	if order.ConfirmationSentAt != nil {
		return
	}

	if err := s.emailClient.SendOrderConfirmation(ctx, order); err != nil {
		slog.Warn("send order confirmation", "orderId", order.OrderID, "error", err)
		return
	}
	if err := s.orderRepo.MarkConfirmationSent(ctx, order.OrderID); err != nil {
		slog.Warn("mark confirmation sent", "orderId", order.OrderID, "error", err)
	}
}

func appendNote(notes, add string) string {
	if notes == "" {
		return add
	}
	return notes + "\n" + add
}
