package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"storefront-api/internal/client"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandlePaymentWebhook acknowledges every verified event with 200 whatever
// happens downstream; only signature or payload failures get a client
// error, which is the lever that controls processor redelivery.
func (h *WebhookHandler) HandlePaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	sig := c.Request().Header.Get(signatureHeader)
	if err := h.webhookService.HandleEvent(ctx, sig, body); err != nil {
		if errors.Is(err, client.ErrInvalidSignature) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		}
		// verified but undecodable: ack so the processor stops redelivering
		slog.Error("webhook event not processable", "error", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
