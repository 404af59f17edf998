package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-api/internal/client"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhookService struct {
	err     error
	lastSig string
}

func (s *stubWebhookService) HandleEvent(ctx context.Context, signatureHeader string, body []byte) error {
	s.lastSig = signatureHeader
	return s.err
}

func postWebhook(h *WebhookHandler, sig string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment",
		strings.NewReader(`{"id":"evt_1","type":"payment_intent.succeeded"}`))
	if sig != "" {
		req.Header.Set(signatureHeader, sig)
	}
	rec := httptest.NewRecorder()
	_ = h.HandlePaymentWebhook(e.NewContext(req, rec))
	return rec
}

func TestHandlePaymentWebhook_Acknowledges(t *testing.T) {
	svc := &stubWebhookService{}
	rec := postWebhook(NewWebhookHandler(svc), "t=1,v1=abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"received":true`)
	assert.Equal(t, "t=1,v1=abc", svc.lastSig)
}

func TestHandlePaymentWebhook_BadSignature(t *testing.T) {
	svc := &stubWebhookService{err: fmt.Errorf("verify webhook signature: %w", client.ErrInvalidSignature)}
	rec := postWebhook(NewWebhookHandler(svc), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePaymentWebhook_NonSignatureErrorStillAcknowledges(t *testing.T) {
	// a verified but undecodable event must not trigger redelivery
	svc := &stubWebhookService{err: fmt.Errorf("decode webhook payload: unexpected end of JSON input")}
	rec := postWebhook(NewWebhookHandler(svc), "t=1,v1=abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"received":true`)
}
