package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-api/internal/config"
	"storefront-api/internal/model"
)

// ErrInvalidSignature covers missing, malformed, stale and tampered webhook
// signatures. Nothing downstream of verification runs when it is returned.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const signatureTolerance = 5 * time.Minute

type PaymentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency, orderID, userID string) (*model.PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error)
	ListSessionLineItems(ctx context.Context, sessionID string) ([]model.CartItem, error)
	VerifyWebhookSignature(signatureHeader string, body []byte) error
}

type paymentClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
	now           func() time.Time
}

func NewPaymentClient(cfg *config.Payment) PaymentClient {
	return &paymentClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    cfg.BaseApiURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		now:           time.Now,
	}
}

// CreateIntent requests a payment intent for the finalized total. Metadata
// is deliberately minimal (order id + owner id), not the full cart: the
// processor caps metadata size and the order snapshot lives in our store.
func (c *paymentClientImpl) CreateIntent(ctx context.Context, amount int64, currency, orderID, userID string) (*model.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[order_id]", orderID)
	if userID != "" {
		form.Set("metadata[user_id]", userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment processor error %d: %s", resp.StatusCode, string(b))
	}

	var intent model.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	return &intent, nil
}

func (c *paymentClientImpl) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment processor error %d: %s", resp.StatusCode, string(b))
	}

	var intent model.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	return &intent, nil
}

// ListSessionLineItems fetches processor-side line items for the
// session-completed fallback path, where no local order snapshot exists.
func (c *paymentClientImpl) ListSessionLineItems(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/checkout/sessions/"+sessionID+"/line_items", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment processor error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Data []struct {
			Description string `json:"description"`
			Quantity    int    `json:"quantity"`
			Price       struct {
				UnitAmount int64 `json:"unit_amount"`
			} `json:"price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode session line items: %w", err)
	}

	items := make([]model.CartItem, len(result.Data))
	for i, line := range result.Data {
		items[i] = model.CartItem{
			Name:     line.Description,
			Price:    line.Price.UnitAmount,
			Quantity: line.Quantity,
		}
	}
	return items, nil
}

// VerifyWebhookSignature checks the "t=<unix>,v1=<hex hmac>" header against
// HMAC-SHA256(secret, "<t>.<body>") within the tolerance window.
func (c *paymentClientImpl) VerifyWebhookSignature(signatureHeader string, body []byte) error {
	if signatureHeader == "" {
		return ErrInvalidSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	age := c.now().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}
