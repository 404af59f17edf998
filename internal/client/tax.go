package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-api/internal/config"
	"storefront-api/internal/model"
)

type TaxLineItem struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // unit price, cents
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

type TaxLineResult struct {
	ID  string `json:"id"`
	Tax int64  `json:"tax"`
}

type TaxCalculation struct {
	TotalTax int64
	Lines    []TaxLineResult
}

type TaxClient interface {
	Calculate(ctx context.Context, items []TaxLineItem, addr model.ShippingAddress) (*TaxCalculation, error)
}

type taxClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

// NewTaxClient returns nil when no provider is configured; callers fall
// back to the flat per-state estimate.
func NewTaxClient(cfg *config.Tax) TaxClient {
	if cfg.BaseApiURL == "" || cfg.APIKey == "" {
		return nil
	}
	return &taxClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
	}
}

func (c *taxClientImpl) Calculate(ctx context.Context, items []TaxLineItem, addr model.ShippingAddress) (*TaxCalculation, error) {
	payload := map[string]interface{}{
		"line_items": items,
		"address":    addr,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/taxes/calculate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tax provider error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		TotalTax int64           `json:"total_tax"`
		Lines    []TaxLineResult `json:"line_items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tax response: %w", err)
	}

	return &TaxCalculation{
		TotalTax: result.TotalTax,
		Lines:    result.Lines,
	}, nil
}
