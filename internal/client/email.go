package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-api/internal/config"
	"storefront-api/internal/model"
)

type EmailClient interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order) error
}

type emailClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	apiKey      string
	fromAddress string
	fromName    string
}

func NewEmailClient(cfg *config.Email) EmailClient {
	return &emailClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  cfg.BaseApiURL,
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

// SendOrderConfirmation renders the confirmation from the order's own
// stored snapshot; the webhook payload carries only metadata.
func (c *emailClientImpl) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	if c.baseApiURL == "" || c.apiKey == "" {
		return fmt.Errorf("email sender not configured")
	}

	payload := map[string]interface{}{
		"from": map[string]string{
			"email": c.fromAddress,
			"name":  c.fromName,
		},
		"to":      []map[string]string{{"email": order.Email}},
		"subject": fmt.Sprintf("Order confirmation %s", order.OrderID),
		"text":    renderConfirmation(order),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v3/mail/send", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email sender error %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

func renderConfirmation(order *model.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thanks for your order, %s!\n\n", order.OrderID)

	items, err := order.LineItems()
	if err == nil {
		for _, item := range items {
			variant := ""
			if item.Color != "" || item.Size != "" {
				variant = fmt.Sprintf(" (%s)", strings.TrimPrefix(item.Color+" "+item.Size, " "))
			}
			fmt.Fprintf(&b, "%d x %s%s - %s\n", item.Quantity, item.Name, variant, formatCents(item.Price*int64(item.Quantity)))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Subtotal: %s\n", formatCents(order.Subtotal))
	fmt.Fprintf(&b, "Shipping: %s\n", formatCents(order.Shipping))
	fmt.Fprintf(&b, "Tax: %s\n", formatCents(order.Tax))
	fmt.Fprintf(&b, "Total: %s\n", formatCents(order.Total))

	if addr, err := order.Address(); err == nil && addr != nil {
		fmt.Fprintf(&b, "\nShipping to:\n%s %s\n%s\n", addr.FirstName, addr.LastName, addr.Address1)
		if addr.Address2 != "" {
			fmt.Fprintf(&b, "%s\n", addr.Address2)
		}
		fmt.Fprintf(&b, "%s, %s %s\n%s\n", addr.City, addr.State, addr.PostalCode, addr.Country)
	}

	return b.String()
}

func formatCents(amount int64) string {
	return fmt.Sprintf("$%.2f", float64(amount)/100)
}
