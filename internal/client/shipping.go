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

type Parcel struct {
	Weight int `json:"weight"` // grams
}

type ShippingClient interface {
	GetRates(ctx context.Context, to model.ShippingAddress, parcels []Parcel) ([]model.ShippingRate, error)
	Track(ctx context.Context, carrier, trackingNumber string) (*model.TrackingInfo, error)
}

type shippingClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	origin     model.ShippingAddress
}

// NewShippingClient returns nil when no provider is configured; callers
// treat a nil client as "estimate locally".
func NewShippingClient(cfg *config.Shipping) ShippingClient {
	if cfg.BaseApiURL == "" || cfg.APIKey == "" {
		return nil
	}
	return &shippingClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
		origin: model.ShippingAddress{
			Address1:   cfg.OriginAddress1,
			City:       cfg.OriginCity,
			State:      cfg.OriginState,
			PostalCode: cfg.OriginPostalCode,
			Country:    cfg.OriginCountry,
		},
	}
}

func (c *shippingClientImpl) GetRates(ctx context.Context, to model.ShippingAddress, parcels []Parcel) ([]model.ShippingRate, error) {
	payload := map[string]interface{}{
		"address_from": c.origin,
		"address_to":   to,
		"parcels":      parcels,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/shipments", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "ShippoToken "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shipping provider error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Rates []struct {
			Provider     string `json:"provider"`
			Token        string `json:"servicelevel_token"`
			ServiceLevel string `json:"servicelevel_name"`
			Amount       string `json:"amount"`
			AmountCents  int64  `json:"amount_cents"`
			Days         int    `json:"estimated_days"`
			DurationTerm bool   `json:"guaranteed"`
		} `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}

	rates := make([]model.ShippingRate, len(result.Rates))
	for i, r := range result.Rates {
		rates[i] = model.ShippingRate{
			Carrier:       r.Provider,
			Service:       r.Token,
			ServiceName:   r.ServiceLevel,
			Price:         r.AmountCents,
			EstimatedDays: r.Days,
			Guaranteed:    r.DurationTerm,
		}
	}
	return rates, nil
}

func (c *shippingClientImpl) Track(ctx context.Context, carrier, trackingNumber string) (*model.TrackingInfo, error) {
	url := fmt.Sprintf("%s/tracks/%s/%s", c.baseApiURL, carrier, trackingNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "ShippoToken "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tracking lookup error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Carrier         string     `json:"carrier"`
		TrackingNumber  string     `json:"tracking_number"`
		ETA             *time.Time `json:"eta"`
		TrackingStatus  struct {
			Status        string    `json:"status"`
			StatusDetails string    `json:"status_details"`
			StatusDate    time.Time `json:"status_date"`
		} `json:"tracking_status"`
		TrackingHistory []struct {
			Status        string    `json:"status"`
			StatusDetails string    `json:"status_details"`
			Location      string    `json:"location"`
			StatusDate    time.Time `json:"status_date"`
		} `json:"tracking_history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tracking response: %w", err)
	}

	info := &model.TrackingInfo{
		Carrier:           result.Carrier,
		TrackingNumber:    result.TrackingNumber,
		Status:            result.TrackingStatus.Status,
		Description:       result.TrackingStatus.StatusDetails,
		EstimatedDelivery: result.ETA,
		Events:            make([]model.TrackingEvent, len(result.TrackingHistory)),
	}
	for i, ev := range result.TrackingHistory {
		info.Events[i] = model.TrackingEvent{
			Status:      ev.Status,
			Description: ev.StatusDetails,
			Location:    ev.Location,
			Time:        ev.StatusDate,
		}
	}
	return info, nil
}
