package model

import "time"

// ShippingRate is ephemeral: produced fresh per quote request, never
// persisted. When the free-shipping rule zeroes Price, OriginalPrice keeps
// the provider price for struck-through display.
type ShippingRate struct {
	Carrier       string `json:"carrier"`
	Service       string `json:"service"`
	ServiceName   string `json:"serviceName"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"originalPrice,omitempty"`
	EstimatedDays int    `json:"estimatedDays"`
	Guaranteed    bool   `json:"guaranteed,omitempty"`
}

type TrackingEvent struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Time        time.Time `json:"time"`
}

type TrackingInfo struct {
	Carrier           string          `json:"carrier"`
	TrackingNumber    string          `json:"trackingNumber"`
	Status            string          `json:"status"`
	Description       string          `json:"description"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty"`
	Events            []TrackingEvent `json:"events"`
}
