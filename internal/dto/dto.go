package dto

import "storefront-api/internal/model"

// Checkout step three: create the pending order snapshot plus a payment
// intent for the finalized total.
type PaymentIntentRequest struct {
	Amount          int64                 `json:"amount"` // cents, subtotal + shipping + tax
	OrderID         string                `json:"orderId"`
	Email           string                `json:"email"`
	UserID          string                `json:"userId,omitempty"`
	Items           []model.CartItem      `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	Shipping        int64                 `json:"shipping"`
	Tax             int64                 `json:"tax"`
	ShippingService string                `json:"shippingService,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type RateItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Weight    int    `json:"weight,omitempty"` // grams per unit
}

type ShippingRatesRequest struct {
	Items   []RateItem            `json:"items"`
	Address model.ShippingAddress `json:"address"`
}

// Rates is cheapest-first. Success reports the provider outcome only; the
// rates themselves are always usable (estimates on provider failure).
type ShippingRatesResponse struct {
	Success bool                 `json:"success"`
	Rates   []model.ShippingRate `json:"rates"`
	Error   string               `json:"error,omitempty"`
}

type TaxItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"` // unit price, cents
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

type TaxRequest struct {
	Items   []TaxItem             `json:"items"`
	Address model.ShippingAddress `json:"address"`
}

type TaxLine struct {
	ItemID string `json:"itemId"`
	Tax    int64  `json:"tax"`
}

type TaxResponse struct {
	Success   bool      `json:"success"`
	Tax       int64     `json:"tax"`
	Breakdown []TaxLine `json:"breakdown"`
	Error     string    `json:"error,omitempty"`
}

type CartRequest struct {
	Items []model.CartItem `json:"items"`
}

type CartResponse struct {
	Items     []model.CartItem `json:"items"`
	ItemCount int              `json:"itemCount"`
	Subtotal  int64            `json:"subtotal"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
