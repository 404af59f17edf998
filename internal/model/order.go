package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order status values.
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Payment status values.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
	PaymentStatusPartial  = "partial"
)

// Order is the frozen checkout snapshot. OrderID is the business id shared
// with the payment processor via intent metadata; the storage primary key
// never leaves this service. Items and the two addresses are JSON columns
// parsed once at the boundary via the accessors below.
type Order struct {
	ID              uint    `gorm:"primaryKey"`
	OrderID         string  `gorm:"size:64;uniqueIndex;not null"`
	UserID          *string `gorm:"size:64;index"` // nil for guest checkout
	Email           string  `gorm:"size:255;not null"`
	Items           string  `gorm:"type:text;not null"`
	ShippingAddress string  `gorm:"type:text"`
	BillingAddress  string  `gorm:"type:text"` // copy of shipping at creation

	// amounts in cents; Total == Subtotal + Shipping + Tax at creation
	Subtotal int64 `gorm:"not null"`
	Shipping int64 `gorm:"not null"`
	Tax      int64 `gorm:"not null"`
	Total    int64 `gorm:"not null"`

	Status          string  `gorm:"size:32;index;not null"`
	PaymentStatus   string  `gorm:"size:32;index;not null"`
	PaymentIntentID *string `gorm:"size:64;index"`
	ShippingService *string `gorm:"size:64"`
	Notes           string  `gorm:"type:text"`

	ConfirmationSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderID generates a human-presentable, globally unique business order id.
func NewOrderID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + raw[:12]
}

func (o *Order) LineItems() ([]CartItem, error) {
	if o.Items == "" {
		return nil, nil
	}
	var items []CartItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (o *Order) SetLineItems(items []CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.Items = string(raw)
	return nil
}

func (o *Order) Address() (*ShippingAddress, error) {
	if o.ShippingAddress == "" {
		return nil, nil
	}
	var addr ShippingAddress
	if err := json.Unmarshal([]byte(o.ShippingAddress), &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// SetAddress attaches the shipping address and mirrors it to billing.
func (o *Order) SetAddress(addr ShippingAddress) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	o.ShippingAddress = string(raw)
	o.BillingAddress = string(raw)
	return nil
}
