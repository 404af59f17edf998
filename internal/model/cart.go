package model

import "time"

// CartItem is the shared line-item shape between the live cart and the
// frozen order snapshot. Price is the unit price (cents) at time of adding.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Key is the cart-level uniqueness key: two lines merge iff product,
// color and size all match.
func (i CartItem) Key() string {
	return i.ProductID + "|" + i.Color + "|" + i.Size
}

// Cart is the server-side mirror of a signed-in user's cart. Writes are
// last-write-wins; Items is a JSON array of CartItem.
type Cart struct {
	UserID    string `gorm:"primaryKey;size:64;not null"`
	Items     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
