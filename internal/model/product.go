package model

import "time"

// Product is the catalog record. Stock is informational only: nothing in
// the checkout flow decrements it.
type Product struct {
	ID          string `gorm:"primaryKey;size:64;not null"` // sku
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Price       int64  `gorm:"not null"` // cents
	Weight      int    // grams, 0 when unknown
	Colors      string `gorm:"type:text"` // JSON array
	Sizes       string `gorm:"type:text"` // JSON array
	Images      string `gorm:"type:text"` // JSON array
	Stock       int
	Active      bool `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
