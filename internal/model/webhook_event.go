package model

import "time"

// WebhookEvent records processor event ids so redelivered events can be
// acknowledged without re-running reconciliation.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
