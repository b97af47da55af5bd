package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is an audit record of every signature-verified event the
// webhook endpoint received, kept for manual reconciliation. The unique
// provider+event index means a redelivered event updates the existing row
// rather than adding a new one. This table is not the idempotency
// boundary for crediting; the donation's unique session id is.
type WebhookEvent struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Provider        string         `gorm:"type:varchar(20);not null;uniqueIndex:ux_webhook_events_provider_event,priority:1" json:"provider"`
	ProviderEventID string         `gorm:"type:varchar(191);not null;uniqueIndex:ux_webhook_events_provider_event,priority:2" json:"provider_event_id"`
	EventType       string         `gorm:"type:varchar(100);not null;index" json:"event_type"`
	Payload         datatypes.JSON `json:"payload"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	ProcessingError string         `gorm:"type:text" json:"processing_error,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
