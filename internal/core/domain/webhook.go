package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEventStatus records what ingestion did with a delivery.
type WebhookEventStatus string

const (
	WebhookEventQueued    WebhookEventStatus = "queued"
	WebhookEventLogged    WebhookEventStatus = "logged"
	WebhookEventDuplicate WebhookEventStatus = "duplicate"
)

// WebhookEvent is the inbound log of an authenticated provider delivery.
type WebhookEvent struct {
	ID        uuid.UUID          `json:"id"`
	Provider  ProviderName       `json:"provider"`
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Status    WebhookEventStatus `json:"status"`
	JobID     *uuid.UUID         `json:"job_id,omitempty"`
	Payload   string             `json:"payload"` // raw JSON body
	CreatedAt time.Time          `json:"created_at"`
}
