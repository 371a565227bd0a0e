package domain

import (
	"github.com/google/uuid"
)

// BuildIdempotencyKey scopes a client-supplied key to its organization.
func BuildIdempotencyKey(organizationID uuid.UUID, key string) string {
	return organizationID.String() + ":" + key
}

// BuildWebhookDedupeKey identifies one provider delivery.
func BuildWebhookDedupeKey(provider ProviderName, eventID string) string {
	return string(provider) + ":" + eventID
}
