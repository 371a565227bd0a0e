package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited operator action.
type AuditAction string

const (
	AuditActionTransferInitiated  AuditAction = "TRANSFER_INITIATED"
	AuditActionClearanceTriggered AuditAction = "CLEARANCE_TRIGGERED"
	AuditActionWalletVerified     AuditAction = "WALLET_VERIFIED"
)

// AuditLog records a single operator action on the internal API.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        string      `json:"actor"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
