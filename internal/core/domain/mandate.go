package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MandateStatus tracks the bank-account linking flow.
type MandateStatus string

const (
	MandateStatusCreated      MandateStatus = "created"
	MandateStatusApproved     MandateStatus = "approved"
	MandateStatusReadyToDebit MandateStatus = "ready_to_debit"
	MandateStatusExpired      MandateStatus = "expired"
)

// Mandate authorises future debits from an organization's external account.
type Mandate struct {
	ID               uuid.UUID     `json:"id"`
	OrganizationID   uuid.UUID     `json:"organization_id"`
	Provider         ProviderName  `json:"provider"`
	MandateRef       string        `json:"mandate_ref"` // provider's mandate id
	CustomerRef      string        `json:"customer_ref"`
	Currency         string        `json:"currency"`
	AccountName      string        `json:"account_name"`
	BankCode         string        `json:"bank_code"`
	AccountNumberEnc string        `json:"-"` // AES-256-GCM, bound to ID
	AccountMask      string        `json:"account_mask"`
	Status           MandateStatus `json:"status"`
	ApprovedAt       *time.Time    `json:"approved_at,omitempty"`
	ReadyAt          *time.Time    `json:"ready_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// CanTransitionTo enforces created -> approved -> ready_to_debit, with
// expiry possible only before approval.
func (m *Mandate) CanTransitionTo(to MandateStatus) bool {
	switch m.Status {
	case MandateStatusCreated:
		return to == MandateStatusApproved || to == MandateStatusExpired
	case MandateStatusApproved:
		return to == MandateStatusReadyToDebit
	default:
		return false
	}
}

// HasReached reports whether the mandate is at or past the given status on
// the approval path.
func (m *Mandate) HasReached(s MandateStatus) bool {
	rank := map[MandateStatus]int{
		MandateStatusCreated:      1,
		MandateStatusApproved:     2,
		MandateStatusReadyToDebit: 3,
	}
	return rank[m.Status] >= rank[s] && rank[s] > 0
}

// MaskAccountNumber keeps the last four digits.
func MaskAccountNumber(n string) string {
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
