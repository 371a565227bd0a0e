package domain

import (
	"time"

	"github.com/google/uuid"
)

type VirtualAccountType string

const (
	VirtualAccountStatic  VirtualAccountType = "static"
	VirtualAccountDynamic VirtualAccountType = "dynamic"
)

// VirtualAccount is a provider-issued account number routed to one wallet.
type VirtualAccount struct {
	ID             uuid.UUID          `json:"id"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	WalletID       uuid.UUID          `json:"wallet_id"`
	Provider       ProviderName       `json:"provider"`
	ProviderRef    string             `json:"provider_ref"`
	Type           VirtualAccountType `json:"type"`
	AccountName    string             `json:"account_name"`
	AccountNumber  string             `json:"account_number"`
	BankCode       string             `json:"bank_code"`
	BankName       string             `json:"bank_name"`
	Currency       string             `json:"currency"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}
