package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletType distinguishes the general-purpose wallet from specialised ones.
type WalletType string

const (
	WalletTypeDefault WalletType = "default"
	WalletTypePayroll WalletType = "payroll"
)

// Wallet is an organization's per-currency store of funds. Amounts are in
// minor units.
//
// Balance is available funds: LedgerBalance minus in-flight debit holds.
// LedgerBalance moves only when an entry settles.
type Wallet struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Currency       string     `json:"currency"`
	Type           WalletType `json:"type"`
	Balance        int64      `json:"balance"`
	LedgerBalance  int64      `json:"ledger_balance"`
	Primary        bool       `json:"primary"`
	LastEntryID    *uuid.UUID `json:"last_entry_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewWallet builds an empty default wallet.
func NewWallet(organizationID uuid.UUID, currency string, primary bool) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Currency:       currency,
		Type:           WalletTypeDefault,
		Primary:        primary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// WalletDelta is the balance change applied together with an entry write.
type WalletDelta struct {
	Balance       int64
	LedgerBalance int64
	LastEntryID   uuid.UUID
}

// IsZero reports whether applying the delta would leave balances untouched.
func (d WalletDelta) IsZero() bool {
	return d.Balance == 0 && d.LedgerBalance == 0
}
