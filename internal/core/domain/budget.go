package domain

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a spending allocation. Only AmountUsed is maintained by the
// ledger, always in the same transaction as the entry transition it follows.
type Budget struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	WalletID       uuid.UUID `json:"wallet_id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	Amount         int64     `json:"amount"`
	AmountUsed     int64     `json:"amount_used"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Available returns the unspent allocation.
func (b *Budget) Available() int64 {
	return b.Amount - b.AmountUsed
}

// Headroom is what is left once debits still awaiting the provider are
// counted as spent.
func (b *Budget) Headroom(inFlight int64) int64 {
	return b.Available() - inFlight
}
