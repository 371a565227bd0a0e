package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the direction of money relative to the wallet.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

// EntryStatus is the settlement state of a wallet entry.
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusProcessing EntryStatus = "processing"
	EntryStatusSuccessful EntryStatus = "successful"
	EntryStatusFailed     EntryStatus = "failed"
	EntryStatusCancelled  EntryStatus = "cancelled"
	EntryStatusReversed   EntryStatus = "reversed"
	EntryStatusTimedOut   EntryStatus = "timedOut"
)

// ParseEntryStatus validates a status string.
func ParseEntryStatus(s string) (EntryStatus, bool) {
	switch st := EntryStatus(s); st {
	case EntryStatusPending, EntryStatusProcessing, EntryStatusSuccessful, EntryStatusFailed,
		EntryStatusCancelled, EntryStatusReversed, EntryStatusTimedOut:
		return st, true
	}
	return "", false
}

// IsInFlight is true while the provider has not confirmed the entry.
func (s EntryStatus) IsInFlight() bool {
	return s == EntryStatusPending || s == EntryStatusProcessing
}

// IsTerminal is true for successful, failed and reversed.
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusSuccessful || s == EntryStatusFailed || s == EntryStatusReversed
}

// IsSettled reports whether an entry in this status counts towards the ledger
// balance. A reversed debit stays settled; its compensating credit offsets it.
func (s EntryStatus) IsSettled() bool {
	return s == EntryStatusSuccessful || s == EntryStatusReversed
}

// EntryScope is the semantic category of a wallet entry.
type EntryScope string

const (
	EntryScopeWalletFunding  EntryScope = "wallet_funding"
	EntryScopeBudgetTransfer EntryScope = "budget_transfer"
	EntryScopePayrollPayout  EntryScope = "payroll_payout"
	EntryScopeCardFunding    EntryScope = "card_funding"
)

// WalletEntry is the record of one credit or debit against a wallet.
// It is never deleted and is immutable once terminal, except for the single
// successful -> reversed transition.
type WalletEntry struct {
	ID             uuid.UUID         `json:"id"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	WalletID       uuid.UUID         `json:"wallet_id"`
	BudgetID       *uuid.UUID        `json:"budget_id,omitempty"`
	ProjectID      *uuid.UUID        `json:"project_id,omitempty"`
	CardID         *uuid.UUID        `json:"card_id,omitempty"`
	PayrollID      *uuid.UUID        `json:"payroll_id,omitempty"`
	Type           EntryType         `json:"type"`
	Amount         int64             `json:"amount"`
	Fee            int64             `json:"fee"`
	Currency       string            `json:"currency"`
	BalanceBefore  int64             `json:"balance_before"`
	BalanceAfter   int64             `json:"balance_after"`
	Status         EntryStatus       `json:"status"`
	Scope          EntryScope        `json:"scope"`
	Provider       ProviderName      `json:"provider,omitempty"`
	ProviderRef    string            `json:"provider_ref,omitempty"`
	Reference      string            `json:"reference"`
	Narration      string            `json:"narration,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// EntryParams carries the caller-supplied fields of a new entry.
type EntryParams struct {
	Amount      int64
	Fee         int64
	Scope       EntryScope
	Provider    ProviderName
	ProviderRef string
	Reference   string
	Narration   string
	BudgetID    *uuid.UUID
	Meta        map[string]string
}

// NewCreditEntry snapshots the wallet and builds a credit with the given status.
func NewCreditEntry(w *Wallet, p EntryParams, status EntryStatus) *WalletEntry {
	e := newEntry(w, p, EntryTypeCredit, status)
	e.BalanceAfter = e.BalanceBefore + p.Amount
	return e
}

// NewDebitEntry snapshots the wallet and builds a pending debit. The caller
// reserves the amount from the wallet in the same transaction.
func NewDebitEntry(w *Wallet, p EntryParams) *WalletEntry {
	e := newEntry(w, p, EntryTypeDebit, EntryStatusPending)
	e.BalanceAfter = e.BalanceBefore - p.Amount
	return e
}

func newEntry(w *Wallet, p EntryParams, typ EntryType, status EntryStatus) *WalletEntry {
	now := time.Now().UTC()
	return &WalletEntry{
		ID:             uuid.New(),
		OrganizationID: w.OrganizationID,
		WalletID:       w.ID,
		BudgetID:       p.BudgetID,
		Type:           typ,
		Amount:         p.Amount,
		Fee:            p.Fee,
		Currency:       w.Currency,
		BalanceBefore:  w.Balance,
		Status:         status,
		Scope:          p.Scope,
		Provider:       p.Provider,
		ProviderRef:    p.ProviderRef,
		Reference:      p.Reference,
		Narration:      p.Narration,
		Meta:           p.Meta,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SignedAmount is +Amount for credits and -Amount for debits.
func (e *WalletEntry) SignedAmount() int64 {
	if e.Type == EntryTypeDebit {
		return -e.Amount
	}
	return e.Amount
}

// CanTransitionTo enforces the entry lifecycle.
func (e *WalletEntry) CanTransitionTo(to EntryStatus) bool {
	if e.Status == to {
		return false
	}
	switch {
	case e.Status.IsInFlight():
		return to != EntryStatusPending
	case e.Status == EntryStatusSuccessful:
		return to == EntryStatusReversed
	default:
		return false
	}
}

// SnapshotHolds checks the creation-time balance arithmetic.
func (e *WalletEntry) SnapshotHolds() bool {
	if e.Status == EntryStatusFailed {
		return e.BalanceAfter == e.BalanceBefore
	}
	return e.BalanceAfter == e.BalanceBefore+e.SignedAmount()
}

// ReversalReference derives the reference of the compensating credit for a
// reversed debit. Deterministic so a replayed reversal collides on uniqueness.
func ReversalReference(reference string) string {
	return reference + "-reversal"
}

// EntryTransition is a conditional status change applied to a stored entry.
// The store applies it only while the entry is still in one of From.
type EntryTransition struct {
	EntryID      uuid.UUID
	From         []EntryStatus
	To           EntryStatus
	BalanceAfter *int64 // nil keeps the stored snapshot
	ProviderRef  string // empty keeps the stored value
	Meta         map[string]string
}
