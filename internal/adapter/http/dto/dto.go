package dto

import (
	"time"

	"wallet-ledger/internal/core/domain"
)

// TransferRequest is the request body for an ops-initiated outbound transfer.
type TransferRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required,uuid"`
	WalletID       string  `json:"wallet_id" binding:"required,uuid"`
	BudgetID       *string `json:"budget_id,omitempty" binding:"omitempty,uuid"`
	Amount         int64   `json:"amount" binding:"required,gt=0"`
	Currency       string  `json:"currency" binding:"required,len=3,uppercase"`
	Provider       string  `json:"provider" binding:"required,oneof=anchor graph mono"`
	Scope          string  `json:"scope,omitempty" binding:"omitempty,oneof=budget_transfer payroll_payout card_funding"`
	Reference      string  `json:"reference" binding:"required,max=100,reference"`
	Narration      string  `json:"narration,omitempty" binding:"max=255"`
	AccountNumber  string  `json:"account_number" binding:"required,numeric,min=6,max=20"`
	BankCode       string  `json:"bank_code" binding:"required,safe_id,max=20"`
	AccountName    string  `json:"account_name,omitempty" binding:"max=100"`
}

// EntryListQuery binds the filters of the entry listing endpoint.
type EntryListQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending processing successful failed cancelled reversed timedOut"`
	Type      string `form:"type" binding:"omitempty,oneof=credit debit"`
	Scope     string `form:"scope" binding:"omitempty,oneof=wallet_funding budget_transfer payroll_payout card_funding"`
	Reference string `form:"reference" binding:"omitempty,reference"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WalletResponse is the ops view of a wallet.
type WalletResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Currency       string `json:"currency"`
	Type           string `json:"type"`
	Balance        int64  `json:"balance"`
	LedgerBalance  int64  `json:"ledger_balance"`
	Primary        bool   `json:"primary"`
	UpdatedAt      string `json:"updated_at"`
}

// EntryResponse is the ops view of a wallet entry.
type EntryResponse struct {
	ID            string  `json:"id"`
	WalletID      string  `json:"wallet_id"`
	BudgetID      *string `json:"budget_id,omitempty"`
	Type          string  `json:"type"`
	Amount        int64   `json:"amount"`
	Fee           int64   `json:"fee"`
	Currency      string  `json:"currency"`
	BalanceBefore int64   `json:"balance_before"`
	BalanceAfter  int64   `json:"balance_after"`
	Status        string  `json:"status"`
	Scope         string  `json:"scope"`
	Provider      string  `json:"provider,omitempty"`
	ProviderRef   string  `json:"provider_ref,omitempty"`
	Reference     string  `json:"reference"`
	Narration     string  `json:"narration,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// SweepResponse acknowledges a queued clearance sweep.
type SweepResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// NewWalletResponse maps a wallet to its API shape.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID.String(),
		OrganizationID: w.OrganizationID.String(),
		Currency:       w.Currency,
		Type:           string(w.Type),
		Balance:        w.Balance,
		LedgerBalance:  w.LedgerBalance,
		Primary:        w.Primary,
		UpdatedAt:      w.UpdatedAt.Format(time.RFC3339),
	}
}

// NewEntryResponse maps a wallet entry to its API shape.
func NewEntryResponse(e *domain.WalletEntry) EntryResponse {
	resp := EntryResponse{
		ID:            e.ID.String(),
		WalletID:      e.WalletID.String(),
		Type:          string(e.Type),
		Amount:        e.Amount,
		Fee:           e.Fee,
		Currency:      e.Currency,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Status:        string(e.Status),
		Scope:         string(e.Scope),
		Provider:      string(e.Provider),
		ProviderRef:   e.ProviderRef,
		Reference:     e.Reference,
		Narration:     e.Narration,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
	if e.BudgetID != nil {
		id := e.BudgetID.String()
		resp.BudgetID = &id
	}
	return resp
}

// NewEntryListResponse maps a page of entries.
func NewEntryListResponse(entries []domain.WalletEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewEntryResponse(&entries[i]))
	}
	return out
}
