package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// Read-side repositories return (nil, nil) when a record does not exist.
// Every write that informs a balance decision happens through LedgerTx.

// WalletRepository reads wallets outside a transaction.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Wallet, error)
}

// EntryRepository reads wallet entries outside a transaction.
type EntryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletEntry, error)
	GetByReference(ctx context.Context, reference string) (*domain.WalletEntry, error)
	List(ctx context.Context, params EntryListParams) ([]domain.WalletEntry, int64, error)
	ListStalePending(ctx context.Context, params StalePendingParams) ([]domain.WalletEntry, error)
	Totals(ctx context.Context, walletID uuid.UUID) (*EntryTotals, error)
}

// EntryListParams holds filter + pagination for listing wallet entries.
type EntryListParams struct {
	WalletID  uuid.UUID
	Status    *domain.EntryStatus
	Type      *domain.EntryType
	Scope     *domain.EntryScope
	Reference string
	Page      int
	PageSize  int
}

// StalePendingParams selects entries for the clearance sweep.
type StalePendingParams struct {
	Type          domain.EntryType
	Scope         domain.EntryScope
	CreatedBefore time.Time
	Limit         int
}

// EntryTotals aggregates a wallet's entries for replay verification.
type EntryTotals struct {
	SettledNet     int64 // signed sum of successful and reversed entries
	InFlightDebits int64 // sum of pending and processing debits
	EntryCount     int64
}

// BudgetRepository loads budgets referenced by entries.
type BudgetRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error)
}

// VirtualAccountRepository resolves inbound account numbers to wallets.
type VirtualAccountRepository interface {
	GetByAccountNumber(ctx context.Context, provider domain.ProviderName, accountNumber string) (*domain.VirtualAccount, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.VirtualAccount, error)
}

// MandateRepository reads and expires mandates.
type MandateRepository interface {
	GetByRef(ctx context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error)
	GetByCustomerRef(ctx context.Context, provider domain.ProviderName, customerRef string) (*domain.Mandate, error)
	ExpireStale(ctx context.Context, createdBefore time.Time) (int64, error)
}

// WebhookEventRepository persists the inbound webhook log.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *domain.WebhookEvent) error
}

// AuditRepository persists operator audit records.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// LedgerTx is the unit of work handed to Transactor.RunInTx. Reads through it
// lock the returned rows until commit.
type LedgerTx interface {
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetWalletByOrganizationForUpdate(ctx context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, wallet *domain.Wallet) error
	// ApplyWalletDelta increments balances atomically and returns the new row.
	ApplyWalletDelta(ctx context.Context, walletID uuid.UUID, delta domain.WalletDelta) (*domain.Wallet, error)

	GetEntryByReferenceForUpdate(ctx context.Context, reference string) (*domain.WalletEntry, error)
	// CreateEntry returns domain.ErrDuplicateReference when the reference is taken.
	CreateEntry(ctx context.Context, entry *domain.WalletEntry) error
	// TransitionEntry returns domain.ErrStaleState when the entry is no longer in t.From.
	TransitionEntry(ctx context.Context, t domain.EntryTransition) error
	SetEntryProviderRef(ctx context.Context, entryID uuid.UUID, providerRef string) error

	GetBudgetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Budget, error)
	// InFlightBudgetDebits sums pending and processing debits charged to the budget.
	InFlightBudgetDebits(ctx context.Context, budgetID uuid.UUID) (int64, error)
	AdjustBudgetUsage(ctx context.Context, budgetID uuid.UUID, delta int64) error

	CreateVirtualAccount(ctx context.Context, account *domain.VirtualAccount) error

	GetMandateForUpdate(ctx context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error)
	// CreateMandate returns domain.ErrDuplicateReference when the mandate ref is taken.
	CreateMandate(ctx context.Context, mandate *domain.Mandate) error
	// TransitionMandate returns domain.ErrStaleState when the mandate is no longer in from.
	TransitionMandate(ctx context.Context, id uuid.UUID, from, to domain.MandateStatus, at time.Time) error
}

// Transactor runs fn inside one atomic unit of work. A non-nil error from fn
// rolls everything back.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
