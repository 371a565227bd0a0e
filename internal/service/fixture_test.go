package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/storage/memory"
	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// ledgerFixture is an organization with one NGN wallet, a virtual account
// routed to it and a budget, held in a memory store.
type ledgerFixture struct {
	store   *memory.Store
	orgID   uuid.UUID
	wallet  *domain.Wallet
	account *domain.VirtualAccount
	budget  *domain.Budget
}

func newLedgerFixture(t *testing.T, balance int64) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	orgID := uuid.New()

	wallet := domain.NewWallet(orgID, "NGN", true)
	if balance > 0 {
		opening := domain.NewCreditEntry(wallet, domain.EntryParams{
			Amount:    balance,
			Scope:     domain.EntryScopeWalletFunding,
			Provider:  domain.ProviderAnchor,
			Reference: "opening-" + orgID.String(),
		}, domain.EntryStatusSuccessful)
		opening.CreatedAt = opening.CreatedAt.Add(-24 * time.Hour)
		store.SeedEntry(opening)
		wallet.Balance = balance
		wallet.LedgerBalance = balance
	}
	store.SeedWallet(wallet)

	account := &domain.VirtualAccount{
		ID:             uuid.New(),
		OrganizationID: orgID,
		WalletID:       wallet.ID,
		Provider:       domain.ProviderAnchor,
		ProviderRef:    "va_1",
		Type:           domain.VirtualAccountStatic,
		AccountName:    "Acme Ltd",
		AccountNumber:  "0123456789",
		Currency:       "NGN",
		CreatedAt:      time.Now().UTC(),
	}
	store.SeedVirtualAccount(account)

	budget := &domain.Budget{
		ID:             uuid.New(),
		OrganizationID: orgID,
		WalletID:       wallet.ID,
		Name:           "Ops",
		Currency:       "NGN",
		Amount:         1_000_000,
		CreatedAt:      time.Now().UTC(),
	}
	store.SeedBudget(budget)

	return &ledgerFixture{store: store, orgID: orgID, wallet: wallet, account: account, budget: budget}
}

// seedPendingDebit records a debit whose hold was already taken from the
// available balance, as transfer initiation leaves it.
func (f *ledgerFixture) seedPendingDebit(t *testing.T, reference string, amount int64, age time.Duration) *domain.WalletEntry {
	t.Helper()
	w := f.walletNow(t)
	e := domain.NewDebitEntry(w, domain.EntryParams{
		Amount:      amount,
		Scope:       domain.EntryScopeBudgetTransfer,
		Provider:    domain.ProviderAnchor,
		ProviderRef: "trf_" + reference,
		Reference:   reference,
		BudgetID:    &f.budget.ID,
	})
	e.CreatedAt = e.CreatedAt.Add(-age)
	f.store.SeedEntry(e)

	w.Balance -= amount
	f.store.SeedWallet(w)
	return e
}

func (f *ledgerFixture) walletNow(t *testing.T) *domain.Wallet {
	t.Helper()
	w, err := f.store.Wallets().GetByID(context.Background(), f.wallet.ID)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

func (f *ledgerFixture) entryNow(t *testing.T, reference string) *domain.WalletEntry {
	t.Helper()
	e, err := f.store.Entries().GetByReference(context.Background(), reference)
	require.NoError(t, err)
	require.NotNil(t, e, "entry %s", reference)
	return e
}

func (f *ledgerFixture) budgetUsed(t *testing.T) int64 {
	t.Helper()
	b, err := f.store.Budgets().GetByID(context.Background(), f.budget.ID)
	require.NoError(t, err)
	return b.AmountUsed
}

func (f *ledgerFixture) settlement() *SettlementServiceImpl {
	return NewSettlementService(f.store, f.store.Entries(), f.store.VirtualAccounts(), newTestLogger())
}

func (f *ledgerFixture) ledger() *LedgerServiceImpl {
	return NewLedgerService(f.store.Wallets(), f.store.Entries(), newTestLogger())
}

// requireConsistent replays the wallet's entries against its balances.
func (f *ledgerFixture) requireConsistent(t *testing.T) {
	t.Helper()
	v, err := f.ledger().VerifyWallet(context.Background(), f.wallet.ID)
	require.NoError(t, err)
	require.True(t, v.Consistent, "wallet drifted: %+v", v)
}

// recordingQueue is a ports.JobQueue that keeps what it was given.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []*domain.Job
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, job *domain.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []*domain.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*domain.Job(nil), q.jobs...)
}

// noopUnlock releases nothing.
func noopUnlock(context.Context) error { return nil }
