package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Transactor implements ports.Transactor on a pgx pool. Transactions that
// abort on a serialization failure or deadlock are retried from scratch.
type Transactor struct {
	pool        Pool
	maxAttempts int
	log         zerolog.Logger

	wallets  *WalletRepo
	entries  *EntryRepo
	budgets  *BudgetRepo
	accounts *VirtualAccountRepo
	mandates *MandateRepo
}

// NewTransactor creates a new Transactor wrapping the connection pool.
func NewTransactor(pool Pool, maxAttempts int, log zerolog.Logger) *Transactor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Transactor{
		pool:        pool,
		maxAttempts: maxAttempts,
		log:         log,
		wallets:     NewWalletRepo(pool),
		entries:     NewEntryRepo(pool),
		budgets:     NewBudgetRepo(pool),
		accounts:    NewVirtualAccountRepo(pool),
		mandates:    NewMandateRepo(pool),
	}
}

// RunInTx runs fn in a transaction, committing when it returns nil.
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := t.runOnce(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if isTransient(err) {
			t.log.Warn().Err(err).Int("attempt", attempt).Msg("retrying aborted transaction")
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(t.maxAttempts)))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func (t *Transactor) runOnce(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &ledgerTx{tx: tx, t: t}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ledgerTx binds the repositories to one open pgx transaction.
type ledgerTx struct {
	tx pgx.Tx
	t  *Transactor
}

func (l *ledgerTx) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return l.t.wallets.GetByIDForUpdate(ctx, l.tx, id)
}

func (l *ledgerTx) GetWalletByOrganizationForUpdate(ctx context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error) {
	return l.t.wallets.GetByOrganizationForUpdate(ctx, l.tx, organizationID, currency)
}

func (l *ledgerTx) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	return l.t.wallets.Create(ctx, l.tx, w)
}

func (l *ledgerTx) ApplyWalletDelta(ctx context.Context, walletID uuid.UUID, delta domain.WalletDelta) (*domain.Wallet, error) {
	return l.t.wallets.ApplyDelta(ctx, l.tx, walletID, delta)
}

func (l *ledgerTx) GetEntryByReferenceForUpdate(ctx context.Context, reference string) (*domain.WalletEntry, error) {
	return l.t.entries.GetByReferenceForUpdate(ctx, l.tx, reference)
}

func (l *ledgerTx) CreateEntry(ctx context.Context, e *domain.WalletEntry) error {
	return l.t.entries.Create(ctx, l.tx, e)
}

func (l *ledgerTx) TransitionEntry(ctx context.Context, tr domain.EntryTransition) error {
	return l.t.entries.Transition(ctx, l.tx, tr)
}

func (l *ledgerTx) SetEntryProviderRef(ctx context.Context, entryID uuid.UUID, providerRef string) error {
	return l.t.entries.SetProviderRef(ctx, l.tx, entryID, providerRef)
}

func (l *ledgerTx) GetBudgetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	return l.t.budgets.GetByIDForUpdate(ctx, l.tx, id)
}

func (l *ledgerTx) InFlightBudgetDebits(ctx context.Context, budgetID uuid.UUID) (int64, error) {
	return l.t.entries.InFlightByBudget(ctx, l.tx, budgetID)
}

func (l *ledgerTx) AdjustBudgetUsage(ctx context.Context, budgetID uuid.UUID, delta int64) error {
	return l.t.budgets.AdjustUsage(ctx, l.tx, budgetID, delta)
}

func (l *ledgerTx) CreateVirtualAccount(ctx context.Context, va *domain.VirtualAccount) error {
	return l.t.accounts.Create(ctx, l.tx, va)
}

func (l *ledgerTx) GetMandateForUpdate(ctx context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error) {
	return l.t.mandates.GetForUpdate(ctx, l.tx, provider, mandateRef)
}

func (l *ledgerTx) CreateMandate(ctx context.Context, m *domain.Mandate) error {
	return l.t.mandates.Create(ctx, l.tx, m)
}

func (l *ledgerTx) TransitionMandate(ctx context.Context, id uuid.UUID, from, to domain.MandateStatus, at time.Time) error {
	return l.t.mandates.Transition(ctx, l.tx, id, from, to, at)
}

var _ ports.Transactor = (*Transactor)(nil)
var _ ports.LedgerTx = (*ledgerTx)(nil)
