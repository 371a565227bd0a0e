package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_RunInTx_Commits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	w := newTestWallet(uuid.New())
	entryID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM wallets WHERE id = \\$1 FOR UPDATE").
		WithArgs(w.ID).
		WillReturnRows(walletRow(w))
	mock.ExpectQuery("UPDATE wallets").
		WithArgs(int64(5_000), int64(5_000), entryID, w.ID).
		WillReturnRows(walletRow(w))
	mock.ExpectCommit()

	tr := NewTransactor(mock, 3, zerolog.Nop())
	err = tr.RunInTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		locked, err := tx.GetWalletForUpdate(ctx, w.ID)
		if err != nil {
			return err
		}
		_, err = tx.ApplyWalletDelta(ctx, locked.ID, domain.WalletDelta{Balance: 5_000, LedgerBalance: 5_000, LastEntryID: entryID})
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RunInTx_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("insufficient funds")
	tr := NewTransactor(mock, 3, zerolog.Nop())
	calls := 0
	err = tr.RunInTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls, "business errors are not retried")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RunInTx_RetriesSerializationFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	budgetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE budgets").
		WithArgs(int64(100), budgetID).
		WillReturnError(&pgconn.PgError{Code: pgSerializationFailure})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE budgets").
		WithArgs(int64(100), budgetID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	tr := NewTransactor(mock, 3, zerolog.Nop())
	calls := 0
	err = tr.RunInTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		calls++
		return tx.AdjustBudgetUsage(ctx, budgetID, 100)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RunInTx_GivesUpAfterMaxAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE mandates").
			WillReturnError(&pgconn.PgError{Code: pgDeadlockDetected})
		mock.ExpectRollback()
	}

	tr := NewTransactor(mock, 2, zerolog.Nop())
	err = tr.RunInTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		return tx.TransitionMandate(ctx, uuid.New(), domain.MandateStatusCreated, domain.MandateStatusApproved, time.Now())
	})
	require.Error(t, err)
	assert.True(t, isTransient(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_BudgetHeadroomReadsUnderLock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	b := &domain.Budget{
		ID: uuid.New(), OrganizationID: uuid.New(), WalletID: uuid.New(), Name: "Ops",
		Currency: "NGN", Amount: 100_000, AmountUsed: 30_000, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM budgets WHERE id = \\$1 FOR UPDATE").
		WithArgs(b.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "organization_id", "wallet_id", "name", "currency", "amount", "amount_used", "created_at", "updated_at"}).
			AddRow(b.ID, b.OrganizationID, b.WalletID, b.Name, b.Currency, b.Amount, b.AmountUsed, b.CreatedAt, b.UpdatedAt))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM wallet_entries").
		WithArgs(b.ID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(50_000)))
	mock.ExpectCommit()

	var headroom int64
	tr := NewTransactor(mock, 1, zerolog.Nop())
	err = tr.RunInTx(context.Background(), func(ctx context.Context, tx ports.LedgerTx) error {
		locked, err := tx.GetBudgetForUpdate(ctx, b.ID)
		if err != nil {
			return err
		}
		inFlight, err := tx.InFlightBudgetDebits(ctx, locked.ID)
		if err != nil {
			return err
		}
		headroom = locked.Headroom(inFlight)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), headroom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
