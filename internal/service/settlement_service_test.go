package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func inflow(f *ledgerFixture, providerRef string, amount int64) domain.InflowPayload {
	return domain.InflowPayload{
		Provider:      domain.ProviderAnchor,
		AccountNumber: f.account.AccountNumber,
		Amount:        amount,
		Currency:      "NGN",
		Reference:     "anchor-" + providerRef,
		ProviderRef:   providerRef,
		SenderName:    "Ada Obi",
	}
}

func outflow(reference string, status domain.EntryStatus) domain.OutflowPayload {
	return domain.OutflowPayload{Reference: reference, Status: status, Provider: domain.ProviderAnchor}
}

func TestSettlement_Inflow_CreditsWallet(t *testing.T) {
	f := newLedgerFixture(t, 0)
	svc := f.settlement()

	res, err := svc.ProcessInflow(context.Background(), inflow(f, "ref1", 5000))
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeApplied, res.Outcome)

	e := res.Entry
	assert.Equal(t, domain.EntryStatusSuccessful, e.Status)
	assert.Equal(t, domain.EntryTypeCredit, e.Type)
	assert.Equal(t, int64(0), e.BalanceBefore)
	assert.Equal(t, int64(5000), e.BalanceAfter)
	assert.Equal(t, domain.InflowReference(domain.ProviderAnchor, "ref1"), e.Reference)
	assert.Equal(t, "Ada Obi", e.Meta["sender_name"])

	w := f.walletNow(t)
	assert.Equal(t, int64(5000), w.Balance)
	assert.Equal(t, int64(5000), w.LedgerBalance)
	require.NotNil(t, w.LastEntryID)
	assert.Equal(t, e.ID, *w.LastEntryID)
	f.requireConsistent(t)
}

func TestSettlement_Inflow_DuplicateReferenceAppliesOnce(t *testing.T) {
	f := newLedgerFixture(t, 0)
	svc := f.settlement()

	_, err := svc.ProcessInflow(context.Background(), inflow(f, "ref1", 5000))
	require.NoError(t, err)

	res, err := svc.ProcessInflow(context.Background(), inflow(f, "ref1", 5000))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeDuplicate, res.Outcome)
	assert.False(t, res.Applied())

	assert.Equal(t, int64(5000), f.walletNow(t).Balance)
	f.requireConsistent(t)
}

func TestSettlement_Inflow_Rejections(t *testing.T) {
	f := newLedgerFixture(t, 0)
	svc := f.settlement()

	t.Run("unknown virtual account", func(t *testing.T) {
		p := inflow(f, "ref2", 100)
		p.AccountNumber = "9999999999"
		res, err := svc.ProcessInflow(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, ports.OutcomeNotFound, res.Outcome)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		p := inflow(f, "ref3", 100)
		p.Currency = "USD"
		res, err := svc.ProcessInflow(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, ports.OutcomeRejected, res.Outcome)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		res, err := svc.ProcessInflow(context.Background(), inflow(f, "ref4", 0))
		require.NoError(t, err)
		assert.Equal(t, ports.OutcomeRejected, res.Outcome)
	})

	assert.Equal(t, int64(0), f.walletNow(t).Balance)
}

func TestSettlement_Outflow_FailedReleasesHold(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	debit := f.seedPendingDebit(t, "trf-1", 2000, 0)
	require.Equal(t, int64(3000), f.walletNow(t).Balance)

	res, err := f.settlement().ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusFailed))
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeApplied, res.Outcome)

	e := f.entryNow(t, "trf-1")
	assert.Equal(t, domain.EntryStatusFailed, e.Status)
	assert.Equal(t, debit.BalanceBefore, e.BalanceAfter)
	assert.True(t, e.SnapshotHolds())

	w := f.walletNow(t)
	assert.Equal(t, int64(5000), w.Balance)
	assert.Equal(t, int64(5000), w.LedgerBalance)
	assert.Equal(t, int64(0), f.budgetUsed(t))
	f.requireConsistent(t)
}

func TestSettlement_Outflow_SuccessfulConsumesBudget(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	f.seedPendingDebit(t, "trf-1", 2000, 0)

	p := outflow("trf-1", domain.EntryStatusSuccessful)
	p.GatewayResponse = "Approved"
	res, err := f.settlement().ProcessOutflow(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeApplied, res.Outcome)

	e := f.entryNow(t, "trf-1")
	assert.Equal(t, domain.EntryStatusSuccessful, e.Status)
	assert.Equal(t, "Approved", e.Meta["gateway_response"])

	w := f.walletNow(t)
	assert.Equal(t, int64(3000), w.Balance)
	assert.Equal(t, int64(3000), w.LedgerBalance)
	assert.Equal(t, int64(2000), f.budgetUsed(t))
	f.requireConsistent(t)
}

func TestSettlement_Outflow_ReplayOnTerminalIsNoop(t *testing.T) {
	for _, first := range []domain.EntryStatus{domain.EntryStatusSuccessful, domain.EntryStatusFailed} {
		for _, replay := range []domain.EntryStatus{domain.EntryStatusSuccessful, domain.EntryStatusFailed} {
			t.Run(string(first)+" then "+string(replay), func(t *testing.T) {
				f := newLedgerFixture(t, 5000)
				f.seedPendingDebit(t, "trf-1", 2000, 0)
				svc := f.settlement()

				_, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", first))
				require.NoError(t, err)
				walletBefore := f.walletNow(t)
				usedBefore := f.budgetUsed(t)

				res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", replay))
				require.NoError(t, err)
				assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)

				walletAfter := f.walletNow(t)
				assert.Equal(t, walletBefore.Balance, walletAfter.Balance)
				assert.Equal(t, walletBefore.LedgerBalance, walletAfter.LedgerBalance)
				assert.Equal(t, usedBefore, f.budgetUsed(t))
				assert.Equal(t, first, f.entryNow(t, "trf-1").Status)
			})
		}
	}
}

func TestSettlement_Outflow_ReversalRoundTrip(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	f.seedPendingDebit(t, "trf-1", 2000, 0)
	svc := f.settlement()
	usedBefore := f.budgetUsed(t)

	_, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusSuccessful))
	require.NoError(t, err)
	require.Equal(t, usedBefore+2000, f.budgetUsed(t))

	res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusReversed))
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeApplied, res.Outcome)
	require.NotNil(t, res.Compensation)

	assert.Equal(t, domain.EntryStatusReversed, f.entryNow(t, "trf-1").Status)

	credit := f.entryNow(t, domain.ReversalReference("trf-1"))
	assert.Equal(t, domain.EntryTypeCredit, credit.Type)
	assert.Equal(t, domain.EntryStatusSuccessful, credit.Status)
	assert.Equal(t, int64(2000), credit.Amount)
	assert.Equal(t, domain.EntryScopeBudgetTransfer, credit.Scope)
	assert.True(t, credit.SnapshotHolds())

	w := f.walletNow(t)
	assert.Equal(t, int64(5000), w.Balance)
	assert.Equal(t, int64(5000), w.LedgerBalance)
	assert.Equal(t, usedBefore, f.budgetUsed(t))
	f.requireConsistent(t)

	t.Run("replayed reversal is a no-op", func(t *testing.T) {
		res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusReversed))
		require.NoError(t, err)
		assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)
		assert.Equal(t, int64(5000), f.walletNow(t).Balance)
		assert.Equal(t, usedBefore, f.budgetUsed(t))
	})
}

func TestSettlement_Outflow_ReversalOfPendingCreditsOnce(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	f.seedPendingDebit(t, "trf-1", 2000, 0)
	svc := f.settlement()

	res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusReversed))
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeApplied, res.Outcome)
	assert.Nil(t, res.Compensation)

	assert.Equal(t, domain.EntryStatusFailed, f.entryNow(t, "trf-1").Status)
	assert.Equal(t, int64(5000), f.walletNow(t).Balance, "hold returned exactly once")

	// A later failed verdict for the same transfer must not credit again.
	res, err = svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusFailed))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)
	assert.Equal(t, int64(5000), f.walletNow(t).Balance)
	f.requireConsistent(t)
}

func TestSettlement_Outflow_ReversalOfFailedIsNoop(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	f.seedPendingDebit(t, "trf-1", 2000, 0)
	svc := f.settlement()

	_, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusFailed))
	require.NoError(t, err)

	res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusReversed))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)
	assert.Equal(t, int64(5000), f.walletNow(t).Balance)
}

func TestSettlement_Outflow_HandledOutcomes(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	svc := f.settlement()

	res, err := svc.ProcessOutflow(context.Background(), outflow("missing", domain.EntryStatusSuccessful))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeNotFound, res.Outcome)

	res, err = svc.ProcessOutflow(context.Background(), outflow("missing", domain.EntryStatusProcessing))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeRejected, res.Outcome)

	_, err = svc.ProcessInflow(context.Background(), inflow(f, "in-1", 100))
	require.NoError(t, err)
	res, err = svc.ProcessOutflow(context.Background(), outflow(domain.InflowReference(domain.ProviderAnchor, "in-1"), domain.EntryStatusFailed))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeRejected, res.Outcome, "credits are not settled through outflow")
}

func TestSettlement_Outflow_ConcurrentDeliveriesApplyOnce(t *testing.T) {
	f := newLedgerFixture(t, 5000)
	f.seedPendingDebit(t, "trf-1", 2000, 0)
	svc := f.settlement()

	const deliveries = 8
	results := make([]*ports.Result, deliveries)
	var wg sync.WaitGroup
	for i := range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusSuccessful))
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	applied := 0
	for _, res := range results {
		require.NotNil(t, res)
		if res.Outcome == ports.OutcomeApplied {
			applied++
		} else {
			assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, int64(2000), f.budgetUsed(t))
	assert.Equal(t, int64(3000), f.walletNow(t).LedgerBalance)
	f.requireConsistent(t)
}

func TestSettlement_Outflow_StaleTransitionIsConclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t, 5000)
	debit := f.seedPendingDebit(t, "trf-1", 2000, 0)

	// Another writer moves the entry between the locked read and the update.
	tx := mocks.NewMockLedgerTx(ctrl)
	tx.EXPECT().GetEntryByReferenceForUpdate(gomock.Any(), "trf-1").Return(debit, nil)
	tx.EXPECT().TransitionEntry(gomock.Any(), gomock.Any()).Return(domain.ErrStaleState)

	transactor := mocks.NewMockTransactor(ctrl)
	transactor.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, ports.LedgerTx) error) error {
			return fn(ctx, tx)
		})

	svc := NewSettlementService(transactor, f.store.Entries(), f.store.VirtualAccounts(), newTestLogger())
	res, err := svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusSuccessful))
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeAlreadyConclusive, res.Outcome)
}

func TestSettlement_InfrastructureErrorsPropagate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newLedgerFixture(t, 5000)
	dbErr := errors.New("connection reset by peer")

	transactor := mocks.NewMockTransactor(ctrl)
	transactor.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Return(dbErr).Times(2)

	svc := NewSettlementService(transactor, f.store.Entries(), f.store.VirtualAccounts(), newTestLogger())

	_, err := svc.ProcessInflow(context.Background(), inflow(f, "ref1", 100))
	assert.ErrorIs(t, err, dbErr)

	_, err = svc.ProcessOutflow(context.Background(), outflow("trf-1", domain.EntryStatusFailed))
	assert.ErrorIs(t, err, dbErr)
}

func TestSettlement_ReplayInvariantAcrossMixedHistory(t *testing.T) {
	f := newLedgerFixture(t, 0)
	svc := f.settlement()
	ctx := context.Background()

	_, err := svc.ProcessInflow(ctx, inflow(f, "in-1", 10_000))
	require.NoError(t, err)
	f.seedPendingDebit(t, "trf-ok", 3000, time.Minute)
	f.seedPendingDebit(t, "trf-fail", 1000, time.Minute)
	f.seedPendingDebit(t, "trf-rev", 2500, time.Minute)
	f.seedPendingDebit(t, "trf-open", 500, time.Minute)

	for _, step := range []domain.OutflowPayload{
		outflow("trf-ok", domain.EntryStatusSuccessful),
		outflow("trf-fail", domain.EntryStatusFailed),
		outflow("trf-rev", domain.EntryStatusSuccessful),
		outflow("trf-rev", domain.EntryStatusReversed),
		outflow("trf-ok", domain.EntryStatusSuccessful),
	} {
		_, err := svc.ProcessOutflow(ctx, step)
		require.NoError(t, err)
	}

	w := f.walletNow(t)
	assert.Equal(t, int64(7000), w.LedgerBalance)
	assert.Equal(t, int64(6500), w.Balance)

	v, err := f.ledger().VerifyWallet(ctx, f.wallet.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(500), v.InFlightDebits)
	assert.Equal(t, int64(7000), v.ReplayedLedgerBalance)
}
