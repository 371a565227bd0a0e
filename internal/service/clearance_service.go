package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

const clearanceLockName = "clearance-sweep"

// ClearanceServiceImpl implements ports.ClearanceService: it finds debits
// stuck in pending and asks their provider what happened.
type ClearanceServiceImpl struct {
	entries     ports.EntryRepository
	providers   ports.ProviderRegistry
	queue       ports.JobQueue
	locker      ports.Locker
	graceWindow time.Duration
	batchSize   int
	now         func() time.Time
	log         zerolog.Logger
}

// NewClearanceService creates a new ClearanceServiceImpl.
func NewClearanceService(
	entries ports.EntryRepository,
	providers ports.ProviderRegistry,
	queue ports.JobQueue,
	locker ports.Locker,
	graceWindow time.Duration,
	batchSize int,
	log zerolog.Logger,
) *ClearanceServiceImpl {
	return &ClearanceServiceImpl{
		entries:     entries,
		providers:   providers,
		queue:       queue,
		locker:      locker,
		graceWindow: graceWindow,
		batchSize:   batchSize,
		now:         time.Now,
		log:         log.With().Str("component", "clearance").Logger(),
	}
}

// QueueStaleEntries enqueues one clearance job per budget-transfer debit
// that has been pending longer than the grace window. Only one replica
// sweeps at a time; the others return 0.
func (s *ClearanceServiceImpl) QueueStaleEntries(ctx context.Context) (int, error) {
	unlock, acquired, err := s.locker.TryLock(ctx, clearanceLockName, time.Minute)
	if err != nil {
		return 0, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !acquired {
		s.log.Debug().Msg("clearance sweep already running elsewhere")
		return 0, nil
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn().Err(err).Msg("failed to release sweep lock")
		}
	}()

	cutoff := s.now().Add(-s.graceWindow)
	stale, err := s.entries.ListStalePending(ctx, ports.StalePendingParams{
		Type:          domain.EntryTypeDebit,
		Scope:         domain.EntryScopeBudgetTransfer,
		CreatedBefore: cutoff,
		Limit:         s.batchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("list stale entries: %w", err)
	}

	queued := 0
	for _, e := range stale {
		job, err := domain.NewJob(domain.JobProcessWalletEntryClearance, domain.ClearancePayload{
			EntryID:   e.ID,
			Reference: e.Reference,
		})
		if err != nil {
			return queued, err
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			return queued, fmt.Errorf("enqueue clearance for %s: %w", e.Reference, err)
		}
		queued++
	}

	s.log.Info().Int("queued", queued).Time("cutoff", cutoff).Msg("clearance sweep finished")
	return queued, nil
}

// ClearEntry verifies one pending entry with its provider. A conclusive
// answer is queued as an outflow job; anything else waits for the next sweep.
func (s *ClearanceServiceImpl) ClearEntry(ctx context.Context, p domain.ClearancePayload) (*ports.Result, error) {
	entry, err := s.entries.GetByID(ctx, p.EntryID)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return ports.Handled(ports.OutcomeNotFound, "wallet entry not found"), nil
	}
	log := s.log.With().
		Str("entry_id", entry.ID.String()).
		Str("reference", entry.Reference).
		Str("provider", string(entry.Provider)).
		Logger()

	if entry.Status != domain.EntryStatusPending {
		return &ports.Result{Outcome: ports.OutcomeAlreadyConclusive, Reason: "entry is " + string(entry.Status), Entry: entry}, nil
	}
	client, err := s.providers.TransferClient(entry.Provider, entry.Currency)
	if err != nil {
		log.Error().Err(err).Msg("no transfer client for pending entry")
		return &ports.Result{Outcome: ports.OutcomeRejected, Reason: "provider not available", Entry: entry}, nil
	}

	// Without a provider reference the initiation response was lost, so the
	// transfer is looked up by the reference we sent.
	var verification *ports.TransferVerification
	if entry.ProviderRef != "" {
		verification, err = client.VerifyTransferByID(ctx, entry.ProviderRef)
	} else {
		verification, err = client.VerifyTransferByReference(ctx, entry.Reference)
	}
	switch {
	case errors.Is(err, domain.ErrTransferNotFound):
		if s.now().Sub(entry.CreatedAt) < s.graceWindow {
			return &ports.Result{Outcome: ports.OutcomeStillPending, Reason: "unknown to provider", Entry: entry}, nil
		}
		log.Warn().Msg("provider has no record of transfer, failing entry")
		verification = &ports.TransferVerification{
			Status:          domain.EntryStatusFailed,
			GatewayResponse: "transfer unknown to provider",
		}
	case err != nil:
		log.Warn().Err(err).Msg("provider verification failed")
		return nil, err
	}

	switch verification.Status {
	case domain.EntryStatusSuccessful, domain.EntryStatusFailed, domain.EntryStatusReversed:
	default:
		log.Info().Str("provider_status", string(verification.Status)).Msg("entry still pending at provider")
		return &ports.Result{Outcome: ports.OutcomeStillPending, Reason: string(verification.Status), Entry: entry}, nil
	}

	job, err := domain.NewJob(domain.JobProcessWalletOutflow, domain.OutflowPayload{
		Reference:       entry.Reference,
		Status:          verification.Status,
		Provider:        entry.Provider,
		GatewayResponse: verification.GatewayResponse,
	})
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue outflow: %w", err)
	}

	log.Info().Str("provider_status", string(verification.Status)).Str("job_id", job.ID.String()).Msg("clearance resolved entry")
	return &ports.Result{Outcome: ports.OutcomeQueued, Entry: entry}, nil
}

var _ ports.ClearanceService = (*ClearanceServiceImpl)(nil)
