package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

var (
	errWalletNotFound = errors.New("wallet not found")
	errEntryNotFound  = errors.New("wallet entry not found")
)

// SettlementServiceImpl implements ports.SettlementService. It is the only
// code path that moves a wallet entry between states.
type SettlementServiceImpl struct {
	transactor ports.Transactor
	entries    ports.EntryRepository
	accounts   ports.VirtualAccountRepository
	log        zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	transactor ports.Transactor,
	entries ports.EntryRepository,
	accounts ports.VirtualAccountRepository,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		transactor: transactor,
		entries:    entries,
		accounts:   accounts,
		log:        log.With().Str("component", "settlement").Logger(),
	}
}

// ProcessInflow credits a wallet for money received into one of its virtual
// accounts. The entry is created successful; a repeated reference is a no-op.
func (s *SettlementServiceImpl) ProcessInflow(ctx context.Context, p domain.InflowPayload) (*ports.Result, error) {
	if p.Amount <= 0 {
		return ports.Handled(ports.OutcomeRejected, "invalid amount"), nil
	}
	providerRef := p.ProviderRef
	if providerRef == "" {
		providerRef = p.Reference
	}
	if providerRef == "" {
		return ports.Handled(ports.OutcomeRejected, "missing provider reference"), nil
	}
	reference := domain.InflowReference(p.Provider, providerRef)
	log := s.log.With().Str("reference", reference).Str("provider", string(p.Provider)).Logger()

	// Idempotency gate before any lookup work.
	existing, err := s.entries.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("check inflow reference: %w", err)
	}
	if existing != nil {
		log.Info().Str("entry_id", existing.ID.String()).Msg("inflow already recorded")
		return &ports.Result{Outcome: ports.OutcomeDuplicate, Reason: "reference already recorded", Entry: existing}, nil
	}

	account, err := s.accounts.GetByAccountNumber(ctx, p.Provider, p.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve virtual account: %w", err)
	}
	if account == nil {
		log.Warn().Str("account_number", domain.MaskAccountNumber(p.AccountNumber)).Msg("inflow to unknown virtual account")
		return ports.Handled(ports.OutcomeNotFound, "virtual account not found"), nil
	}
	if p.Currency != "" && p.Currency != account.Currency {
		log.Warn().Str("currency", p.Currency).Str("account_currency", account.Currency).Msg("inflow currency mismatch")
		return ports.Handled(ports.OutcomeRejected, "currency mismatch"), nil
	}

	var entry *domain.WalletEntry
	err = s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		wallet, err := tx.GetWalletForUpdate(ctx, account.WalletID)
		if err != nil {
			return fmt.Errorf("lock wallet: %w", err)
		}
		if wallet == nil {
			return errWalletNotFound
		}

		meta := map[string]string{"virtual_account_id": account.ID.String()}
		if p.SenderName != "" {
			meta["sender_name"] = p.SenderName
		}
		entry = domain.NewCreditEntry(wallet, domain.EntryParams{
			Amount:      p.Amount,
			Fee:         p.Fee,
			Scope:       domain.EntryScopeWalletFunding,
			Provider:    p.Provider,
			ProviderRef: providerRef,
			Reference:   reference,
			Narration:   p.Narration,
			Meta:        meta,
		}, domain.EntryStatusSuccessful)

		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		_, err = tx.ApplyWalletDelta(ctx, wallet.ID, domain.WalletDelta{
			Balance:       p.Amount,
			LedgerBalance: p.Amount,
			LastEntryID:   entry.ID,
		})
		return err
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateReference):
		log.Info().Msg("inflow lost race on reference")
		return ports.Handled(ports.OutcomeDuplicate, "reference already recorded"), nil
	case errors.Is(err, errWalletNotFound):
		log.Error().Str("wallet_id", account.WalletID.String()).Msg("virtual account points to missing wallet")
		return ports.Handled(ports.OutcomeNotFound, "wallet not found"), nil
	case err != nil:
		log.Error().Err(err).Msg("inflow transaction failed")
		return nil, err
	}

	log.Info().
		Str("entry_id", entry.ID.String()).
		Str("wallet_id", entry.WalletID.String()).
		Str("status", string(entry.Status)).
		Int64("amount", entry.Amount).
		Msg("inflow credited")

	return &ports.Result{Outcome: ports.OutcomeApplied, Entry: entry}, nil
}

// ProcessOutflow applies a provider verdict to a debit we initiated.
func (s *SettlementServiceImpl) ProcessOutflow(ctx context.Context, p domain.OutflowPayload) (*ports.Result, error) {
	switch p.Status {
	case domain.EntryStatusSuccessful, domain.EntryStatusFailed, domain.EntryStatusReversed:
	default:
		return ports.Handled(ports.OutcomeRejected, fmt.Sprintf("unsupported outflow status %q", p.Status)), nil
	}
	log := s.log.With().Str("reference", p.Reference).Str("status", string(p.Status)).Logger()

	var res *ports.Result
	err := s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		res = nil
		entry, err := tx.GetEntryByReferenceForUpdate(ctx, p.Reference)
		if err != nil {
			return fmt.Errorf("lock wallet entry: %w", err)
		}
		if entry == nil {
			return errEntryNotFound
		}
		if entry.Type != domain.EntryTypeDebit {
			res = &ports.Result{Outcome: ports.OutcomeRejected, Reason: "entry is not a debit", Entry: entry}
			return nil
		}

		switch {
		case p.Status == domain.EntryStatusSuccessful && entry.Status.IsInFlight():
			res, err = s.settleSuccessful(ctx, tx, entry, p)
		case p.Status == domain.EntryStatusFailed && entry.Status.IsInFlight():
			res, err = s.releaseHold(ctx, tx, entry, p)
		case p.Status == domain.EntryStatusReversed && entry.Status.IsInFlight():
			// Never settled, so the only money to return is the hold.
			res, err = s.releaseHold(ctx, tx, entry, p)
		case p.Status == domain.EntryStatusReversed && entry.Status == domain.EntryStatusSuccessful:
			res, err = s.reverseSettled(ctx, tx, entry, p)
		default:
			res = &ports.Result{Outcome: ports.OutcomeAlreadyConclusive, Reason: "entry is " + string(entry.Status), Entry: entry}
		}
		return err
	})
	switch {
	case errors.Is(err, errEntryNotFound):
		log.Warn().Msg("outflow for unknown reference")
		return ports.Handled(ports.OutcomeNotFound, "wallet entry not found"), nil
	case errors.Is(err, domain.ErrStaleState), errors.Is(err, domain.ErrDuplicateReference):
		log.Info().Msg("outflow lost race, entry already moved")
		return ports.Handled(ports.OutcomeAlreadyConclusive, "entry changed concurrently"), nil
	case err != nil:
		log.Error().Err(err).Msg("outflow transaction failed")
		return nil, err
	}

	evt := log.Info().Str("outcome", string(res.Outcome))
	if res.Entry != nil {
		evt = evt.Str("entry_id", res.Entry.ID.String()).Str("wallet_id", res.Entry.WalletID.String()).Str("provider", string(res.Entry.Provider))
	}
	evt.Msg("outflow processed")
	return res, nil
}

// settleSuccessful confirms an in-flight debit: the hold becomes a settled
// movement of the ledger balance and the budget records the spend.
func (s *SettlementServiceImpl) settleSuccessful(ctx context.Context, tx ports.LedgerTx, entry *domain.WalletEntry, p domain.OutflowPayload) (*ports.Result, error) {
	if err := tx.TransitionEntry(ctx, domain.EntryTransition{
		EntryID: entry.ID,
		From:    []domain.EntryStatus{domain.EntryStatusPending, domain.EntryStatusProcessing},
		To:      domain.EntryStatusSuccessful,
		Meta:    gatewayMeta(p),
	}); err != nil {
		return nil, err
	}
	if _, err := tx.ApplyWalletDelta(ctx, entry.WalletID, domain.WalletDelta{
		LedgerBalance: -entry.Amount,
		LastEntryID:   entry.ID,
	}); err != nil {
		return nil, fmt.Errorf("settle wallet: %w", err)
	}
	if entry.BudgetID != nil {
		if err := tx.AdjustBudgetUsage(ctx, *entry.BudgetID, entry.Amount); err != nil {
			return nil, fmt.Errorf("consume budget: %w", err)
		}
	}
	entry.Status = domain.EntryStatusSuccessful
	return &ports.Result{Outcome: ports.OutcomeApplied, Entry: entry}, nil
}

// releaseHold fails an in-flight debit and returns the reserved amount to
// the available balance. The ledger balance never moved.
func (s *SettlementServiceImpl) releaseHold(ctx context.Context, tx ports.LedgerTx, entry *domain.WalletEntry, p domain.OutflowPayload) (*ports.Result, error) {
	balanceAfter := entry.BalanceBefore
	if err := tx.TransitionEntry(ctx, domain.EntryTransition{
		EntryID:      entry.ID,
		From:         []domain.EntryStatus{domain.EntryStatusPending, domain.EntryStatusProcessing},
		To:           domain.EntryStatusFailed,
		BalanceAfter: &balanceAfter,
		Meta:         gatewayMeta(p),
	}); err != nil {
		return nil, err
	}
	if _, err := tx.ApplyWalletDelta(ctx, entry.WalletID, domain.WalletDelta{
		Balance:     entry.Amount,
		LastEntryID: entry.ID,
	}); err != nil {
		return nil, fmt.Errorf("release hold: %w", err)
	}
	entry.Status = domain.EntryStatusFailed
	entry.BalanceAfter = balanceAfter
	return &ports.Result{Outcome: ports.OutcomeApplied, Entry: entry}, nil
}

// reverseSettled undoes a successful debit with a compensating credit and
// rolls the budget spend back.
func (s *SettlementServiceImpl) reverseSettled(ctx context.Context, tx ports.LedgerTx, entry *domain.WalletEntry, p domain.OutflowPayload) (*ports.Result, error) {
	if err := tx.TransitionEntry(ctx, domain.EntryTransition{
		EntryID: entry.ID,
		From:    []domain.EntryStatus{domain.EntryStatusSuccessful},
		To:      domain.EntryStatusReversed,
		Meta:    gatewayMeta(p),
	}); err != nil {
		return nil, err
	}

	wallet, err := tx.GetWalletForUpdate(ctx, entry.WalletID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, errWalletNotFound
	}

	credit := domain.NewCreditEntry(wallet, domain.EntryParams{
		Amount:      entry.Amount,
		Scope:       entry.Scope,
		Provider:    entry.Provider,
		ProviderRef: entry.ProviderRef,
		Reference:   domain.ReversalReference(entry.Reference),
		Narration:   "Reversal: " + entry.Reference,
		BudgetID:    entry.BudgetID,
		Meta:        map[string]string{"reversal_of": entry.ID.String()},
	}, domain.EntryStatusSuccessful)
	if err := tx.CreateEntry(ctx, credit); err != nil {
		return nil, err
	}
	if _, err := tx.ApplyWalletDelta(ctx, wallet.ID, domain.WalletDelta{
		Balance:       entry.Amount,
		LedgerBalance: entry.Amount,
		LastEntryID:   credit.ID,
	}); err != nil {
		return nil, fmt.Errorf("credit reversal: %w", err)
	}
	if entry.BudgetID != nil {
		if err := tx.AdjustBudgetUsage(ctx, *entry.BudgetID, -entry.Amount); err != nil {
			return nil, fmt.Errorf("restore budget: %w", err)
		}
	}
	entry.Status = domain.EntryStatusReversed
	return &ports.Result{Outcome: ports.OutcomeApplied, Entry: entry, Compensation: credit}, nil
}

func gatewayMeta(p domain.OutflowPayload) map[string]string {
	if p.GatewayResponse == "" {
		return nil
	}
	return map[string]string{"gateway_response": p.GatewayResponse}
}

var _ ports.SettlementService = (*SettlementServiceImpl)(nil)
