package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	transactor     ports.Transactor
	entries        ports.EntryRepository
	budgets        ports.BudgetRepository
	providers      ports.ProviderRegistry
	settlement     ports.SettlementService
	idempCache     ports.IdempotencyCache
	idempotencyTTL time.Duration
	log            zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	transactor ports.Transactor,
	entries ports.EntryRepository,
	budgets ports.BudgetRepository,
	providers ports.ProviderRegistry,
	settlement ports.SettlementService,
	idempCache ports.IdempotencyCache,
	idempotencyTTL time.Duration,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		transactor:     transactor,
		entries:        entries,
		budgets:        budgets,
		providers:      providers,
		settlement:     settlement,
		idempCache:     idempCache,
		idempotencyTTL: idempotencyTTL,
		log:            log.With().Str("component", "transfer").Logger(),
	}
}

// Initiate reserves the amount on the wallet as a pending debit and asks the
// provider to move the money. The entry settles later through a webhook or
// the clearance sweep unless the provider answers conclusively right away.
func (s *TransferServiceImpl) Initiate(ctx context.Context, req ports.TransferInitiation) (*domain.WalletEntry, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Reference == "" {
		return nil, apperror.Validation("reference is required")
	}
	if req.Scope == "" {
		req.Scope = domain.EntryScopeBudgetTransfer
	}

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Lookup(ctx, req.OrganizationID, req.Reference)
	if err != nil {
		s.log.Warn().Err(err).Str("reference", req.Reference).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return cached, nil
	}

	// Layer 2: the entry reference itself
	existing, err := s.entries.GetByReference(ctx, req.Reference)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check reference: %w", err))
	}
	if existing != nil {
		if existing.OrganizationID != req.OrganizationID {
			return nil, apperror.ErrDuplicateReference(req.Reference)
		}
		return existing, nil
	}

	client, err := s.providers.TransferClient(req.Provider, req.Currency)
	if err != nil {
		return nil, err
	}

	if req.BudgetID != nil {
		budget, err := s.budgets.GetByID(ctx, *req.BudgetID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("load budget: %w", err))
		}
		if budget == nil || budget.OrganizationID != req.OrganizationID {
			return nil, apperror.ErrNotFound("Budget")
		}
		if budget.Currency != req.Currency {
			return nil, apperror.ErrCurrencyMismatch()
		}
	}

	var entry *domain.WalletEntry
	err = s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		wallet, err := tx.GetWalletForUpdate(ctx, req.WalletID)
		if err != nil {
			return fmt.Errorf("lock wallet: %w", err)
		}
		if wallet == nil || wallet.OrganizationID != req.OrganizationID {
			return apperror.ErrNotFound("Wallet")
		}
		if wallet.Currency != req.Currency {
			return apperror.ErrCurrencyMismatch()
		}
		if wallet.Balance < req.Amount {
			return apperror.ErrInsufficientFunds()
		}
		if req.BudgetID != nil {
			if err := s.checkBudget(ctx, tx, req); err != nil {
				return err
			}
		}

		entry = domain.NewDebitEntry(wallet, domain.EntryParams{
			Amount:    req.Amount,
			Scope:     req.Scope,
			Provider:  req.Provider,
			Reference: req.Reference,
			Narration: req.Narration,
			BudgetID:  req.BudgetID,
			Meta: map[string]string{
				"counterparty_account": domain.MaskAccountNumber(req.Counterparty.AccountNumber),
				"counterparty_bank":    req.Counterparty.BankCode,
			},
		})
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		_, err = tx.ApplyWalletDelta(ctx, wallet.ID, domain.WalletDelta{
			Balance:     -req.Amount,
			LastEntryID: entry.ID,
		})
		return err
	})
	if err != nil {
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, appErr
		case errors.Is(err, domain.ErrDuplicateReference):
			return nil, apperror.ErrDuplicateReference(req.Reference)
		default:
			return nil, apperror.ErrDatabaseError(err)
		}
	}

	log := s.log.With().
		Str("entry_id", entry.ID.String()).
		Str("wallet_id", entry.WalletID.String()).
		Str("reference", entry.Reference).
		Str("provider", string(req.Provider)).
		Logger()
	log.Info().Int64("amount", entry.Amount).Msg("debit reserved")

	result, err := client.InitiateTransfer(ctx, ports.TransferRequest{
		Amount:       req.Amount,
		Currency:     req.Currency,
		Reference:    req.Reference,
		Narration:    req.Narration,
		Counterparty: req.Counterparty,
	})
	if err != nil {
		// The hold stays in place; the clearance sweep settles the entry.
		log.Warn().Err(err).Msg("transfer initiation failed, entry left pending")
		s.remember(ctx, entry)
		return entry, nil
	}

	if result.ProviderRef != "" {
		err := s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
			return tx.SetEntryProviderRef(ctx, entry.ID, result.ProviderRef)
		})
		if err != nil {
			log.Error().Err(err).Str("provider_ref", result.ProviderRef).Msg("failed to record provider reference")
		} else {
			entry.ProviderRef = result.ProviderRef
		}
	}

	if result.Status.IsTerminal() {
		res, err := s.settlement.ProcessOutflow(ctx, domain.OutflowPayload{
			Reference: entry.Reference,
			Status:    result.Status,
			Provider:  req.Provider,
		})
		if err != nil {
			log.Error().Err(err).Str("status", string(result.Status)).Msg("synchronous settlement failed, entry left pending")
		} else if res.Entry != nil {
			entry = res.Entry
		}
	}

	s.remember(ctx, entry)
	log.Info().Str("status", string(entry.Status)).Str("provider_ref", entry.ProviderRef).Msg("transfer initiated")
	return entry, nil
}

// checkBudget locks the budget and refuses the debit when it would overdraw
// the allocation, counting other transfers still in flight against it.
func (s *TransferServiceImpl) checkBudget(ctx context.Context, tx ports.LedgerTx, req ports.TransferInitiation) error {
	budget, err := tx.GetBudgetForUpdate(ctx, *req.BudgetID)
	if err != nil {
		return fmt.Errorf("lock budget: %w", err)
	}
	if budget == nil {
		return apperror.ErrNotFound("Budget")
	}
	inFlight, err := tx.InFlightBudgetDebits(ctx, budget.ID)
	if err != nil {
		return err
	}
	if budget.Headroom(inFlight) < req.Amount {
		return apperror.ErrBudgetExceeded()
	}
	return nil
}

// remember caches the response for replayed requests (best-effort).
func (s *TransferServiceImpl) remember(ctx context.Context, entry *domain.WalletEntry) {
	if err := s.idempCache.Remember(ctx, entry, s.idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("reference", entry.Reference).Msg("failed to cache idempotency in redis")
	}
}

var _ ports.TransferService = (*TransferServiceImpl)(nil)
