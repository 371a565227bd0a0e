package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	wallets ports.WalletRepository
	entries ports.EntryRepository
	log     zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(wallets ports.WalletRepository, entries ports.EntryRepository, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		wallets: wallets,
		entries: entries,
		log:     log.With().Str("component", "ledger").Logger(),
	}
}

func (s *LedgerServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}
	return w, nil
}

func (s *LedgerServiceImpl) ListEntries(ctx context.Context, params ports.EntryListParams) ([]domain.WalletEntry, int64, error) {
	if _, err := s.GetWallet(ctx, params.WalletID); err != nil {
		return nil, 0, err
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	entries, total, err := s.entries.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list entries: %w", err))
	}
	return entries, total, nil
}

// VerifyWallet replays a wallet's entries. The ledger balance must equal the
// signed sum of settled entries, and the available balance must equal the
// ledger balance less in-flight debit holds.
func (s *LedgerServiceImpl) VerifyWallet(ctx context.Context, id uuid.UUID) (*ports.WalletVerification, error) {
	w, err := s.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.entries.Totals(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("entry totals: %w", err))
	}

	v := &ports.WalletVerification{
		WalletID:              w.ID,
		Balance:               w.Balance,
		LedgerBalance:         w.LedgerBalance,
		ReplayedLedgerBalance: totals.SettledNet,
		InFlightDebits:        totals.InFlightDebits,
		EntryCount:            totals.EntryCount,
	}
	v.Consistent = w.LedgerBalance == totals.SettledNet &&
		w.Balance == w.LedgerBalance-totals.InFlightDebits

	if !v.Consistent {
		s.log.Error().
			Str("wallet_id", w.ID.String()).
			Int64("balance", w.Balance).
			Int64("ledger_balance", w.LedgerBalance).
			Int64("replayed_ledger_balance", totals.SettledNet).
			Int64("in_flight_debits", totals.InFlightDebits).
			Msg("wallet balance drift detected")
	}
	return v, nil
}

var _ ports.LedgerService = (*LedgerServiceImpl)(nil)
