package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const mandateExpiryLockName = "mandate-expiry"

// MandateServiceImpl implements ports.MandateService.
type MandateServiceImpl struct {
	transactor      ports.Transactor
	mandates        ports.MandateRepository
	wallets         ports.WalletRepository
	accounts        ports.VirtualAccountRepository
	providers       ports.ProviderRegistry
	encSvc          ports.EncryptionService
	locker          ports.Locker
	defaultProvider domain.ProviderName
	expiryAfter     time.Duration
	now             func() time.Time
	log             zerolog.Logger
}

// MandateServiceDeps groups the collaborators of MandateServiceImpl.
type MandateServiceDeps struct {
	Transactor      ports.Transactor
	Mandates        ports.MandateRepository
	Wallets         ports.WalletRepository
	Accounts        ports.VirtualAccountRepository
	Providers       ports.ProviderRegistry
	Encryption      ports.EncryptionService
	Locker          ports.Locker
	DefaultProvider domain.ProviderName // issues virtual accounts for approved mandates
	ExpiryAfter     time.Duration
}

// NewMandateService creates a new MandateServiceImpl.
func NewMandateService(deps MandateServiceDeps, log zerolog.Logger) *MandateServiceImpl {
	return &MandateServiceImpl{
		transactor:      deps.Transactor,
		mandates:        deps.Mandates,
		wallets:         deps.Wallets,
		accounts:        deps.Accounts,
		providers:       deps.Providers,
		encSvc:          deps.Encryption,
		locker:          deps.Locker,
		defaultProvider: deps.DefaultProvider,
		expiryAfter:     deps.ExpiryAfter,
		now:             time.Now,
		log:             log.With().Str("component", "mandate").Logger(),
	}
}

// HandleCreated records a new mandate. The account number is stored
// encrypted and bound to the mandate id.
func (s *MandateServiceImpl) HandleCreated(ctx context.Context, p domain.MandateCreatedPayload) (*ports.Result, error) {
	if p.MandateRef == "" || p.OrganizationID == uuid.Nil || p.Currency == "" {
		return ports.Handled(ports.OutcomeRejected, "incomplete mandate payload"), nil
	}
	log := s.log.With().Str("mandate_ref", p.MandateRef).Str("provider", string(p.Provider)).Logger()

	existing, err := s.mandates.GetByRef(ctx, p.Provider, p.MandateRef)
	if err != nil {
		return nil, fmt.Errorf("load mandate: %w", err)
	}
	if existing != nil {
		return ports.Handled(ports.OutcomeDuplicate, "mandate already recorded"), nil
	}

	now := s.now().UTC()
	m := &domain.Mandate{
		ID:             uuid.New(),
		OrganizationID: p.OrganizationID,
		Provider:       p.Provider,
		MandateRef:     p.MandateRef,
		CustomerRef:    p.CustomerRef,
		Currency:       p.Currency,
		AccountName:    p.AccountName,
		BankCode:       p.BankCode,
		AccountMask:    domain.MaskAccountNumber(p.AccountNumber),
		Status:         domain.MandateStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.AccountNumber != "" {
		enc, err := s.encSvc.Encrypt(p.AccountNumber, m.ID[:])
		if err != nil {
			return nil, apperror.ErrEncryptionFailure(err)
		}
		m.AccountNumberEnc = enc
	}

	err = s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		return tx.CreateMandate(ctx, m)
	})
	if errors.Is(err, domain.ErrDuplicateReference) {
		return ports.Handled(ports.OutcomeDuplicate, "mandate already recorded"), nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to record mandate")
		return nil, err
	}

	log.Info().Str("mandate_id", m.ID.String()).Str("organization_id", m.OrganizationID.String()).Msg("mandate recorded")
	return ports.Handled(ports.OutcomeApplied, ""), nil
}

// HandleApproved moves a mandate to approved and, the first time an
// organization is seen in the mandate's currency, provisions its wallet and
// a static virtual account.
func (s *MandateServiceImpl) HandleApproved(ctx context.Context, p domain.MandateEventPayload) (*ports.Result, error) {
	m, err := s.resolveMandate(ctx, p)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return ports.Handled(ports.OutcomeNotFound, "mandate not found"), nil
	}
	log := s.log.With().Str("mandate_id", m.ID.String()).Str("organization_id", m.OrganizationID.String()).Logger()

	if m.HasReached(domain.MandateStatusApproved) {
		return ports.Handled(ports.OutcomeAlreadyConclusive, "mandate is "+string(m.Status)), nil
	}
	if !m.CanTransitionTo(domain.MandateStatusApproved) {
		return ports.Handled(ports.OutcomeRejected, "mandate is "+string(m.Status)), nil
	}

	// Wallet first: a second approval must never create a second wallet.
	wallet, err := s.wallets.GetByOrganization(ctx, m.OrganizationID, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	needsAccount := true
	if wallet != nil {
		accounts, err := s.accounts.ListByWallet(ctx, wallet.ID)
		if err != nil {
			return nil, fmt.Errorf("list virtual accounts: %w", err)
		}
		needsAccount = !slices.ContainsFunc(accounts, func(va domain.VirtualAccount) bool {
			return va.Type == domain.VirtualAccountStatic
		})
	}
	primary := false
	if wallet == nil {
		existing, err := s.wallets.ListByOrganization(ctx, m.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("list wallets: %w", err)
		}
		primary = len(existing) == 0
	}

	// The provider call happens outside the transaction. The mandate id is
	// the provider-side reference, so a retried job gets the same account.
	var details *ports.VirtualAccountDetails
	if needsAccount {
		client, err := s.providers.VirtualAccountClient(s.defaultProvider, m.Currency)
		if err != nil {
			log.Error().Err(err).Msg("no virtual account provider for mandate currency")
			return ports.Handled(ports.OutcomeRejected, "virtual account provider unavailable"), nil
		}
		details, err = client.CreateStaticVirtualAccount(ctx, ports.VirtualAccountRequest{
			OrganizationID: m.OrganizationID,
			Reference:      m.ID.String(),
			AccountName:    m.AccountName,
			Currency:       m.Currency,
		})
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	err = s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		current, err := tx.GetMandateForUpdate(ctx, m.Provider, m.MandateRef)
		if err != nil {
			return fmt.Errorf("lock mandate: %w", err)
		}
		if current == nil || !current.CanTransitionTo(domain.MandateStatusApproved) {
			return domain.ErrStaleState
		}

		w, err := tx.GetWalletByOrganizationForUpdate(ctx, m.OrganizationID, m.Currency)
		if err != nil {
			return fmt.Errorf("lock wallet: %w", err)
		}
		if w == nil {
			w = domain.NewWallet(m.OrganizationID, m.Currency, primary)
			if err := tx.CreateWallet(ctx, w); err != nil {
				return fmt.Errorf("create wallet: %w", err)
			}
		}
		if details != nil {
			if err := tx.CreateVirtualAccount(ctx, &domain.VirtualAccount{
				ID:             uuid.New(),
				OrganizationID: m.OrganizationID,
				WalletID:       w.ID,
				Provider:       details.Provider,
				ProviderRef:    details.ProviderRef,
				Type:           domain.VirtualAccountStatic,
				AccountName:    details.AccountName,
				AccountNumber:  details.AccountNumber,
				BankCode:       details.BankCode,
				BankName:       details.BankName,
				Currency:       m.Currency,
				ExpiresAt:      details.ExpiresAt,
				CreatedAt:      now,
			}); err != nil {
				return fmt.Errorf("create virtual account: %w", err)
			}
		}
		return tx.TransitionMandate(ctx, current.ID, domain.MandateStatusCreated, domain.MandateStatusApproved, now)
	})
	if errors.Is(err, domain.ErrStaleState) {
		return ports.Handled(ports.OutcomeAlreadyConclusive, "mandate changed concurrently"), nil
	}
	if err != nil {
		// A duplicate wallet or account means a concurrent approval won;
		// the retry will find them and skip provisioning.
		log.Error().Err(err).Msg("mandate approval failed")
		return nil, err
	}

	log.Info().Bool("provisioned_account", details != nil).Msg("mandate approved")
	return ports.Handled(ports.OutcomeApplied, ""), nil
}

// HandleDebitReady moves an approved mandate to ready_to_debit. An event that
// overtakes its approval fails with a retryable error.
func (s *MandateServiceImpl) HandleDebitReady(ctx context.Context, p domain.MandateEventPayload) (*ports.Result, error) {
	m, err := s.resolveMandate(ctx, p)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return ports.Handled(ports.OutcomeNotFound, "mandate not found"), nil
	}

	var res *ports.Result
	err = s.transactor.RunInTx(ctx, func(ctx context.Context, tx ports.LedgerTx) error {
		current, err := tx.GetMandateForUpdate(ctx, m.Provider, m.MandateRef)
		if err != nil {
			return fmt.Errorf("lock mandate: %w", err)
		}
		switch {
		case current == nil:
			res = ports.Handled(ports.OutcomeNotFound, "mandate not found")
			return nil
		case current.HasReached(domain.MandateStatusReadyToDebit):
			res = ports.Handled(ports.OutcomeAlreadyConclusive, "mandate is "+string(current.Status))
			return nil
		case current.Status == domain.MandateStatusCreated:
			return domain.ErrMandateNotApproved
		case !current.CanTransitionTo(domain.MandateStatusReadyToDebit):
			res = ports.Handled(ports.OutcomeRejected, "mandate is "+string(current.Status))
			return nil
		}
		res = ports.Handled(ports.OutcomeApplied, "")
		return tx.TransitionMandate(ctx, current.ID, domain.MandateStatusApproved, domain.MandateStatusReadyToDebit, s.now().UTC())
	})
	switch {
	case errors.Is(err, domain.ErrStaleState):
		return ports.Handled(ports.OutcomeAlreadyConclusive, "mandate changed concurrently"), nil
	case err != nil:
		return nil, err
	}

	if res.Outcome == ports.OutcomeApplied {
		s.log.Info().Str("mandate_id", m.ID.String()).Msg("mandate ready to debit")
	}
	return res, nil
}

// ExpireStale expires mandates that never got approved.
func (s *MandateServiceImpl) ExpireStale(ctx context.Context) (int64, error) {
	unlock, acquired, err := s.locker.TryLock(ctx, mandateExpiryLockName, time.Minute)
	if err != nil {
		return 0, fmt.Errorf("acquire expiry lock: %w", err)
	}
	if !acquired {
		return 0, nil
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn().Err(err).Msg("failed to release expiry lock")
		}
	}()

	n, err := s.mandates.ExpireStale(ctx, s.now().Add(-s.expiryAfter))
	if err != nil {
		return 0, fmt.Errorf("expire mandates: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("expired", n).Msg("stale mandates expired")
	}
	return n, nil
}

// resolveMandate finds the mandate by ref, falling back to the customer. A
// mandate we never saw created is fetched from the provider and recorded.
func (s *MandateServiceImpl) resolveMandate(ctx context.Context, p domain.MandateEventPayload) (*domain.Mandate, error) {
	if p.MandateRef != "" {
		m, err := s.mandates.GetByRef(ctx, p.Provider, p.MandateRef)
		if err != nil || m != nil {
			return m, err
		}
	}
	if p.CustomerRef != "" {
		m, err := s.mandates.GetByCustomerRef(ctx, p.Provider, p.CustomerRef)
		if err != nil || m != nil {
			return m, err
		}
	}
	if p.MandateRef == "" {
		return nil, nil
	}

	client, err := s.providers.MandateClient(p.Provider)
	if err != nil {
		s.log.Warn().Err(err).Str("mandate_ref", p.MandateRef).Msg("cannot backfill unknown mandate")
		return nil, nil
	}
	details, err := client.GetMandate(ctx, p.MandateRef)
	if err != nil {
		return nil, err
	}
	res, err := s.HandleCreated(ctx, domain.MandateCreatedPayload{
		Provider:       p.Provider,
		MandateRef:     p.MandateRef,
		CustomerRef:    details.CustomerRef,
		OrganizationID: details.OrganizationID,
		Currency:       details.Currency,
		AccountName:    details.AccountName,
		AccountNumber:  details.AccountNumber,
		BankCode:       details.BankCode,
	})
	if err != nil {
		return nil, err
	}
	if res.Outcome == ports.OutcomeRejected {
		return nil, nil
	}
	return s.mandates.GetByRef(ctx, p.Provider, p.MandateRef)
}

var _ ports.MandateService = (*MandateServiceImpl)(nil)
