// Package memory is a process-local implementation of the ledger ports used
// by the memory storage driver and by tests that exercise services end to end.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
)

type state struct {
	wallets   map[uuid.UUID]domain.Wallet
	entries   map[uuid.UUID]domain.WalletEntry
	refs      map[string]uuid.UUID
	budgets   map[uuid.UUID]domain.Budget
	accounts  map[uuid.UUID]domain.VirtualAccount
	mandates  map[uuid.UUID]domain.Mandate
	webhooks  []domain.WebhookEvent
	auditLogs []domain.AuditLog
}

func newState() state {
	return state{
		wallets:  make(map[uuid.UUID]domain.Wallet),
		entries:  make(map[uuid.UUID]domain.WalletEntry),
		refs:     make(map[string]uuid.UUID),
		budgets:  make(map[uuid.UUID]domain.Budget),
		accounts: make(map[uuid.UUID]domain.VirtualAccount),
		mandates: make(map[uuid.UUID]domain.Mandate),
	}
}

func (s state) clone() state {
	return state{
		wallets:   maps.Clone(s.wallets),
		entries:   maps.Clone(s.entries),
		refs:      maps.Clone(s.refs),
		budgets:   maps.Clone(s.budgets),
		accounts:  maps.Clone(s.accounts),
		mandates:  maps.Clone(s.mandates),
		webhooks:  append([]domain.WebhookEvent(nil), s.webhooks...),
		auditLogs: append([]domain.AuditLog(nil), s.auditLogs...),
	}
}

// Store holds every ledger record in memory. Transactions are serialized
// behind one mutex and roll back by restoring a snapshot.
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// RunInTx implements ports.Transactor.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &ledgerTx{st: &s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// SeedWallet stores a wallet as-is. Used to provision fixtures.
func (s *Store) SeedWallet(w *domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.wallets[w.ID] = *w
}

// SeedBudget stores a budget as-is.
func (s *Store) SeedBudget(b *domain.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.budgets[b.ID] = *b
}

// SeedVirtualAccount stores a virtual account as-is.
func (s *Store) SeedVirtualAccount(va *domain.VirtualAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[va.ID] = *va
}

// SeedEntry stores an entry as-is, bypassing balance bookkeeping.
func (s *Store) SeedEntry(e *domain.WalletEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.entries[e.ID] = *e
	s.st.refs[e.Reference] = e.ID
}

// WebhookEvents returns the inbound webhook log.
func (s *Store) WebhookEvents() []domain.WebhookEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.WebhookEvent(nil), s.st.webhooks...)
}

// AuditLogs returns the operator audit log.
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditLog(nil), s.st.auditLogs...)
}

// ---- read-side repositories ----

// Wallets returns a ports.WalletRepository view.
func (s *Store) Wallets() *WalletRepo { return &WalletRepo{s: s} }

// Entries returns a ports.EntryRepository view.
func (s *Store) Entries() *EntryRepo { return &EntryRepo{s: s} }

// Budgets returns a ports.BudgetRepository view.
func (s *Store) Budgets() *BudgetRepo { return &BudgetRepo{s: s} }

// VirtualAccounts returns a ports.VirtualAccountRepository view.
func (s *Store) VirtualAccounts() *VirtualAccountRepo { return &VirtualAccountRepo{s: s} }

// Mandates returns a ports.MandateRepository view.
func (s *Store) Mandates() *MandateRepo { return &MandateRepo{s: s} }

// WebhookEventLog returns a ports.WebhookEventRepository view.
func (s *Store) WebhookEventLog() *WebhookEventRepo { return &WebhookEventRepo{s: s} }

// Audit returns a ports.AuditRepository view.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

type WalletRepo struct{ s *Store }

func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.wallet(id), nil
}

func (r *WalletRepo) GetByOrganization(_ context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.walletByOrganization(organizationID, currency), nil
}

func (r *WalletRepo) ListByOrganization(_ context.Context, organizationID uuid.UUID) ([]domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var wallets []domain.Wallet
	for _, w := range r.s.st.wallets {
		if w.OrganizationID == organizationID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].Primary != wallets[j].Primary {
			return wallets[i].Primary
		}
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})
	return wallets, nil
}

type EntryRepo struct{ s *Store }

func (r *EntryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WalletEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.st.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *EntryRepo) GetByReference(_ context.Context, reference string) (*domain.WalletEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.entryByReference(reference), nil
}

func (r *EntryRepo) List(_ context.Context, params ports.EntryListParams) ([]domain.WalletEntry, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.WalletEntry
	for _, e := range r.s.st.entries {
		if e.WalletID != params.WalletID {
			continue
		}
		if params.Status != nil && e.Status != *params.Status {
			continue
		}
		if params.Type != nil && e.Type != *params.Type {
			continue
		}
		if params.Scope != nil && e.Scope != *params.Scope {
			continue
		}
		if params.Reference != "" && e.Reference != params.Reference {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	offset := (params.Page - 1) * params.PageSize
	if offset < 0 || offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+params.PageSize, len(matched))
	return matched[offset:end], total, nil
}

func (r *EntryRepo) ListStalePending(_ context.Context, params ports.StalePendingParams) ([]domain.WalletEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stale []domain.WalletEntry
	for _, e := range r.s.st.entries {
		if e.Status == domain.EntryStatusPending && e.Type == params.Type &&
			e.Scope == params.Scope && e.CreatedAt.Before(params.CreatedBefore) {
			stale = append(stale, e)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if params.Limit > 0 && len(stale) > params.Limit {
		stale = stale[:params.Limit]
	}
	return stale, nil
}

func (r *EntryRepo) Totals(_ context.Context, walletID uuid.UUID) (*ports.EntryTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	totals := &ports.EntryTotals{}
	for _, e := range r.s.st.entries {
		if e.WalletID != walletID {
			continue
		}
		totals.EntryCount++
		if e.Status.IsSettled() {
			totals.SettledNet += e.SignedAmount()
		}
		if e.Type == domain.EntryTypeDebit && e.Status.IsInFlight() {
			totals.InFlightDebits += e.Amount
		}
	}
	return totals, nil
}

type BudgetRepo struct{ s *Store }

func (r *BudgetRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Budget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.st.budgets[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

type VirtualAccountRepo struct{ s *Store }

func (r *VirtualAccountRepo) GetByAccountNumber(_ context.Context, provider domain.ProviderName, accountNumber string) (*domain.VirtualAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, va := range r.s.st.accounts {
		if va.Provider == provider && va.AccountNumber == accountNumber {
			return &va, nil
		}
	}
	return nil, nil
}

func (r *VirtualAccountRepo) ListByWallet(_ context.Context, walletID uuid.UUID) ([]domain.VirtualAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var accounts []domain.VirtualAccount
	for _, va := range r.s.st.accounts {
		if va.WalletID == walletID {
			accounts = append(accounts, va)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

type MandateRepo struct{ s *Store }

func (r *MandateRepo) GetByRef(_ context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.mandateByRef(provider, mandateRef), nil
}

func (r *MandateRepo) GetByCustomerRef(_ context.Context, provider domain.ProviderName, customerRef string) (*domain.Mandate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *domain.Mandate
	for _, m := range r.s.st.mandates {
		if m.Provider != provider || m.CustomerRef != customerRef {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
			latest = &m
		}
	}
	return latest, nil
}

func (r *MandateRepo) ExpireStale(_ context.Context, createdBefore time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	now := time.Now().UTC()
	for id, m := range r.s.st.mandates {
		if m.Status == domain.MandateStatusCreated && m.CreatedAt.Before(createdBefore) {
			m.Status = domain.MandateStatusExpired
			m.UpdatedAt = now
			r.s.st.mandates[id] = m
			n++
		}
	}
	return n, nil
}

type WebhookEventRepo struct{ s *Store }

func (r *WebhookEventRepo) Create(_ context.Context, ev *domain.WebhookEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.webhooks = append(r.s.st.webhooks, *ev)
	return nil
}

type AuditRepo struct{ s *Store }

func (r *AuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.auditLogs = append(r.s.st.auditLogs, *log)
	return nil
}

// ---- state helpers shared by reads and transactions ----

func (st *state) wallet(id uuid.UUID) *domain.Wallet {
	w, ok := st.wallets[id]
	if !ok {
		return nil
	}
	return &w
}

func (st *state) walletByOrganization(organizationID uuid.UUID, currency string) *domain.Wallet {
	for _, w := range st.wallets {
		if w.OrganizationID == organizationID && w.Currency == currency && w.Type == domain.WalletTypeDefault {
			return &w
		}
	}
	return nil
}

func (st *state) entryByReference(reference string) *domain.WalletEntry {
	id, ok := st.refs[reference]
	if !ok {
		return nil
	}
	e := st.entries[id]
	return &e
}

func (st *state) mandateByRef(provider domain.ProviderName, mandateRef string) *domain.Mandate {
	for _, m := range st.mandates {
		if m.Provider == provider && m.MandateRef == mandateRef {
			return &m
		}
	}
	return nil
}

// ---- unit of work ----

type ledgerTx struct {
	st *state
}

func (t *ledgerTx) GetWalletForUpdate(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return t.st.wallet(id), nil
}

func (t *ledgerTx) GetWalletByOrganizationForUpdate(_ context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error) {
	return t.st.walletByOrganization(organizationID, currency), nil
}

func (t *ledgerTx) CreateWallet(_ context.Context, w *domain.Wallet) error {
	for _, existing := range t.st.wallets {
		if existing.OrganizationID == w.OrganizationID && existing.Currency == w.Currency && existing.Type == w.Type {
			return fmt.Errorf("insert wallet: %w", domain.ErrDuplicateReference)
		}
	}
	t.st.wallets[w.ID] = *w
	return nil
}

func (t *ledgerTx) ApplyWalletDelta(_ context.Context, walletID uuid.UUID, delta domain.WalletDelta) (*domain.Wallet, error) {
	w, ok := t.st.wallets[walletID]
	if !ok {
		return nil, fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Balance += delta.Balance
	w.LedgerBalance += delta.LedgerBalance
	lastEntryID := delta.LastEntryID
	w.LastEntryID = &lastEntryID
	w.UpdatedAt = time.Now().UTC()
	t.st.wallets[walletID] = w
	return &w, nil
}

func (t *ledgerTx) GetEntryByReferenceForUpdate(_ context.Context, reference string) (*domain.WalletEntry, error) {
	return t.st.entryByReference(reference), nil
}

func (t *ledgerTx) CreateEntry(_ context.Context, e *domain.WalletEntry) error {
	if _, taken := t.st.refs[e.Reference]; taken {
		return fmt.Errorf("insert wallet entry %q: %w", e.Reference, domain.ErrDuplicateReference)
	}
	t.st.entries[e.ID] = *e
	t.st.refs[e.Reference] = e.ID
	return nil
}

func (t *ledgerTx) TransitionEntry(_ context.Context, tr domain.EntryTransition) error {
	e, ok := t.st.entries[tr.EntryID]
	if !ok || !containsStatus(tr.From, e.Status) {
		return fmt.Errorf("transition wallet entry %s to %s: %w", tr.EntryID, tr.To, domain.ErrStaleState)
	}
	e.Status = tr.To
	if tr.BalanceAfter != nil {
		e.BalanceAfter = *tr.BalanceAfter
	}
	if tr.ProviderRef != "" {
		e.ProviderRef = tr.ProviderRef
	}
	if len(tr.Meta) > 0 {
		merged := maps.Clone(e.Meta)
		if merged == nil {
			merged = make(map[string]string, len(tr.Meta))
		}
		maps.Copy(merged, tr.Meta)
		e.Meta = merged
	}
	e.UpdatedAt = time.Now().UTC()
	t.st.entries[e.ID] = e
	return nil
}

func (t *ledgerTx) SetEntryProviderRef(_ context.Context, entryID uuid.UUID, providerRef string) error {
	e, ok := t.st.entries[entryID]
	if !ok {
		return fmt.Errorf("wallet entry not found: %s", entryID)
	}
	e.ProviderRef = providerRef
	e.UpdatedAt = time.Now().UTC()
	t.st.entries[entryID] = e
	return nil
}

func (t *ledgerTx) GetBudgetForUpdate(_ context.Context, id uuid.UUID) (*domain.Budget, error) {
	b, ok := t.st.budgets[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (t *ledgerTx) InFlightBudgetDebits(_ context.Context, budgetID uuid.UUID) (int64, error) {
	var total int64
	for _, e := range t.st.entries {
		if e.BudgetID != nil && *e.BudgetID == budgetID && e.Type == domain.EntryTypeDebit && e.Status.IsInFlight() {
			total += e.Amount
		}
	}
	return total, nil
}

func (t *ledgerTx) AdjustBudgetUsage(_ context.Context, budgetID uuid.UUID, delta int64) error {
	b, ok := t.st.budgets[budgetID]
	if !ok {
		return fmt.Errorf("budget not found: %s", budgetID)
	}
	if b.AmountUsed+delta < 0 {
		return fmt.Errorf("adjust budget usage: amount_used would become negative")
	}
	b.AmountUsed += delta
	b.UpdatedAt = time.Now().UTC()
	t.st.budgets[budgetID] = b
	return nil
}

func (t *ledgerTx) CreateVirtualAccount(_ context.Context, va *domain.VirtualAccount) error {
	for _, existing := range t.st.accounts {
		if existing.Provider == va.Provider && existing.AccountNumber == va.AccountNumber {
			return fmt.Errorf("insert virtual account: %w", domain.ErrDuplicateReference)
		}
	}
	t.st.accounts[va.ID] = *va
	return nil
}

func (t *ledgerTx) GetMandateForUpdate(_ context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error) {
	return t.st.mandateByRef(provider, mandateRef), nil
}

func (t *ledgerTx) CreateMandate(_ context.Context, m *domain.Mandate) error {
	if t.st.mandateByRef(m.Provider, m.MandateRef) != nil {
		return fmt.Errorf("insert mandate %q: %w", m.MandateRef, domain.ErrDuplicateReference)
	}
	t.st.mandates[m.ID] = *m
	return nil
}

func (t *ledgerTx) TransitionMandate(_ context.Context, id uuid.UUID, from, to domain.MandateStatus, at time.Time) error {
	m, ok := t.st.mandates[id]
	if !ok || m.Status != from {
		return fmt.Errorf("transition mandate %s to %s: %w", id, to, domain.ErrStaleState)
	}
	m.Status = to
	switch to {
	case domain.MandateStatusApproved:
		m.ApprovedAt = &at
	case domain.MandateStatusReadyToDebit:
		m.ReadyAt = &at
	}
	m.UpdatedAt = at
	t.st.mandates[id] = m
	return nil
}

func containsStatus(set []domain.EntryStatus, s domain.EntryStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

var (
	_ ports.Transactor               = (*Store)(nil)
	_ ports.LedgerTx                 = (*ledgerTx)(nil)
	_ ports.WalletRepository         = (*WalletRepo)(nil)
	_ ports.EntryRepository          = (*EntryRepo)(nil)
	_ ports.BudgetRepository         = (*BudgetRepo)(nil)
	_ ports.VirtualAccountRepository = (*VirtualAccountRepo)(nil)
	_ ports.MandateRepository        = (*MandateRepo)(nil)
	_ ports.WebhookEventRepository   = (*WebhookEventRepo)(nil)
	_ ports.AuditRepository          = (*AuditRepo)(nil)
)
