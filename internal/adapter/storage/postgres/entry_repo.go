package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const constraintEntryReference = "wallet_entries_reference_key"

const entryColumns = `id, organization_id, wallet_id, budget_id, project_id, card_id, payroll_id,
	type, amount, fee, currency, balance_before, balance_after, status, scope,
	provider, provider_ref, reference, narration, meta, created_at, updated_at`

// EntryRepo implements ports.EntryRepository and the entry half of LedgerTx.
type EntryRepo struct {
	pool Pool
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(pool Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

// Create inserts a new wallet entry within a database transaction.
func (r *EntryRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.WalletEntry) error {
	query := `INSERT INTO wallet_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.OrganizationID, e.WalletID, e.BudgetID, e.ProjectID, e.CardID, e.PayrollID,
		e.Type, e.Amount, e.Fee, e.Currency, e.BalanceBefore, e.BalanceAfter, e.Status, e.Scope,
		e.Provider, e.ProviderRef, e.Reference, e.Narration, e.Meta, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintEntryReference) {
			return fmt.Errorf("insert wallet entry %q: %w", e.Reference, domain.ErrDuplicateReference)
		}
		return fmt.Errorf("insert wallet entry: %w", err)
	}
	return nil
}

// GetByID fetches a wallet entry by UUID.
func (r *EntryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_entries WHERE id = $1`

	e, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet entry by id: %w", err)
	}
	return e, nil
}

// GetByReference fetches a wallet entry by its unique reference.
func (r *EntryRepo) GetByReference(ctx context.Context, reference string) (*domain.WalletEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_entries WHERE reference = $1`

	e, err := scanEntry(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, fmt.Errorf("get wallet entry by reference: %w", err)
	}
	return e, nil
}

// GetByReferenceForUpdate locks the entry row until the transaction ends.
func (r *EntryRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.WalletEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_entries WHERE reference = $1 FOR UPDATE`

	e, err := scanEntry(tx.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, fmt.Errorf("get wallet entry for update: %w", err)
	}
	return e, nil
}

// Transition moves an entry to a new status only while it is still in one
// of t.From. A miss means a concurrent writer got there first.
func (r *EntryRepo) Transition(ctx context.Context, tx pgx.Tx, t domain.EntryTransition) error {
	from := make([]string, len(t.From))
	for i, s := range t.From {
		from[i] = string(s)
	}

	var meta any
	if len(t.Meta) > 0 {
		meta = t.Meta
	}

	query := `UPDATE wallet_entries
		SET status = $1,
			balance_after = COALESCE($2, balance_after),
			provider_ref = COALESCE(NULLIF($3, ''), provider_ref),
			meta = COALESCE(meta, '{}'::jsonb) || COALESCE($4::jsonb, '{}'::jsonb),
			updated_at = NOW()
		WHERE id = $5 AND status = ANY($6)`

	tag, err := tx.Exec(ctx, query, t.To, t.BalanceAfter, t.ProviderRef, meta, t.EntryID, from)
	if err != nil {
		return fmt.Errorf("transition wallet entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition wallet entry %s to %s: %w", t.EntryID, t.To, domain.ErrStaleState)
	}
	return nil
}

// SetProviderRef records the provider's id for an entry after initiation.
func (r *EntryRepo) SetProviderRef(ctx context.Context, tx pgx.Tx, entryID uuid.UUID, providerRef string) error {
	query := `UPDATE wallet_entries SET provider_ref = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, providerRef, entryID)
	if err != nil {
		return fmt.Errorf("set entry provider ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet entry not found: %s", entryID)
	}
	return nil
}

// List fetches a wallet's entries with filtering and pagination.
func (r *EntryRepo) List(ctx context.Context, params ports.EntryListParams) ([]domain.WalletEntry, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("wallet_id = $%d", argIdx))
	args = append(args, params.WalletID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.Scope != nil {
		conditions = append(conditions, fmt.Sprintf("scope = $%d", argIdx))
		args = append(args, *params.Scope)
		argIdx++
	}
	if params.Reference != "" {
		conditions = append(conditions, fmt.Sprintf("reference = $%d", argIdx))
		args = append(args, params.Reference)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM wallet_entries %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wallet entries: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM wallet_entries %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		entryColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	entries, err := r.queryEntries(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallet entries: %w", err)
	}
	return entries, total, nil
}

// ListStalePending returns pending entries older than the grace window,
// oldest first.
func (r *EntryRepo) ListStalePending(ctx context.Context, params ports.StalePendingParams) ([]domain.WalletEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM wallet_entries
		WHERE status = 'pending' AND type = $1 AND scope = $2 AND created_at < $3
		ORDER BY created_at ASC LIMIT $4`

	entries, err := r.queryEntries(ctx, query, params.Type, params.Scope, params.CreatedBefore, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list stale pending entries: %w", err)
	}
	return entries, nil
}

// Totals aggregates a wallet's entries for replay verification.
func (r *EntryRepo) Totals(ctx context.Context, walletID uuid.UUID) (*ports.EntryTotals, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE -amount END)
			FILTER (WHERE status IN ('successful', 'reversed')), 0) AS settled_net,
		COALESCE(SUM(amount) FILTER (WHERE type = 'debit' AND status IN ('pending', 'processing')), 0) AS in_flight_debits,
		COUNT(*) AS entry_count
		FROM wallet_entries WHERE wallet_id = $1`

	totals := &ports.EntryTotals{}
	err := r.pool.QueryRow(ctx, query, walletID).Scan(&totals.SettledNet, &totals.InFlightDebits, &totals.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("get wallet entry totals: %w", err)
	}
	return totals, nil
}

// InFlightByBudget sums the debits charged to a budget that the provider has
// not yet confirmed.
func (r *EntryRepo) InFlightByBudget(ctx context.Context, tx pgx.Tx, budgetID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_entries
		WHERE budget_id = $1 AND type = 'debit' AND status IN ('pending', 'processing')`

	var total int64
	if err := tx.QueryRow(ctx, query, budgetID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum in-flight budget debits: %w", err)
	}
	return total, nil
}

func (r *EntryRepo) queryEntries(ctx context.Context, query string, args ...any) ([]domain.WalletEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WalletEntry
	for rows.Next() {
		e := domain.WalletEntry{}
		if err := rows.Scan(entryScanTargets(&e)...); err != nil {
			return nil, fmt.Errorf("scan wallet entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet entry rows: %w", err)
	}
	return entries, nil
}

func entryScanTargets(e *domain.WalletEntry) []any {
	return []any{
		&e.ID, &e.OrganizationID, &e.WalletID, &e.BudgetID, &e.ProjectID, &e.CardID, &e.PayrollID,
		&e.Type, &e.Amount, &e.Fee, &e.Currency, &e.BalanceBefore, &e.BalanceAfter, &e.Status, &e.Scope,
		&e.Provider, &e.ProviderRef, &e.Reference, &e.Narration, &e.Meta, &e.CreatedAt, &e.UpdatedAt,
	}
}

// scanEntry returns (nil, nil) when the row does not exist.
func scanEntry(row pgx.Row) (*domain.WalletEntry, error) {
	e := &domain.WalletEntry{}
	if err := row.Scan(entryScanTargets(e)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
