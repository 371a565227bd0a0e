package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const constraintMandateRef = "mandates_provider_ref_key"

const mandateColumns = `id, organization_id, provider, mandate_ref, customer_ref, currency,
	account_name, bank_code, account_number_enc, account_mask, status,
	approved_at, ready_at, created_at, updated_at`

// MandateRepo implements ports.MandateRepository and the mandate half of LedgerTx.
type MandateRepo struct {
	pool Pool
}

// NewMandateRepo creates a new MandateRepo.
func NewMandateRepo(pool Pool) *MandateRepo {
	return &MandateRepo{pool: pool}
}

// GetByRef fetches a mandate by the provider's mandate id.
func (r *MandateRepo) GetByRef(ctx context.Context, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error) {
	query := `SELECT ` + mandateColumns + ` FROM mandates WHERE provider = $1 AND mandate_ref = $2`

	m, err := scanMandate(r.pool.QueryRow(ctx, query, provider, mandateRef))
	if err != nil {
		return nil, fmt.Errorf("get mandate by ref: %w", err)
	}
	return m, nil
}

// GetByCustomerRef fetches the most recent mandate of a provider customer.
func (r *MandateRepo) GetByCustomerRef(ctx context.Context, provider domain.ProviderName, customerRef string) (*domain.Mandate, error) {
	query := `SELECT ` + mandateColumns + ` FROM mandates
		WHERE provider = $1 AND customer_ref = $2 ORDER BY created_at DESC LIMIT 1`

	m, err := scanMandate(r.pool.QueryRow(ctx, query, provider, customerRef))
	if err != nil {
		return nil, fmt.Errorf("get mandate by customer ref: %w", err)
	}
	return m, nil
}

// ExpireStale expires mandates that were never approved.
func (r *MandateRepo) ExpireStale(ctx context.Context, createdBefore time.Time) (int64, error) {
	query := `UPDATE mandates SET status = 'expired', updated_at = NOW()
		WHERE status = 'created' AND created_at < $1`

	tag, err := r.pool.Exec(ctx, query, createdBefore)
	if err != nil {
		return 0, fmt.Errorf("expire stale mandates: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetForUpdate locks a mandate row within a transaction.
func (r *MandateRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, provider domain.ProviderName, mandateRef string) (*domain.Mandate, error) {
	query := `SELECT ` + mandateColumns + ` FROM mandates
		WHERE provider = $1 AND mandate_ref = $2 FOR UPDATE`

	m, err := scanMandate(tx.QueryRow(ctx, query, provider, mandateRef))
	if err != nil {
		return nil, fmt.Errorf("get mandate for update: %w", err)
	}
	return m, nil
}

// Create inserts a mandate within a transaction.
func (r *MandateRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.Mandate) error {
	query := `INSERT INTO mandates (` + mandateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, query,
		m.ID, m.OrganizationID, m.Provider, m.MandateRef, m.CustomerRef, m.Currency,
		m.AccountName, m.BankCode, m.AccountNumberEnc, m.AccountMask, m.Status,
		m.ApprovedAt, m.ReadyAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintMandateRef) {
			return fmt.Errorf("insert mandate %q: %w", m.MandateRef, domain.ErrDuplicateReference)
		}
		return fmt.Errorf("insert mandate: %w", err)
	}
	return nil
}

// Transition moves a mandate from one status to the next and stamps the
// matching timestamp column.
func (r *MandateRepo) Transition(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to domain.MandateStatus, at time.Time) error {
	query := `UPDATE mandates
		SET status = $1,
			approved_at = CASE WHEN $1 = 'approved' THEN $2 ELSE approved_at END,
			ready_at = CASE WHEN $1 = 'ready_to_debit' THEN $2 ELSE ready_at END,
			updated_at = $2
		WHERE id = $3 AND status = $4`

	tag, err := tx.Exec(ctx, query, string(to), at, id, string(from))
	if err != nil {
		return fmt.Errorf("transition mandate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition mandate %s to %s: %w", id, to, domain.ErrStaleState)
	}
	return nil
}

// scanMandate returns (nil, nil) when the row does not exist.
func scanMandate(row pgx.Row) (*domain.Mandate, error) {
	m := &domain.Mandate{}
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.Provider, &m.MandateRef, &m.CustomerRef, &m.Currency,
		&m.AccountName, &m.BankCode, &m.AccountNumberEnc, &m.AccountMask, &m.Status,
		&m.ApprovedAt, &m.ReadyAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}
