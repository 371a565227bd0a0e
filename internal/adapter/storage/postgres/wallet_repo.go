package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const constraintWalletOrgCurrency = "wallets_org_currency_type_key"

const walletColumns = `id, organization_id, currency, type, balance, ledger_balance, is_primary, last_entry_id, created_at, updated_at`

// WalletRepo implements ports.WalletRepository and the wallet half of LedgerTx.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByOrganization fetches the default wallet of an organization in a currency.
func (r *WalletRepo) GetByOrganization(ctx context.Context, organizationID uuid.UUID, currency string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE organization_id = $1 AND currency = $2 AND type = 'default'`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, organizationID, currency))
	if err != nil {
		return nil, fmt.Errorf("get wallet by organization: %w", err)
	}
	return w, nil
}

// ListByOrganization returns all wallets of an organization, primary first.
func (r *WalletRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE organization_id = $1 ORDER BY is_primary DESC, created_at`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w := domain.Wallet{}
		if err := rows.Scan(
			&w.ID, &w.OrganizationID, &w.Currency, &w.Type, &w.Balance, &w.LedgerBalance,
			&w.Primary, &w.LastEntryID, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get wallet for update by id: %w", err)
	}
	return w, nil
}

// GetByOrganizationForUpdate locks the default wallet of an organization.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByOrganizationForUpdate(ctx context.Context, tx pgx.Tx, organizationID uuid.UUID, currency string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE organization_id = $1 AND currency = $2 AND type = 'default' FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, organizationID, currency))
	if err != nil {
		return nil, fmt.Errorf("get wallet for update by organization: %w", err)
	}
	return w, nil
}

// Create inserts a new wallet within a transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.OrganizationID, w.Currency, w.Type, w.Balance, w.LedgerBalance,
		w.Primary, w.LastEntryID, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintWalletOrgCurrency) {
			return fmt.Errorf("insert wallet: %w", domain.ErrDuplicateReference)
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ApplyDelta increments both balances in one statement and returns the
// updated row. The increment is computed by the database so concurrent
// writers can never lose an update.
func (r *WalletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta domain.WalletDelta) (*domain.Wallet, error) {
	query := `UPDATE wallets
		SET balance = balance + $1, ledger_balance = ledger_balance + $2, last_entry_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + walletColumns

	w, err := scanWallet(tx.QueryRow(ctx, query, delta.Balance, delta.LedgerBalance, delta.LastEntryID, walletID))
	if err != nil {
		return nil, fmt.Errorf("apply wallet delta: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("wallet not found: %s", walletID)
	}
	return w, nil
}

// scanWallet returns (nil, nil) when the row does not exist.
func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.OrganizationID, &w.Currency, &w.Type, &w.Balance, &w.LedgerBalance,
		&w.Primary, &w.LastEntryID, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
