package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const constraintVirtualAccountNumber = "virtual_accounts_provider_number_key"

const virtualAccountColumns = `id, organization_id, wallet_id, provider, provider_ref, type,
	account_name, account_number, bank_code, bank_name, currency, expires_at, created_at`

// VirtualAccountRepo implements ports.VirtualAccountRepository.
type VirtualAccountRepo struct {
	pool Pool
}

// NewVirtualAccountRepo creates a new VirtualAccountRepo.
func NewVirtualAccountRepo(pool Pool) *VirtualAccountRepo {
	return &VirtualAccountRepo{pool: pool}
}

// Create inserts a virtual account within a database transaction.
func (r *VirtualAccountRepo) Create(ctx context.Context, tx pgx.Tx, va *domain.VirtualAccount) error {
	query := `INSERT INTO virtual_accounts (` + virtualAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		va.ID, va.OrganizationID, va.WalletID, va.Provider, va.ProviderRef, va.Type,
		va.AccountName, va.AccountNumber, va.BankCode, va.BankName, va.Currency, va.ExpiresAt, va.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintVirtualAccountNumber) {
			return fmt.Errorf("insert virtual account: %w", domain.ErrDuplicateReference)
		}
		return fmt.Errorf("insert virtual account: %w", err)
	}
	return nil
}

// GetByAccountNumber resolves an inbound account number to its virtual account.
func (r *VirtualAccountRepo) GetByAccountNumber(ctx context.Context, provider domain.ProviderName, accountNumber string) (*domain.VirtualAccount, error) {
	query := `SELECT ` + virtualAccountColumns + ` FROM virtual_accounts
		WHERE provider = $1 AND account_number = $2`

	va := &domain.VirtualAccount{}
	err := r.pool.QueryRow(ctx, query, provider, accountNumber).Scan(virtualAccountScanTargets(va)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get virtual account by number: %w", err)
	}
	return va, nil
}

// ListByWallet returns every account routed to a wallet.
func (r *VirtualAccountRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.VirtualAccount, error) {
	query := `SELECT ` + virtualAccountColumns + ` FROM virtual_accounts
		WHERE wallet_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list virtual accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.VirtualAccount
	for rows.Next() {
		va := domain.VirtualAccount{}
		if err := rows.Scan(virtualAccountScanTargets(&va)...); err != nil {
			return nil, fmt.Errorf("scan virtual account row: %w", err)
		}
		accounts = append(accounts, va)
	}
	return accounts, rows.Err()
}

func virtualAccountScanTargets(va *domain.VirtualAccount) []any {
	return []any{
		&va.ID, &va.OrganizationID, &va.WalletID, &va.Provider, &va.ProviderRef, &va.Type,
		&va.AccountName, &va.AccountNumber, &va.BankCode, &va.BankName, &va.Currency, &va.ExpiresAt, &va.CreatedAt,
	}
}
