package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BudgetRepo implements ports.BudgetRepository.
type BudgetRepo struct {
	pool Pool
}

// NewBudgetRepo creates a new BudgetRepo.
func NewBudgetRepo(pool Pool) *BudgetRepo {
	return &BudgetRepo{pool: pool}
}

const budgetColumns = `id, organization_id, wallet_id, name, currency, amount, amount_used, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	b := &domain.Budget{}
	err := row.Scan(
		&b.ID, &b.OrganizationID, &b.WalletID, &b.Name, &b.Currency,
		&b.Amount, &b.AmountUsed, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// GetByID fetches a budget by UUID.
func (r *BudgetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get budget by id: %w", err)
	}
	return b, nil
}

// GetByIDForUpdate locks the budget row for the rest of the transaction.
func (r *BudgetRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 FOR UPDATE`

	b, err := scanBudget(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get budget for update: %w", err)
	}
	return b, nil
}

// AdjustUsage adds delta to amount_used. The check constraint keeps usage
// from going negative.
func (r *BudgetRepo) AdjustUsage(ctx context.Context, tx pgx.Tx, budgetID uuid.UUID, delta int64) error {
	query := `UPDATE budgets SET amount_used = amount_used + $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, delta, budgetID)
	if err != nil {
		return fmt.Errorf("adjust budget usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget not found: %s", budgetID)
	}
	return nil
}
