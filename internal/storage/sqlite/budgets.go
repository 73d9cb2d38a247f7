package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/metrics"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/storage"
)

const budgetColumns = "id, budget_amount, budget_year, budget_month, user_id, category_id, created_at"

// CreateBudget inserts a new monthly budget. A second budget for the same
// (user, category, year, month) violates the unique index and surfaces as
// storage.ErrConflict; the existing row is never overwritten.
func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) error {
	defer metrics.ObserveStoreOp("budget_create", time.Now())

	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	cents, err := centsFromDecimal(budget.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO budgets ("+budgetColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		budget.ID, cents, budget.Year, budget.Month,
		budget.UserID, budget.CategoryID, budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", constraintErr(err))
	}

	return nil
}

// GetBudget retrieves one budget by (id, owning user).
func (s *Store) GetBudget(ctx context.Context, id, userID string) (*models.Budget, error) {
	defer metrics.ObserveStoreOp("budget_get", time.Now())

	row := s.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return scanBudgetRow(row)
}

// GetBudgetFor retrieves the single budget for the given category and month.
// The unique index guarantees at most one match.
func (s *Store) GetBudgetFor(ctx context.Context, userID, categoryID string, year, month int) (*models.Budget, error) {
	defer metrics.ObserveStoreOp("budget_get_for", time.Now())

	row := s.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND category_id = ? AND budget_year = ? AND budget_month = ?",
		userID, categoryID, year, month,
	)
	return scanBudgetRow(row)
}

// ListBudgets returns all budgets owned by the user.
func (s *Store) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	defer metrics.ObserveStoreOp("budget_list", time.Now())

	return s.queryBudgets(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? ORDER BY budget_year, budget_month, category_id",
		userID,
	)
}

// ListBudgetsByYear returns the user's budgets for the given year.
func (s *Store) ListBudgetsByYear(ctx context.Context, userID string, year int) ([]*models.Budget, error) {
	defer metrics.ObserveStoreOp("budget_list_by_year", time.Now())

	return s.queryBudgets(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND budget_year = ? ORDER BY budget_month, category_id",
		userID, year,
	)
}

// ListBudgetsByMonth returns the user's budgets for the given year and month.
func (s *Store) ListBudgetsByMonth(ctx context.Context, userID string, year, month int) ([]*models.Budget, error) {
	defer metrics.ObserveStoreOp("budget_list_by_month", time.Now())

	return s.queryBudgets(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND budget_year = ? AND budget_month = ? ORDER BY category_id",
		userID, year, month,
	)
}

// UpdateBudget replaces the stored budget, matched by (ID, UserID).
// Moving it onto another budget's (category, year, month) is a conflict.
func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	defer metrics.ObserveStoreOp("budget_update", time.Now())

	cents, err := centsFromDecimal(budget.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE budgets SET budget_amount = ?, budget_year = ?, budget_month = ?, category_id = ? WHERE id = ? AND user_id = ?",
		cents, budget.Year, budget.Month, budget.CategoryID,
		budget.ID, budget.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", constraintErr(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteBudget removes one budget by (id, owning user).
func (s *Store) DeleteBudget(ctx context.Context, id, userID string) error {
	defer metrics.ObserveStoreOp("budget_delete", time.Now())

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// SumBudgets returns the sum of the user's budgeted amounts for the given
// year and month, or an absent value when no budgets exist for it.
func (s *Store) SumBudgets(ctx context.Context, userID string, year, month int) (decimal.NullDecimal, error) {
	defer metrics.ObserveStoreOp("budget_sum", time.Now())

	var cents sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT SUM(budget_amount) FROM budgets WHERE user_id = ? AND budget_year = ? AND budget_month = ?",
		userID, year, month,
	).Scan(&cents)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum budgets: %w", err)
	}

	return nullDecimalFromCents(cents), nil
}

func (s *Store) queryBudgets(ctx context.Context, query string, args ...any) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

func scanBudgetRow(row *sql.Row) (*models.Budget, error) {
	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// scanBudget reads one budget row from either a *sql.Row or *sql.Rows.
func scanBudget(row interface{ Scan(...any) error }) (*models.Budget, error) {
	budget := &models.Budget{}
	var cents int64

	err := row.Scan(
		&budget.ID,
		&cents,
		&budget.Year,
		&budget.Month,
		&budget.UserID,
		&budget.CategoryID,
		&budget.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}

	budget.Amount = decimalFromCents(cents)
	return budget, nil
}
