package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/metrics"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/storage"
)

const expenseColumns = "id, amount, description, date, category_id, user_id, created_at"

// Listings are ordered newest first; the ID tiebreak keeps pagination stable
// when several expenses share a date.
const expenseOrder = " ORDER BY date DESC, id DESC"

// CreateExpense inserts a new expense for its owning user.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	defer metrics.ObserveStoreOp("expense_create", time.Now())

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	cents, err := centsFromDecimal(expense.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		expense.ID, cents, expense.Description, expense.Date.String(),
		expense.CategoryID, expense.UserID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", constraintErr(err))
	}

	return nil
}

// GetExpense retrieves one expense by (id, owning user).
func (s *Store) GetExpense(ctx context.Context, id, userID string) (*models.Expense, error) {
	defer metrics.ObserveStoreOp("expense_get", time.Now())

	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense replaces the stored expense, matched by (ID, UserID).
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	defer metrics.ObserveStoreOp("expense_update", time.Now())

	cents, err := centsFromDecimal(expense.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET amount = ?, description = ?, date = ?, category_id = ? WHERE id = ? AND user_id = ?",
		cents, expense.Description, expense.Date.String(), expense.CategoryID,
		expense.ID, expense.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", constraintErr(err))
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

// DeleteExpense removes one expense by (id, owning user).
func (s *Store) DeleteExpense(ctx context.Context, id, userID string) error {
	defer metrics.ObserveStoreOp("expense_delete", time.Now())

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
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

// ListExpenses returns one page of the user's expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context, userID string, page storage.Page) ([]*models.Expense, error) {
	defer metrics.ObserveStoreOp("expense_list", time.Now())

	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ?"+expenseOrder+" LIMIT ? OFFSET ?",
		userID, page.Limit(), page.Offset(),
	)
}

// ListExpensesByDateRange returns the user's expenses dated within [from, to].
// Both bounds are inclusive.
func (s *Store) ListExpensesByDateRange(ctx context.Context, userID string, from, to models.Date) ([]*models.Expense, error) {
	defer metrics.ObserveStoreOp("expense_list_by_date_range", time.Now())

	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? AND date >= ? AND date <= ?"+expenseOrder,
		userID, from.String(), to.String(),
	)
}

// ListExpensesByCategory returns the user's expenses filed under the category.
func (s *Store) ListExpensesByCategory(ctx context.Context, userID, categoryID string) ([]*models.Expense, error) {
	defer metrics.ObserveStoreOp("expense_list_by_category", time.Now())

	return s.queryExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? AND category_id = ?"+expenseOrder,
		userID, categoryID,
	)
}

// SearchExpenses returns one page of the user's expenses matching every
// predicate set on the filter. Predicates compose conjunctively; unset
// fields are ignored.
func (s *Store) SearchExpenses(ctx context.Context, userID string, filter storage.ExpenseFilter, page storage.Page) ([]*models.Expense, error) {
	defer metrics.ObserveStoreOp("expense_search", time.Now())

	conds := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Search != "" {
		// instr avoids LIKE wildcard escaping; lower() folds ASCII case.
		conds = append(conds, "instr(lower(description), lower(?)) > 0")
		args = append(args, filter.Search)
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, filter.To.String())
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE " +
		strings.Join(conds, " AND ") + expenseOrder + " LIMIT ? OFFSET ?"
	args = append(args, page.Limit(), page.Offset())

	return s.queryExpenses(ctx, query, args...)
}

// SumExpenses returns the all-time sum of the user's expense amounts.
// With no expenses the result is absent, not zero.
func (s *Store) SumExpenses(ctx context.Context, userID string) (decimal.NullDecimal, error) {
	defer metrics.ObserveStoreOp("expense_sum", time.Now())

	return s.sumQuery(ctx,
		"SELECT SUM(amount) FROM expenses WHERE user_id = ?",
		userID,
	)
}

// SumExpensesInRange returns the sum of the user's expense amounts dated
// within [from, to], bounds inclusive.
func (s *Store) SumExpensesInRange(ctx context.Context, userID string, from, to models.Date) (decimal.NullDecimal, error) {
	defer metrics.ObserveStoreOp("expense_sum_in_range", time.Now())

	return s.sumQuery(ctx,
		"SELECT SUM(amount) FROM expenses WHERE user_id = ? AND date >= ? AND date <= ?",
		userID, from.String(), to.String(),
	)
}

// SumExpensesByCategory returns one total per category with at least one
// expense dated within [from, to]. Categories without expenses in range are
// omitted.
func (s *Store) SumExpensesByCategory(ctx context.Context, userID string, from, to models.Date) ([]models.CategoryTotal, error) {
	defer metrics.ObserveStoreOp("expense_sum_by_category", time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, SUM(amount)
		 FROM expenses
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 GROUP BY category_id
		 ORDER BY category_id`,
		userID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var categoryID string
		var cents int64
		if err := rows.Scan(&categoryID, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, models.CategoryTotal{
			CategoryID: categoryID,
			Total:      decimalFromCents(cents),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// sumQuery runs a SUM(amount) query. SQL returns NULL over zero rows, which
// maps to an absent result so callers can tell "no expenses" from "sums to 0".
func (s *Store) sumQuery(ctx context.Context, query string, args ...any) (decimal.NullDecimal, error) {
	var cents sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return nullDecimalFromCents(cents), nil
}

// scanExpense reads one expense row from either a *sql.Row or *sql.Rows.
func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	expense := &models.Expense{}
	var cents int64
	var date string

	err := row.Scan(
		&expense.ID,
		&cents,
		&expense.Description,
		&date,
		&expense.CategoryID,
		&expense.UserID,
		&expense.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	expense.Amount = decimalFromCents(cents)
	expense.Date, err = models.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date: %w", err)
	}

	return expense, nil
}
