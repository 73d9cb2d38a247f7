package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack/internal/metrics"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/storage"
)

const categoryColumns = "id, name, color, default_budget, user_id, created_at"

// CreateCategory inserts a new category for its owning user.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	defer metrics.ObserveStoreOp("category_create", time.Now())

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	defaultBudget, err := nullCentsFromDecimal(category.DefaultBudget)
	if err != nil {
		return fmt.Errorf("invalid default budget: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		category.ID, category.Name, category.Color, defaultBudget, category.UserID, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", constraintErr(err))
	}

	return nil
}

// ListCategories returns all categories owned by the user, ordered by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	defer metrics.ObserveStoreOp("category_list", time.Now())

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = ? ORDER BY name",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves one category by (id, owning user). A category owned
// by a different user is reported as not found, never as forbidden.
func (s *Store) GetCategory(ctx context.Context, id, userID string) (*models.Category, error) {
	defer metrics.ObserveStoreOp("category_get", time.Now())

	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ? AND user_id = ?",
		id, userID,
	)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

// CategoryNameExists reports whether the user already has a category with the
// given name.
func (s *Store) CategoryNameExists(ctx context.Context, name, userID string) (bool, error) {
	defer metrics.ObserveStoreOp("category_name_exists", time.Now())

	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE name = ? AND user_id = ?)",
		name, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}

	return exists, nil
}

// UpdateCategory replaces the stored category, matched by (ID, UserID).
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	defer metrics.ObserveStoreOp("category_update", time.Now())

	defaultBudget, err := nullCentsFromDecimal(category.DefaultBudget)
	if err != nil {
		return fmt.Errorf("invalid default budget: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, color = ?, default_budget = ? WHERE id = ? AND user_id = ?",
		category.Name, category.Color, defaultBudget, category.ID, category.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", constraintErr(err))
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

// DeleteCategory removes the category and the expenses and budgets filed
// under it in one transaction, children first.
func (s *Store) DeleteCategory(ctx context.Context, id, userID string) error {
	defer metrics.ObserveStoreOp("category_delete", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM budgets WHERE category_id = ? AND user_id = ?",
		"DELETE FROM expenses WHERE category_id = ? AND user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id, userID); err != nil {
			return fmt.Errorf("failed to delete filed records: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// scanCategory reads one category row from either a *sql.Row or *sql.Rows.
func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	category := &models.Category{}
	var defaultBudget sql.NullInt64

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&defaultBudget,
		&category.UserID,
		&category.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	category.DefaultBudget = nullDecimalFromCents(defaultBudget)
	return category, nil
}
