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

// CreateUser inserts a new user into the database.
// A duplicate email surfaces as storage.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStoreOp("user_create", time.Now())

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Password, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", constraintErr(err))
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	defer metrics.ObserveStoreOp("user_get", time.Now())

	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by exact email match.
// Emails are compared byte for byte; the column uses BINARY collation.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveStoreOp("user_get_by_email", time.Now())

	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, created_at FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// EmailExists reports whether any user has the given email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	defer metrics.ObserveStoreOp("user_email_exists", time.Now())

	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)",
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdateUser replaces the stored user record.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStoreOp("user_update", time.Now())

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password = ? WHERE id = ?",
		user.Name, user.Email, user.Password, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", constraintErr(err))
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

// DeleteUser removes the user and everything they own in one transaction.
// Children go first so the foreign keys never block the delete.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	defer metrics.ObserveStoreOp("user_delete", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM budgets WHERE user_id = ?",
		"DELETE FROM expenses WHERE user_id = ?",
		"DELETE FROM categories WHERE user_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete owned records: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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
