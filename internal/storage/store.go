// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row owned by the acting
	// user. A row that exists but belongs to a different user is reported the
	// same way, so callers can never distinguish "absent" from "forbidden".
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint:
	// a duplicate user email, or a second budget for the same
	// (user, category, year, month).
	ErrConflict = errors.New("conflict")
)

// Page selects one page of a listing. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Limit returns the page size clamped to [1, maxPageSize], falling back to
// the default when unset.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return defaultPageSize
	}
	if p.Size > maxPageSize {
		return maxPageSize
	}
	return p.Size
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Limit()
}

// ExpenseFilter is a set of optional predicates combined conjunctively.
// Zero-valued fields are ignored, so any subset of filters can be applied
// without a dedicated query method per combination.
type ExpenseFilter struct {
	// Search matches expenses whose description contains this substring
	// (case-insensitive).
	Search string

	// CategoryID restricts to expenses filed under this category.
	CategoryID string

	// From restricts to expenses dated on or after this date.
	From *models.Date

	// To restricts to expenses dated on or before this date.
	To *models.Date
}

// Store defines the persistence operations for all four record types.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing callers.
//
// Every operation that targets a specific row takes the acting user's ID and
// returns ErrNotFound when the row is missing or owned by someone else.
// Sum aggregates return decimal.NullDecimal with Valid=false when no rows
// match: "no expenses" and "total is exactly zero" are different answers.
type Store interface {
	UserStore
	CategoryStore
	ExpenseStore
	BudgetStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user, assigning ID and CreatedAt if unset.
	// Returns ErrConflict if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by exact email match (case-sensitive).
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailExists reports whether any user has the given email.
	// Used at registration to prevent duplicates before attempting an insert.
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateUser replaces the stored user with the given record.
	// Returns ErrConflict if the new email collides with another user.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes the user and, in the same transaction, every
	// category, expense and budget they own.
	DeleteUser(ctx context.Context, id string) error
}

// CategoryStore persists expense categories, always scoped to an owning user.
type CategoryStore interface {
	// CreateCategory persists a new category, assigning ID and CreatedAt if unset.
	CreateCategory(ctx context.Context, category *models.Category) error

	// ListCategories returns all categories owned by the user, ordered by name.
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// GetCategory retrieves one category by (id, owning user).
	GetCategory(ctx context.Context, id, userID string) (*models.Category, error)

	// CategoryNameExists reports whether the user already has a category with
	// this name.
	CategoryNameExists(ctx context.Context, name, userID string) (bool, error)

	// UpdateCategory replaces the stored category, matched by (ID, UserID).
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory removes the category and, in the same transaction, every
	// expense and budget filed under it.
	DeleteCategory(ctx context.Context, id, userID string) error
}

// ExpenseStore persists expenses and computes expense aggregates.
type ExpenseStore interface {
	// CreateExpense persists a new expense, assigning ID and CreatedAt if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves one expense by (id, owning user).
	GetExpense(ctx context.Context, id, userID string) (*models.Expense, error)

	// UpdateExpense replaces the stored expense, matched by (ID, UserID).
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes one expense by (id, owning user).
	DeleteExpense(ctx context.Context, id, userID string) error

	// ListExpenses returns one page of the user's expenses.
	// Ordering is deterministic: date descending, then ID descending.
	ListExpenses(ctx context.Context, userID string, page Page) ([]*models.Expense, error)

	// ListExpensesByDateRange returns the user's expenses dated within
	// [from, to], bounds inclusive.
	ListExpensesByDateRange(ctx context.Context, userID string, from, to models.Date) ([]*models.Expense, error)

	// ListExpensesByCategory returns the user's expenses filed under the category.
	ListExpensesByCategory(ctx context.Context, userID, categoryID string) ([]*models.Expense, error)

	// SearchExpenses returns one page of the user's expenses matching every
	// predicate set on the filter. Same ordering as ListExpenses.
	SearchExpenses(ctx context.Context, userID string, filter ExpenseFilter, page Page) ([]*models.Expense, error)

	// SumExpenses returns the all-time sum of the user's expense amounts.
	SumExpenses(ctx context.Context, userID string) (decimal.NullDecimal, error)

	// SumExpensesInRange returns the sum of the user's expense amounts dated
	// within [from, to], bounds inclusive.
	SumExpensesInRange(ctx context.Context, userID string, from, to models.Date) (decimal.NullDecimal, error)

	// SumExpensesByCategory returns one total per category that has at least
	// one expense dated within [from, to]. Categories with no expenses in
	// range are omitted, never reported as zero.
	SumExpensesByCategory(ctx context.Context, userID string, from, to models.Date) ([]models.CategoryTotal, error)
}

// BudgetStore persists monthly per-category budgets.
type BudgetStore interface {
	// CreateBudget persists a new budget, assigning ID and CreatedAt if unset.
	// Returns ErrConflict if a budget already exists for the same
	// (user, category, year, month); it never overwrites silently.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves one budget by (id, owning user).
	GetBudget(ctx context.Context, id, userID string) (*models.Budget, error)

	// GetBudgetFor retrieves the single budget for the given category and
	// month, which is unique by construction.
	GetBudgetFor(ctx context.Context, userID, categoryID string, year, month int) (*models.Budget, error)

	// ListBudgets returns all budgets owned by the user.
	ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error)

	// ListBudgetsByYear returns the user's budgets for the given year.
	ListBudgetsByYear(ctx context.Context, userID string, year int) ([]*models.Budget, error)

	// ListBudgetsByMonth returns the user's budgets for the given year and month.
	ListBudgetsByMonth(ctx context.Context, userID string, year, month int) ([]*models.Budget, error)

	// UpdateBudget replaces the stored budget, matched by (ID, UserID).
	// Returns ErrConflict if the change collides with another budget's
	// (user, category, year, month).
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	// DeleteBudget removes one budget by (id, owning user).
	DeleteBudget(ctx context.Context, id, userID string) error

	// SumBudgets returns the sum of the user's budgeted amounts for the given
	// year and month.
	SumBudgets(ctx context.Context, userID string, year, month int) (decimal.NullDecimal, error)
}
