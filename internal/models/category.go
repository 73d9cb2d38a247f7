package models

import "github.com/shopspring/decimal"

// Category represents a user-defined expense bucket (e.g. "Groceries").
// Category names are unique per user, not globally.
//
// Deleting a category removes the expenses and budgets filed under it.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// Name is the display name of the category.
	Name string

	// Color is the display color as a hex code, e.g. "#FF5733".
	Color string

	// DefaultBudget is an optional default monthly budget for this category.
	// Valid is false when no default has been set.
	DefaultBudget decimal.NullDecimal

	// UserID identifies the owning user.
	UserID string

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64
}
