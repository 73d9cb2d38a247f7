package models

import "github.com/shopspring/decimal"

// Budget represents the amount a user plans to spend in one category during
// one month. At most one budget exists per (user, category, year, month);
// the storage layer enforces this with a uniqueness constraint.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// Amount is the budgeted amount for the month, exact to two fractional digits.
	Amount decimal.Decimal

	// Year is the calendar year the budget applies to, e.g. 2024.
	Year int

	// Month is the calendar month the budget applies to: 1 for January, 12 for December.
	Month int

	// UserID identifies the owning user.
	UserID string

	// CategoryID identifies the category the budget caps.
	CategoryID string

	// CreatedAt is the Unix timestamp when the budget was created.
	CreatedAt int64
}
