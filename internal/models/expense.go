package models

import "github.com/shopspring/decimal"

// Expense represents a single spend recorded on a calendar date.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Amount is the monetary amount spent, exact to two fractional digits.
	Amount decimal.Decimal

	// Description is free text describing the spend.
	Description string

	// Date is the calendar date of the spend. There is no time component.
	Date Date

	// CategoryID identifies the category the expense is filed under.
	CategoryID string

	// UserID identifies the owning user. Redundant with the category's owner,
	// kept so ownership-scoped queries never need a join.
	UserID string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// CategoryTotal is one row of a per-category expense aggregation:
// the sum of expense amounts filed under CategoryID within the queried range.
type CategoryTotal struct {
	CategoryID string
	Total      decimal.Decimal
}
