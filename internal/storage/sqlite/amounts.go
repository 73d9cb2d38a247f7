package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Monetary columns hold integer cents. Amounts cross this boundary as
// decimal.Decimal and are rejected if they cannot be represented exactly
// with two fractional digits, or exceed eight integer digits.

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.RequireFromString("99999999.99")
)

// centsFromDecimal converts an amount to integer cents.
func centsFromDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("amount %s out of range", d)
	}
	return scaled.IntPart(), nil
}

// decimalFromCents converts integer cents back to a two-decimal amount.
func decimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// nullCentsFromDecimal converts an optional amount to nullable cents.
func nullCentsFromDecimal(d decimal.NullDecimal) (sql.NullInt64, error) {
	if !d.Valid {
		return sql.NullInt64{}, nil
	}
	cents, err := centsFromDecimal(d.Decimal)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: cents, Valid: true}, nil
}

// nullDecimalFromCents converts nullable cents back to an optional amount.
// An absent value stays absent; it is never collapsed to zero.
func nullDecimalFromCents(cents sql.NullInt64) decimal.NullDecimal {
	if !cents.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimalFromCents(cents.Int64), Valid: true}
}
