// Package models defines the core domain records for Fintrack.
//
// # Models
//
//   - User: a registered account; owns everything else
//   - Category: a user-defined expense bucket with a display color
//   - Expense: a single spend on a calendar date, filed under a category
//   - Budget: a monthly cap for one category; at most one per (user, category, year, month)
//   - Date: a calendar date with no time-of-day component
//
// # Design Principles
//
// 1. **Ownership everywhere**: Expense and Budget carry UserID even though it is
// reachable through their Category, so ownership-scoped queries stay single-hop
// 2. **Avoid circular references**: relationships are ID strings, never pointers
// back to the owning record
// 3. **Exact money**: amounts are decimal.Decimal with two fractional digits;
// binary floats are never used for money
// 4. **Plain data**: models hold data only; invariants are enforced by the
// storage layer
package models
