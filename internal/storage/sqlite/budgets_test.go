package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/storage"
)

func TestBudgetCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "planner@example.com")
	category := mustCreateCategory(t, store, user, "Groceries")

	t.Run("create and get round trip", func(t *testing.T) {
		created := mustCreateBudget(t, store, user, category, "300.00", 2024, 3)

		if created.ID == "" {
			t.Error("expected budget ID to be generated")
		}

		got, err := store.GetBudget(ctx, created.ID, user.ID)
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		if !got.Amount.Equal(created.Amount) || got.Year != 2024 || got.Month != 3 {
			t.Errorf("got %+v, want %+v", got, created)
		}
		if got.UserID != user.ID || got.CategoryID != category.ID {
			t.Errorf("ownership mismatch: %+v", got)
		}
	})

	t.Run("GetBudgetFor finds the unique month entry", func(t *testing.T) {
		got, err := store.GetBudgetFor(ctx, user.ID, category.ID, 2024, 3)
		if err != nil {
			t.Fatalf("GetBudgetFor failed: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("300.00")) {
			t.Errorf("amount = %s, want 300.00", got.Amount)
		}

		_, err = store.GetBudgetFor(ctx, user.ID, category.ID, 2024, 4)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unbudgeted month, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		budget := mustCreateBudget(t, store, user, category, "100.00", 2024, 6)
		budget.Amount = decimal.RequireFromString("150.00")

		if err := store.UpdateBudget(ctx, budget); err != nil {
			t.Fatalf("UpdateBudget failed: %v", err)
		}

		got, err := store.GetBudget(ctx, budget.ID, user.ID)
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("150.00")) {
			t.Errorf("update not applied: %s", got.Amount)
		}
	})

	t.Run("delete", func(t *testing.T) {
		budget := mustCreateBudget(t, store, user, category, "10.00", 2024, 7)

		if err := store.DeleteBudget(ctx, budget.ID, user.ID); err != nil {
			t.Fatalf("DeleteBudget failed: %v", err)
		}
		if _, err := store.GetBudget(ctx, budget.ID, user.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign budget behaves as not found", func(t *testing.T) {
		intruder := mustCreateUser(t, store, "intruder-budget@example.com")
		budget := mustCreateBudget(t, store, user, category, "20.00", 2024, 8)

		if _, err := store.GetBudget(ctx, budget.ID, intruder.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("get: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteBudget(ctx, budget.ID, intruder.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestBudgetUniquenessPerMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "unique@example.com")
	category := mustCreateCategory(t, store, user, "Groceries")

	first := mustCreateBudget(t, store, user, category, "300.00", 2024, 3)

	t.Run("second budget for same tuple conflicts", func(t *testing.T) {
		dup := &models.Budget{
			Amount:     decimal.RequireFromString("999.00"),
			Year:       2024,
			Month:      3,
			UserID:     user.ID,
			CategoryID: category.ID,
		}
		err := store.CreateBudget(ctx, dup)
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		// The original row is untouched.
		got, err := store.GetBudget(ctx, first.ID, user.ID)
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("300.00")) {
			t.Errorf("original budget was overwritten: %s", got.Amount)
		}
	})

	t.Run("same tuple for another user is fine", func(t *testing.T) {
		other := mustCreateUser(t, store, "unique-other@example.com")
		otherCat := mustCreateCategory(t, store, other, "Groceries")
		mustCreateBudget(t, store, other, otherCat, "300.00", 2024, 3)
	})

	t.Run("other months and categories are fine", func(t *testing.T) {
		mustCreateBudget(t, store, user, category, "310.00", 2024, 4)
		mustCreateBudget(t, store, user, category, "320.00", 2025, 3)

		rent := mustCreateCategory(t, store, user, "Rent")
		mustCreateBudget(t, store, user, rent, "800.00", 2024, 3)
	})

	t.Run("update onto an occupied tuple conflicts", func(t *testing.T) {
		moving, err := store.GetBudgetFor(ctx, user.ID, category.ID, 2024, 4)
		if err != nil {
			t.Fatalf("GetBudgetFor failed: %v", err)
		}
		moving.Month = 3

		if err := store.UpdateBudget(ctx, moving); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

func TestListBudgets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "lister-budget@example.com")
	food := mustCreateCategory(t, store, user, "Food")
	rent := mustCreateCategory(t, store, user, "Rent")

	mustCreateBudget(t, store, user, food, "100.00", 2023, 12)
	mustCreateBudget(t, store, user, food, "110.00", 2024, 1)
	mustCreateBudget(t, store, user, rent, "800.00", 2024, 1)
	mustCreateBudget(t, store, user, food, "120.00", 2024, 2)

	t.Run("all", func(t *testing.T) {
		budgets, err := store.ListBudgets(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListBudgets failed: %v", err)
		}
		if len(budgets) != 4 {
			t.Errorf("expected 4 budgets, got %d", len(budgets))
		}
	})

	t.Run("by year", func(t *testing.T) {
		budgets, err := store.ListBudgetsByYear(ctx, user.ID, 2024)
		if err != nil {
			t.Fatalf("ListBudgetsByYear failed: %v", err)
		}
		if len(budgets) != 3 {
			t.Fatalf("expected 3 budgets in 2024, got %d", len(budgets))
		}
		for _, b := range budgets {
			if b.Year != 2024 {
				t.Errorf("budget %s has year %d", b.ID, b.Year)
			}
		}
	})

	t.Run("by month", func(t *testing.T) {
		budgets, err := store.ListBudgetsByMonth(ctx, user.ID, 2024, 1)
		if err != nil {
			t.Fatalf("ListBudgetsByMonth failed: %v", err)
		}
		if len(budgets) != 2 {
			t.Fatalf("expected 2 budgets in 2024-01, got %d", len(budgets))
		}
	})

	t.Run("only the owner's budgets", func(t *testing.T) {
		other := mustCreateUser(t, store, "lister-budget-other@example.com")
		budgets, err := store.ListBudgets(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListBudgets failed: %v", err)
		}
		if len(budgets) != 0 {
			t.Errorf("expected no budgets, got %d", len(budgets))
		}
	})
}

func TestSumBudgets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "sum-budget@example.com")
	food := mustCreateCategory(t, store, user, "Food")
	rent := mustCreateCategory(t, store, user, "Rent")

	t.Run("no budgets is absent", func(t *testing.T) {
		sum, err := store.SumBudgets(ctx, user.ID, 2024, 3)
		if err != nil {
			t.Fatalf("SumBudgets failed: %v", err)
		}
		if sum.Valid {
			t.Errorf("expected absent sum, got %s", sum.Decimal)
		}
	})

	mustCreateBudget(t, store, user, food, "250.50", 2024, 3)
	mustCreateBudget(t, store, user, rent, "800.00", 2024, 3)
	mustCreateBudget(t, store, user, food, "999.00", 2024, 4)

	t.Run("sums only the requested month", func(t *testing.T) {
		sum, err := store.SumBudgets(ctx, user.ID, 2024, 3)
		if err != nil {
			t.Fatalf("SumBudgets failed: %v", err)
		}
		if !sum.Valid || !sum.Decimal.Equal(decimal.RequireFromString("1050.50")) {
			t.Errorf("got %+v, want 1050.50", sum)
		}
	})
}
