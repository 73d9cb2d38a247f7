package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/storage"
)

func TestCategoryCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, store, "owner@example.com")

	t.Run("create and get round trip", func(t *testing.T) {
		created := &models.Category{
			Name:   "Groceries",
			Color:  "#00FF00",
			UserID: user.ID,
			DefaultBudget: decimal.NullDecimal{
				Decimal: decimal.RequireFromString("250.00"),
				Valid:   true,
			},
		}
		if err := store.CreateCategory(ctx, created); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected category ID to be generated")
		}

		got, err := store.GetCategory(ctx, created.ID, user.ID)
		if err != nil {
			t.Fatalf("GetCategory failed: %v", err)
		}
		if got.Name != created.Name || got.Color != created.Color || got.UserID != user.ID {
			t.Errorf("got %+v, want %+v", got, created)
		}
		if !got.DefaultBudget.Valid || !got.DefaultBudget.Decimal.Equal(created.DefaultBudget.Decimal) {
			t.Errorf("default budget mismatch: %+v", got.DefaultBudget)
		}
	})

	t.Run("default budget is optional", func(t *testing.T) {
		created := mustCreateCategory(t, store, user, "Misc")

		got, err := store.GetCategory(ctx, created.ID, user.ID)
		if err != nil {
			t.Fatalf("GetCategory failed: %v", err)
		}
		if got.DefaultBudget.Valid {
			t.Errorf("expected absent default budget, got %s", got.DefaultBudget.Decimal)
		}
	})

	t.Run("update", func(t *testing.T) {
		category := mustCreateCategory(t, store, user, "Trvel")
		category.Name = "Travel"
		category.Color = "#123456"

		if err := store.UpdateCategory(ctx, category); err != nil {
			t.Fatalf("UpdateCategory failed: %v", err)
		}

		got, err := store.GetCategory(ctx, category.ID, user.ID)
		if err != nil {
			t.Fatalf("GetCategory failed: %v", err)
		}
		if got.Name != "Travel" || got.Color != "#123456" {
			t.Errorf("update not applied: %+v", got)
		}
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		lister := mustCreateUser(t, store, "lister@example.com")
		for _, name := range []string{"Zoo", "Auto", "Food"} {
			mustCreateCategory(t, store, lister, name)
		}

		categories, err := store.ListCategories(ctx, lister.ID)
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(categories) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(categories))
		}
		for i, want := range []string{"Auto", "Food", "Zoo"} {
			if categories[i].Name != want {
				t.Errorf("position %d: got %s, want %s", i, categories[i].Name, want)
			}
		}
	})

	t.Run("CategoryNameExists is per user", func(t *testing.T) {
		other := mustCreateUser(t, store, "other-namespace@example.com")

		exists, err := store.CategoryNameExists(ctx, "Groceries", user.ID)
		if err != nil {
			t.Fatalf("CategoryNameExists failed: %v", err)
		}
		if !exists {
			t.Error("expected Groceries to exist for its owner")
		}

		exists, err = store.CategoryNameExists(ctx, "Groceries", other.ID)
		if err != nil {
			t.Fatalf("CategoryNameExists failed: %v", err)
		}
		if exists {
			t.Error("Groceries should not exist for a different user")
		}
	})
}

func TestCategoryOwnershipScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "a@example.com")
	intruder := mustCreateUser(t, store, "b@example.com")
	category := mustCreateCategory(t, store, owner, "Private")

	t.Run("foreign get behaves as not found", func(t *testing.T) {
		_, err := store.GetCategory(ctx, category.ID, intruder.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign update is rejected", func(t *testing.T) {
		stolen := *category
		stolen.UserID = intruder.ID
		stolen.Name = "Hijacked"

		if err := store.UpdateCategory(ctx, &stolen); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign delete is rejected", func(t *testing.T) {
		if err := store.DeleteCategory(ctx, category.ID, intruder.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		// Still there for its owner.
		if _, err := store.GetCategory(ctx, category.ID, owner.ID); err != nil {
			t.Errorf("category lost after foreign delete attempt: %v", err)
		}
	})
}

func TestDeleteCategoryCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, store, "cascade@example.com")
	doomed := mustCreateCategory(t, store, user, "Doomed")
	kept := mustCreateCategory(t, store, user, "Kept")

	mustCreateExpense(t, store, user, doomed, "5.00", date(2024, time.May, 1))
	mustCreateBudget(t, store, user, doomed, "50.00", 2024, 5)
	keptExp := mustCreateExpense(t, store, user, kept, "6.00", date(2024, time.May, 1))
	keptBud := mustCreateBudget(t, store, user, kept, "60.00", 2024, 5)

	if err := store.DeleteCategory(ctx, doomed.ID, user.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	if _, err := store.GetCategory(ctx, doomed.ID, user.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("category: expected ErrNotFound, got %v", err)
	}

	expenses, err := store.ListExpensesByCategory(ctx, user.ID, doomed.ID)
	if err != nil {
		t.Fatalf("ListExpensesByCategory failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no expenses under deleted category, got %d", len(expenses))
	}

	if _, err := store.GetBudgetFor(ctx, user.ID, doomed.ID, 2024, 5); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("budget: expected ErrNotFound, got %v", err)
	}

	// The sibling category's records survive.
	if _, err := store.GetExpense(ctx, keptExp.ID, user.ID); err != nil {
		t.Errorf("kept expense lost: %v", err)
	}
	if _, err := store.GetBudget(ctx, keptBud.ID, user.ID); err != nil {
		t.Errorf("kept budget lost: %v", err)
	}
}
