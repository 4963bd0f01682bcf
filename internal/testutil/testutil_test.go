package testutil_test

import (
	"testing"
	"time"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "transactions", "budgets", "income_sources", "income_entries"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 1000)
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, 10000)
	if budget.Amount != 10000 {
		t.Errorf("expected budget amount 10000, got %d", budget.Amount)
	}

	source := &models.IncomeSource{UserID: user.ID}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("failed to create income source: %v", err)
	}
	entry := testutil.CreateTestIncomeEntry(t, db, user.ID, source.ID, 2500, time.Now())
	if entry.Category != models.IncomeCategorySalary {
		t.Errorf("expected salary category, got %s", entry.Category)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
