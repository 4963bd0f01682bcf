package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		budget, err := svc.CreateBudget(user.ID, BudgetProposal{
			CategoryID: cat.ID,
			Name:       "Groceries",
			Amount:     50000,
		})
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if budget.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", budget.Name)
		}
		if budget.Amount != 50000 {
			t.Errorf("expected amount 50000, got %d", budget.Amount)
		}
	})

	t.Run("with_validity_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		start := time.Now()
		end := start.AddDate(0, 6, 0)
		budget, err := svc.CreateBudget(user.ID, BudgetProposal{
			CategoryID: cat.ID,
			Name:       "Half Year",
			Amount:     100000,
			StartDate:  &start,
			EndDate:    &end,
		})
		testutil.AssertNoError(t, err)

		if budget.StartDate == nil || budget.EndDate == nil {
			t.Fatal("expected validity window to be set")
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		start := time.Now()
		end := start.AddDate(0, -1, 0)
		_, err := svc.CreateBudget(user.ID, BudgetProposal{
			CategoryID: cat.ID,
			Name:       "Backwards",
			Amount:     100000,
			StartDate:  &start,
			EndDate:    &end,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, BudgetProposal{
			CategoryID: 9999,
			Name:       "Bad",
			Amount:     50000,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateBudget(user1.ID, BudgetProposal{
			CategoryID: cat.ID,
			Name:       "Not Mine",
			Amount:     50000,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("returns_user_budgets_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat1 := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)
		cat2 := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		testutil.CreateTestBudget(t, db, user1.ID, cat1.ID, 10000)
		testutil.CreateTestBudget(t, db, user1.ID, cat1.ID, 20000)
		testutil.CreateTestBudget(t, db, user2.ID, cat2.ID, 30000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserBudgets(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 budgets, got %d", result.TotalItems)
		}
	})
}

func TestGetBudgetByID(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetByID(user.ID, 99999)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, 10000)

		_, err := svc.GetBudgetByID(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, 10000)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, 10000)

		err := svc.DeleteBudget(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
