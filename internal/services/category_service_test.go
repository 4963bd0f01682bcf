package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense, "🛒")
		testutil.AssertNoError(t, err)

		if cat.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if cat.Name != "Groceries" || cat.Icon != "🛒" {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "", models.CategoryTypeExpense, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Weird", "savings", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	t.Run("returns_user_categories_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeIncome)
		testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserCategories(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 categories, got %d", result.TotalItems)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("deletes_unused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects_with_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestCategorizedTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, 1000, time.Now())

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("rejects_with_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, 10000)

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeExpense)

		err := svc.DeleteCategory(intruder.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
