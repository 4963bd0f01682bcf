package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, categoryType, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a transaction dated at the given time.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Date:   date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCategorizedTransaction creates a transaction tied to a category.
func CreateTestCategorizedTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: &categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget with the given cap (in cents) for the category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, amount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		Amount:     amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestIncomeEntry creates an income entry under the given source.
func CreateTestIncomeEntry(t *testing.T, db *gorm.DB, userID, sourceID uint, amount int64, date time.Time) *models.IncomeEntry {
	t.Helper()

	entry := &models.IncomeEntry{
		UserID:   userID,
		SourceID: sourceID,
		Name:     fmt.Sprintf("Test Entry %d", nextID()),
		Amount:   amount,
		Category: models.IncomeCategorySalary,
		Date:     date,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test income entry: %v", err)
	}
	return entry
}
