package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// RecurringInterval represents how often a recurring transaction repeats
type RecurringInterval string

const (
	RecurringIntervalDaily   RecurringInterval = "daily"
	RecurringIntervalWeekly  RecurringInterval = "weekly"
	RecurringIntervalMonthly RecurringInterval = "monthly"
	RecurringIntervalYearly  RecurringInterval = "yearly"
)

// Transaction represents a single ledger entry. Amounts are stored as
// non-negative cents; the sign is implied by Type. Transactions are
// immutable after creation except for deletion.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	IsRecurring       bool              `gorm:"default:false" json:"is_recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval,omitempty"`
	IsTaxRelated      bool              `gorm:"default:false" json:"is_tax_related"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
