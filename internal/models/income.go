package models

import "time"

// IncomeCategory represents the origin of an income entry
type IncomeCategory string

const (
	IncomeCategorySalary     IncomeCategory = "salary"
	IncomeCategoryFreelance  IncomeCategory = "freelance"
	IncomeCategoryInvestment IncomeCategory = "investment"
	IncomeCategoryGift       IncomeCategory = "gift"
	IncomeCategoryOther      IncomeCategory = "other"
)

// IncomeSource is the single per-user container for income entries.
// Each user has at most one, created through an idempotent
// get-or-create operation.
type IncomeSource struct {
	Base
	UserID uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`

	Entries []IncomeEntry `gorm:"foreignKey:SourceID" json:"entries,omitempty"`
}

// IncomeEntry represents a single income record under a user's source
type IncomeEntry struct {
	Base
	UserID   uint           `gorm:"not null;index" json:"user_id"`
	SourceID uint           `gorm:"not null" json:"source_id"`
	Name     string         `gorm:"not null" json:"name"`
	Amount   int64          `gorm:"type:bigint;not null" json:"amount"`
	Category IncomeCategory `gorm:"not null" json:"category"`
	Date     time.Time      `gorm:"not null;index" json:"date"`
}
