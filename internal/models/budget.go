package models

import "time"

// Budget represents a spending cap for a category. The cap amount is
// immutable after creation; a budget's usage is always derived from the
// live transaction set, never stored.
type Budget struct {
	Base
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	CategoryID  uint       `gorm:"not null" json:"category_id"`
	Name        string     `gorm:"not null" json:"name"`
	Amount      int64      `gorm:"type:bigint;not null" json:"amount"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
