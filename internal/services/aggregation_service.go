package services

import (
	"math"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// aggregationService computes derived financial indicators over the
// live ledger. Nothing here is cached: every call re-reads the
// transaction and income-entry sets, so a delete or an admitted write
// is visible to the very next read.
type aggregationService struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewAggregationService creates a new AggregationServicer.
func NewAggregationService(db *gorm.DB, budgets BudgetServicer) AggregationServicer {
	return &aggregationService{db: db, budgets: budgets}
}

// TotalIncome sums the user's income: income-type transactions plus
// income-tracker entries. Returns zero, not an error, when the user has
// no income at all. The category filter applies to transactions only;
// income entries carry their own origin tag, not a category reference.
func (s *aggregationService) TotalIncome(userID uint, filter AggregateFilter) (int64, error) {
	fromTransactions, err := s.sumTransactions(userID, models.TransactionTypeIncome, filter)
	if err != nil {
		return 0, err
	}

	q := s.db.Model(&models.IncomeEntry{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}

	var fromEntries int64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&fromEntries).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return fromTransactions + fromEntries, nil
}

// TotalExpenses sums the user's expense-type transactions under the
// given filter. Absent filter fields impose no constraint.
func (s *aggregationService) TotalExpenses(userID uint, filter AggregateFilter) (int64, error) {
	return s.sumTransactions(userID, models.TransactionTypeExpense, filter)
}

func (s *aggregationService) sumTransactions(userID uint, txType models.TransactionType, f AggregateFilter) (int64, error) {
	q := s.db.Model(&models.Transaction{}).Where("user_id = ? AND type = ?", userID, txType)
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var total int64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// BudgetUsage derives the spending state of one budget from the live
// transaction set. Remaining goes negative on overspend. UsagePercent
// is round(min(spent/cap, 1) * 100), and a defined 0 when the cap or
// the spend is zero.
func (s *aggregationService) BudgetUsage(userID, budgetID uint) (*BudgetUsage, error) {
	budget, err := s.budgets.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.usageFor(userID, budget)
}

// BudgetUsageReport derives the usage of every budget the user owns.
func (s *aggregationService) BudgetUsageReport(userID uint) ([]BudgetUsage, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := make([]BudgetUsage, 0, len(budgets))
	for i := range budgets {
		usage, err := s.usageFor(userID, &budgets[i])
		if err != nil {
			return nil, err
		}
		report = append(report, *usage)
	}
	return report, nil
}

func (s *aggregationService) usageFor(userID uint, budget *models.Budget) (*BudgetUsage, error) {
	categoryID := budget.CategoryID
	filter := AggregateFilter{
		CategoryID: &categoryID,
		FromDate:   budget.StartDate,
		ToDate:     budget.EndDate,
	}

	spent, err := s.TotalExpenses(userID, filter)
	if err != nil {
		return nil, err
	}

	percent := 0
	if budget.Amount > 0 && spent > 0 {
		ratio := float64(spent) / float64(budget.Amount)
		if ratio > 1 {
			ratio = 1
		}
		percent = int(math.Round(ratio * 100))
	}

	return &BudgetUsage{
		Budget:       *budget,
		Spent:        spent,
		Remaining:    budget.Amount - spent,
		UsagePercent: percent,
	}, nil
}

// FinancialHealth classifies an expense/income ratio. The zero-income
// case is checked before the ratio is computed.
func FinancialHealth(income, expenses int64) HealthStatus {
	if income == 0 {
		return HealthStatus{Label: "No Income", Class: "no-income"}
	}

	ratio := float64(expenses) / float64(income)
	switch {
	case ratio > 1:
		return HealthStatus{Label: "Over Budget", Class: "over-budget"}
	case ratio > 0.9:
		return HealthStatus{Label: "At Risk", Class: "at-risk"}
	case ratio > 0.7:
		return HealthStatus{Label: "Caution", Class: "caution"}
	default:
		return HealthStatus{Label: "Healthy", Class: "healthy"}
	}
}
