package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// summaryService builds month-bounded financial overviews. The three
// aggregate scans (income, expenses, category breakdown) are
// independent reads and run concurrently.
type summaryService struct {
	db         *gorm.DB
	aggregator AggregationServicer
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, aggregator AggregationServicer) SummaryServicer {
	return &summaryService{db: db, aggregator: aggregator}
}

// Summarize builds the financial summary for one calendar month.
func (s *summaryService) Summarize(userID uint, month, year int) (*Summary, error) {
	from, to, err := monthWindow(month, year)
	if err != nil {
		return nil, err
	}
	filter := AggregateFilter{FromDate: &from, ToDate: &to}

	var (
		income     int64
		expenses   int64
		byCategory []CategoryAmount
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		income, err = s.aggregator.TotalIncome(userID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.aggregator.TotalExpenses(userID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.expensesByCategory(userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	net := income - expenses
	savingsRate := 0.0
	if income > 0 {
		savingsRate = math.Round(float64(net)/float64(income)*100*100) / 100
	}

	return &Summary{
		Period:             fmt.Sprintf("%d/%d", month, year),
		TotalIncome:        income,
		TotalExpenses:      expenses,
		NetSavings:         net,
		SavingsRate:        savingsRate,
		ExpensesByCategory: byCategory,
		Health:             FinancialHealth(income, expenses),
	}, nil
}

// expensesByCategory groups the month's expense transactions by
// category name. Uncategorized transactions still count toward the
// totals but have no row here.
func (s *summaryService) expensesByCategory(userID uint, from, to time.Time) ([]CategoryAmount, error) {
	var rows []CategoryAmount
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS category, COALESCE(SUM(transactions.amount), 0) AS amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, models.TransactionTypeExpense).
		Where("transactions.date >= ? AND transactions.date <= ?", from, to).
		Group("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Largest spend first; ties broken by name for a stable order.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// monthWindow returns the inclusive bounds of a calendar month. The end
// bound uses day zero of the following month, which time.Date
// normalizes to the month's true last day, so leap Februaries and the
// December year rollover need no special casing.
func monthWindow(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 999999999, time.UTC)
	return from, to, nil
}
