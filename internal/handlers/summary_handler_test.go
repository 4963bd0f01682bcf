package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// --- mock summary service ---

type mockSummaryService struct {
	summarizeFn func(userID uint, month, year int) (*services.Summary, error)
}

func (m *mockSummaryService) Summarize(userID uint, month, year int) (*services.Summary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(userID, month, year)
	}
	return &services.Summary{}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

// --- mock aggregation service ---

type mockAggregationService struct {
	totalIncomeFn       func(userID uint, filter services.AggregateFilter) (int64, error)
	totalExpensesFn     func(userID uint, filter services.AggregateFilter) (int64, error)
	budgetUsageFn       func(userID, budgetID uint) (*services.BudgetUsage, error)
	budgetUsageReportFn func(userID uint) ([]services.BudgetUsage, error)
}

func (m *mockAggregationService) TotalIncome(userID uint, filter services.AggregateFilter) (int64, error) {
	if m.totalIncomeFn != nil {
		return m.totalIncomeFn(userID, filter)
	}
	return 0, nil
}

func (m *mockAggregationService) TotalExpenses(userID uint, filter services.AggregateFilter) (int64, error) {
	if m.totalExpensesFn != nil {
		return m.totalExpensesFn(userID, filter)
	}
	return 0, nil
}

func (m *mockAggregationService) BudgetUsage(userID, budgetID uint) (*services.BudgetUsage, error) {
	if m.budgetUsageFn != nil {
		return m.budgetUsageFn(userID, budgetID)
	}
	return &services.BudgetUsage{}, nil
}

func (m *mockAggregationService) BudgetUsageReport(userID uint) ([]services.BudgetUsage, error) {
	if m.budgetUsageReportFn != nil {
		return m.budgetUsageReportFn(userID)
	}
	return []services.BudgetUsage{}, nil
}

var _ services.AggregationServicer = (*mockAggregationService)(nil)

func setupSummaryRouter(handler *SummaryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/summary", handler.GetSummary)
	auth.GET("/reports/budgets", handler.GetBudgetReport)
	return r
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	t.Run("returns 200 with summary", func(t *testing.T) {
		svc := &mockSummaryService{
			summarizeFn: func(_ uint, month, year int) (*services.Summary, error) {
				return &services.Summary{
					Period:        "7/2025",
					TotalIncome:   100000,
					TotalExpenses: 40000,
					NetSavings:    60000,
					SavingsRate:   60,
					Health:        services.HealthStatus{Label: "Healthy", Class: "healthy"},
				}, nil
			},
		}
		handler := NewSummaryHandler(svc, &mockAggregationService{})
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary?month=7&year=2025", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if summary["period"] != "7/2025" {
			t.Errorf("expected period 7/2025, got %v", summary["period"])
		}
		health := summary["health"].(map[string]interface{})
		if health["label"] != "Healthy" {
			t.Errorf("expected Healthy, got %v", health["label"])
		}
	})

	t.Run("passes month and year through", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockSummaryService{
			summarizeFn: func(_ uint, month, year int) (*services.Summary, error) {
				gotMonth, gotYear = month, year
				return &services.Summary{}, nil
			},
		}
		handler := NewSummaryHandler(svc, &mockAggregationService{})
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary?month=2&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotMonth != 2 || gotYear != 2024 {
			t.Errorf("expected 2/2024 passed through, got %d/%d", gotMonth, gotYear)
		}
	})

	t.Run("returns 400 on non-numeric month", func(t *testing.T) {
		handler := NewSummaryHandler(&mockSummaryService{}, &mockAggregationService{})
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary?month=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on out-of-range month", func(t *testing.T) {
		svc := &mockSummaryService{
			summarizeFn: func(_ uint, _, _ int) (*services.Summary, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
			},
		}
		handler := NewSummaryHandler(svc, &mockAggregationService{})
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/summary?month=13&year=2025", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSummaryHandler_GetBudgetReport(t *testing.T) {
	t.Run("returns 200 with report", func(t *testing.T) {
		agg := &mockAggregationService{
			budgetUsageReportFn: func(_ uint) ([]services.BudgetUsage, error) {
				return []services.BudgetUsage{
					{
						Budget:       models.Budget{Base: models.Base{ID: 1}, Name: "Groceries", Amount: 10000},
						Spent:        2500,
						Remaining:    7500,
						UsagePercent: 25,
					},
				}, nil
			},
		}
		handler := NewSummaryHandler(&mockSummaryService{}, agg)
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/reports/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budgets := result["budgets"].([]interface{})
		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget in report, got %d", len(budgets))
		}
		usage := budgets[0].(map[string]interface{})
		if usage["usage_percent"].(float64) != 25 {
			t.Errorf("expected usage_percent 25, got %v", usage["usage_percent"])
		}
	})

	t.Run("returns 500 on service failure", func(t *testing.T) {
		agg := &mockAggregationService{
			budgetUsageReportFn: func(_ uint) ([]services.BudgetUsage, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		handler := NewSummaryHandler(&mockSummaryService{}, agg)
		r := setupSummaryRouter(handler)

		rec := doRequest(r, "GET", "/reports/budgets", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
