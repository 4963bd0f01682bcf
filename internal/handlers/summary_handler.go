package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// SummaryHandler handles financial summary and report requests.
type SummaryHandler struct {
	summaryService     services.SummaryServicer
	aggregationService services.AggregationServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer, aggregationService services.AggregationServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, aggregationService: aggregationService}
}

// GetSummary builds the financial summary for one calendar month.
// Month and year default to the current month when absent.
// @Summary     Get monthly summary
// @Description Get income, expenses, net savings, savings rate, category breakdown, and health for a month
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.Summary "Monthly summary"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
			return
		}
		month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
		year = y
	}

	summary, err := h.summaryService.Summarize(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetBudgetReport returns the derived usage of every budget the user owns.
// @Summary     Get budget usage report
// @Description Get spent, remaining, and usage percentage for all of the user's budgets
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []services.BudgetUsage "Budget usage report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/budgets [get]
func (h *SummaryHandler) GetBudgetReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.aggregationService.BudgetUsageReport(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": report})
}
