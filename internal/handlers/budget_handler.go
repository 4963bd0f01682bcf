package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests. Creation goes through
// the overspend guard; a cap larger than the current balance needs
// confirmation before the budget is persisted.
type BudgetHandler struct {
	budgetService      services.BudgetServicer
	guardService       services.GuardServicer
	aggregationService services.AggregationServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, guardService services.GuardServicer, aggregationService services.AggregationServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, guardService: guardService, aggregationService: aggregationService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	CategoryID  uint       `json:"category_id" binding:"required"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Amount      int64      `json:"amount" binding:"required,gt=0"`
	Description string     `json:"description" binding:"max=500"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Propose a new budget; caps above the current balance require confirmation
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} services.GuardDecision "Budget admitted and created"
// @Success     202 {object} services.GuardDecision "Confirmation required"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	decision, err := h.guardService.EvaluateBudget(userID, services.BudgetProposal{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithDecision(c, decision)
}

// ConfirmBudget persists a budget that was parked by the overspend guard.
// @Summary     Confirm a pending budget
// @Description Redeem a confirmation token to persist an overdrawing budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ConfirmRequest true "Confirmation token"
// @Success     201 {object} services.GuardDecision "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Decision not found"
// @Failure     410 {object} ErrorResponse "Decision expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/confirm [post]
func (h *BudgetHandler) ConfirmBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := bindConfirmToken(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	decision, err := h.guardService.Confirm(userID, token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithDecision(c, decision)
}

// CancelBudget discards a budget that was parked by the overspend guard.
// @Summary     Cancel a pending budget
// @Description Discard a pending guard decision; nothing is persisted
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ConfirmRequest true "Confirmation token"
// @Success     200 {object} MessageResponse "Decision cancelled"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Decision not found"
// @Failure     410 {object} ErrorResponse "Decision expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/cancel [post]
func (h *BudgetHandler) CancelBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := bindConfirmToken(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.guardService.Cancel(userID, token); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Decision cancelled"})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.GetUserBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgetUsage handles retrieving the derived usage of a budget.
// @Summary     Get budget usage
// @Description Get the spent amount, remaining amount, and usage percentage for a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} services.BudgetUsage "Budget usage"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/usage [get]
func (h *BudgetHandler) GetBudgetUsage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	usage, err := h.aggregationService.BudgetUsage(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID (soft delete)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
