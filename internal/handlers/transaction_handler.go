package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests. Writes go
// through the overspend guard; reads and deletes go straight to the
// transaction service.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	guardService       services.GuardServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, guardService services.GuardServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, guardService: guardService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	CategoryID        *uint                    `json:"category_id"`
	Type              models.TransactionType   `json:"type" binding:"required,transaction_type"`
	Amount            int64                    `json:"amount" binding:"required,gt=0"`
	Description       string                   `json:"description" binding:"max=500"`
	Date              time.Time                `json:"date"`
	IsRecurring       bool                     `json:"is_recurring"`
	RecurringInterval models.RecurringInterval `json:"recurring_interval" binding:"omitempty,recurring_interval"`
	IsTaxRelated      bool                     `json:"is_tax_related"`
}

// ConfirmRequest carries the single-use token of a pending guard decision.
type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithDecision maps a guard decision to a response: 201 for an
// admitted write, 202 for one parked behind a confirmation token.
func respondWithDecision(c *gin.Context, decision *services.GuardDecision) {
	status := http.StatusCreated
	if decision.Status == services.GuardStatusAwaitingConfirmation {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"decision": decision})
}

// CreateTransaction handles the creation of a new transaction. The
// proposal runs through the overspend guard: an expense that would push
// total expenses past total income is not persisted; the response
// instead carries a confirmation token.
// @Summary     Create a transaction
// @Description Propose a new transaction; overspending expenses require confirmation
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} services.GuardDecision "Transaction admitted and created"
// @Success     202 {object} services.GuardDecision "Confirmation required"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	decision, err := h.guardService.EvaluateTransaction(userID, services.TransactionProposal{
		CategoryID:        req.CategoryID,
		Type:              req.Type,
		Amount:            req.Amount,
		Description:       req.Description,
		Date:              req.Date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		IsTaxRelated:      req.IsTaxRelated,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithDecision(c, decision)
}

// ConfirmTransaction persists a transaction that was parked by the
// overspend guard.
// @Summary     Confirm a pending transaction
// @Description Redeem a confirmation token to persist an overspending transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ConfirmRequest true "Confirmation token"
// @Success     201 {object} services.GuardDecision "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Decision not found"
// @Failure     410 {object} ErrorResponse "Decision expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/confirm [post]
func (h *TransactionHandler) ConfirmTransaction(c *gin.Context) {
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

// CancelTransaction discards a transaction that was parked by the
// overspend guard.
// @Summary     Cancel a pending transaction
// @Description Discard a pending guard decision; nothing is persisted
// @Tags        transactions
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
// @Router      /transactions/cancel [post]
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
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

// GetTransactions handles listing transactions for the authenticated user.
// @Summary     Get transactions
// @Description Get a paginated, filtered list of transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type        query string false "Filter by type (income/expense)"
// @Param       category_id query int    false "Filter by category"
// @Param       from_date   query string false "Filter from date (RFC 3339)"
// @Param       to_date     query string false "Filter to date (RFC 3339)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'")
		}
		filter.Type = &t
	}

	if v := c.Query("category_id"); v != "" {
		id, err := parseUintQuery(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id")
		}
		filter.CategoryID = &id
	}

	if v := c.Query("from_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be RFC 3339")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must be RFC 3339")
		}
		filter.ToDate = &t
	}

	return filter, nil
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction by ID; aggregates reflect the deletion immediately
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
