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

// IncomeHandler handles income source and income entry requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// AddIncomeEntryRequest represents the request payload for adding an income entry.
type AddIncomeEntryRequest struct {
	Name     string                `json:"name" binding:"required,min=1,max=100"`
	Amount   int64                 `json:"amount" binding:"required,gt=0"`
	Category models.IncomeCategory `json:"category" binding:"required,income_category"`
	Date     time.Time             `json:"date"`
}

// GetIncomeSource returns the user's income source, creating it on
// first access.
// @Summary     Get income source
// @Description Get the user's income source, creating it if it does not exist yet
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.IncomeSource "Income source"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/source [get]
func (h *IncomeHandler) GetIncomeSource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	source, err := h.incomeService.GetOrCreateSource(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"source": source})
}

// AddIncomeEntry records a new income entry under the user's source.
// @Summary     Add an income entry
// @Description Record a new income entry under the user's income source
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddIncomeEntryRequest true "Income entry details"
// @Success     201 {object} models.IncomeEntry "Income entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/entries [post]
func (h *IncomeHandler) AddIncomeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddIncomeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.incomeService.AddEntry(userID, services.IncomeEntryInput{
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetIncomeEntries handles listing income entries for the authenticated user.
// @Summary     Get income entries
// @Description Get a paginated list of income entries, newest first
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.IncomeEntry] "Paginated income entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/entries [get]
func (h *IncomeHandler) GetIncomeEntries(c *gin.Context) {
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

	result, err := h.incomeService.GetEntries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteIncomeEntry handles deleting an income entry.
// @Summary     Delete income entry
// @Description Delete an income entry by ID
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income entry ID"
// @Success     200 {object} MessageResponse "Income entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/entries/{id} [delete]
func (h *IncomeHandler) DeleteIncomeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Income entry deleted successfully"})
}
