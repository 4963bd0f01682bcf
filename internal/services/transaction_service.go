package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles ledger access for transactions. Every
// query is scoped to the owning user; no cross-user reads or writes.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction validates and persists a transaction for the user.
// Admission checks happen upstream in the overspend guard; this is the
// write path for already-admitted proposals.
func (s *transactionService) CreateTransaction(userID uint, proposal TransactionProposal) (*models.Transaction, error) {
	if proposal.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if proposal.Type != models.TransactionTypeIncome && proposal.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if proposal.IsRecurring && proposal.RecurringInterval == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring transactions require an interval")
	}

	// Default date to now if not provided
	date := proposal.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Verify the category exists and belongs to the user
	if proposal.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *proposal.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	transaction := &models.Transaction{
		UserID:            userID,
		CategoryID:        proposal.CategoryID,
		Type:              proposal.Type,
		Amount:            proposal.Amount,
		Description:       proposal.Description,
		Date:              date,
		IsRecurring:       proposal.IsRecurring,
		RecurringInterval: proposal.RecurringInterval,
		IsTaxRelated:      proposal.IsTaxRelated,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction from the ledger. Aggregates
// are recomputed from the live set on every read, so the deletion is
// reflected immediately.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
