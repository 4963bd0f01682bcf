package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetService handles the budget registry. Budgets only support
// create and delete; there is no edit path and the cap is immutable.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget persists an admitted budget proposal for the user.
func (s *budgetService) CreateBudget(userID uint, proposal BudgetProposal) (*models.Budget, error) {
	if proposal.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if proposal.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}
	if proposal.StartDate != nil && proposal.EndDate != nil && proposal.EndDate.Before(*proposal.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget end date must not precede start date")
	}

	// Verify category exists and belongs to user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", proposal.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  proposal.CategoryID,
		Name:        proposal.Name,
		Amount:      proposal.Amount,
		Description: proposal.Description,
		StartDate:   proposal.StartDate,
		EndDate:     proposal.EndDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
