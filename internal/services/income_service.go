package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// incomeService handles the income side of the ledger: the single
// per-user income source and its entries.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// GetOrCreateSource returns the user's income source, creating it on
// first access. The operation is idempotent: repeated calls for the
// same user return the same source identity.
func (s *incomeService) GetOrCreateSource(userID uint) (*models.IncomeSource, error) {
	source := &models.IncomeSource{}
	err := s.db.Where(models.IncomeSource{UserID: userID}).
		Attrs(models.IncomeSource{Name: "My Income", Icon: "💰"}).
		FirstOrCreate(source).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return source, nil
}

// AddEntry records a new income entry under the user's source.
func (s *incomeService) AddEntry(userID uint, input IncomeEntryInput) (*models.IncomeEntry, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entry name is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	switch input.Category {
	case models.IncomeCategorySalary, models.IncomeCategoryFreelance,
		models.IncomeCategoryInvestment, models.IncomeCategoryGift,
		models.IncomeCategoryOther:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown income category")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	source, err := s.GetOrCreateSource(userID)
	if err != nil {
		return nil, err
	}

	entry := &models.IncomeEntry{
		UserID:   userID,
		SourceID: source.ID,
		Name:     input.Name,
		Amount:   input.Amount,
		Category: input.Category,
		Date:     date,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return entry, nil
}

// GetEntries returns a paginated list of the user's income entries,
// newest first.
func (s *incomeService) GetEntries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.IncomeEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.IncomeEntry{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.IncomeEntry
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteEntry removes an income entry owned by the user.
func (s *incomeService) DeleteEntry(userID, entryID uint) error {
	var entry models.IncomeEntry
	if err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrIncomeEntryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
