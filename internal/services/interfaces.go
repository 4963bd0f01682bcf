package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, icon string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing
// transactions. Absent fields impose no constraint; present fields
// compose with logical AND.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// TransactionProposal carries the fields of a transaction that has not
// been admitted yet. The overspend guard turns a proposal into a
// persisted transaction.
type TransactionProposal struct {
	CategoryID        *uint
	Type              models.TransactionType
	Amount            int64
	Description       string
	Date              time.Time
	IsRecurring       bool
	RecurringInterval models.RecurringInterval
	IsTaxRelated      bool
}

// TransactionServicer defines the contract for ledger access.
type TransactionServicer interface {
	CreateTransaction(userID uint, proposal TransactionProposal) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetProposal carries the fields of a budget that has not been
// admitted yet.
type BudgetProposal struct {
	CategoryID  uint
	Name        string
	Amount      int64
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// BudgetServicer defines the contract for the budget registry.
// Budgets support create and delete only; the cap amount is immutable.
type BudgetServicer interface {
	CreateBudget(userID uint, proposal BudgetProposal) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// IncomeEntryInput carries the fields for a new income entry.
type IncomeEntryInput struct {
	Name     string
	Amount   int64
	Category models.IncomeCategory
	Date     time.Time
}

// IncomeServicer defines the contract for the income side of the ledger.
type IncomeServicer interface {
	GetOrCreateSource(userID uint) (*models.IncomeSource, error)
	AddEntry(userID uint, input IncomeEntryInput) (*models.IncomeEntry, error)
	GetEntries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.IncomeEntry], error)
	DeleteEntry(userID, entryID uint) error
}

// AggregateFilter narrows an aggregate computation to a date window
// and/or category. A zero filter covers the whole ledger.
type AggregateFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
}

// BudgetUsage is the derived spending state of a single budget.
// Remaining goes negative when the budget is overspent; UsagePercent is
// capped at 100 and is a defined zero when the cap or the spend is zero.
type BudgetUsage struct {
	Budget       models.Budget `json:"budget"`
	Spent        int64         `json:"spent"`
	Remaining    int64         `json:"remaining"`
	UsagePercent int           `json:"usage_percent"`
}

// AggregationServicer defines the contract for the aggregation engine.
// Every value is recomputed from the live ledger on each call; nothing
// is cached, so reads never trail an admitted write.
type AggregationServicer interface {
	TotalIncome(userID uint, filter AggregateFilter) (int64, error)
	TotalExpenses(userID uint, filter AggregateFilter) (int64, error)
	BudgetUsage(userID, budgetID uint) (*BudgetUsage, error)
	BudgetUsageReport(userID uint) ([]BudgetUsage, error)
}

// HealthStatus classifies a user's expense/income ratio.
type HealthStatus struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// CategoryAmount is one row of a per-category expense breakdown.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// Summary is a month-bounded financial overview.
type Summary struct {
	Period             string           `json:"period"`
	TotalIncome        int64            `json:"total_income"`
	TotalExpenses      int64            `json:"total_expenses"`
	NetSavings         int64            `json:"net_savings"`
	SavingsRate        float64          `json:"savings_rate"`
	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
	Health             HealthStatus     `json:"health"`
}

// SummaryServicer defines the contract for the period summary builder.
type SummaryServicer interface {
	Summarize(userID uint, month, year int) (*Summary, error)
}

// GuardStatus is the externally visible state of a guard decision.
type GuardStatus string

const (
	GuardStatusAdmitted             GuardStatus = "admitted"
	GuardStatusAwaitingConfirmation GuardStatus = "awaiting_confirmation"
)

// GuardDecision is the outcome of evaluating or confirming a proposed
// mutation. Admitted decisions embed the persisted record; pending ones
// carry the confirmation token, the shortfall, and the token's expiry.
type GuardDecision struct {
	Status      GuardStatus         `json:"status"`
	Token       string              `json:"token,omitempty"`
	Shortfall   int64               `json:"shortfall,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Budget      *models.Budget      `json:"budget,omitempty"`
}

// GuardServicer defines the contract for the overspend guard: a
// two-phase admission check for transactions and budgets. Evaluation,
// confirmation, and cancellation for a given user are mutually
// exclusive, so a decision always sees the effect of every prior
// admission for that user.
type GuardServicer interface {
	EvaluateTransaction(userID uint, proposal TransactionProposal) (*GuardDecision, error)
	EvaluateBudget(userID uint, proposal BudgetProposal) (*GuardDecision, error)
	Confirm(userID uint, token string) (*GuardDecision, error)
	Cancel(userID uint, token string) error
}
