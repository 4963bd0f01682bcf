package services

import (
	"sync"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

type pendingKind int

const (
	pendingTransaction pendingKind = iota
	pendingBudget
)

// pendingDecision holds a proposal that exceeded the user's balance and
// is waiting for explicit confirmation. It lives only in memory; a
// restart discards all pending decisions, which is safe because nothing
// was persisted for them.
type pendingDecision struct {
	userID         uint
	kind           pendingKind
	txProposal     TransactionProposal
	budgetProposal BudgetProposal
	shortfall      int64
	expiresAt      time.Time
}

// guardService is the overspend guard. A proposal that keeps total
// expenses within total income is admitted and persisted in one step;
// one that would overdraw the balance is parked behind a single-use
// confirmation token. All operations for a given user are serialized,
// so every evaluation sees the effect of every prior admission.
type guardService struct {
	transactions TransactionServicer
	budgets      BudgetServicer
	aggregator   AggregationServicer
	ttl          time.Duration
	now          func() time.Time

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
	pending   map[string]*pendingDecision
}

// NewGuardService creates a new GuardServicer. Pending decisions expire
// after ttl and can no longer be confirmed or cancelled.
func NewGuardService(transactions TransactionServicer, budgets BudgetServicer, aggregator AggregationServicer, ttl time.Duration) GuardServicer {
	return &guardService{
		transactions: transactions,
		budgets:      budgets,
		aggregator:   aggregator,
		ttl:          ttl,
		now:          time.Now,
		userLocks:    make(map[uint]*sync.Mutex),
		pending:      make(map[string]*pendingDecision),
	}
}

func (s *guardService) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// purgeExpired drops expired pending decisions. Caller must hold s.mu.
func (s *guardService) purgeExpired(now time.Time) {
	for token, p := range s.pending {
		if now.After(p.expiresAt) {
			delete(s.pending, token)
		}
	}
}

// balance returns the user's whole-ledger income and expense totals,
// recomputed fresh so the check never runs against stale numbers.
func (s *guardService) balance(userID uint) (income, expenses int64, err error) {
	income, err = s.aggregator.TotalIncome(userID, AggregateFilter{})
	if err != nil {
		return 0, 0, err
	}
	expenses, err = s.aggregator.TotalExpenses(userID, AggregateFilter{})
	if err != nil {
		return 0, 0, err
	}
	return income, expenses, nil
}

// EvaluateTransaction runs the admission check for a proposed
// transaction. Income proposals always pass. An expense that would push
// total expenses past total income is parked as a pending decision
// instead of being persisted.
func (s *guardService) EvaluateTransaction(userID uint, proposal TransactionProposal) (*GuardDecision, error) {
	if proposal.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if proposal.Type != models.TransactionTypeIncome && proposal.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if proposal.Type == models.TransactionTypeIncome {
		return s.admitTransaction(userID, proposal)
	}

	income, expenses, err := s.balance(userID)
	if err != nil {
		return nil, err
	}

	projected := expenses + proposal.Amount
	if projected <= income {
		return s.admitTransaction(userID, proposal)
	}

	return s.park(userID, &pendingDecision{
		userID:     userID,
		kind:       pendingTransaction,
		txProposal: proposal,
		shortfall:  projected - income,
	})
}

// EvaluateBudget runs the admission check for a proposed budget. A cap
// larger than the user's current balance needs confirmation.
func (s *guardService) EvaluateBudget(userID uint, proposal BudgetProposal) (*GuardDecision, error) {
	if proposal.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	income, expenses, err := s.balance(userID)
	if err != nil {
		return nil, err
	}

	available := income - expenses
	if proposal.Amount <= available {
		return s.admitBudget(userID, proposal)
	}

	return s.park(userID, &pendingDecision{
		userID:         userID,
		kind:           pendingBudget,
		budgetProposal: proposal,
		shortfall:      proposal.Amount - available,
	})
}

// Confirm persists a parked proposal. The token is single-use: it is
// removed from the pending set before the write, so a second confirm
// with the same token fails with DECISION_NOT_FOUND and nothing is
// persisted twice. Confirmation does not re-run the admission check;
// the user has explicitly accepted the overdraw.
func (s *guardService) Confirm(userID uint, token string) (*GuardDecision, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.take(userID, token)
	if err != nil {
		return nil, err
	}

	switch p.kind {
	case pendingBudget:
		return s.admitBudget(userID, p.budgetProposal)
	default:
		return s.admitTransaction(userID, p.txProposal)
	}
}

// Cancel discards a parked proposal. Nothing is persisted.
func (s *guardService) Cancel(userID uint, token string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	_, err := s.take(userID, token)
	return err
}

// take removes and returns the pending decision for token, enforcing
// ownership and expiry.
func (s *guardService) take(userID uint, token string) (*pendingDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[token]
	if !ok || p.userID != userID {
		// A foreign token looks identical to an unknown one.
		return nil, apperrors.ErrDecisionNotFound
	}
	if s.now().After(p.expiresAt) {
		delete(s.pending, token)
		return nil, apperrors.ErrDecisionExpired
	}

	delete(s.pending, token)
	return p, nil
}

func (s *guardService) park(userID uint, p *pendingDecision) (*GuardDecision, error) {
	token := uuid.New()
	p.expiresAt = s.now().Add(s.ttl)

	s.mu.Lock()
	s.purgeExpired(s.now())
	s.pending[token] = p
	s.mu.Unlock()

	expiresAt := p.expiresAt
	return &GuardDecision{
		Status:    GuardStatusAwaitingConfirmation,
		Token:     token,
		Shortfall: p.shortfall,
		ExpiresAt: &expiresAt,
	}, nil
}

func (s *guardService) admitTransaction(userID uint, proposal TransactionProposal) (*GuardDecision, error) {
	transaction, err := s.transactions.CreateTransaction(userID, proposal)
	if err != nil {
		return nil, err
	}
	return &GuardDecision{Status: GuardStatusAdmitted, Transaction: transaction}, nil
}

func (s *guardService) admitBudget(userID uint, proposal BudgetProposal) (*GuardDecision, error) {
	budget, err := s.budgets.CreateBudget(userID, proposal)
	if err != nil {
		return nil, err
	}
	return &GuardDecision{Status: GuardStatusAdmitted, Budget: budget}, nil
}
