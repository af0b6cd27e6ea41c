package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Unit of work
// ---------------------------------------------------------------------------

// UnitOfWork is the explicit transaction boundary every multi-row mutation
// runs inside. WithTransaction hands fn a Repositories view bound to the
// transaction; fn returning an error rolls everything back.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// Repos returns a non-transactional view for single reads.
	Repos() Repositories
}

// Repositories bundles repository access for one transaction (or for
// auto-commit reads).
type Repositories interface {
	Clients() ClientRepository
	Loans() LoanRepository
	Installments() InstallmentRepository
	Payments() PaymentRepository
	CashBoxes() CashBoxRepository
	Transactions() TransactionRepository
	ApprovalRequests() ApprovalRequestRepository
	Expenses() ExpenseRepository
	Extensions() ExtensionRepository
	Routes() RouteRepository
}

// ---------------------------------------------------------------------------
// Repository ports
// ---------------------------------------------------------------------------

// ClientRepository persists borrowers.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)

	// ListRiskReviewCandidates returns non-deleted clients holding at least
	// one loan in ACTIVE or IN_ARREARS state, plus clients whose stored risk
	// ordinal is above the minimum even though no such loan remains.
	ListRiskReviewCandidates(ctx context.Context) ([]*model.Client, error)
}

// LoanRepository persists loans.
type LoanRepository interface {
	Create(ctx context.Context, l *model.Loan) error
	Update(ctx context.Context, l *model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)

	// FindByIDForUpdate row-locks the loan so concurrent payments against
	// it serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Loan, error)

	ListByState(ctx context.Context, states ...valueobject.LoanState) ([]*model.Loan, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Loan, error)
}

// InstallmentRepository persists installment schedules.
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []model.Installment) error
	Update(ctx context.Context, i *model.Installment) error
	DeleteByLoan(ctx context.Context, loanID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error)
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*model.Installment, error)

	// ListOutstandingByLoanForUpdate returns the loan's unpaid installments
	// ordered by sequence number ascending, row-locked.
	ListOutstandingByLoanForUpdate(ctx context.Context, loanID uuid.UUID) ([]*model.Installment, error)

	// ListDueBefore returns PENDING/PARTIAL installments whose effective due
	// date is before the cutoff and whose loan is ACTIVE or IN_ARREARS.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]*model.Installment, error)

	CountOverdueByLoan(ctx context.Context, loanID uuid.UUID) (int, error)

	// EarliestOverdueDueByLoan returns the effective due date of the oldest
	// OVERDUE installment, or nil when the loan has none.
	EarliestOverdueDueByLoan(ctx context.Context, loanID uuid.UUID) (*time.Time, error)
}

// PaymentRepository persists immutable payment records.
type PaymentRepository interface {
	// Create stores the payment together with its detail rows.
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*model.Payment, error)

	// NextNumber reserves the next payment sequence value inside the current
	// transaction.
	NextNumber(ctx context.Context) (int64, error)
}

// CashBoxRepository persists cash boxes.
type CashBoxRepository interface {
	Create(ctx context.Context, b *model.CashBox) error
	Update(ctx context.Context, b *model.CashBox) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CashBox, error)
	FindActiveRouteBox(ctx context.Context, routeID uuid.UUID) (*model.CashBox, error)
	FindActivePrincipal(ctx context.Context) (*model.CashBox, error)
}

// TransactionRepository persists the append-only cash ledger.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	ListByCashBox(ctx context.Context, cashBoxID uuid.UUID) ([]*model.Transaction, error)

	// NextCode reserves the next transaction code sequence value inside the
	// current transaction.
	NextCode(ctx context.Context) (int64, error)
}

// ApprovalRequestRepository persists approval requests.
type ApprovalRequestRepository interface {
	Create(ctx context.Context, r *model.ApprovalRequest) error
	Update(ctx context.Context, r *model.ApprovalRequest) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error)
}

// ExpenseRepository persists approved expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
}

// ExtensionRepository persists payment extensions.
type ExtensionRepository interface {
	Create(ctx context.Context, e *model.Extension) error
}

// RouteRepository resolves collection routes.
type RouteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error)

	// ActiveRouteForClient returns the route of the client's single active
	// assignment, or ErrNotFound when the client has none.
	ActiveRouteForClient(ctx context.Context, clientID uuid.UUID) (*model.Route, error)
}
