package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/sideeffect"
)

// ---------------------------------------------------------------------------
// Payment collection
// ---------------------------------------------------------------------------

// CollectPaymentRequest is one field-collection event to allocate.
type CollectPaymentRequest struct {
	LoanID      uuid.UUID
	ClientID    uuid.UUID // optional; when set it must match the loan's client
	Amount      decimal.Decimal
	Method      string
	CollectorID uuid.UUID
	// ReferenceDate is the collection timestamp; zero means now.
	ReferenceDate time.Time
}

// AllocationResponse is the part of a payment applied to one installment.
type AllocationResponse struct {
	InstallmentID    uuid.UUID       `json:"installment_id"`
	Sequence         int             `json:"sequence"`
	Applied          decimal.Decimal `json:"applied"`
	Capital          decimal.Decimal `json:"capital"`
	Interest         decimal.Decimal `json:"interest"`
	InstallmentState string          `json:"installment_state"`
}

// CollectPaymentResponse reports the committed payment plus the outcome of
// its best-effort side channels.
type CollectPaymentResponse struct {
	PaymentID          uuid.UUID            `json:"payment_id"`
	PaymentNumber      string               `json:"payment_number"`
	LoanID             uuid.UUID            `json:"loan_id"`
	Amount             decimal.Decimal      `json:"amount"`
	Capital            decimal.Decimal      `json:"capital"`
	Interest           decimal.Decimal      `json:"interest"`
	LoanState          string               `json:"loan_state"`
	OutstandingBalance decimal.Decimal      `json:"outstanding_balance"`
	Allocations        []AllocationResponse `json:"allocations"`
	SideEffects        []sideeffect.Result  `json:"-"`
}

// ---------------------------------------------------------------------------
// Approval workflow
// ---------------------------------------------------------------------------

// ApproveRequestInput approves a pending request, optionally replacing its
// payload with approver edits.
type ApproveRequestInput struct {
	RequestID     uuid.UUID
	ApproverID    uuid.UUID
	EditedPayload json.RawMessage
}

// ApprovalOutcome reports the terminal state of a resolved request.
type ApprovalOutcome struct {
	RequestID   uuid.UUID           `json:"request_id"`
	RequestType string              `json:"request_type"`
	State       string              `json:"state"`
	SideEffects []sideeffect.Result `json:"-"`
}

// RejectRequestInput rejects a pending request.
type RejectRequestInput struct {
	RequestID  uuid.UUID
	ApproverID uuid.UUID
	Reason     string
}

// ---------------------------------------------------------------------------
// Delinquency sweep
// ---------------------------------------------------------------------------

// SweepError is one failure recorded during a sweep.
type SweepError struct {
	Step     string `json:"step"`
	EntityID string `json:"entity_id,omitempty"`
	Message  string `json:"message"`
}

// SweepReport is the outcome of one delinquency sweep. Per-entity errors do
// not abort the sweep; step failures mark it unrecoverable.
type SweepReport struct {
	AsOf                time.Time           `json:"as_of"`
	OverdueMarked       int                 `json:"overdue_marked"`
	LoansIntoArrears    int                 `json:"loans_into_arrears"`
	LoansCleared        int                 `json:"loans_cleared"`
	ClientsRegraded     int                 `json:"clients_regraded"`
	ClientsReset        int                 `json:"clients_reset"`
	EscalationsNotified int                 `json:"escalations_notified"`
	EntityErrors        []SweepError        `json:"entity_errors,omitempty"`
	StepFailures        []SweepError        `json:"step_failures,omitempty"`
	SideEffects         []sideeffect.Result `json:"-"`
}

// Unrecoverable reports whether a whole step failed (per-entity errors are
// tolerated).
func (r SweepReport) Unrecoverable() bool { return len(r.StepFailures) > 0 }

// ---------------------------------------------------------------------------
// Loan views
// ---------------------------------------------------------------------------

// InstallmentView is one schedule row.
type InstallmentView struct {
	Sequence        int             `json:"sequence"`
	DueDate         time.Time       `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	CapitalPortion  decimal.Decimal `json:"capital_portion"`
	InterestPortion decimal.Decimal `json:"interest_portion"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	State           string          `json:"state"`
}

// LoanResponse is a loan with its schedule.
type LoanResponse struct {
	ID                 uuid.UUID         `json:"id"`
	ClientID           uuid.UUID         `json:"client_id"`
	Amount             decimal.Decimal   `json:"amount"`
	InterestRate       decimal.Decimal   `json:"interest_rate"`
	State              string            `json:"state"`
	ApprovalState      string            `json:"approval_state"`
	TotalInterest      decimal.Decimal   `json:"total_interest"`
	TotalPaid          decimal.Decimal   `json:"total_paid"`
	OutstandingBalance decimal.Decimal   `json:"outstanding_balance"`
	Schedule           []InstallmentView `json:"schedule"`
}
