package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// Loan is the central financial aggregate. Its outstanding balance always
// equals amount + totalInterest - totalPaid, clamped at zero.
type Loan struct {
	ID                 uuid.UUID
	ClientID           uuid.UUID
	Amount             decimal.Decimal
	InterestRate       decimal.Decimal
	TermUnits          int
	Frequency          valueobject.PaymentFrequency
	Amortization       valueobject.AmortizationType
	State              valueobject.LoanState
	ApprovalState      valueobject.ApprovalState
	TotalInterest      decimal.Decimal
	TotalPaid          decimal.Decimal
	CapitalPaid        decimal.Decimal
	InterestPaid       decimal.Decimal
	OutstandingBalance decimal.Decimal
	StartDate          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// NewDraftLoan creates a loan pending approval. The caller generates the
// schedule against the new loan's ID and records its interest with
// AttachSchedule.
func NewDraftLoan(clientID uuid.UUID, terms LoanTerms) *Loan {
	now := time.Now().UTC()
	return &Loan{
		ID:                 uuid.New(),
		ClientID:           clientID,
		Amount:             terms.Principal,
		InterestRate:       terms.InterestRate,
		TermUnits:          terms.Installments,
		Frequency:          terms.Frequency,
		Amortization:       terms.Amortization,
		State:              valueobject.LoanStateDraft,
		ApprovalState:      valueobject.ApprovalStatePending,
		TotalInterest:      decimal.Zero,
		TotalPaid:          decimal.Zero,
		CapitalPaid:        decimal.Zero,
		InterestPaid:       decimal.Zero,
		OutstandingBalance: terms.Principal,
		StartDate:          terms.StartDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AttachSchedule records the total interest of a freshly generated schedule
// and rebases the outstanding balance.
func (l *Loan) AttachSchedule(totalInterest decimal.Decimal, now time.Time) {
	l.TotalInterest = totalInterest
	l.OutstandingBalance = l.Amount.Add(totalInterest).Sub(l.TotalPaid)
	l.UpdatedAt = now
}

// Terms rebuilds the LoanTerms the loan was created with.
func (l *Loan) Terms() LoanTerms {
	return LoanTerms{
		Principal:    l.Amount,
		InterestRate: l.InterestRate,
		Installments: l.TermUnits,
		Frequency:    l.Frequency,
		Amortization: l.Amortization,
		StartDate:    l.StartDate,
	}
}

// Deleted reports whether the loan was soft-deleted.
func (l *Loan) Deleted() bool { return l.DeletedAt != nil }

// ApplyTerms replaces the financial terms after an approver edit. The caller
// regenerates and replaces the installment schedule in the same transaction.
func (l *Loan) ApplyTerms(terms LoanTerms, totalInterest decimal.Decimal, now time.Time) {
	l.Amount = terms.Principal
	l.InterestRate = terms.InterestRate
	l.TermUnits = terms.Installments
	l.Frequency = terms.Frequency
	l.Amortization = terms.Amortization
	l.StartDate = terms.StartDate
	l.TotalInterest = totalInterest
	l.OutstandingBalance = terms.Principal.Add(totalInterest).Sub(l.TotalPaid)
	l.UpdatedAt = now
}

// Activate transitions DRAFT -> ACTIVE on approval.
func (l *Loan) Activate(now time.Time) error {
	if !l.State.Equal(valueobject.LoanStateDraft) || l.ApprovalState.Terminal() {
		return fmt.Errorf("%w: loan %s is %s/%s, expected DRAFT/PENDING",
			valueobject.ErrInvalidState, l.ID, l.State, l.ApprovalState)
	}
	l.State = valueobject.LoanStateActive
	l.ApprovalState = valueobject.ApprovalStateApproved
	l.UpdatedAt = now
	return nil
}

// ApplyPayment updates the running totals after a collection. The balance is
// clamped at zero; a cleared balance moves the loan to PAID.
func (l *Loan) ApplyPayment(amount, capital, interest decimal.Decimal, now time.Time) {
	l.TotalPaid = l.TotalPaid.Add(amount)
	l.CapitalPaid = l.CapitalPaid.Add(capital)
	l.InterestPaid = l.InterestPaid.Add(interest)
	l.OutstandingBalance = l.OutstandingBalance.Sub(amount)
	if l.OutstandingBalance.LessThanOrEqual(decimal.Zero) {
		l.OutstandingBalance = decimal.Zero
		l.State = valueobject.LoanStatePaid
	}
	l.UpdatedAt = now
}

// MarkInArrears transitions ACTIVE -> IN_ARREARS when an installment goes
// overdue.
func (l *Loan) MarkInArrears(now time.Time) error {
	if !l.State.Equal(valueobject.LoanStateActive) {
		return fmt.Errorf("%w: loan %s is %s, expected ACTIVE", valueobject.ErrInvalidState, l.ID, l.State)
	}
	l.State = valueobject.LoanStateInArrears
	l.UpdatedAt = now
	return nil
}

// ClearArrears transitions IN_ARREARS back to ACTIVE once no overdue
// installments remain and a balance is still owed.
func (l *Loan) ClearArrears(now time.Time) error {
	if !l.State.Equal(valueobject.LoanStateInArrears) {
		return fmt.Errorf("%w: loan %s is %s, expected IN_ARREARS", valueobject.ErrInvalidState, l.ID, l.State)
	}
	l.State = valueobject.LoanStateActive
	l.UpdatedAt = now
	return nil
}

// MarkDefaulted records a manual default decision on an active or arrears
// loan.
func (l *Loan) MarkDefaulted(now time.Time) error {
	if !l.State.Payable() {
		return fmt.Errorf("%w: loan %s is %s, expected ACTIVE or IN_ARREARS", valueobject.ErrInvalidState, l.ID, l.State)
	}
	l.State = valueobject.LoanStateDefaulted
	l.UpdatedAt = now
	return nil
}

// WriteOff records a manual write-off decision on an active, arrears or
// defaulted loan.
func (l *Loan) WriteOff(now time.Time) error {
	if !l.State.Payable() && !l.State.Equal(valueobject.LoanStateDefaulted) {
		return fmt.Errorf("%w: loan %s is %s", valueobject.ErrInvalidState, l.ID, l.State)
	}
	l.State = valueobject.LoanStateWrittenOff
	l.UpdatedAt = now
	return nil
}

// SoftDelete hides the loan from active listings. Loans are never physically
// removed.
func (l *Loan) SoftDelete(now time.Time) {
	l.DeletedAt = &now
	l.UpdatedAt = now
}
