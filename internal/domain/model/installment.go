package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// RoundingTolerance is the residual below which an installment counts as
// fully paid.
var RoundingTolerance = decimal.NewFromFloat(0.01)

// Installment is one scheduled repayment unit of a loan.
type Installment struct {
	ID                 uuid.UUID
	LoanID             uuid.UUID
	Sequence           int
	DueDate            time.Time
	RescheduledDueDate *time.Time
	Amount             decimal.Decimal
	CapitalPortion     decimal.Decimal
	InterestPortion    decimal.Decimal
	PaidAmount         decimal.Decimal
	LateInterest       decimal.Decimal
	State              valueobject.InstallmentState
	ExtensionID        *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func newScheduledInstallment(loanID uuid.UUID, seq int, due time.Time, capital, interest decimal.Decimal) Installment {
	now := time.Now().UTC()
	return Installment{
		ID:              uuid.New(),
		LoanID:          loanID,
		Sequence:        seq,
		DueDate:         due,
		Amount:          capital.Add(interest),
		CapitalPortion:  capital,
		InterestPortion: interest,
		PaidAmount:      decimal.Zero,
		LateInterest:    decimal.Zero,
		State:           valueobject.InstallmentStatePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Remaining returns the unpaid part of the installment amount.
func (i *Installment) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// EffectiveDueDate returns the rescheduled due date when an extension was
// granted, the original due date otherwise.
func (i *Installment) EffectiveDueDate() time.Time {
	if i.RescheduledDueDate != nil {
		return *i.RescheduledDueDate
	}
	return i.DueDate
}

// ApplyPayment records a partial or full payment against the installment.
// A fully covered installment (within RoundingTolerance) becomes PAID; a
// partial payment moves PENDING to PARTIAL but leaves OVERDUE untouched so
// the delinquency sweep keeps seeing the arrear.
func (i *Installment) ApplyPayment(amount decimal.Decimal, now time.Time) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	switch {
	case i.Remaining().LessThanOrEqual(RoundingTolerance):
		i.State = valueobject.InstallmentStatePaid
	case i.State.Equal(valueobject.InstallmentStatePending):
		i.State = valueobject.InstallmentStatePartial
	}
	i.UpdatedAt = now
}

// MarkOverdue flags an unpaid installment whose due date has passed.
func (i *Installment) MarkOverdue(now time.Time) {
	i.State = valueobject.InstallmentStateOverdue
	i.UpdatedAt = now
}

// Reschedule links the installment to a payment extension and moves its
// effective due date.
func (i *Installment) Reschedule(extensionID uuid.UUID, newDue time.Time, now time.Time) {
	i.ExtensionID = &extensionID
	i.RescheduledDueDate = &newDue
	i.UpdatedAt = now
}
