package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// LoanTerms are the financial parameters a schedule is generated from.
type LoanTerms struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // percentage; see GenerateSchedule
	Installments int
	Frequency    valueobject.PaymentFrequency
	Amortization valueobject.AmortizationType
	StartDate    time.Time
}

var oneHundred = decimal.NewFromInt(100)

// GenerateSchedule turns loan terms into an ordered installment schedule.
// It is pure: callers persist the result; re-running with the same terms
// yields an equivalent schedule, so an approval that edits terms discards
// the old installments and calls it again.
//
// SIMPLE amortization reads InterestRate as a percentage over the life of
// the loan: total interest = principal * rate / 100, split evenly across
// installments alongside an even principal split. FRENCH amortization reads
// InterestRate as a nominal monthly percentage, divided down to the
// per-period rate for sub-monthly frequencies, and computes the fixed
// annuity payment c = P*r / (1 - (1+r)^-n).
func GenerateSchedule(loanID uuid.UUID, t LoanTerms) ([]Installment, error) {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal must be positive", valueobject.ErrValidation)
	}
	if t.Installments <= 0 {
		return nil, fmt.Errorf("%w: installment count must be positive", valueobject.ErrValidation)
	}
	if t.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", valueobject.ErrValidation)
	}

	switch t.Amortization {
	case valueobject.AmortizationFrench:
		return frenchSchedule(loanID, t), nil
	default:
		return simpleSchedule(loanID, t), nil
	}
}

// TotalInterest sums the interest portions of a generated schedule.
func TotalInterest(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.InterestPortion)
	}
	return total
}

// simpleSchedule splits principal and flat total interest evenly. The last
// installment absorbs division residuals so the sums stay exact.
func simpleSchedule(loanID uuid.UUID, t LoanTerms) []Installment {
	n := int64(t.Installments)
	nDec := decimal.NewFromInt(n)

	totalInterest := t.Principal.Mul(t.InterestRate).Div(oneHundred).Round(2)
	capitalShare := t.Principal.Div(nDec).Round(2)
	interestShare := totalInterest.Div(nDec).Round(2)

	schedule := make([]Installment, 0, t.Installments)
	for i := 1; i <= t.Installments; i++ {
		capital := capitalShare
		interest := interestShare
		if i == t.Installments {
			capital = t.Principal.Sub(capitalShare.Mul(decimal.NewFromInt(n - 1)))
			interest = totalInterest.Sub(interestShare.Mul(decimal.NewFromInt(n - 1)))
		}
		schedule = append(schedule, newScheduledInstallment(loanID, i, t.Frequency.DueDate(t.StartDate, i), capital, interest))
	}
	return schedule
}

// frenchSchedule computes a fixed-payment annuity. A zero per-period rate
// falls back to an even principal split.
func frenchSchedule(loanID uuid.UUID, t LoanTerms) []Installment {
	divisor := decimal.NewFromInt(t.Frequency.MonthlyRateDivisor())
	rate := t.InterestRate.Div(oneHundred).Div(divisor)

	if rate.IsZero() {
		return simpleSchedule(loanID, LoanTerms{
			Principal:    t.Principal,
			InterestRate: decimal.Zero,
			Installments: t.Installments,
			Frequency:    t.Frequency,
			Amortization: valueobject.AmortizationSimple,
			StartDate:    t.StartDate,
		})
	}

	// Fixed payment via float64 for the power term, back to decimal for
	// the monetary iteration (the final installment absorbs the residual).
	r := rate.InexactFloat64()
	n := float64(t.Installments)
	factor := math.Pow(1+r, n)
	payment := decimal.NewFromFloat(t.Principal.InexactFloat64() * r * factor / (factor - 1)).Round(2)

	schedule := make([]Installment, 0, t.Installments)
	balance := t.Principal
	for i := 1; i <= t.Installments; i++ {
		interest := balance.Mul(rate).Round(2)
		capital := payment.Sub(interest)
		if i == t.Installments {
			capital = balance
		}
		balance = balance.Sub(capital)
		schedule = append(schedule, newScheduledInstallment(loanID, i, t.Frequency.DueDate(t.StartDate, i), capital, interest))
	}
	return schedule
}
