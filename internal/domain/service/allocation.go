package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
)

var oneHundred = decimal.NewFromInt(100)

// Split is a gross amount decomposed into capital and interest.
type Split struct {
	Capital  decimal.Decimal
	Interest decimal.Decimal
}

// Decompose splits a gross amount by the loan's nominal rate:
// capital = amount * 100 / (100 + rate). Interest is taken as the
// complement so capital + interest always reconstructs the amount exactly.
// A zero rate yields all capital.
func Decompose(amount, rate decimal.Decimal) Split {
	if rate.IsZero() {
		return Split{Capital: amount, Interest: decimal.Zero}
	}
	capital := amount.Mul(oneHundred).Div(oneHundred.Add(rate)).Round(2)
	return Split{
		Capital:  capital,
		Interest: amount.Sub(capital),
	}
}

// Allocation is the slice of a payment applied to one installment.
type Allocation struct {
	Installment *model.Installment
	Applied     decimal.Decimal
	Split       Split
}

// AllocateFIFO walks the outstanding installments strictly in sequence
// order, consuming the payment budget oldest-first with no skipping. Each
// touched installment is mutated in place (paid amount and state); the
// returned allocations become the payment's detail rows. Any budget left
// after the last installment is returned as surplus.
func AllocateFIFO(installments []*model.Installment, amount, rate decimal.Decimal, now time.Time) ([]Allocation, decimal.Decimal) {
	budget := amount
	var allocations []Allocation

	for _, inst := range installments {
		if !budget.IsPositive() {
			break
		}
		remaining := inst.Remaining()
		if remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}

		apply := decimal.Min(budget, remaining)
		inst.ApplyPayment(apply, now)
		allocations = append(allocations, Allocation{
			Installment: inst,
			Applied:     apply,
			Split:       Decompose(apply, rate),
		})
		budget = budget.Sub(apply)
	}

	return allocations, budget
}
