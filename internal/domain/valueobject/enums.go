package valueobject

import (
	"fmt"
	"time"
)

// PaymentFrequency is the cadence of installment due dates.
type PaymentFrequency string

const (
	FrequencyDaily    PaymentFrequency = "DAILY"
	FrequencyWeekly   PaymentFrequency = "WEEKLY"
	FrequencyBiweekly PaymentFrequency = "BIWEEKLY"
	FrequencyMonthly  PaymentFrequency = "MONTHLY"
)

// ParsePaymentFrequency validates a raw frequency string.
func ParsePaymentFrequency(s string) (PaymentFrequency, error) {
	switch PaymentFrequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return PaymentFrequency(s), nil
	}
	return "", fmt.Errorf("invalid payment frequency: %q", s)
}

// DueDate returns the due date of the i-th installment (1-based) counting
// from the start date.
func (f PaymentFrequency) DueDate(start time.Time, i int) time.Time {
	switch f {
	case FrequencyDaily:
		return start.AddDate(0, 0, i)
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7*i)
	case FrequencyBiweekly:
		return start.AddDate(0, 0, 15*i)
	default: // MONTHLY
		return start.AddDate(0, i, 0)
	}
}

// MonthlyRateDivisor converts a monthly interest rate into this frequency's
// per-period rate: daily installments split the monthly rate across 30 days,
// weekly across 4 weeks, biweekly across 2 fortnights.
func (f PaymentFrequency) MonthlyRateDivisor() int64 {
	switch f {
	case FrequencyDaily:
		return 30
	case FrequencyWeekly:
		return 4
	case FrequencyBiweekly:
		return 2
	default: // MONTHLY
		return 1
	}
}

// AmortizationType selects the schedule formula.
type AmortizationType string

const (
	AmortizationSimple AmortizationType = "SIMPLE"
	AmortizationFrench AmortizationType = "FRENCH"
)

// ParseAmortizationType validates a raw amortization type string.
func ParseAmortizationType(s string) (AmortizationType, error) {
	switch AmortizationType(s) {
	case AmortizationSimple, AmortizationFrench:
		return AmortizationType(s), nil
	}
	return "", fmt.Errorf("invalid amortization type: %q", s)
}

// Direction is the signed side of a cash transaction.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Sign returns +1 for IN and -1 for OUT.
func (d Direction) Sign() int64 {
	if d == DirectionOut {
		return -1
	}
	return 1
}

// CashBoxType distinguishes the principal box from per-route boxes.
type CashBoxType string

const (
	CashBoxPrincipal CashBoxType = "PRINCIPAL"
	CashBoxRoute     CashBoxType = "ROUTE"
)

// RequestType identifies the kind of change an approval request carries.
type RequestType string

const (
	RequestNewClient        RequestType = "NEW_CLIENT"
	RequestNewLoan          RequestType = "NEW_LOAN"
	RequestExpense          RequestType = "EXPENSE"
	RequestCashBase         RequestType = "CASH_BASE_REQUEST"
	RequestPaymentExtension RequestType = "PAYMENT_EXTENSION"
)

// ParseRequestType validates a raw request type string.
func ParseRequestType(s string) (RequestType, error) {
	switch RequestType(s) {
	case RequestNewClient, RequestNewLoan, RequestExpense, RequestCashBase, RequestPaymentExtension:
		return RequestType(s), nil
	}
	return "", fmt.Errorf("invalid request type: %q", s)
}

// ReferenceType tags a transaction with the entity that caused it.
type ReferenceType string

const (
	RefPayment      ReferenceType = "PAYMENT"
	RefDisbursement ReferenceType = "DISBURSEMENT"
	RefExpense      ReferenceType = "EXPENSE"
	RefCashBase     ReferenceType = "CASH_BASE"
)
