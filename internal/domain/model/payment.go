package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of one collection event.
type Payment struct {
	ID             uuid.UUID
	Number         string // human-readable, e.g. PAY-000123
	LoanID         uuid.UUID
	ClientID       uuid.UUID
	TotalAmount    decimal.Decimal
	CapitalAmount  decimal.Decimal
	InterestAmount decimal.Decimal
	Method         string
	CollectorID    uuid.UUID
	CollectedAt    time.Time
	CreatedAt      time.Time
	Details        []PaymentDetail
}

// PaymentDetail is the slice of a payment applied to one installment.
type PaymentDetail struct {
	ID              uuid.UUID
	PaymentID       uuid.UUID
	InstallmentID   uuid.UUID
	Amount          decimal.Decimal
	CapitalPortion  decimal.Decimal
	InterestPortion decimal.Decimal
}

// FormatPaymentNumber renders a sequence value as the human-readable payment
// number. The sequence comes from the database so concurrent collectors
// never collide.
func FormatPaymentNumber(seq int64) string {
	return fmt.Sprintf("PAY-%06d", seq)
}
