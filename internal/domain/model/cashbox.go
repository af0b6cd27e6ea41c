package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// CashBox is a physical or virtual cash register. Its balance is mutated
// only through the cash ledger, so it always equals the signed sum of its
// transactions.
type CashBox struct {
	ID            uuid.UUID
	Type          valueobject.CashBoxType
	Name          string
	Balance       decimal.Decimal
	ResponsibleID uuid.UUID
	RouteID       *uuid.UUID
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Apply moves the balance by the signed amount of a transaction.
func (b *CashBox) Apply(direction valueobject.Direction, amount decimal.Decimal, now time.Time) {
	if direction == valueobject.DirectionOut {
		b.Balance = b.Balance.Sub(amount)
	} else {
		b.Balance = b.Balance.Add(amount)
	}
	b.UpdatedAt = now
}

// Transaction is an append-only ledger entry against a cash box.
type Transaction struct {
	ID            uuid.UUID
	Code          string // human-readable, e.g. TRX-000042
	CashBoxID     uuid.UUID
	Direction     valueobject.Direction
	Amount        decimal.Decimal
	ReferenceType valueobject.ReferenceType
	ReferenceID   uuid.UUID
	Description   string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

// FormatTransactionCode renders a sequence value as the human-readable
// transaction code.
func FormatTransactionCode(seq int64) string {
	return fmt.Sprintf("TRX-%06d", seq)
}
