package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an approved operational outflow from a cash box.
type Expense struct {
	ID          uuid.UUID
	CashBoxID   uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	RequestedBy uuid.UUID
	ApprovedBy  uuid.UUID
	CreatedAt   time.Time
}
