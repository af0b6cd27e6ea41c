package model

import (
	"time"

	"github.com/google/uuid"
)

// Extension records an approved due-date change on one installment.
type Extension struct {
	ID            uuid.UUID
	InstallmentID uuid.UUID
	LoanID        uuid.UUID
	OldDueDate    time.Time
	NewDueDate    time.Time
	Reason        string
	ApprovedBy    uuid.UUID
	CreatedAt     time.Time
}
