package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// CashLedger creates one transaction record and applies the matching signed
// balance increment to one cash box, both through the caller's transaction.
// It deliberately has no multi-box primitive: a transfer is two Move calls
// inside the same unit of work.
type CashLedger struct{}

// Move validates the amount, row-locks the box, appends the ledger entry and
// adjusts the balance. The box balance therefore always equals the signed
// sum of its transactions.
func (CashLedger) Move(
	ctx context.Context,
	repos port.Repositories,
	cashBoxID uuid.UUID,
	direction valueobject.Direction,
	amount decimal.Decimal,
	refType valueobject.ReferenceType,
	refID uuid.UUID,
	actorID uuid.UUID,
	description string,
) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: ledger amount must be positive, got %s", valueobject.ErrValidation, amount)
	}

	box, err := repos.CashBoxes().FindByIDForUpdate(ctx, cashBoxID)
	if err != nil {
		return nil, fmt.Errorf("find cash box %s: %w", cashBoxID, err)
	}

	seq, err := repos.Transactions().NextCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve transaction code: %w", err)
	}

	now := time.Now().UTC()
	trx := &model.Transaction{
		ID:            uuid.New(),
		Code:          model.FormatTransactionCode(seq),
		CashBoxID:     box.ID,
		Direction:     direction,
		Amount:        amount,
		ReferenceType: refType,
		ReferenceID:   refID,
		Description:   description,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}
	if err := repos.Transactions().Create(ctx, trx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	box.Apply(direction, amount, now)
	if err := repos.CashBoxes().Update(ctx, box); err != nil {
		return nil, fmt.Errorf("update cash box balance: %w", err)
	}

	return trx, nil
}
