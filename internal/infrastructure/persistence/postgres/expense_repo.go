package postgres

import (
	"context"
	"fmt"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// ExpenseRepo implements port.ExpenseRepository.
type ExpenseRepo struct {
	q pgshared.Querier
}

func (r *ExpenseRepo) Create(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expenses (
			id, cash_box_id, amount, category, description,
			requested_by, approved_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CashBoxID, e.Amount, e.Category, e.Description,
		e.RequestedBy, e.ApprovedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ExtensionRepo implements port.ExtensionRepository.
type ExtensionRepo struct {
	q pgshared.Querier
}

func (r *ExtensionRepo) Create(ctx context.Context, e *model.Extension) error {
	query := `
		INSERT INTO extensions (
			id, installment_id, loan_id, old_due_date, new_due_date,
			reason, approved_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.InstallmentID, e.LoanID, e.OldDueDate, e.NewDueDate,
		e.Reason, e.ApprovedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert extension: %w", err)
	}
	return nil
}
