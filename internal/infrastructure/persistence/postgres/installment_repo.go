package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// InstallmentRepo implements port.InstallmentRepository.
type InstallmentRepo struct {
	q pgshared.Querier
}

const installmentColumns = `
	id, loan_id, sequence, due_date, rescheduled_due_date, amount,
	capital_portion, interest_portion, paid_amount, late_interest,
	state, extension_id, created_at, updated_at`

func (r *InstallmentRepo) CreateBatch(ctx context.Context, installments []model.Installment) error {
	query := `
		INSERT INTO installments (
			id, loan_id, sequence, due_date, rescheduled_due_date, amount,
			capital_portion, interest_portion, paid_amount, late_interest,
			state, extension_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	for _, i := range installments {
		_, err := r.q.Exec(ctx, query,
			i.ID, i.LoanID, i.Sequence, i.DueDate, i.RescheduledDueDate, i.Amount,
			i.CapitalPortion, i.InterestPortion, i.PaidAmount, i.LateInterest,
			i.State.String(), i.ExtensionID, i.CreatedAt, i.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert installment %d: %w", i.Sequence, err)
		}
	}
	return nil
}

func (r *InstallmentRepo) Update(ctx context.Context, i *model.Installment) error {
	query := `
		UPDATE installments SET
			due_date = $2, rescheduled_due_date = $3, amount = $4,
			capital_portion = $5, interest_portion = $6, paid_amount = $7,
			late_interest = $8, state = $9, extension_id = $10, updated_at = $11
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.DueDate, i.RescheduledDueDate, i.Amount,
		i.CapitalPortion, i.InterestPortion, i.PaidAmount,
		i.LateInterest, i.State.String(), i.ExtensionID, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update installment: %w", err)
	}
	return nil
}

func (r *InstallmentRepo) DeleteByLoan(ctx context.Context, loanID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM installments WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("delete installments for loan %s: %w", loanID, err)
	}
	return nil
}

func (r *InstallmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	row := r.q.QueryRow(ctx, `SELECT`+installmentColumns+` FROM installments WHERE id = $1`, id)
	i, err := scanInstallment(row)
	if err != nil {
		return nil, notFound(err, "installment", id)
	}
	return i, nil
}

func (r *InstallmentRepo) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*model.Installment, error) {
	query := `SELECT` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r *InstallmentRepo) ListOutstandingByLoanForUpdate(ctx context.Context, loanID uuid.UUID) ([]*model.Installment, error) {
	query := `
		SELECT` + installmentColumns + `
		FROM installments
		WHERE loan_id = $1 AND state <> 'PAID'
		ORDER BY sequence
		FOR UPDATE
	`
	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query outstanding installments: %w", err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r *InstallmentRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*model.Installment, error) {
	query := `
		SELECT` + installmentColumns + `
		FROM installments i
		WHERE i.state IN ('PENDING', 'PARTIAL')
		  AND COALESCE(i.rescheduled_due_date, i.due_date) < $1
		  AND EXISTS (
			SELECT 1 FROM loans l
			WHERE l.id = i.loan_id
			  AND l.state IN ('ACTIVE', 'IN_ARREARS')
			  AND l.deleted_at IS NULL
		  )
		ORDER BY COALESCE(i.rescheduled_due_date, i.due_date)
	`
	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query due installments: %w", err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r *InstallmentRepo) CountOverdueByLoan(ctx context.Context, loanID uuid.UUID) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM installments WHERE loan_id = $1 AND state = 'OVERDUE'`,
		loanID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count overdue installments: %w", err)
	}
	return n, nil
}

func (r *InstallmentRepo) EarliestOverdueDueByLoan(ctx context.Context, loanID uuid.UUID) (*time.Time, error) {
	var due *time.Time
	err := r.q.QueryRow(ctx, `
		SELECT MIN(COALESCE(rescheduled_due_date, due_date))
		FROM installments
		WHERE loan_id = $1 AND state = 'OVERDUE'
	`, loanID).Scan(&due)
	if err != nil {
		return nil, fmt.Errorf("query earliest overdue: %w", err)
	}
	return due, nil
}

func collectInstallments(rows pgx.Rows) ([]*model.Installment, error) {
	var installments []*model.Installment
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, i)
	}
	return installments, rows.Err()
}

func scanInstallment(s scannable) (*model.Installment, error) {
	var (
		i     model.Installment
		state string
	)
	err := s.Scan(
		&i.ID, &i.LoanID, &i.Sequence, &i.DueDate, &i.RescheduledDueDate, &i.Amount,
		&i.CapitalPortion, &i.InterestPortion, &i.PaidAmount, &i.LateInterest,
		&state, &i.ExtensionID, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if i.State, err = valueobject.NewInstallmentState(state); err != nil {
		return nil, fmt.Errorf("scan installment %s: %w", i.ID, err)
	}
	return &i, nil
}
