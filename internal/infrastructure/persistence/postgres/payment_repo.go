package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// PaymentRepo implements port.PaymentRepository. Payments and their detail
// rows are append-only.
type PaymentRepo struct {
	q pgshared.Querier
}

const paymentColumns = `
	id, number, loan_id, client_id, total_amount, capital_amount,
	interest_amount, method, collector_id, collected_at, created_at`

func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (
			id, number, loan_id, client_id, total_amount, capital_amount,
			interest_amount, method, collector_id, collected_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.LoanID, p.ClientID, p.TotalAmount, p.CapitalAmount,
		p.InterestAmount, p.Method, p.CollectorID, p.CollectedAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	detailQuery := `
		INSERT INTO payment_details (
			id, payment_id, installment_id, amount, capital_portion, interest_portion
		) VALUES ($1,$2,$3,$4,$5,$6)
	`
	for _, d := range p.Details {
		_, err := r.q.Exec(ctx, detailQuery,
			d.ID, d.PaymentID, d.InstallmentID, d.Amount, d.CapitalPortion, d.InterestPortion,
		)
		if err != nil {
			return fmt.Errorf("insert payment detail: %w", err)
		}
	}
	return nil
}

func (r *PaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	row := r.q.QueryRow(ctx, `SELECT`+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	if p.Details, err = r.loadDetails(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepo) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*model.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE loan_id = $1 ORDER BY collected_at`
	rows, err := r.q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range payments {
		if p.Details, err = r.loadDetails(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (r *PaymentRepo) NextNumber(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('payment_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next payment number: %w", err)
	}
	return seq, nil
}

func (r *PaymentRepo) loadDetails(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentDetail, error) {
	query := `
		SELECT id, payment_id, installment_id, amount, capital_portion, interest_portion
		FROM payment_details
		WHERE payment_id = $1
	`
	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query payment details: %w", err)
	}
	defer rows.Close()

	var details []model.PaymentDetail
	for rows.Next() {
		var d model.PaymentDetail
		if err := rows.Scan(&d.ID, &d.PaymentID, &d.InstallmentID, &d.Amount, &d.CapitalPortion, &d.InterestPortion); err != nil {
			return nil, fmt.Errorf("scan payment detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanPayment(s scannable) (*model.Payment, error) {
	var p model.Payment
	err := s.Scan(
		&p.ID, &p.Number, &p.LoanID, &p.ClientID, &p.TotalAmount, &p.CapitalAmount,
		&p.InterestAmount, &p.Method, &p.CollectorID, &p.CollectedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
