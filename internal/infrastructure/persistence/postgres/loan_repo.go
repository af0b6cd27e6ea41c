package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	q pgshared.Querier
}

const loanColumns = `
	id, client_id, amount, interest_rate, term_units, frequency, amortization,
	state, approval_state, total_interest, total_paid, capital_paid,
	interest_paid, outstanding_balance, start_date,
	created_at, updated_at, deleted_at`

func (r *LoanRepo) Create(ctx context.Context, l *model.Loan) error {
	query := `
		INSERT INTO loans (
			id, client_id, amount, interest_rate, term_units, frequency,
			amortization, state, approval_state, total_interest, total_paid,
			capital_paid, interest_paid, outstanding_balance, start_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ClientID, l.Amount, l.InterestRate, l.TermUnits, string(l.Frequency),
		string(l.Amortization), l.State.String(), l.ApprovalState.String(),
		l.TotalInterest, l.TotalPaid, l.CapitalPaid, l.InterestPaid,
		l.OutstandingBalance, l.StartDate, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepo) Update(ctx context.Context, l *model.Loan) error {
	query := `
		UPDATE loans SET
			amount = $2, interest_rate = $3, term_units = $4, frequency = $5,
			amortization = $6, state = $7, approval_state = $8,
			total_interest = $9, total_paid = $10, capital_paid = $11,
			interest_paid = $12, outstanding_balance = $13, start_date = $14,
			updated_at = $15, deleted_at = $16
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Amount, l.InterestRate, l.TermUnits, string(l.Frequency),
		string(l.Amortization), l.State.String(), l.ApprovalState.String(),
		l.TotalInterest, l.TotalPaid, l.CapitalPaid, l.InterestPaid,
		l.OutstandingBalance, l.StartDate, l.UpdatedAt, l.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

func (r *LoanRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	row := r.q.QueryRow(ctx, `SELECT`+loanColumns+` FROM loans WHERE id = $1`, id)
	l, err := scanLoan(row)
	if err != nil {
		return nil, notFound(err, "loan", id)
	}
	return l, nil
}

func (r *LoanRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	row := r.q.QueryRow(ctx, `SELECT`+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
	l, err := scanLoan(row)
	if err != nil {
		return nil, notFound(err, "loan", id)
	}
	return l, nil
}

func (r *LoanRepo) ListByState(ctx context.Context, states ...valueobject.LoanState) ([]*model.Loan, error) {
	values := make([]string, 0, len(states))
	for _, s := range states {
		values = append(values, s.String())
	}
	query := `SELECT` + loanColumns + ` FROM loans WHERE state = ANY($1) AND deleted_at IS NULL ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, values)
	if err != nil {
		return nil, fmt.Errorf("query loans by state: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *LoanRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Loan, error) {
	query := `SELECT` + loanColumns + ` FROM loans WHERE client_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("query loans by client: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]*model.Loan, error) {
	var loans []*model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func scanLoan(s scannable) (*model.Loan, error) {
	var (
		l                    model.Loan
		frequency            string
		amortization         string
		state, approvalState string
	)
	err := s.Scan(
		&l.ID, &l.ClientID, &l.Amount, &l.InterestRate, &l.TermUnits,
		&frequency, &amortization, &state, &approvalState,
		&l.TotalInterest, &l.TotalPaid, &l.CapitalPaid, &l.InterestPaid,
		&l.OutstandingBalance, &l.StartDate,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.Frequency, err = valueobject.ParsePaymentFrequency(frequency); err != nil {
		return nil, fmt.Errorf("scan loan %s: %w", l.ID, err)
	}
	if l.Amortization, err = valueobject.ParseAmortizationType(amortization); err != nil {
		return nil, fmt.Errorf("scan loan %s: %w", l.ID, err)
	}
	if l.State, err = valueobject.NewLoanState(state); err != nil {
		return nil, fmt.Errorf("scan loan %s: %w", l.ID, err)
	}
	if l.ApprovalState, err = valueobject.NewApprovalState(approvalState); err != nil {
		return nil, fmt.Errorf("scan loan %s: %w", l.ID, err)
	}
	return &l, nil
}
