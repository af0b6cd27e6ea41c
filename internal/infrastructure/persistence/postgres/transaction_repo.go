package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// TransactionRepo implements port.TransactionRepository. The ledger is
// append-only: there is no update or delete.
type TransactionRepo struct {
	q pgshared.Querier
}

func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, code, cash_box_id, direction, amount, reference_type,
			reference_id, description, created_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Code, t.CashBoxID, string(t.Direction), t.Amount,
		string(t.ReferenceType), t.ReferenceID, t.Description, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) ListByCashBox(ctx context.Context, cashBoxID uuid.UUID) ([]*model.Transaction, error) {
	query := `
		SELECT id, code, cash_box_id, direction, amount, reference_type,
		       reference_id, description, created_by, created_at
		FROM transactions
		WHERE cash_box_id = $1
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, cashBoxID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var (
			t                 model.Transaction
			direction, refTyp string
		)
		err := rows.Scan(
			&t.ID, &t.Code, &t.CashBoxID, &direction, &t.Amount, &refTyp,
			&t.ReferenceID, &t.Description, &t.CreatedBy, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Direction = valueobject.Direction(direction)
		t.ReferenceType = valueobject.ReferenceType(refTyp)
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepo) NextCode(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('transaction_code_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next transaction code: %w", err)
	}
	return seq, nil
}
