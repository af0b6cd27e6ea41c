package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// CashBoxRepo implements port.CashBoxRepository.
type CashBoxRepo struct {
	q pgshared.Querier
}

const cashBoxColumns = `
	id, type, name, balance, responsible_id, route_id, active,
	created_at, updated_at`

func (r *CashBoxRepo) Create(ctx context.Context, b *model.CashBox) error {
	query := `
		INSERT INTO cash_boxes (
			id, type, name, balance, responsible_id, route_id, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := r.q.Exec(ctx, query,
		b.ID, string(b.Type), b.Name, b.Balance, b.ResponsibleID, b.RouteID,
		b.Active, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cash box: %w", err)
	}
	return nil
}

func (r *CashBoxRepo) Update(ctx context.Context, b *model.CashBox) error {
	query := `
		UPDATE cash_boxes SET
			name = $2, balance = $3, responsible_id = $4, active = $5,
			updated_at = $6
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.Balance, b.ResponsibleID, b.Active, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash box: %w", err)
	}
	return nil
}

func (r *CashBoxRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CashBox, error) {
	row := r.q.QueryRow(ctx, `SELECT`+cashBoxColumns+` FROM cash_boxes WHERE id = $1 FOR UPDATE`, id)
	b, err := scanCashBox(row)
	if err != nil {
		return nil, notFound(err, "cash box", id)
	}
	return b, nil
}

func (r *CashBoxRepo) FindActiveRouteBox(ctx context.Context, routeID uuid.UUID) (*model.CashBox, error) {
	query := `SELECT` + cashBoxColumns + ` FROM cash_boxes WHERE route_id = $1 AND type = 'ROUTE' AND active`
	row := r.q.QueryRow(ctx, query, routeID)
	b, err := scanCashBox(row)
	if err != nil {
		return nil, notFound(err, "route cash box", routeID)
	}
	return b, nil
}

func (r *CashBoxRepo) FindActivePrincipal(ctx context.Context) (*model.CashBox, error) {
	query := `SELECT` + cashBoxColumns + ` FROM cash_boxes WHERE type = 'PRINCIPAL' AND active LIMIT 1`
	row := r.q.QueryRow(ctx, query)
	b, err := scanCashBox(row)
	if err != nil {
		return nil, notFound(err, "principal cash box", "")
	}
	return b, nil
}

func scanCashBox(s scannable) (*model.CashBox, error) {
	var (
		b       model.CashBox
		boxType string
	)
	err := s.Scan(
		&b.ID, &boxType, &b.Name, &b.Balance, &b.ResponsibleID, &b.RouteID,
		&b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Type = valueobject.CashBoxType(boxType)
	return &b, nil
}
