package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// ClientRepo implements port.ClientRepository.
type ClientRepo struct {
	q pgshared.Querier
}

const clientColumns = `
	id, name, document, phone, address, risk_level, score,
	blacklisted, blacklist_reason, last_risk_ordinal,
	created_at, updated_at, deleted_at`

func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	query := `
		INSERT INTO clients (
			id, name, document, phone, address, risk_level, score,
			blacklisted, blacklist_reason, last_risk_ordinal,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Document, c.Phone, c.Address, c.RiskLevel.String(), c.Score,
		c.Blacklisted, c.BlacklistReason, c.LastRiskOrdinal,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	query := `
		UPDATE clients SET
			name = $2, document = $3, phone = $4, address = $5,
			risk_level = $6, score = $7, blacklisted = $8,
			blacklist_reason = $9, last_risk_ordinal = $10,
			updated_at = $11, deleted_at = $12
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Document, c.Phone, c.Address,
		c.RiskLevel.String(), c.Score, c.Blacklisted,
		c.BlacklistReason, c.LastRiskOrdinal,
		c.UpdatedAt, c.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *ClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	row := r.q.QueryRow(ctx, `SELECT`+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		return nil, notFound(err, "client", id)
	}
	return c, nil
}

func (r *ClientRepo) ListRiskReviewCandidates(ctx context.Context) ([]*model.Client, error) {
	query := `
		SELECT` + clientColumns + `
		FROM clients
		WHERE deleted_at IS NULL
		  AND (
			last_risk_ordinal > 1
			OR id IN (
				SELECT client_id FROM loans
				WHERE state IN ('ACTIVE', 'IN_ARREARS') AND deleted_at IS NULL
			)
		  )
	`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query risk review candidates: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func scanClient(s scannable) (*model.Client, error) {
	var (
		c         model.Client
		riskLevel string
	)
	err := s.Scan(
		&c.ID, &c.Name, &c.Document, &c.Phone, &c.Address, &riskLevel, &c.Score,
		&c.Blacklisted, &c.BlacklistReason, &c.LastRiskOrdinal,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	c.RiskLevel, err = valueobject.NewRiskLevel(riskLevel)
	if err != nil {
		return nil, fmt.Errorf("scan client %s: %w", c.ID, err)
	}
	return &c, nil
}
