package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// RouteRepo implements port.RouteRepository.
type RouteRepo struct {
	q pgshared.Querier
}

func (r *RouteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error) {
	var route model.Route
	err := r.q.QueryRow(ctx,
		`SELECT id, name, collector_id, active, created_at FROM routes WHERE id = $1`, id,
	).Scan(&route.ID, &route.Name, &route.CollectorID, &route.Active, &route.CreatedAt)
	if err != nil {
		return nil, notFound(err, "route", id)
	}
	return &route, nil
}

func (r *RouteRepo) ActiveRouteForClient(ctx context.Context, clientID uuid.UUID) (*model.Route, error) {
	query := `
		SELECT r.id, r.name, r.collector_id, r.active, r.created_at
		FROM routes r
		JOIN route_assignments a ON a.route_id = r.id
		WHERE a.client_id = $1 AND a.active AND r.active
	`
	var route model.Route
	err := r.q.QueryRow(ctx, query, clientID).Scan(
		&route.ID, &route.Name, &route.CollectorID, &route.Active, &route.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "active route for client", clientID)
	}
	return &route, nil
}
