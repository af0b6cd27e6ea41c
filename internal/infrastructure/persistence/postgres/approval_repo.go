package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
	pgshared "github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// ApprovalRequestRepo implements port.ApprovalRequestRepository.
type ApprovalRequestRepo struct {
	q pgshared.Querier
}

func (r *ApprovalRequestRepo) Create(ctx context.Context, req *model.ApprovalRequest) error {
	query := `
		INSERT INTO approval_requests (
			id, type, state, payload, edited_payload, requester_id,
			approver_id, rejection_reason, created_at, resolved_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.q.Exec(ctx, query,
		req.ID, string(req.Type), req.State.String(), req.Payload, req.EditedPayload,
		req.RequesterID, req.ApproverID, req.RejectionReason, req.CreatedAt, req.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval request: %w", err)
	}
	return nil
}

func (r *ApprovalRequestRepo) Update(ctx context.Context, req *model.ApprovalRequest) error {
	query := `
		UPDATE approval_requests SET
			state = $2, edited_payload = $3, approver_id = $4,
			rejection_reason = $5, resolved_at = $6
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.State.String(), req.EditedPayload, req.ApproverID,
		req.RejectionReason, req.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update approval request: %w", err)
	}
	return nil
}

func (r *ApprovalRequestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	query := `
		SELECT id, type, state, payload, edited_payload, requester_id,
		       approver_id, rejection_reason, created_at, resolved_at
		FROM approval_requests
		WHERE id = $1
		FOR UPDATE
	`
	var (
		req     model.ApprovalRequest
		reqType string
		state   string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &reqType, &state, &req.Payload, &req.EditedPayload, &req.RequesterID,
		&req.ApproverID, &req.RejectionReason, &req.CreatedAt, &req.ResolvedAt,
	)
	if err != nil {
		return nil, notFound(err, "approval request", id)
	}

	if req.Type, err = valueobject.ParseRequestType(reqType); err != nil {
		return nil, fmt.Errorf("scan approval request %s: %w", id, err)
	}
	if req.State, err = valueobject.NewApprovalState(state); err != nil {
		return nil, fmt.Errorf("scan approval request %s: %w", id, err)
	}
	return &req, nil
}
