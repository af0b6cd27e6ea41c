package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// SubmitRequestUseCase files approval requests. Requests stay PENDING until
// a reviewer resolves them through the approval workflow.
type SubmitRequestUseCase struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewSubmitRequestUseCase wires dependencies.
func NewSubmitRequestUseCase(uow port.UnitOfWork, logger *slog.Logger) *SubmitRequestUseCase {
	return &SubmitRequestUseCase{uow: uow, logger: logger}
}

// Submit files a request wrapping the given payload.
func (uc *SubmitRequestUseCase) Submit(ctx context.Context, payload model.ApprovalPayload, requesterID uuid.UUID) (*model.ApprovalRequest, error) {
	req, err := model.NewApprovalRequest(payload, requesterID)
	if err != nil {
		return nil, err
	}

	err = uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
		return repos.ApprovalRequests().Create(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("create approval request: %w", err)
	}

	uc.logger.Info("approval request filed", "request", req.ID, "type", req.Type)
	return req, nil
}

// SubmitNewLoan creates a DRAFT loan with its installment schedule and files
// the NEW_LOAN request pointing at it. The loan only becomes active (and
// cash only moves) when the request is approved.
func (uc *SubmitRequestUseCase) SubmitNewLoan(ctx context.Context, clientID uuid.UUID, termsPayload model.LoanTermsPayload, requesterID uuid.UUID) (*model.ApprovalRequest, error) {
	terms, err := termsPayload.Terms()
	if err != nil {
		return nil, err
	}

	var req *model.ApprovalRequest
	err = uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
		client, err := repos.Clients().FindByID(ctx, clientID)
		if err != nil {
			return fmt.Errorf("find client: %w", err)
		}
		if client.Deleted() {
			return fmt.Errorf("%w: client %s", valueobject.ErrNotFound, clientID)
		}

		now := time.Now().UTC()
		loan := model.NewDraftLoan(client.ID, terms)
		schedule, err := model.GenerateSchedule(loan.ID, terms)
		if err != nil {
			return err
		}
		loan.AttachSchedule(model.TotalInterest(schedule), now)

		if err := repos.Loans().Create(ctx, loan); err != nil {
			return fmt.Errorf("create draft loan: %w", err)
		}
		if err := repos.Installments().CreateBatch(ctx, schedule); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}

		req, err = model.NewApprovalRequest(model.NewLoanPayload{LoanID: loan.ID}, requesterID)
		if err != nil {
			return err
		}
		return repos.ApprovalRequests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("loan request filed", "request", req.ID)
	return req, nil
}
