package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/sideeffect"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/event"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
)

// RejectRequestUseCase resolves a PENDING request as REJECTED. A rejected
// NEW_LOAN request soft-deletes its draft loan so it disappears from active
// listings together with its schedule.
type RejectRequestUseCase struct {
	uow       port.UnitOfWork
	notifier  port.NotificationPort
	broadcast port.BroadcastPort
	logger    *slog.Logger
}

// NewRejectRequestUseCase wires dependencies.
func NewRejectRequestUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationPort,
	broadcast port.BroadcastPort,
	logger *slog.Logger,
) *RejectRequestUseCase {
	return &RejectRequestUseCase{
		uow:       uow,
		notifier:  notifier,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Execute rejects a request. The state change commits atomically; the
// requester notification runs afterwards, best-effort.
func (uc *RejectRequestUseCase) Execute(ctx context.Context, in dto.RejectRequestInput) (dto.ApprovalOutcome, error) {
	var (
		req          *model.ApprovalRequest
		rejectedLoan *model.Loan
	)

	err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
		var err error
		req, err = repos.ApprovalRequests().FindByIDForUpdate(ctx, in.RequestID)
		if err != nil {
			return fmt.Errorf("find approval request: %w", err)
		}

		now := time.Now().UTC()
		if err := req.Reject(in.ApproverID, in.Reason, now); err != nil {
			return err
		}

		payload, err := req.DecodePayload()
		if err != nil {
			return err
		}
		if p, ok := payload.(model.NewLoanPayload); ok {
			rejectedLoan, err = repos.Loans().FindByIDForUpdate(ctx, p.LoanID)
			if err != nil {
				return fmt.Errorf("find draft loan: %w", err)
			}
			rejectedLoan.SoftDelete(now)
			if err := repos.Loans().Update(ctx, rejectedLoan); err != nil {
				return fmt.Errorf("soft-delete draft loan: %w", err)
			}
		}

		return repos.ApprovalRequests().Update(ctx, req)
	})
	if err != nil {
		return dto.ApprovalOutcome{}, err
	}

	effects := uc.runSideEffects(ctx, req, rejectedLoan, in.Reason)
	return dto.ApprovalOutcome{
		RequestID:   req.ID,
		RequestType: string(req.Type),
		State:       req.State.String(),
		SideEffects: effects,
	}, nil
}

func (uc *RejectRequestUseCase) runSideEffects(ctx context.Context, req *model.ApprovalRequest, loan *model.Loan, reason string) []sideeffect.Result {
	results := []sideeffect.Result{
		sideeffect.Attempt("notify_requester", func() error {
			return uc.notifier.NotifyUser(ctx, req.RequesterID, port.Notice{
				Title:    "Request rejected",
				Message:  fmt.Sprintf("Your %s request was rejected by %s: %s", req.Type, approverOf(req), reason),
				Severity: port.SeverityWarning,
				Entity:   port.EntityRef{Type: "ApprovalRequest", ID: req.ID},
				Metadata: map[string]string{"reviewer": approverOf(req).String()},
			})
		}),
	}
	if loan != nil {
		results = append(results, sideeffect.Attempt("broadcast", func() error {
			return uc.broadcast.Signal(ctx, "credito.approvals", event.NewLoanRejected(loan.ID.String(), reason))
		}))
	}

	for _, r := range results {
		if !r.Delivered {
			uc.logger.Warn("rejection side effect failed", "effect", r.Name, "request", req.ID, "error", r.Err)
		}
	}
	return results
}
