package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/sideeffect"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/event"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/service"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// ApproveRequestUseCase resolves a PENDING request by dispatching on its
// payload type and committing the domain changes plus any ledger movements
// in one transaction. APPROVED is terminal.
type ApproveRequestUseCase struct {
	uow       port.UnitOfWork
	ledger    service.CashLedger
	notifier  port.NotificationPort
	broadcast port.BroadcastPort
	logger    *slog.Logger
}

// NewApproveRequestUseCase wires dependencies.
func NewApproveRequestUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationPort,
	broadcast port.BroadcastPort,
	logger *slog.Logger,
) *ApproveRequestUseCase {
	return &ApproveRequestUseCase{
		uow:       uow,
		notifier:  notifier,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Execute approves a request. Domain mutations and cash movements commit
// atomically; requester notification and dashboard broadcast run after the
// commit, best-effort.
func (uc *ApproveRequestUseCase) Execute(ctx context.Context, in dto.ApproveRequestInput) (dto.ApprovalOutcome, error) {
	var (
		req    *model.ApprovalRequest
		events []event.DomainEvent
	)

	err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
		var err error
		req, err = repos.ApprovalRequests().FindByIDForUpdate(ctx, in.RequestID)
		if err != nil {
			return fmt.Errorf("find approval request: %w", err)
		}
		if len(in.EditedPayload) > 0 {
			req.EditedPayload = in.EditedPayload
		}

		now := time.Now().UTC()
		if err := req.Approve(in.ApproverID, now); err != nil {
			return err
		}

		payload, err := req.DecodePayload()
		if err != nil {
			return err
		}

		// Closed dispatch: one handler per payload variant.
		switch p := payload.(type) {
		case model.NewClientPayload:
			err = uc.approveNewClient(ctx, repos, p)
		case model.NewLoanPayload:
			events, err = uc.approveNewLoan(ctx, repos, req, p, now)
		case model.ExpensePayload:
			err = uc.approveExpense(ctx, repos, req, p, now)
		case model.CashBasePayload:
			events, err = uc.approveCashBase(ctx, repos, req, p)
		case model.PaymentExtensionPayload:
			err = uc.approvePaymentExtension(ctx, repos, req, p, now)
		}
		if err != nil {
			return err
		}

		return repos.ApprovalRequests().Update(ctx, req)
	})
	if err != nil {
		return dto.ApprovalOutcome{}, err
	}

	effects := uc.resolvedSideEffects(ctx, req, events, "approved")
	return dto.ApprovalOutcome{
		RequestID:   req.ID,
		RequestType: string(req.Type),
		State:       req.State.String(),
		SideEffects: effects,
	}, nil
}

func (uc *ApproveRequestUseCase) approveNewClient(ctx context.Context, repos port.Repositories, p model.NewClientPayload) error {
	client := model.NewClient(p.Name, p.Document, p.Phone, p.Address)
	if err := repos.Clients().Create(ctx, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// approveNewLoan activates the draft loan. An approver edit regenerates the
// schedule from the edited terms before activation. The disbursement is
// skipped (not failed) when the client's route has no cash box.
func (uc *ApproveRequestUseCase) approveNewLoan(ctx context.Context, repos port.Repositories, req *model.ApprovalRequest, p model.NewLoanPayload, now time.Time) ([]event.DomainEvent, error) {
	loan, err := repos.Loans().FindByIDForUpdate(ctx, p.LoanID)
	if err != nil {
		return nil, fmt.Errorf("find draft loan: %w", err)
	}

	if p.Terms != nil {
		terms, err := p.Terms.Terms()
		if err != nil {
			return nil, err
		}
		schedule, err := model.GenerateSchedule(loan.ID, terms)
		if err != nil {
			return nil, err
		}
		if err := repos.Installments().DeleteByLoan(ctx, loan.ID); err != nil {
			return nil, fmt.Errorf("discard previous schedule: %w", err)
		}
		if err := repos.Installments().CreateBatch(ctx, schedule); err != nil {
			return nil, fmt.Errorf("recreate schedule: %w", err)
		}
		loan.ApplyTerms(terms, model.TotalInterest(schedule), now)
	}

	if err := loan.Activate(now); err != nil {
		return nil, err
	}
	if err := repos.Loans().Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}

	// Disbursement: draw the principal from the route box when one exists.
	route, err := repos.Routes().ActiveRouteForClient(ctx, loan.ClientID)
	if err == nil {
		var box *model.CashBox
		if box, err = repos.CashBoxes().FindActiveRouteBox(ctx, route.ID); err == nil {
			if _, err = uc.ledger.Move(ctx, repos, box.ID, valueobject.DirectionOut, loan.Amount,
				valueobject.RefDisbursement, loan.ID, approverOf(req),
				fmt.Sprintf("disbursement for loan %s", loan.ID)); err != nil {
				return nil, err
			}
		}
	}
	if err != nil {
		uc.logger.Warn("disbursement skipped, no active route cash box", "loan", loan.ID, "error", err)
	}

	return []event.DomainEvent{
		event.NewLoanActivated(loan.ID.String(), loan.ClientID.String(), loan.Amount),
	}, nil
}

func (uc *ApproveRequestUseCase) approveExpense(ctx context.Context, repos port.Repositories, req *model.ApprovalRequest, p model.ExpensePayload, now time.Time) error {
	expense := &model.Expense{
		ID:          uuid.New(),
		CashBoxID:   p.CashBoxID,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		RequestedBy: req.RequesterID,
		ApprovedBy:  approverOf(req),
		CreatedAt:   now,
	}
	if err := repos.Expenses().Create(ctx, expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	_, err := uc.ledger.Move(ctx, repos, p.CashBoxID, valueobject.DirectionOut, p.Amount,
		valueobject.RefExpense, expense.ID, approverOf(req), p.Description)
	return err
}

// approveCashBase moves operating cash from the principal box to a route
// box. Both balance mutations ride the same transaction: they commit
// together or not at all.
func (uc *ApproveRequestUseCase) approveCashBase(ctx context.Context, repos port.Repositories, req *model.ApprovalRequest, p model.CashBasePayload) ([]event.DomainEvent, error) {
	principal, err := repos.CashBoxes().FindActivePrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: no active principal cash box", valueobject.ErrNotFound)
	}
	if principal.Balance.LessThan(p.Amount) {
		return nil, fmt.Errorf("%w: principal box holds %s, transfer needs %s",
			valueobject.ErrInsufficientFunds, principal.Balance, p.Amount)
	}

	if _, err := uc.ledger.Move(ctx, repos, principal.ID, valueobject.DirectionOut, p.Amount,
		valueobject.RefCashBase, req.ID, approverOf(req), "cash base transfer out"); err != nil {
		return nil, err
	}
	if _, err := uc.ledger.Move(ctx, repos, p.DestinationBoxID, valueobject.DirectionIn, p.Amount,
		valueobject.RefCashBase, req.ID, approverOf(req), "cash base transfer in"); err != nil {
		return nil, err
	}

	return []event.DomainEvent{
		event.NewCashTransferred(req.ID.String(), principal.ID.String(), p.DestinationBoxID.String(), p.Amount),
	}, nil
}

func (uc *ApproveRequestUseCase) approvePaymentExtension(ctx context.Context, repos port.Repositories, req *model.ApprovalRequest, p model.PaymentExtensionPayload, now time.Time) error {
	inst, err := repos.Installments().FindByID(ctx, p.InstallmentID)
	if err != nil {
		return fmt.Errorf("find installment: %w", err)
	}

	ext := &model.Extension{
		ID:            uuid.New(),
		InstallmentID: inst.ID,
		LoanID:        inst.LoanID,
		OldDueDate:    inst.EffectiveDueDate(),
		NewDueDate:    p.NewDueDate,
		Reason:        p.Reason,
		ApprovedBy:    approverOf(req),
		CreatedAt:     now,
	}
	if err := repos.Extensions().Create(ctx, ext); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}

	inst.Reschedule(ext.ID, p.NewDueDate, now)
	if err := repos.Installments().Update(ctx, inst); err != nil {
		return fmt.Errorf("update installment: %w", err)
	}
	return nil
}

func (uc *ApproveRequestUseCase) resolvedSideEffects(ctx context.Context, req *model.ApprovalRequest, events []event.DomainEvent, verb string) []sideeffect.Result {
	results := []sideeffect.Result{
		sideeffect.Attempt("notify_requester", func() error {
			return uc.notifier.NotifyUser(ctx, req.RequesterID, port.Notice{
				Title:    fmt.Sprintf("Request %s", verb),
				Message:  fmt.Sprintf("Your %s request was %s", req.Type, verb),
				Severity: port.SeverityInfo,
				Entity:   port.EntityRef{Type: "ApprovalRequest", ID: req.ID},
			})
		}),
	}
	for _, evt := range events {
		evt := evt
		results = append(results, sideeffect.Attempt("broadcast", func() error {
			return uc.broadcast.Signal(ctx, "credito.approvals", evt)
		}))
	}

	for _, r := range results {
		if !r.Delivered {
			uc.logger.Warn("approval side effect failed", "effect", r.Name, "request", req.ID, "error", r.Err)
		}
	}
	return results
}

func approverOf(req *model.ApprovalRequest) uuid.UUID {
	if req.ApproverID != nil {
		return *req.ApproverID
	}
	return uuid.Nil
}
