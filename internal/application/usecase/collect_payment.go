package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/sideeffect"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/event"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/service"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// CollectPaymentUseCase allocates one collection event across a loan's
// outstanding installments, updates the loan aggregates and credits the
// route cash box, all inside a single transaction.
type CollectPaymentUseCase struct {
	uow       port.UnitOfWork
	ledger    service.CashLedger
	notifier  port.NotificationPort
	audit     port.AuditPort
	broadcast port.BroadcastPort
	logger    *slog.Logger
}

// NewCollectPaymentUseCase wires dependencies.
func NewCollectPaymentUseCase(
	uow port.UnitOfWork,
	notifier port.NotificationPort,
	audit port.AuditPort,
	broadcast port.BroadcastPort,
	logger *slog.Logger,
) *CollectPaymentUseCase {
	return &CollectPaymentUseCase{
		uow:       uow,
		notifier:  notifier,
		audit:     audit,
		broadcast: broadcast,
		logger:    logger,
	}
}

// Execute collects a payment. The financial mutation commits atomically;
// notifications, audit and broadcast run afterwards and report their
// outcome without ever rolling the payment back.
func (uc *CollectPaymentUseCase) Execute(ctx context.Context, req dto.CollectPaymentRequest) (dto.CollectPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return dto.CollectPaymentResponse{}, fmt.Errorf("%w: payment amount must be positive, got %s",
			valueobject.ErrValidation, req.Amount)
	}

	collectedAt := req.ReferenceDate
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}

	var (
		payment *model.Payment
		loan    *model.Loan
		allocs  []service.Allocation
	)

	err := uc.uow.WithTransaction(ctx, func(ctx context.Context, repos port.Repositories) error {
		var err error
		loan, err = repos.Loans().FindByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}
		if loan.Deleted() {
			return fmt.Errorf("%w: loan %s", valueobject.ErrNotFound, req.LoanID)
		}
		if !loan.State.Payable() {
			return fmt.Errorf("%w: loan %s is %s, payments need ACTIVE or IN_ARREARS",
				valueobject.ErrInvalidState, loan.ID, loan.State)
		}
		if req.ClientID != uuid.Nil && req.ClientID != loan.ClientID {
			return fmt.Errorf("%w: client %s does not own loan %s", valueobject.ErrValidation, req.ClientID, loan.ID)
		}

		// The client must have exactly one active route whose box receives
		// the cash. No fallback box is ever created.
		route, err := repos.Routes().ActiveRouteForClient(ctx, loan.ClientID)
		if err != nil {
			return fmt.Errorf("%w: client %s has no active route assignment", valueobject.ErrValidation, loan.ClientID)
		}
		box, err := repos.CashBoxes().FindActiveRouteBox(ctx, route.ID)
		if err != nil {
			return fmt.Errorf("%w: route %s has no active cash box", valueobject.ErrValidation, route.ID)
		}

		installments, err := repos.Installments().ListOutstandingByLoanForUpdate(ctx, loan.ID)
		if err != nil {
			return fmt.Errorf("list outstanding installments: %w", err)
		}

		// Anything the schedule cannot absorb rejects the whole payment.
		var surplus decimal.Decimal
		allocs, surplus = service.AllocateFIFO(installments, req.Amount, loan.InterestRate, collectedAt)
		if surplus.IsPositive() {
			return fmt.Errorf("%w: payment %s exceeds the outstanding schedule of loan %s by %s",
				valueobject.ErrValidation, req.Amount, loan.ID, surplus)
		}
		for _, a := range allocs {
			if err := repos.Installments().Update(ctx, a.Installment); err != nil {
				return fmt.Errorf("update installment %d: %w", a.Installment.Sequence, err)
			}
		}

		seq, err := repos.Payments().NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("reserve payment number: %w", err)
		}

		split := service.Decompose(req.Amount, loan.InterestRate)
		payment = &model.Payment{
			ID:             uuid.New(),
			Number:         model.FormatPaymentNumber(seq),
			LoanID:         loan.ID,
			ClientID:       loan.ClientID,
			TotalAmount:    req.Amount,
			CapitalAmount:  split.Capital,
			InterestAmount: split.Interest,
			Method:         req.Method,
			CollectorID:    req.CollectorID,
			CollectedAt:    collectedAt,
			CreatedAt:      time.Now().UTC(),
		}
		for _, a := range allocs {
			payment.Details = append(payment.Details, model.PaymentDetail{
				ID:              uuid.New(),
				PaymentID:       payment.ID,
				InstallmentID:   a.Installment.ID,
				Amount:          a.Applied,
				CapitalPortion:  a.Split.Capital,
				InterestPortion: a.Split.Interest,
			})
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		loan.ApplyPayment(req.Amount, split.Capital, split.Interest, collectedAt)
		if err := repos.Loans().Update(ctx, loan); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		if _, err := uc.ledger.Move(ctx, repos, box.ID, valueobject.DirectionIn, req.Amount,
			valueobject.RefPayment, payment.ID, req.CollectorID,
			fmt.Sprintf("payment %s on loan %s", payment.Number, loan.ID)); err != nil {
			return fmt.Errorf("credit route cash box: %w", err)
		}

		return nil
	})
	if err != nil {
		return dto.CollectPaymentResponse{}, err
	}

	effects := uc.runSideEffects(ctx, payment, loan)

	resp := dto.CollectPaymentResponse{
		PaymentID:          payment.ID,
		PaymentNumber:      payment.Number,
		LoanID:             loan.ID,
		Amount:             payment.TotalAmount,
		Capital:            payment.CapitalAmount,
		Interest:           payment.InterestAmount,
		LoanState:          loan.State.String(),
		OutstandingBalance: loan.OutstandingBalance,
		SideEffects:        effects,
	}
	for _, a := range allocs {
		resp.Allocations = append(resp.Allocations, dto.AllocationResponse{
			InstallmentID:    a.Installment.ID,
			Sequence:         a.Installment.Sequence,
			Applied:          a.Applied,
			Capital:          a.Split.Capital,
			Interest:         a.Split.Interest,
			InstallmentState: a.Installment.State.String(),
		})
	}
	return resp, nil
}

func (uc *CollectPaymentUseCase) runSideEffects(ctx context.Context, payment *model.Payment, loan *model.Loan) []sideeffect.Result {
	entity := port.EntityRef{Type: "Payment", ID: payment.ID}

	results := []sideeffect.Result{
		sideeffect.Attempt("audit", func() error {
			return uc.audit.Record(ctx, payment.CollectorID, "payment.collected", entity, nil, payment)
		}),
		sideeffect.Attempt("notify_collector", func() error {
			return uc.notifier.NotifyUser(ctx, payment.CollectorID, port.Notice{
				Title:    "Payment registered",
				Message:  fmt.Sprintf("Payment %s of %s applied to loan %s", payment.Number, payment.TotalAmount, loan.ID),
				Severity: port.SeverityInfo,
				Entity:   entity,
			})
		}),
		sideeffect.Attempt("broadcast", func() error {
			return uc.broadcast.Signal(ctx, "credito.payments",
				event.NewPaymentCollected(payment.ID.String(), payment.Number, loan.ID.String(),
					payment.TotalAmount, loan.OutstandingBalance))
		}),
	}

	for _, r := range results {
		if !r.Delivered {
			uc.logger.Warn("payment side effect failed", "effect", r.Name, "payment", payment.Number, "error", r.Err)
		}
	}
	return results
}
