package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// GetLoanUseCase reads a loan together with its installment schedule.
type GetLoanUseCase struct {
	uow port.UnitOfWork
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(uow port.UnitOfWork) *GetLoanUseCase {
	return &GetLoanUseCase{uow: uow}
}

// Execute returns the loan view, schedule ordered by sequence.
func (uc *GetLoanUseCase) Execute(ctx context.Context, loanID uuid.UUID) (dto.LoanResponse, error) {
	repos := uc.uow.Repos()

	loan, err := repos.Loans().FindByID(ctx, loanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	if loan.Deleted() {
		return dto.LoanResponse{}, fmt.Errorf("%w: loan %s", valueobject.ErrNotFound, loanID)
	}

	installments, err := repos.Installments().ListByLoan(ctx, loan.ID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("list installments: %w", err)
	}

	resp := dto.LoanResponse{
		ID:                 loan.ID,
		ClientID:           loan.ClientID,
		Amount:             loan.Amount,
		InterestRate:       loan.InterestRate,
		State:              loan.State.String(),
		ApprovalState:      loan.ApprovalState.String(),
		TotalInterest:      loan.TotalInterest,
		TotalPaid:          loan.TotalPaid,
		OutstandingBalance: loan.OutstandingBalance,
	}
	for _, i := range installments {
		resp.Schedule = append(resp.Schedule, dto.InstallmentView{
			Sequence:        i.Sequence,
			DueDate:         i.EffectiveDueDate(),
			Amount:          i.Amount,
			CapitalPortion:  i.CapitalPortion,
			InterestPortion: i.InterestPortion,
			PaidAmount:      i.PaidAmount,
			State:           i.State.String(),
		})
	}
	return resp, nil
}
