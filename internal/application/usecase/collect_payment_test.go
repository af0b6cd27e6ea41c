package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/dto"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/usecase"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

func collectUC(f *fixture, notifier *mockNotifier, audit *mockAuditor, broadcast *mockBroadcaster) *usecase.CollectPaymentUseCase {
	return usecase.NewCollectPaymentUseCase(&memUow{store: f.store}, notifier, audit, broadcast, testLogger())
}

func TestCollectPayment_Execute(t *testing.T) {
	t.Run("full installment payment", func(t *testing.T) {
		f := newFixture(t)
		notifier := &mockNotifier{}
		audit := &mockAuditor{}
		broadcast := &mockBroadcaster{}
		uc := collectUC(f, notifier, audit, broadcast)

		resp, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID:      f.loan.ID,
			Amount:      decimal.NewFromInt(120),
			Method:      "CASH",
			CollectorID: f.collector,
		})
		require.NoError(t, err)

		assert.Equal(t, "PAY-000001", resp.PaymentNumber)
		assert.True(t, decimal.NewFromInt(240).Equal(resp.OutstandingBalance), "got %s", resp.OutstandingBalance)
		require.Len(t, resp.Allocations, 1)
		assert.Equal(t, "PAID", resp.Allocations[0].InstallmentState)

		// 120 at 20% decomposes into 100 capital and 20 interest.
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Capital), "got %s", resp.Capital)
		assert.True(t, decimal.NewFromInt(20).Equal(resp.Interest), "got %s", resp.Interest)

		box := f.store.cashBoxes[f.routeBox.ID]
		assert.True(t, decimal.NewFromInt(620).Equal(box.Balance), "got %s", box.Balance)

		require.Len(t, f.store.transactions, 1)
		trx := f.store.transactions[0]
		assert.Equal(t, "TRX-000001", trx.Code)
		assert.Equal(t, valueobject.DirectionIn, trx.Direction)
		assert.Equal(t, valueobject.RefPayment, trx.ReferenceType)

		assert.Equal(t, []string{"payment.collected"}, audit.actions)
		assert.Len(t, notifier.userNotices, 1)
		require.Len(t, broadcast.signals, 1)
		assert.Equal(t, "credito.payments", broadcast.signals[0].Topic)
	})

	t.Run("partial payment leaves installment partial", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		resp, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(50), CollectorID: f.collector,
		})
		require.NoError(t, err)

		require.Len(t, resp.Allocations, 1)
		assert.Equal(t, "PARTIAL", resp.Allocations[0].InstallmentState)

		installments := f.loanInstallments(t, f.loan.ID)
		assert.True(t, decimal.NewFromInt(50).Equal(installments[0].PaidAmount))
	})

	t.Run("payment spreads across installments oldest first", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		resp, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(150), CollectorID: f.collector,
		})
		require.NoError(t, err)

		require.Len(t, resp.Allocations, 2)
		assert.Equal(t, 1, resp.Allocations[0].Sequence)
		assert.Equal(t, "PAID", resp.Allocations[0].InstallmentState)
		assert.Equal(t, 2, resp.Allocations[1].Sequence)
		assert.Equal(t, "PARTIAL", resp.Allocations[1].InstallmentState)
		assert.True(t, decimal.NewFromInt(30).Equal(resp.Allocations[1].Applied))
	})

	t.Run("full payoff moves loan to PAID", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		resp, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(360), CollectorID: f.collector,
		})
		require.NoError(t, err)

		assert.Equal(t, "PAID", resp.LoanState)
		assert.True(t, decimal.Zero.Equal(resp.OutstandingBalance))
		for _, a := range resp.Allocations {
			assert.Equal(t, "PAID", a.InstallmentState)
		}
	})

	t.Run("rejects payment beyond the outstanding schedule", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		// 400 against 360 outstanding leaves 40 nothing can absorb.
		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(400), CollectorID: f.collector,
		})
		assert.ErrorIs(t, err, valueobject.ErrValidation)

		assert.Empty(t, f.store.payments)
		assert.Empty(t, f.store.transactions)
		box := f.store.cashBoxes[f.routeBox.ID]
		assert.True(t, f.routeBox.Balance.Equal(box.Balance), "box balance must be untouched")
		installments := f.loanInstallments(t, f.loan.ID)
		assert.True(t, installments[0].PaidAmount.IsZero())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.Zero, CollectorID: f.collector,
		})
		assert.ErrorIs(t, err, valueobject.ErrValidation)
	})

	t.Run("rejects payment on a draft loan", func(t *testing.T) {
		f := newFixture(t)
		draft := buildDraftLoan(t, f.store, f.client.ID)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: draft.ID, Amount: decimal.NewFromInt(50), CollectorID: f.collector,
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidState)
	})

	t.Run("rejects mismatched client", func(t *testing.T) {
		f := newFixture(t)
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, ClientID: uuid.New(), Amount: decimal.NewFromInt(50), CollectorID: f.collector,
		})
		assert.ErrorIs(t, err, valueobject.ErrValidation)
	})

	t.Run("rejects client without active route", func(t *testing.T) {
		f := newFixture(t)
		f.store.assignments = nil
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(50), CollectorID: f.collector,
		})
		assert.ErrorIs(t, err, valueobject.ErrValidation)
	})

	t.Run("rolls everything back when the loan update fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.failures["loans.update"] = fmt.Errorf("database unavailable")
		uc := collectUC(f, &mockNotifier{}, &mockAuditor{}, &mockBroadcaster{})

		_, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(120), CollectorID: f.collector,
		})
		require.Error(t, err)

		assert.Empty(t, f.store.payments)
		assert.Empty(t, f.store.transactions)
		box := f.store.cashBoxes[f.routeBox.ID]
		assert.True(t, f.routeBox.Balance.Equal(box.Balance), "box balance must be untouched")
		installments := f.loanInstallments(t, f.loan.ID)
		assert.True(t, installments[0].PaidAmount.IsZero())
	})

	t.Run("side effect failures never roll back the payment", func(t *testing.T) {
		f := newFixture(t)
		notifier := &mockNotifier{err: errors.New("notification service down")}
		broadcast := &mockBroadcaster{err: errors.New("kafka unavailable")}
		uc := collectUC(f, notifier, &mockAuditor{}, broadcast)

		resp, err := uc.Execute(context.Background(), dto.CollectPaymentRequest{
			LoanID: f.loan.ID, Amount: decimal.NewFromInt(120), CollectorID: f.collector,
		})
		require.NoError(t, err)

		assert.Len(t, f.store.payments, 1)
		undelivered := 0
		for _, e := range resp.SideEffects {
			if !e.Delivered {
				undelivered++
			}
		}
		assert.Equal(t, 2, undelivered)
	})
}
