package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/application/usecase"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

func TestGetLoan_Execute(t *testing.T) {
	t.Run("returns the loan with its schedule in order", func(t *testing.T) {
		f := newFixture(t)
		uc := usecase.NewGetLoanUseCase(&memUow{store: f.store})

		resp, err := uc.Execute(context.Background(), f.loan.ID)
		require.NoError(t, err)

		assert.Equal(t, f.client.ID, resp.ClientID)
		assert.Equal(t, "ACTIVE", resp.State)
		assert.Equal(t, "APPROVED", resp.ApprovalState)
		assert.True(t, decimal.NewFromInt(360).Equal(resp.OutstandingBalance), "got %s", resp.OutstandingBalance)

		require.Len(t, resp.Schedule, 3)
		for i, row := range resp.Schedule {
			assert.Equal(t, i+1, row.Sequence)
			assert.Equal(t, fixtureStart.AddDate(0, 0, i+1), row.DueDate)
		}
	})

	t.Run("reports the rescheduled due date", func(t *testing.T) {
		f := newFixture(t)
		uc := usecase.NewGetLoanUseCase(&memUow{store: f.store})

		installments := f.loanInstallments(t, f.loan.ID)
		target := installments[0]
		newDue := target.DueDate.AddDate(0, 0, 5)
		target.Reschedule(uuid.New(), newDue, time.Now().UTC())
		f.store.installments[target.ID] = target

		resp, err := uc.Execute(context.Background(), f.loan.ID)
		require.NoError(t, err)
		assert.True(t, newDue.Equal(resp.Schedule[0].DueDate))
	})

	t.Run("soft-deleted loans read as missing", func(t *testing.T) {
		f := newFixture(t)
		uc := usecase.NewGetLoanUseCase(&memUow{store: f.store})

		loan := f.store.loans[f.loan.ID]
		loan.SoftDelete(time.Now().UTC())
		f.store.loans[f.loan.ID] = loan

		_, err := uc.Execute(context.Background(), f.loan.ID)
		assert.ErrorIs(t, err, valueobject.ErrNotFound)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture(t)
		uc := usecase.NewGetLoanUseCase(&memUow{store: f.store})

		_, err := uc.Execute(context.Background(), uuid.New())
		assert.ErrorIs(t, err, valueobject.ErrNotFound)
	})
}
