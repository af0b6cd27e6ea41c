package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

var scheduleStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

func terms(principal, rate int64, n int, freq valueobject.PaymentFrequency, amort valueobject.AmortizationType) model.LoanTerms {
	return model.LoanTerms{
		Principal:    decimal.NewFromInt(principal),
		InterestRate: decimal.NewFromInt(rate),
		Installments: n,
		Frequency:    freq,
		Amortization: amort,
		StartDate:    scheduleStart,
	}
}

func TestGenerateSchedule_Simple(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(300, 20, 3, valueobject.FrequencyDaily, valueobject.AmortizationSimple))
		require.NoError(t, err)
		require.Len(t, schedule, 3)

		for i, inst := range schedule {
			assert.Equal(t, i+1, inst.Sequence)
			assert.True(t, decimal.NewFromInt(100).Equal(inst.CapitalPortion), "got %s", inst.CapitalPortion)
			assert.True(t, decimal.NewFromInt(20).Equal(inst.InterestPortion), "got %s", inst.InterestPortion)
			assert.True(t, decimal.NewFromInt(120).Equal(inst.Amount))
			assert.Equal(t, "PENDING", inst.State.String())
		}
		assert.True(t, decimal.NewFromInt(60).Equal(model.TotalInterest(schedule)))
	})

	t.Run("last installment absorbs rounding residuals", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(1_000_000, 20, 24, valueobject.FrequencyDaily, valueobject.AmortizationSimple))
		require.NoError(t, err)
		require.Len(t, schedule, 24)

		share := decimal.NewFromFloat(41666.67)
		for _, inst := range schedule[:23] {
			assert.True(t, share.Equal(inst.CapitalPortion), "got %s", inst.CapitalPortion)
		}
		assert.True(t, decimal.NewFromFloat(41666.59).Equal(schedule[23].CapitalPortion), "got %s", schedule[23].CapitalPortion)

		// Portions must reconstruct principal and total interest exactly.
		capitalSum, interestSum := decimal.Zero, decimal.Zero
		for _, inst := range schedule {
			capitalSum = capitalSum.Add(inst.CapitalPortion)
			interestSum = interestSum.Add(inst.InterestPortion)
		}
		assert.True(t, decimal.NewFromInt(1_000_000).Equal(capitalSum), "got %s", capitalSum)
		assert.True(t, decimal.NewFromInt(200_000).Equal(interestSum), "got %s", interestSum)
	})

	t.Run("zero rate is all capital", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(900, 0, 3, valueobject.FrequencyWeekly, valueobject.AmortizationSimple))
		require.NoError(t, err)

		for _, inst := range schedule {
			assert.True(t, inst.InterestPortion.IsZero())
			assert.True(t, decimal.NewFromInt(300).Equal(inst.CapitalPortion))
		}
	})
}

func TestGenerateSchedule_French(t *testing.T) {
	t.Run("capital portions repay the full principal", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(1200, 10, 12, valueobject.FrequencyMonthly, valueobject.AmortizationFrench))
		require.NoError(t, err)
		require.Len(t, schedule, 12)

		capitalSum := decimal.Zero
		for _, inst := range schedule {
			capitalSum = capitalSum.Add(inst.CapitalPortion)
			assert.True(t, inst.InterestPortion.IsPositive())
		}
		assert.True(t, decimal.NewFromInt(1200).Equal(capitalSum), "got %s", capitalSum)
	})

	t.Run("interest declines as the balance amortizes", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(10_000, 5, 6, valueobject.FrequencyMonthly, valueobject.AmortizationFrench))
		require.NoError(t, err)

		for i := 1; i < len(schedule); i++ {
			assert.True(t, schedule[i].InterestPortion.LessThan(schedule[i-1].InterestPortion),
				"installment %d interest %s not below %s", i+1, schedule[i].InterestPortion, schedule[i-1].InterestPortion)
		}
	})

	t.Run("sub-monthly frequency divides the monthly rate", func(t *testing.T) {
		monthly, err := model.GenerateSchedule(uuid.New(), terms(10_000, 6, 4, valueobject.FrequencyMonthly, valueobject.AmortizationFrench))
		require.NoError(t, err)
		weekly, err := model.GenerateSchedule(uuid.New(), terms(10_000, 6, 4, valueobject.FrequencyWeekly, valueobject.AmortizationFrench))
		require.NoError(t, err)

		assert.True(t, weekly[0].InterestPortion.LessThan(monthly[0].InterestPortion))
	})

	t.Run("zero rate falls back to an even split", func(t *testing.T) {
		schedule, err := model.GenerateSchedule(uuid.New(), terms(400, 0, 4, valueobject.FrequencyMonthly, valueobject.AmortizationFrench))
		require.NoError(t, err)

		for _, inst := range schedule {
			assert.True(t, decimal.NewFromInt(100).Equal(inst.CapitalPortion))
			assert.True(t, inst.InterestPortion.IsZero())
		}
	})
}

func TestGenerateSchedule_Validation(t *testing.T) {
	tests := []struct {
		name  string
		terms model.LoanTerms
	}{
		{"zero principal", terms(0, 20, 3, valueobject.FrequencyDaily, valueobject.AmortizationSimple)},
		{"zero installments", terms(300, 20, 0, valueobject.FrequencyDaily, valueobject.AmortizationSimple)},
		{"negative rate", terms(300, -1, 3, valueobject.FrequencyDaily, valueobject.AmortizationSimple)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.GenerateSchedule(uuid.New(), tt.terms)
			assert.ErrorIs(t, err, valueobject.ErrValidation)
		})
	}
}

func TestGenerateSchedule_DueDates(t *testing.T) {
	tests := []struct {
		freq   valueobject.PaymentFrequency
		second time.Time
	}{
		{valueobject.FrequencyDaily, scheduleStart.AddDate(0, 0, 2)},
		{valueobject.FrequencyWeekly, scheduleStart.AddDate(0, 0, 14)},
		{valueobject.FrequencyBiweekly, scheduleStart.AddDate(0, 0, 30)},
		{valueobject.FrequencyMonthly, scheduleStart.AddDate(0, 2, 0)},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			schedule, err := model.GenerateSchedule(uuid.New(), terms(300, 20, 3, tt.freq, valueobject.AmortizationSimple))
			require.NoError(t, err)
			assert.Equal(t, tt.second, schedule[1].DueDate)
		})
	}
}
