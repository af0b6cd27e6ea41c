package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/model"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

var fixtureStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// fixture is one client on one route with an approved loan of 300 at 20%
// flat interest over 3 daily installments of 120 each.
type fixture struct {
	store     *memStore
	client    model.Client
	route     model.Route
	routeBox  model.CashBox
	principal model.CashBox
	loan      model.Loan
	collector uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()

	client := model.NewClient("Marta Diaz", "CC-1001", "3001234567", "Calle 10 #4-20")
	s.clients[client.ID] = *client

	collector := uuid.New()
	route := model.Route{ID: uuid.New(), Name: "Ruta Centro", CollectorID: collector, Active: true, CreatedAt: fixtureStart}
	s.routes[route.ID] = route
	s.assignments = append(s.assignments, model.RouteAssignment{
		ID: uuid.New(), ClientID: client.ID, RouteID: route.ID, Active: true, CreatedAt: fixtureStart,
	})

	routeBox := model.CashBox{
		ID: uuid.New(), Type: valueobject.CashBoxRoute, Name: "Caja Ruta Centro",
		Balance: decimal.NewFromInt(500), ResponsibleID: collector, RouteID: &route.ID,
		Active: true, CreatedAt: fixtureStart, UpdatedAt: fixtureStart,
	}
	s.cashBoxes[routeBox.ID] = routeBox

	principal := model.CashBox{
		ID: uuid.New(), Type: valueobject.CashBoxPrincipal, Name: "Caja Principal",
		Balance: decimal.NewFromInt(1000), ResponsibleID: uuid.New(),
		Active: true, CreatedAt: fixtureStart, UpdatedAt: fixtureStart,
	}
	s.cashBoxes[principal.ID] = principal

	loan := buildActiveLoan(t, s, client.ID)

	return &fixture{
		store:     s,
		client:    *client,
		route:     route,
		routeBox:  routeBox,
		principal: principal,
		loan:      loan,
		collector: collector,
	}
}

func fixtureTerms() model.LoanTerms {
	return model.LoanTerms{
		Principal:    decimal.NewFromInt(300),
		InterestRate: decimal.NewFromInt(20),
		Installments: 3,
		Frequency:    valueobject.FrequencyDaily,
		Amortization: valueobject.AmortizationSimple,
		StartDate:    fixtureStart,
	}
}

func buildActiveLoan(t *testing.T, s *memStore, clientID uuid.UUID) model.Loan {
	t.Helper()
	loan := buildDraftLoan(t, s, clientID)
	require.NoError(t, loan.Activate(fixtureStart))
	s.loans[loan.ID] = loan
	return loan
}

func buildDraftLoan(t *testing.T, s *memStore, clientID uuid.UUID) model.Loan {
	t.Helper()
	terms := fixtureTerms()
	loan := model.NewDraftLoan(clientID, terms)
	schedule, err := model.GenerateSchedule(loan.ID, terms)
	require.NoError(t, err)
	loan.AttachSchedule(model.TotalInterest(schedule), fixtureStart)

	s.loans[loan.ID] = *loan
	for _, inst := range schedule {
		s.installments[inst.ID] = inst
	}
	return *loan
}

func (f *fixture) loanInstallments(t *testing.T, loanID uuid.UUID) []model.Installment {
	t.Helper()
	ptrs, err := (installmentRepo{f.store}).ListByLoan(context.Background(), loanID)
	require.NoError(t, err)
	out := make([]model.Installment, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}
