package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// PaymentCollected is raised after a payment commits.
type PaymentCollected struct {
	events.BaseEvent
	PaymentNumber      string          `json:"payment_number"`
	LoanID             string          `json:"loan_id"`
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentCollected(paymentID, paymentNumber, loanID string, amount, outstanding decimal.Decimal) PaymentCollected {
	return PaymentCollected{
		BaseEvent:          events.NewBaseEvent("credito.payment.collected", paymentID, "Payment"),
		PaymentNumber:      paymentNumber,
		LoanID:             loanID,
		Amount:             amount,
		OutstandingBalance: outstanding,
	}
}

// LoanActivated is raised when an approval turns a draft loan active.
type LoanActivated struct {
	events.BaseEvent
	ClientID  string          `json:"client_id"`
	Principal decimal.Decimal `json:"principal"`
}

func NewLoanActivated(loanID, clientID string, principal decimal.Decimal) LoanActivated {
	return LoanActivated{
		BaseEvent: events.NewBaseEvent("credito.loan.activated", loanID, "Loan"),
		ClientID:  clientID,
		Principal: principal,
	}
}

// LoanRejected is raised when a NEW_LOAN request is rejected.
type LoanRejected struct {
	events.BaseEvent
	Reason string `json:"reason"`
}

func NewLoanRejected(loanID, reason string) LoanRejected {
	return LoanRejected{
		BaseEvent: events.NewBaseEvent("credito.loan.rejected", loanID, "Loan"),
		Reason:    reason,
	}
}

// CashTransferred is raised after a cash-base transfer commits.
type CashTransferred struct {
	events.BaseEvent
	SourceBoxID      string          `json:"source_box_id"`
	DestinationBoxID string          `json:"destination_box_id"`
	Amount           decimal.Decimal `json:"amount"`
}

func NewCashTransferred(requestID, sourceBoxID, destinationBoxID string, amount decimal.Decimal) CashTransferred {
	return CashTransferred{
		BaseEvent:        events.NewBaseEvent("credito.cash.transferred", requestID, "ApprovalRequest"),
		SourceBoxID:      sourceBoxID,
		DestinationBoxID: destinationBoxID,
		Amount:           amount,
	}
}

// ClientRiskEscalated is raised when a client's delinquency grade climbs.
type ClientRiskEscalated struct {
	events.BaseEvent
	Label    string `json:"label"`
	Level    string `json:"level"`
	DaysLate int    `json:"days_late"`
}

func NewClientRiskEscalated(clientID, label, level string, daysLate int) ClientRiskEscalated {
	return ClientRiskEscalated{
		BaseEvent: events.NewBaseEvent("credito.client.risk_escalated", clientID, "Client"),
		Label:     label,
		Level:     level,
		DaysLate:  daysLate,
	}
}

// SweepCompleted is raised after every delinquency sweep.
type SweepCompleted struct {
	events.BaseEvent
	AsOf              time.Time `json:"as_of"`
	OverdueMarked     int       `json:"overdue_marked"`
	LoansIntoArrears  int       `json:"loans_into_arrears"`
	LoansCleared      int       `json:"loans_cleared"`
	ClientsRegraded   int       `json:"clients_regraded"`
	EscalationsNotified int     `json:"escalations_notified"`
}

func NewSweepCompleted(sweepID string, asOf time.Time, overdue, intoArrears, cleared, regraded, notified int) SweepCompleted {
	return SweepCompleted{
		BaseEvent:           events.NewBaseEvent("credito.mora.sweep_completed", sweepID, "Sweep"),
		AsOf:                asOf,
		OverdueMarked:       overdue,
		LoansIntoArrears:    intoArrears,
		LoansCleared:        cleared,
		ClientsRegraded:     regraded,
		EscalationsNotified: notified,
	}
}
