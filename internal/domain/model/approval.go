package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// ApprovalPayload is the closed set of request payloads the approval
// workflow dispatches on. Each request type has exactly one payload type;
// the sealed marker keeps the set closed so the dispatcher's type switch
// stays exhaustive.
type ApprovalPayload interface {
	RequestType() valueobject.RequestType
	sealedPayload()
}

// NewClientPayload carries the data for a client awaiting approval.
type NewClientPayload struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (NewClientPayload) RequestType() valueobject.RequestType { return valueobject.RequestNewClient }
func (NewClientPayload) sealedPayload()                       {}

// LoanTermsPayload is the serializable form of LoanTerms carried inside a
// NEW_LOAN payload (and inside approver edits).
type LoanTermsPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Installments int             `json:"installments"`
	Frequency    string          `json:"frequency"`
	Amortization string          `json:"amortization"`
	StartDate    time.Time       `json:"start_date"`
}

// Terms converts the payload into validated LoanTerms.
func (p LoanTermsPayload) Terms() (LoanTerms, error) {
	freq, err := valueobject.ParsePaymentFrequency(p.Frequency)
	if err != nil {
		return LoanTerms{}, fmt.Errorf("%w: %v", valueobject.ErrValidation, err)
	}
	amort, err := valueobject.ParseAmortizationType(p.Amortization)
	if err != nil {
		return LoanTerms{}, fmt.Errorf("%w: %v", valueobject.ErrValidation, err)
	}
	return LoanTerms{
		Principal:    p.Amount,
		InterestRate: p.InterestRate,
		Installments: p.Installments,
		Frequency:    freq,
		Amortization: amort,
		StartDate:    p.StartDate,
	}, nil
}

// NewLoanPayload points at the draft loan awaiting activation. Terms is set
// only on approver edits and triggers a schedule rebuild.
type NewLoanPayload struct {
	LoanID uuid.UUID         `json:"loan_id"`
	Terms  *LoanTermsPayload `json:"terms,omitempty"`
}

func (NewLoanPayload) RequestType() valueobject.RequestType { return valueobject.RequestNewLoan }
func (NewLoanPayload) sealedPayload()                       {}

// ExpensePayload carries an operational expense to be drawn from a cash box.
type ExpensePayload struct {
	CashBoxID   uuid.UUID       `json:"cash_box_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func (ExpensePayload) RequestType() valueobject.RequestType { return valueobject.RequestExpense }
func (ExpensePayload) sealedPayload()                       {}

// CashBasePayload carries an operational cash transfer from the principal
// box to a route box.
type CashBasePayload struct {
	DestinationBoxID uuid.UUID       `json:"destination_box_id"`
	Amount           decimal.Decimal `json:"amount"`
}

func (CashBasePayload) RequestType() valueobject.RequestType { return valueobject.RequestCashBase }
func (CashBasePayload) sealedPayload()                       {}

// PaymentExtensionPayload carries a due-date extension for one installment.
type PaymentExtensionPayload struct {
	InstallmentID uuid.UUID `json:"installment_id"`
	NewDueDate    time.Time `json:"new_due_date"`
	Reason        string    `json:"reason"`
}

func (PaymentExtensionPayload) RequestType() valueobject.RequestType {
	return valueobject.RequestPaymentExtension
}
func (PaymentExtensionPayload) sealedPayload() {}

// ApprovalRequest is the pending/terminal record of a requested change.
// Once APPROVED or REJECTED it never transitions again.
type ApprovalRequest struct {
	ID              uuid.UUID
	Type            valueobject.RequestType
	State           valueobject.ApprovalState
	Payload         json.RawMessage
	EditedPayload   json.RawMessage // set when the approver adjusted the request
	RequesterID     uuid.UUID
	ApproverID      *uuid.UUID
	RejectionReason string
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

// NewApprovalRequest creates a PENDING request wrapping the given payload.
func NewApprovalRequest(payload ApprovalPayload, requesterID uuid.UUID) (*ApprovalRequest, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal approval payload: %w", err)
	}
	return &ApprovalRequest{
		ID:          uuid.New(),
		Type:        payload.RequestType(),
		State:       valueobject.ApprovalStatePending,
		Payload:     raw,
		RequesterID: requesterID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Approve marks the request APPROVED. Fails on a terminal request.
func (r *ApprovalRequest) Approve(approverID uuid.UUID, now time.Time) error {
	if r.State.Terminal() {
		return fmt.Errorf("%w: request %s already %s", valueobject.ErrInvalidState, r.ID, r.State)
	}
	r.State = valueobject.ApprovalStateApproved
	r.ApproverID = &approverID
	r.ResolvedAt = &now
	return nil
}

// Reject marks the request REJECTED with a reason. Fails on a terminal
// request.
func (r *ApprovalRequest) Reject(approverID uuid.UUID, reason string, now time.Time) error {
	if r.State.Terminal() {
		return fmt.Errorf("%w: request %s already %s", valueobject.ErrInvalidState, r.ID, r.State)
	}
	r.State = valueobject.ApprovalStateRejected
	r.ApproverID = &approverID
	r.RejectionReason = reason
	r.ResolvedAt = &now
	return nil
}

// DecodePayload unmarshals the effective payload: the approver's edited
// version when present, the original otherwise. The switch is exhaustive
// over the closed payload set.
func (r *ApprovalRequest) DecodePayload() (ApprovalPayload, error) {
	raw := r.Payload
	if len(r.EditedPayload) > 0 {
		raw = r.EditedPayload
	}

	var (
		payload ApprovalPayload
		err     error
	)
	switch r.Type {
	case valueobject.RequestNewClient:
		var p NewClientPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case valueobject.RequestNewLoan:
		var p NewLoanPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case valueobject.RequestExpense:
		var p ExpensePayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case valueobject.RequestCashBase:
		var p CashBasePayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case valueobject.RequestPaymentExtension:
		var p PaymentExtensionPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", valueobject.ErrValidation, r.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", r.Type, err)
	}
	return payload, nil
}
