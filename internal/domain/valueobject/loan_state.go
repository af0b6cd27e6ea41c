package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanState – immutable value object
// ---------------------------------------------------------------------------

// LoanState represents the lifecycle stage of a loan.
type LoanState struct {
	value string
}

const (
	loanStateDraft      = "DRAFT"
	loanStateActive     = "ACTIVE"
	loanStateInArrears  = "IN_ARREARS"
	loanStateDefaulted  = "DEFAULTED"
	loanStateWrittenOff = "WRITTEN_OFF"
	loanStatePaid       = "PAID"
)

var (
	LoanStateDraft      = LoanState{value: loanStateDraft}
	LoanStateActive     = LoanState{value: loanStateActive}
	LoanStateInArrears  = LoanState{value: loanStateInArrears}
	LoanStateDefaulted  = LoanState{value: loanStateDefaulted}
	LoanStateWrittenOff = LoanState{value: loanStateWrittenOff}
	LoanStatePaid       = LoanState{value: loanStatePaid}
)

var validLoanStates = map[string]LoanState{
	loanStateDraft:      LoanStateDraft,
	loanStateActive:     LoanStateActive,
	loanStateInArrears:  LoanStateInArrears,
	loanStateDefaulted:  LoanStateDefaulted,
	loanStateWrittenOff: LoanStateWrittenOff,
	loanStatePaid:       LoanStatePaid,
}

// NewLoanState creates a LoanState from a raw string.
func NewLoanState(s string) (LoanState, error) {
	v, ok := validLoanStates[s]
	if !ok {
		return LoanState{}, fmt.Errorf("invalid loan state: %q", s)
	}
	return v, nil
}

// String returns the string representation of the state.
func (s LoanState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s LoanState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s LoanState) Equal(other LoanState) bool { return s.value == other.value }

// Payable reports whether payments may be collected against a loan in this
// state.
func (s LoanState) Payable() bool {
	return s == LoanStateActive || s == LoanStateInArrears
}

// ---------------------------------------------------------------------------
// ApprovalState – immutable value object
// ---------------------------------------------------------------------------

// ApprovalState represents the review stage of a loan or approval request.
// APPROVED and REJECTED are terminal.
type ApprovalState struct {
	value string
}

const (
	approvalStatePending  = "PENDING"
	approvalStateApproved = "APPROVED"
	approvalStateRejected = "REJECTED"
)

var (
	ApprovalStatePending  = ApprovalState{value: approvalStatePending}
	ApprovalStateApproved = ApprovalState{value: approvalStateApproved}
	ApprovalStateRejected = ApprovalState{value: approvalStateRejected}
)

var validApprovalStates = map[string]ApprovalState{
	approvalStatePending:  ApprovalStatePending,
	approvalStateApproved: ApprovalStateApproved,
	approvalStateRejected: ApprovalStateRejected,
}

// NewApprovalState creates an ApprovalState from a raw string.
func NewApprovalState(s string) (ApprovalState, error) {
	v, ok := validApprovalStates[s]
	if !ok {
		return ApprovalState{}, fmt.Errorf("invalid approval state: %q", s)
	}
	return v, nil
}

// String returns the string representation of the state.
func (s ApprovalState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s ApprovalState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s ApprovalState) Equal(other ApprovalState) bool { return s.value == other.value }

// Terminal reports whether the state admits no further transitions.
func (s ApprovalState) Terminal() bool {
	return s == ApprovalStateApproved || s == ApprovalStateRejected
}
