package valueobject

import "errors"

// Sentinel errors for the loan engine. Callers wrap them with context via
// fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNotFound reports a missing Loan, Client, CashBox or ApprovalRequest.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState reports an operation against an entity in the wrong
	// lifecycle state, e.g. approving a non-PENDING request or collecting a
	// payment on a non-active loan.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation reports rejected input: non-positive amounts, missing
	// route or cash-box associations, mismatched client.
	ErrValidation = errors.New("validation failure")

	// ErrInsufficientFunds reports a cash-base transfer exceeding the source
	// box balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConflict reports a duplicate code or number.
	ErrConflict = errors.New("conflict")
)
