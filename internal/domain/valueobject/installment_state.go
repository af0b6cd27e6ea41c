package valueobject

import "fmt"

// InstallmentState represents the payment status of one scheduled installment.
type InstallmentState struct {
	value string
}

const (
	installmentStatePending = "PENDING"
	installmentStatePartial = "PARTIAL"
	installmentStatePaid    = "PAID"
	installmentStateOverdue = "OVERDUE"
)

var (
	InstallmentStatePending = InstallmentState{value: installmentStatePending}
	InstallmentStatePartial = InstallmentState{value: installmentStatePartial}
	InstallmentStatePaid    = InstallmentState{value: installmentStatePaid}
	InstallmentStateOverdue = InstallmentState{value: installmentStateOverdue}
)

var validInstallmentStates = map[string]InstallmentState{
	installmentStatePending: InstallmentStatePending,
	installmentStatePartial: InstallmentStatePartial,
	installmentStatePaid:    InstallmentStatePaid,
	installmentStateOverdue: InstallmentStateOverdue,
}

// NewInstallmentState creates an InstallmentState from a raw string.
func NewInstallmentState(s string) (InstallmentState, error) {
	v, ok := validInstallmentStates[s]
	if !ok {
		return InstallmentState{}, fmt.Errorf("invalid installment state: %q", s)
	}
	return v, nil
}

// String returns the string representation of the state.
func (s InstallmentState) String() string { return s.value }

// IsZero returns true if the state has not been initialised.
func (s InstallmentState) IsZero() bool { return s.value == "" }

// Equal returns true when both states carry the same value.
func (s InstallmentState) Equal(other InstallmentState) bool { return s.value == other.value }

// Outstanding reports whether the installment can still absorb payments.
func (s InstallmentState) Outstanding() bool {
	return s != InstallmentStatePaid
}
