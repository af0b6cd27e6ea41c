package valueobject

import "fmt"

// RiskLevel is the stored risk category of a client.
type RiskLevel struct {
	value string
}

const (
	riskGreen       = "GREEN"
	riskYellow      = "YELLOW"
	riskRed         = "RED"
	riskBlacklisted = "BLACKLISTED"
)

var (
	RiskLevelGreen       = RiskLevel{value: riskGreen}
	RiskLevelYellow      = RiskLevel{value: riskYellow}
	RiskLevelRed         = RiskLevel{value: riskRed}
	RiskLevelBlacklisted = RiskLevel{value: riskBlacklisted}
)

var validRiskLevels = map[string]RiskLevel{
	riskGreen:       RiskLevelGreen,
	riskYellow:      RiskLevelYellow,
	riskRed:         RiskLevelRed,
	riskBlacklisted: RiskLevelBlacklisted,
}

// NewRiskLevel creates a RiskLevel from a raw string.
func NewRiskLevel(s string) (RiskLevel, error) {
	v, ok := validRiskLevels[s]
	if !ok {
		return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
	}
	return v, nil
}

// String returns the string representation of the level.
func (l RiskLevel) String() string { return l.value }

// IsZero returns true if the level has not been initialised.
func (l RiskLevel) IsZero() bool { return l.value == "" }

// Equal returns true when both levels carry the same value.
func (l RiskLevel) Equal(other RiskLevel) bool { return l.value == other.value }
