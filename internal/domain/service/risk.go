package service

import (
	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// RiskGrade is the delinquency label derived from days late. The ordinal
// (1..5) orders the labels so a sub-label climb can be detected even when
// the stored risk level does not change (YELLOW spans two labels).
type RiskGrade struct {
	Label   string
	Ordinal int
	Level   valueobject.RiskLevel
}

// GradeDaysLate maps days of mora to a grade using the fixed thresholds:
// 0 days is Minimum, 1-2 Light, 3-4 Caution, 5-7 Moderate, 8+ Critical.
func GradeDaysLate(daysLate int) RiskGrade {
	switch {
	case daysLate <= 0:
		return RiskGrade{Label: "Minimum", Ordinal: 1, Level: valueobject.RiskLevelGreen}
	case daysLate <= 2:
		return RiskGrade{Label: "Light", Ordinal: 2, Level: valueobject.RiskLevelGreen}
	case daysLate <= 4:
		return RiskGrade{Label: "Caution", Ordinal: 3, Level: valueobject.RiskLevelYellow}
	case daysLate <= 7:
		return RiskGrade{Label: "Moderate", Ordinal: 4, Level: valueobject.RiskLevelYellow}
	default:
		return RiskGrade{Label: "Critical", Ordinal: 5, Level: valueobject.RiskLevelRed}
	}
}
