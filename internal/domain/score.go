package domain

// RiskTier is the caller-facing bucket derived from the composite total.
type RiskTier string

const (
	TierLow    RiskTier = "Low"
	TierMedium RiskTier = "Medium"
	TierHigh   RiskTier = "High"
)

// Scoring policy. These constants are the single source of truth for
// risk-tier decisions; the point weights and caps are empirical values
// carried over from production and changing them is a product decision.
const (
	ScoreBase = 65 // neutral prior with no signals

	HazardPointWeight  = 5
	HazardComponentCap = 20

	FinancialPointWeight  = 2
	FinancialComponentCap = 10

	HighTierThreshold   = 80 // strict >
	MediumTierThreshold = 60 // strict >
)

// CompositeScore is the scorer output: component breakdown, bounded total,
// and derived tier. Computed once per assessment; never persisted by the
// pipeline itself.
type CompositeScore struct {
	Base               int      `json:"base"`
	HazardComponent    int      `json:"hazard_component"`
	FinancialComponent int      `json:"financial_component"`
	Total              int      `json:"total"`
	Tier               RiskTier `json:"tier"`
}

// Score reduces the final hazard and financial record counts into a
// CompositeScore. Pure and deterministic: no I/O, no side effects.
//
// An assessment with zero signals of either kind is Low regardless of the
// base constant: the neutral prior alone is not evidence of risk.
func Score(hazardCount, financialCount int) CompositeScore {
	hazard := capAt(hazardCount*HazardPointWeight, HazardComponentCap)
	financial := capAt(financialCount*FinancialPointWeight, FinancialComponentCap)
	total := ScoreBase + hazard + financial

	tier := TierFor(total)
	if hazardCount == 0 && financialCount == 0 {
		tier = TierLow
	}

	return CompositeScore{
		Base:               ScoreBase,
		HazardComponent:    hazard,
		FinancialComponent: financial,
		Total:              total,
		Tier:               tier,
	}
}

// TierFor maps a composite total to its risk tier using the fixed strict
// thresholds.
func TierFor(total int) RiskTier {
	switch {
	case total > HighTierThreshold:
		return TierHigh
	case total > MediumTierThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func capAt(v, max int) int {
	if v > max {
		return max
	}
	return v
}
