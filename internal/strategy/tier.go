package strategy

import "sort"

// Tier defines how a risk tier picks curves out of the active set.
type Tier interface {
	// Name returns the unique name of the tier.
	Name() string

	// Profile returns the fixed display metadata of the tier.
	Profile() Profile

	// Select picks curves from active, which is sorted by descending volume.
	Select(active []Scored) []Scored
}

// APRRange is a displayed, not computed, yield range in percent.
type APRRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Profile is the static description attached to a tier's result.
type Profile struct {
	Description string
	APR         APRRange
	RiskLabel   string
}

const (
	TierConservative = "conservative"
	TierBalanced     = "balanced"
	TierAggressive   = "aggressive"
)

// TierFor resolves a tier by name; unknown names get the balanced tier.
func TierFor(name string) Tier {
	switch name {
	case TierConservative:
		return ConservativeTier{}
	case TierAggressive:
		return AggressiveTier{}
	default:
		return BalancedTier{}
	}
}

// ConservativeTier keeps the most liquid low-risk curves.
type ConservativeTier struct{}

func (ConservativeTier) Name() string { return TierConservative }

func (ConservativeTier) Profile() Profile {
	return Profile{
		Description: "Focuses on the most liquid and actively traded tokens with the lowest risk scores. Prioritizes capital preservation.",
		APR:         APRRange{Min: 8, Max: 12},
		RiskLabel:   "Low Risk",
	}
}

func (ConservativeTier) Select(active []Scored) []Scored {
	selected := first(filter(active, func(s Scored) bool { return s.Risk.Score <= 40 }), 5)
	if len(selected) < 3 {
		selected = first(active, 5)
	}
	return selected
}

// AggressiveTier chases trading momentum among riskier curves.
type AggressiveTier struct{}

func (AggressiveTier) Name() string { return TierAggressive }

func (AggressiveTier) Profile() Profile {
	return Profile{
		Description: "Targets high-activity tokens with strong trading momentum. Higher volatility but higher potential returns.",
		APR:         APRRange{Min: 30, Max: 60},
		RiskLabel:   "High Risk",
	}
}

func (AggressiveTier) Select(active []Scored) []Scored {
	byTrades := append([]Scored(nil), active...)
	sort.SliceStable(byTrades, func(i, j int) bool {
		return byTrades[i].Curve.TradeCount > byTrades[j].Curve.TradeCount
	})

	selected := first(filter(byTrades, func(s Scored) bool { return s.Risk.Score >= 30 }), 7)
	if len(selected) < 3 {
		selected = first(byTrades, 7)
	}
	return selected
}

// BalancedTier mixes the top curves by volume with moderate-risk mid caps.
type BalancedTier struct{}

func (BalancedTier) Name() string { return TierBalanced }

func (BalancedTier) Profile() Profile {
	return Profile{
		Description: "Balanced mix of established high-volume tokens and promising mid-cap picks. Moderate risk with solid upside.",
		APR:         APRRange{Min: 15, Max: 25},
		RiskLabel:   "Medium Risk",
	}
}

func (BalancedTier) Select(active []Scored) []Scored {
	top := first(active, 3)
	var rest []Scored
	if len(active) > 3 {
		rest = active[3:]
	}
	midCap := first(filter(rest, func(s Scored) bool { return s.Risk.Score <= 55 }), 3)
	return append(append([]Scored(nil), top...), midCap...)
}

func filter(in []Scored, keep func(Scored) bool) []Scored {
	out := make([]Scored, 0, len(in))
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func first(in []Scored, n int) []Scored {
	if len(in) > n {
		return in[:n]
	}
	return in
}
