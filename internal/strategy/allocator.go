// Package strategy turns scored curve snapshots into tiered target allocations.
package strategy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"curve-trade-sim-go/internal/models"
	"curve-trade-sim-go/internal/risk"
)

// Scored pairs a curve with its risk result.
type Scored struct {
	Curve models.Curve
	Risk  risk.Result
}

// Allocation is one curve's share of a strategy, Weight in whole percent.
type Allocation struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	CurveID    string     `json:"curveId"`
	Weight     int        `json:"weight"`
	RiskScore  int        `json:"riskScore"`
	RiskLevel  risk.Level `json:"riskLevel"`
	VolumeEth  string     `json:"volumeEth"`
	TradeCount int64      `json:"tradeCount"`
	PriceUsd   float64    `json:"priceUsd"`
}

// Token is a compact listing of an active curve.
type Token struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	LastPriceUsd   float64 `json:"lastPriceUsd"`
	TotalVolumeEth float64 `json:"totalVolumeEth"`
}

// Result is a tier's target portfolio.
// An empty Allocations list means no curve had trading activity.
type Result struct {
	Tier        string       `json:"tier"`
	Description string       `json:"description"`
	APR         APRRange     `json:"apr"`
	RiskLabel   string       `json:"riskLabel"`
	Allocations []Allocation `json:"allocations"`
	AllTokens   []Token      `json:"allTokens"`
}

// Allocate scores curves as of now and builds the target portfolio for tier.
func Allocate(tier string, curves []models.Curve, now time.Time) Result {
	t := TierFor(tier)
	active := rankActive(curves, now)
	selected := t.Select(active)
	profile := t.Profile()

	tokens := make([]Token, 0, len(active))
	for _, c := range curves {
		if c.TradeCount > 0 {
			tokens = append(tokens, Token{
				ID:             c.ID,
				Name:           c.Name,
				Symbol:         c.Symbol,
				LastPriceUsd:   c.LastPriceUsd,
				TotalVolumeEth: c.TotalVolumeEth,
			})
		}
	}

	return Result{
		Tier:        t.Name(),
		Description: profile.Description,
		APR:         profile.APR,
		RiskLabel:   profile.RiskLabel,
		Allocations: weigh(selected),
		AllTokens:   tokens,
	}
}

// rankActive scores every curve, drops those that never traded and sorts the
// rest by descending volume. Ties keep input order.
func rankActive(curves []models.Curve, now time.Time) []Scored {
	active := make([]Scored, 0, len(curves))
	for _, c := range curves {
		if c.TradeCount <= 0 {
			continue
		}
		active = append(active, Scored{Curve: c, Risk: risk.Score(c, now)})
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Curve.TotalVolumeEth > active[j].Curve.TotalVolumeEth
	})
	return active
}

// weigh assigns volume-proportional integer weights that sum to exactly 100.
// The rounding residual lands on the first pick even when that pushes its
// weight below zero.
func weigh(selected []Scored) []Allocation {
	allocations := make([]Allocation, 0, len(selected))
	if len(selected) == 0 {
		return allocations
	}

	totalVol := 0.0
	for _, s := range selected {
		totalVol += s.Curve.TotalVolumeEth
	}

	sum := 0
	for _, s := range selected {
		var weight int
		if totalVol > 0 {
			weight = int(math.Round(s.Curve.TotalVolumeEth / totalVol * 100))
		} else {
			weight = int(math.Round(100 / float64(len(selected))))
		}
		sum += weight

		allocations = append(allocations, Allocation{
			Symbol:     s.Curve.Symbol,
			Name:       s.Curve.Name,
			CurveID:    s.Curve.ID,
			Weight:     weight,
			RiskScore:  s.Risk.Score,
			RiskLevel:  s.Risk.Level,
			VolumeEth:  fmt.Sprintf("%.4f", s.Curve.TotalVolumeEth),
			TradeCount: s.Curve.TradeCount,
			PriceUsd:   s.Curve.LastPriceUsd,
		})
	}

	allocations[0].Weight += 100 - sum
	return allocations
}
