// Package risk scores bonding-curve tokens from their on-chain activity.
package risk

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"curve-trade-sim-go/internal/models"
)

// Level is the coarse risk bucket derived from a score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Impact says how a factor moved the score.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Factor is one named contributor to a score.
type Factor struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Impact Impact `json:"impact"`
	Detail string `json:"detail"`
}

// Result is the outcome of scoring a curve. Higher scores are riskier.
type Result struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Emoji   string   `json:"emoji"`
	Factors []Factor `json:"factors"`
}

// LevelFor maps a score to its level and display emoji.
func LevelFor(score int) (Level, string) {
	switch {
	case score <= 30:
		return LevelLow, "🟢"
	case score <= 60:
		return LevelMedium, "🟡"
	default:
		return LevelHigh, "🔴"
	}
}

// Score computes the heuristic risk of curve as seen at now.
// Factors are always reported in the order volume, trade count, age,
// graduation, last trade.
func Score(curve models.Curve, now time.Time) Result {
	points := 0
	factors := make([]Factor, 0, 5)

	for _, eval := range []func(models.Curve, time.Time) (int, Factor){
		volumeFactor,
		tradeCountFactor,
		ageFactor,
		graduationFactor,
		recencyFactor,
	} {
		p, f := eval(curve, now)
		points += p
		factors = append(factors, f)
	}

	score := clamp(points, MinScore, MaxScore)
	level, emoji := LevelFor(score)

	return Result{
		Score:   score,
		Level:   level,
		Emoji:   emoji,
		Factors: factors,
	}
}

func volumeFactor(c models.Curve, _ time.Time) (int, Factor) {
	vol := c.TotalVolumeEth
	value := fmt.Sprintf("%.4f ETH", vol)
	switch {
	case vol == 0:
		return 25, Factor{"Volume", "0 ETH", ImpactNegative, "No trading volume, completely untested liquidity"}
	case vol < 0.1:
		return 20, Factor{"Volume", value, ImpactNegative, "Very low volume, high slippage risk"}
	case vol < 1:
		return 10, Factor{"Volume", value, ImpactNeutral, "Moderate volume, some liquidity established"}
	default:
		return 0, Factor{"Volume", value, ImpactPositive, "Healthy volume, good liquidity"}
	}
}

func tradeCountFactor(c models.Curve, _ time.Time) (int, Factor) {
	n := c.TradeCount
	value := strconv.FormatInt(n, 10)
	switch {
	case n == 0:
		return 25, Factor{"Trade Count", "0", ImpactNegative, "No trades, zero market interest"}
	case n < 5:
		return 15, Factor{"Trade Count", value, ImpactNegative, "Very few trades, limited price discovery"}
	case n < 20:
		return 5, Factor{"Trade Count", value, ImpactNeutral, "Some trading activity"}
	default:
		return 0, Factor{"Trade Count", value, ImpactPositive, "Active trading, good price discovery"}
	}
}

func ageFactor(c models.Curve, now time.Time) (int, Factor) {
	ageHours := hoursSince(c.CreatedAt, now)
	switch {
	case ageHours < 1:
		return 20, Factor{"Age", fmt.Sprintf("%d min", round(ageHours*60)), ImpactNegative, "Brand new token, extremely high rug risk"}
	case ageHours < 24:
		return 10, Factor{"Age", fmt.Sprintf("%d hours", round(ageHours)), ImpactNeutral, "Less than a day old, still very early"}
	default:
		return 0, Factor{"Age", fmt.Sprintf("%d days", round(ageHours/24)), ImpactPositive, "Survived multiple days, some resilience shown"}
	}
}

// graduationFactor is the only factor that can lower the score.
func graduationFactor(c models.Curve, _ time.Time) (int, Factor) {
	if c.Graduated {
		return -10, Factor{"Graduated", "Yes", ImpactPositive, "Graduated from bonding curve, reached liquidity threshold"}
	}
	return 10, Factor{"Graduated", "No", ImpactNegative, "Still on bonding curve, has not reached liquidity threshold"}
}

func recencyFactor(c models.Curve, now time.Time) (int, Factor) {
	if c.LastTradeAt == nil {
		return 15, Factor{"Last Trade", "Never", ImpactNegative, "No trades recorded, dead token"}
	}
	idleHours := hoursSince(*c.LastTradeAt, now)
	if idleHours > 24 {
		return 10, Factor{"Last Trade", fmt.Sprintf("%dd ago", round(idleHours/24)), ImpactNegative, "No recent trading activity, potentially abandoned"}
	}
	return 0, Factor{"Last Trade", fmt.Sprintf("%dh ago", round(idleHours)), ImpactPositive, "Recently traded, active market"}
}

func hoursSince(unixSeconds int64, now time.Time) float64 {
	return (float64(now.UnixMilli())/1000 - float64(unixSeconds)) / 3600
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
