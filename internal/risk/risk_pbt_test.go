package risk

import (
	"testing"
	"time"

	"curve-trade-sim-go/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genCurve(volume float64, trades int64, ageSeconds int64, graduated bool, idleSeconds int64) models.Curve {
	c := models.Curve{
		TotalVolumeEth: volume,
		TradeCount:     trades,
		CreatedAt:      testNow.Unix() - ageSeconds,
		Graduated:      graduated,
	}
	if idleSeconds >= 0 {
		last := testNow.Unix() - idleSeconds
		c.LastTradeAt = &last
	}
	return c
}

func TestScoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	volumes := gen.Float64Range(0, 50)
	trades := gen.Int64Range(0, 500)
	ages := gen.Int64Range(0, 30*24*3600)
	idles := gen.Int64Range(-1, 10*24*3600)

	properties.Property("score stays within bounds", prop.ForAll(
		func(v float64, n int64, age int64, grad bool, idle int64) bool {
			s := Score(genCurve(v, n, age, grad, idle), testNow).Score
			return s >= MinScore && s <= MaxScore
		},
		volumes, trades, ages, gen.Bool(), idles,
	))

	properties.Property("level is a function of score", prop.ForAll(
		func(v float64, n int64, age int64, grad bool, idle int64) bool {
			res := Score(genCurve(v, n, age, grad, idle), testNow)
			switch res.Level {
			case LevelLow:
				return res.Score <= 30
			case LevelMedium:
				return res.Score > 30 && res.Score <= 60
			case LevelHigh:
				return res.Score > 60
			}
			return false
		},
		volumes, trades, ages, gen.Bool(), idles,
	))

	properties.Property("more volume never raises the score", prop.ForAll(
		func(a, b float64, n int64, age int64, grad bool, idle int64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			sLo := Score(genCurve(lo, n, age, grad, idle), testNow).Score
			sHi := Score(genCurve(hi, n, age, grad, idle), testNow).Score
			return sHi <= sLo
		},
		volumes, volumes, trades, ages, gen.Bool(), idles,
	))

	properties.Property("more trades never raise the score", prop.ForAll(
		func(a, b int64, v float64, age int64, grad bool, idle int64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			sLo := Score(genCurve(v, lo, age, grad, idle), testNow).Score
			sHi := Score(genCurve(v, hi, age, grad, idle), testNow).Score
			return sHi <= sLo
		},
		trades, trades, volumes, ages, gen.Bool(), idles,
	))

	properties.Property("older curves never score higher", prop.ForAll(
		func(a, b int64, v float64, n int64, grad bool) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			// the idle factor is pinned so only age varies
			sYoung := Score(genCurve(v, n, lo, grad, 60), testNow).Score
			sOld := Score(genCurve(v, n, hi, grad, 60), testNow).Score
			return sOld <= sYoung
		},
		gen.Int64Range(int64(time.Hour/time.Second), 30*24*3600), gen.Int64Range(int64(time.Hour/time.Second), 30*24*3600),
		volumes, trades, gen.Bool(),
	))

	properties.TestingRun(t)
}
