package risk

import (
	"testing"
	"time"

	"curve-trade-sim-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func unixAgo(d time.Duration) int64 {
	return testNow.Add(-d).Unix()
}

func ptr(v int64) *int64 { return &v }

func TestScore_BrandNewDeadCurve(t *testing.T) {
	curve := models.Curve{
		ID:        "0xnew",
		CreatedAt: testNow.Unix(),
	}

	res := Score(curve, testNow)

	assert.Equal(t, 95, res.Score)
	assert.Equal(t, LevelHigh, res.Level)
	assert.Equal(t, "🔴", res.Emoji)
	require.Len(t, res.Factors, 5)

	names := make([]string, 0, len(res.Factors))
	for _, f := range res.Factors {
		names = append(names, f.Name)
		assert.Equal(t, ImpactNegative, f.Impact)
	}
	assert.Equal(t, []string{"Volume", "Trade Count", "Age", "Graduated", "Last Trade"}, names)
	assert.Equal(t, "0 ETH", res.Factors[0].Value)
	assert.Equal(t, "0", res.Factors[1].Value)
	assert.Equal(t, "0 min", res.Factors[2].Value)
	assert.Equal(t, "No", res.Factors[3].Value)
	assert.Equal(t, "Never", res.Factors[4].Value)
}

func TestScore_GraduationBonusClampsAtZero(t *testing.T) {
	curve := models.Curve{
		CreatedAt:      unixAgo(72 * time.Hour),
		Graduated:      true,
		TotalVolumeEth: 12.5,
		TradeCount:     300,
		LastTradeAt:    ptr(unixAgo(2 * time.Hour)),
	}

	res := Score(curve, testNow)

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, LevelLow, res.Level)
	assert.Equal(t, "12.5000 ETH", res.Factors[0].Value)
	assert.Equal(t, "3 days", res.Factors[2].Value)
	assert.Equal(t, "Yes", res.Factors[3].Value)
	assert.Equal(t, ImpactPositive, res.Factors[3].Impact)
	assert.Equal(t, "2h ago", res.Factors[4].Value)
}

func TestScore_Buckets(t *testing.T) {
	testCases := []struct {
		name          string
		curve         models.Curve
		expectedScore int
		expectedLevel Level
	}{
		{
			name: "Moderate activity",
			curve: models.Curve{
				CreatedAt:      unixAgo(5 * time.Hour),
				TotalVolumeEth: 0.5,
				TradeCount:     10,
				LastTradeAt:    ptr(unixAgo(30 * time.Minute)),
			},
			// 10 + 5 + 10 + 10 + 0
			expectedScore: 35,
			expectedLevel: LevelMedium,
		},
		{
			name: "Tiny volume, few trades, idle",
			curve: models.Curve{
				CreatedAt:      unixAgo(10 * 24 * time.Hour),
				TotalVolumeEth: 0.05,
				TradeCount:     3,
				LastTradeAt:    ptr(unixAgo(48 * time.Hour)),
			},
			// 20 + 15 + 0 + 10 + 10
			expectedScore: 55,
			expectedLevel: LevelMedium,
		},
		{
			name: "Active but young and not graduated",
			curve: models.Curve{
				CreatedAt:      unixAgo(20 * time.Minute),
				TotalVolumeEth: 2,
				TradeCount:     25,
				LastTradeAt:    ptr(unixAgo(time.Minute)),
			},
			// 0 + 0 + 20 + 10 + 0
			expectedScore: 30,
			expectedLevel: LevelLow,
		},
		{
			name: "Low volume, no graduation, idle, under a day",
			curve: models.Curve{
				CreatedAt:      unixAgo(23 * time.Hour),
				TotalVolumeEth: 0.01,
				TradeCount:     1,
				LastTradeAt:    ptr(unixAgo(25 * time.Hour)),
			},
			// 20 + 15 + 10 + 10 + 10
			expectedScore: 65,
			expectedLevel: LevelHigh,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Score(tc.curve, testNow)
			assert.Equal(t, tc.expectedScore, res.Score)
			assert.Equal(t, tc.expectedLevel, res.Level)
		})
	}
}

func TestScore_AgeDisplay(t *testing.T) {
	res := Score(models.Curve{CreatedAt: unixAgo(90 * time.Minute)}, testNow)
	assert.Equal(t, "2 hours", res.Factors[2].Value)

	res = Score(models.Curve{CreatedAt: unixAgo(45 * time.Minute)}, testNow)
	assert.Equal(t, "45 min", res.Factors[2].Value)

	res = Score(models.Curve{CreatedAt: unixAgo(36 * time.Hour)}, testNow)
	assert.Equal(t, "2 days", res.Factors[2].Value)
}

func TestLevelFor(t *testing.T) {
	testCases := []struct {
		score int
		level Level
		emoji string
	}{
		{0, LevelLow, "🟢"},
		{30, LevelLow, "🟢"},
		{31, LevelMedium, "🟡"},
		{60, LevelMedium, "🟡"},
		{61, LevelHigh, "🔴"},
		{100, LevelHigh, "🔴"},
	}

	for _, tc := range testCases {
		level, emoji := LevelFor(tc.score)
		assert.Equal(t, tc.level, level, "score %d", tc.score)
		assert.Equal(t, tc.emoji, emoji, "score %d", tc.score)
	}
}
