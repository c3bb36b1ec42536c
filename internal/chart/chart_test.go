package chart

import (
	"testing"

	"curve-trade-sim-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLinePoints(t *testing.T) {
	trades := []models.CurveTrade{
		{Timestamp: 300, PriceUsd: 0.03},
		{Timestamp: 100, PriceUsd: 0.01},
		{Timestamp: 200, PriceUsd: 0}, // unparsable upstream
		{Timestamp: 150, PriceUsd: -1},
		{Timestamp: 250, PriceUsd: 0.02},
	}

	points := LinePoints(trades)
	assert.Equal(t, []Point{
		{Time: 100, Value: 0.01},
		{Time: 250, Value: 0.02},
		{Time: 300, Value: 0.03},
	}, points)
}

func TestSummarize(t *testing.T) {
	t.Run("Trades", func(t *testing.T) {
		trades := []models.CurveTrade{
			{Timestamp: 30, PriceUsd: 0.02},
			{Timestamp: 20, PriceUsd: 0.05},
			{Timestamp: 10, PriceUsd: 0.01},
			{Timestamp: 5, PriceUsd: 0},
		}

		s := Summarize(trades)
		assert.Len(t, s.ChartData, 3)
		assert.Equal(t, PriceRange{Min: 0.01, Max: 0.05}, s.PriceRange)
		assert.Equal(t, 4, s.TradeCount)
		assert.Equal(t, 0.02, s.CurrentPrice)
	})

	t.Run("Empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.NotNil(t, s.ChartData)
		assert.Empty(t, s.ChartData)
		assert.Equal(t, PriceRange{}, s.PriceRange)
		assert.Zero(t, s.TradeCount)
		assert.Zero(t, s.CurrentPrice)
	})
}
