// Package chart turns indexer trades into price series.
package chart

import (
	"sort"

	"curve-trade-sim-go/internal/models"
)

// Point is one price observation; Time is unix seconds, Value is USD.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// PriceRange is the lowest and highest price in a series.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary is the chart payload for one curve.
type Summary struct {
	ChartData    []Point    `json:"chartData"`
	PriceRange   PriceRange `json:"priceRange"`
	TradeCount   int        `json:"tradeCount"`
	CurrentPrice float64    `json:"currentPrice"`
}

// LinePoints keeps trades with a positive USD price and orders them by time.
func LinePoints(trades []models.CurveTrade) []Point {
	points := make([]Point, 0, len(trades))
	for _, t := range trades {
		if t.PriceUsd > 0 {
			points = append(points, Point{Time: t.Timestamp, Value: t.PriceUsd})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points
}

// Summarize builds the chart payload. TradeCount counts every trade,
// including those dropped from the series.
func Summarize(trades []models.CurveTrade) Summary {
	points := LinePoints(trades)
	s := Summary{ChartData: points, TradeCount: len(trades)}
	if len(points) == 0 {
		return s
	}

	s.PriceRange = PriceRange{Min: points[0].Value, Max: points[0].Value}
	for _, p := range points[1:] {
		if p.Value < s.PriceRange.Min {
			s.PriceRange.Min = p.Value
		}
		if p.Value > s.PriceRange.Max {
			s.PriceRange.Max = p.Value
		}
	}
	s.CurrentPrice = points[len(points)-1].Value
	return s
}
