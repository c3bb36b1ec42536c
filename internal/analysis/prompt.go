package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"curve-trade-sim-go/internal/models"
	"curve-trade-sim-go/internal/risk"
)

// TradeSummary condenses a curve's recent trades.
type TradeSummary struct {
	UniqueTraders int    `json:"uniqueTraders"`
	Buys          int    `json:"buys"`
	Sells         int    `json:"sells"`
	RecentVolume  string `json:"recentVolume"` // ETH, four decimals
}

// SummarizeTrades counts traders and sides and sums the ETH volume.
func SummarizeTrades(trades []models.CurveTrade) TradeSummary {
	traders := make(map[string]struct{}, len(trades))
	var s TradeSummary
	var volume float64

	for _, t := range trades {
		traders[t.Trader] = struct{}{}
		switch t.Side {
		case "BUY":
			s.Buys++
		case "SELL":
			s.Sells++
		}
		volume += t.AmountEth
	}

	s.UniqueTraders = len(traders)
	s.RecentVolume = fmt.Sprintf("%.4f", volume)
	return s
}

func isoTime(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildPrompt renders the user prompt asking for a risk verdict on curve.
func BuildPrompt(curve models.Curve, summary TradeSummary, result risk.Result) string {
	lastTrade := "Never"
	if curve.LastTradeAt != nil {
		lastTrade = isoTime(*curve.LastTradeAt)
	}

	var b strings.Builder
	b.WriteString("Analyze this bonding curve token for risk. Be concise (max 200 words). Give a clear verdict.\n\n")
	fmt.Fprintf(&b, "Token: %s (%s)\n", curve.Name, curve.Symbol)
	fmt.Fprintf(&b, "Contract: %s\n", curve.Token)
	fmt.Fprintf(&b, "Creator: %s\n", curve.Creator)
	fmt.Fprintf(&b, "Created: %s\n", isoTime(curve.CreatedAt))
	fmt.Fprintf(&b, "Graduated: %t\n", curve.Graduated)
	fmt.Fprintf(&b, "Price: $%s\n", formatNumber(curve.LastPriceUsd))
	fmt.Fprintf(&b, "Total Volume: %s ETH\n", formatNumber(curve.TotalVolumeEth))
	fmt.Fprintf(&b, "Trade Count: %d\n", curve.TradeCount)
	fmt.Fprintf(&b, "Last Trade: %s\n\n", lastTrade)

	b.WriteString("Recent trades (last 30):\n")
	fmt.Fprintf(&b, "- Unique traders: %d\n", summary.UniqueTraders)
	fmt.Fprintf(&b, "- Buys: %d, Sells: %d\n", summary.Buys, summary.Sells)
	fmt.Fprintf(&b, "- Recent volume: %s ETH\n\n", summary.RecentVolume)

	fmt.Fprintf(&b, "Risk Score: %d/100 (%s)\n\n", result.Score, result.Level)
	b.WriteString("Factors:\n")
	for _, f := range result.Factors {
		fmt.Fprintf(&b, "- %s: %s (%s) - %s\n", f.Name, f.Value, f.Impact, f.Detail)
	}

	b.WriteString("\nProvide:\n")
	b.WriteString("1. Overall risk assessment (1 sentence)\n")
	b.WriteString("2. Key red flags or positive signals (bullet points)\n")
	b.WriteString("3. Verdict: SAFE / CAUTION / AVOID")
	return b.String()
}
