package models

// Curve is a read-only snapshot of one bonding-curve token's trading statistics,
// as reported by the indexer.
type Curve struct {
	ID             string  `json:"id"`
	Token          string  `json:"token"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	URI            string  `json:"uri"`
	Creator        string  `json:"creator"`
	CreatedAt      int64   `json:"createdAt"` // unix seconds
	Graduated      bool    `json:"graduated"`
	TotalVolumeEth float64 `json:"totalVolumeEth"`
	TradeCount     int64   `json:"tradeCount"`
	// LastTradeAt is nil when the curve has never traded.
	LastTradeAt  *int64  `json:"lastTradeAt"`
	LastPriceUsd float64 `json:"lastPriceUsd"`
	LastPriceEth float64 `json:"lastPriceEth"`
}

// CurveTrade is a single on-chain trade against a curve.
type CurveTrade struct {
	ID          string  `json:"id"`
	Timestamp   int64   `json:"timestamp"` // unix seconds
	TxHash      string  `json:"txHash"`
	Trader      string  `json:"trader"`
	Side        string  `json:"side"` // "BUY" or "SELL"
	AmountEth   float64 `json:"amountEth"`
	AmountToken float64 `json:"amountToken"`
	PriceEth    float64 `json:"priceEth"`
	PriceUsd    float64 `json:"priceUsd"`
}
