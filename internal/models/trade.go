package models

// TradeType classifies a ledger operation.
type TradeType string

const (
	TradeTypeTrade      TradeType = "trade"
	TradeTypeLimitOrder TradeType = "limit_order"
	TradeTypeStrategy   TradeType = "strategy"
	TradeTypeReserve    TradeType = "reserve"
)

// Valid reports whether t is one of the known trade types.
func (t TradeType) Valid() bool {
	switch t {
	case TradeTypeTrade, TradeTypeLimitOrder, TradeTypeStrategy, TradeTypeReserve:
		return true
	}
	return false
}

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is buy or sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// TradeRequest is an instruction against a user's portfolio.
// Amount is quote-currency notional; Price is quote currency per token.
type TradeRequest struct {
	UserID  int64     `json:"userId"`
	Type    TradeType `json:"type,omitempty"` // defaults to "trade"
	Symbol  string    `json:"symbol"`
	CurveID string    `json:"curveId"`
	Name    string    `json:"name,omitempty"`
	Side    Side      `json:"side"`
	Amount  float64   `json:"amount"`
	Price   float64   `json:"price"`
}
