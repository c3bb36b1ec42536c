package models

// Holding is a position in a single curve token.
// A holding with zero quantity is never stored; it is pruned instead.
type Holding struct {
	CurveID     string  `json:"curveId"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	AvgBuyPrice float64 `json:"avgBuyPrice"`
	TotalCost   float64 `json:"totalCost"`
}

// TradeRecord is a completed ledger operation, newest first in Portfolio.Trades.
type TradeRecord struct {
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Type      TradeType `json:"type"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
}

// Portfolio is the simulated account of a single user.
type Portfolio struct {
	UserID        int64         `json:"userId"`
	WalletAddress string        `json:"walletAddress"`
	USDCBalance   float64       `json:"usdcBalance"`
	Holdings      []Holding     `json:"holdings"`
	Trades        []TradeRecord `json:"trades"`
	CreatedAt     int64         `json:"createdAt"` // unix milliseconds
	UpdatedAt     int64         `json:"updatedAt"` // unix milliseconds
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	c := *p
	c.Holdings = append(make([]Holding, 0, len(p.Holdings)), p.Holdings...)
	c.Trades = append(make([]TradeRecord, 0, len(p.Trades)), p.Trades...)
	return &c
}

// HoldingIndex returns the index of the holding for curveID, or -1.
func (p *Portfolio) HoldingIndex(curveID string) int {
	for i := range p.Holdings {
		if p.Holdings[i].CurveID == curveID {
			return i
		}
	}
	return -1
}
