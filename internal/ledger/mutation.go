package ledger

import (
	"math"

	"curve-trade-sim-go/internal/models"
)

// mutation is the balance/holding change a trade request resolves to.
// The set of variants is closed: reserve, buy and sell.
type mutation interface {
	apply(p *models.Portfolio) error
	recordedSide() models.Side
}

// mutationFor picks the variant for an already validated request.
func mutationFor(req models.TradeRequest) mutation {
	if req.Type == models.TradeTypeReserve {
		return reserveMutation{amount: req.Amount}
	}
	if req.Side == models.SideBuy {
		return buyMutation{
			curveID: holdingKey(req),
			symbol:  req.Symbol,
			name:    displayName(req),
			amount:  req.Amount,
			price:   req.Price,
		}
	}
	return sellMutation{curveID: holdingKey(req), amount: req.Amount, price: req.Price}
}

// reserveMutation earmarks funds for a pending order without creating a holding.
type reserveMutation struct {
	amount float64
}

func (m reserveMutation) apply(p *models.Portfolio) error {
	return debit(p, m.amount)
}

func (reserveMutation) recordedSide() models.Side { return models.SideBuy }

type buyMutation struct {
	curveID string
	symbol  string
	name    string
	amount  float64
	price   float64
}

func (m buyMutation) apply(p *models.Portfolio) error {
	if err := debit(p, m.amount); err != nil {
		return err
	}

	delta := m.amount / m.price
	if i := p.HoldingIndex(m.curveID); i >= 0 {
		h := &p.Holdings[i]
		h.TotalCost += m.amount
		h.Quantity += delta
		h.AvgBuyPrice = h.TotalCost / h.Quantity
		return nil
	}

	p.Holdings = append(p.Holdings, models.Holding{
		CurveID:     m.curveID,
		Symbol:      m.symbol,
		Name:        m.name,
		Quantity:    delta,
		AvgBuyPrice: m.price,
		TotalCost:   m.amount,
	})
	return nil
}

func (buyMutation) recordedSide() models.Side { return models.SideBuy }

// sellMutation credits the notional first, regardless of what is held.
// A zero price is a pure balance credit and leaves holdings alone.
type sellMutation struct {
	curveID string
	amount  float64
	price   float64
}

func (m sellMutation) apply(p *models.Portfolio) error {
	p.USDCBalance += m.amount

	i := p.HoldingIndex(m.curveID)
	if i < 0 || m.price <= 0 {
		return nil
	}

	h := &p.Holdings[i]
	h.Quantity = math.Max(0, h.Quantity-m.amount/m.price)
	h.TotalCost = math.Max(0, h.TotalCost-m.amount)
	if h.Quantity <= 0 {
		p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
		return nil
	}
	h.AvgBuyPrice = h.TotalCost / h.Quantity
	return nil
}

func (sellMutation) recordedSide() models.Side { return models.SideSell }

func debit(p *models.Portfolio, amount float64) error {
	if amount > p.USDCBalance {
		return &InsufficientBalanceError{Required: amount, Available: p.USDCBalance}
	}
	p.USDCBalance -= amount
	return nil
}

func holdingKey(req models.TradeRequest) string {
	if req.CurveID != "" {
		return req.CurveID
	}
	return req.Symbol
}

func displayName(req models.TradeRequest) string {
	if req.Name != "" {
		return req.Name
	}
	return req.Symbol
}
