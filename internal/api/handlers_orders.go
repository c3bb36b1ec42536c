package api

import (
	"net/http"

	"curve-trade-sim-go/internal/limitorder"
	"curve-trade-sim-go/internal/models"
	"go.uber.org/zap"
)

type placeOrderBody struct {
	UserID       flexInt   `json:"userId"`
	Symbol       string    `json:"symbol"`
	CurveID      string    `json:"curveId"`
	Side         string    `json:"side"`
	TriggerPrice flexFloat `json:"triggerPrice"`
	Amount       flexFloat `json:"amount"`
	CurrentPrice flexFloat `json:"currentPrice"`
}

// handlePlaceOrder handles POST /api/limit-order. Buy orders from a known
// user reserve their notional in the ledger before the order is stored.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var body placeOrderBody
	if err := parseJSONBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	req := limitorder.PlaceRequest{
		UserID:       int64(body.UserID),
		Symbol:       body.Symbol,
		CurveID:      body.CurveID,
		Side:         models.Side(body.Side),
		TriggerPrice: float64(body.TriggerPrice),
		Amount:       float64(body.Amount),
		CurrentPrice: float64(body.CurrentPrice),
	}
	if err := req.Validate(); err != nil {
		s.respondServiceError(w, err, "Failed to place order")
		return
	}

	if req.UserID > 0 && req.Side == models.SideBuy {
		_, err := s.deps.Ledger.RecordTrade(r.Context(), models.TradeRequest{
			UserID:  req.UserID,
			Type:    models.TradeTypeReserve,
			Symbol:  req.Symbol,
			CurveID: req.CurveID,
			Side:    models.SideBuy,
			Amount:  req.Amount,
			Price:   req.TriggerPrice,
		})
		if err != nil {
			s.respondServiceError(w, err, "Failed to reserve funds")
			return
		}
	}

	order, err := s.deps.Orders.Place(req)
	if err != nil {
		s.respondServiceError(w, err, "Failed to place order")
		return
	}
	s.logger.Info("Limit order placed",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("trigger_price", order.TriggerPrice),
	)
	respondJSON(w, http.StatusCreated, order)
}

// handleListOrders handles GET /api/limit-order
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Orders.List())
}

// handleCancelOrder handles DELETE /api/limit-order?id=
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.deps.Orders.Cancel(r.URL.Query().Get("id"))
	if err != nil {
		s.respondServiceError(w, err, "Failed to cancel order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
