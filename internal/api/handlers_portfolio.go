package api

import (
	"net/http"

	"curve-trade-sim-go/internal/models"
)

// tradeRequestBody is the POST /api/portfolio payload. Numeric fields may be strings.
type tradeRequestBody struct {
	UserID  flexInt   `json:"userId"`
	Type    string    `json:"type"`
	Symbol  string    `json:"symbol"`
	CurveID string    `json:"curveId"`
	Name    string    `json:"name"`
	Side    string    `json:"side"`
	Amount  flexFloat `json:"amount"`
	Price   flexFloat `json:"price"`
}

func (b tradeRequestBody) toModel() models.TradeRequest {
	return models.TradeRequest{
		UserID:  int64(b.UserID),
		Type:    models.TradeType(b.Type),
		Symbol:  b.Symbol,
		CurveID: b.CurveID,
		Name:    b.Name,
		Side:    models.Side(b.Side),
		Amount:  float64(b.Amount),
		Price:   float64(b.Price),
	}
}

// handleGetPortfolio handles GET /api/portfolio?userId=
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID := parseUserID(r.URL.Query().Get("userId"))
	if userID == 0 {
		respondError(w, http.StatusBadRequest, "userId required", nil)
		return
	}

	portfolio, err := s.deps.Ledger.GetPortfolio(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to load portfolio")
		return
	}
	respondJSON(w, http.StatusOK, portfolio)
}

// handleRecordTrade handles POST /api/portfolio
func (s *Server) handleRecordTrade(w http.ResponseWriter, r *http.Request) {
	var body tradeRequestBody
	if err := parseJSONBody(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	portfolio, err := s.deps.Ledger.RecordTrade(r.Context(), body.toModel())
	if err != nil {
		s.respondServiceError(w, err, "Failed to record trade")
		return
	}
	respondJSON(w, http.StatusOK, portfolio)
}
