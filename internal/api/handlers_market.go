package api

import (
	"net/http"
	"strconv"

	"curve-trade-sim-go/internal/chart"
	"curve-trade-sim-go/internal/risk"
	"curve-trade-sim-go/internal/strategy"
)

const (
	defaultChartLimit = 100
	maxChartLimit     = 1000
)

// handleStrategy handles GET /api/strategy?tier=
func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	curves, err := s.deps.Curves.FetchCurves(r.Context(), s.deps.CurveLimit)
	if err != nil {
		s.respondServiceError(w, err, "Failed to generate strategy")
		return
	}
	respondJSON(w, http.StatusOK, strategy.Allocate(r.URL.Query().Get("tier"), curves, s.now()))
}

// handleRisk handles GET /api/risk?curveId=
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	curveID := r.URL.Query().Get("curveId")
	if curveID == "" {
		respondError(w, http.StatusBadRequest, "curveId required", nil)
		return
	}

	curve, err := s.deps.Curves.FetchCurveByID(r.Context(), curveID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to score token")
		return
	}
	if curve == nil {
		respondError(w, http.StatusNotFound, "Token not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, risk.Score(*curve, s.now()))
}

// handleChartData handles GET /api/chart-data?curveId=&limit=
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	curveID := query.Get("curveId")
	if curveID == "" {
		respondError(w, http.StatusBadRequest, "curveId required", nil)
		return
	}

	limit := defaultChartLimit
	if raw := query.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxChartLimit)
		}
	}

	trades, err := s.deps.Trades.FetchTrades(r.Context(), curveID, limit)
	if err != nil {
		s.respondServiceError(w, err, "Failed to fetch chart data")
		return
	}
	respondJSON(w, http.StatusOK, chart.Summarize(trades))
}
