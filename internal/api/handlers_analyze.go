package api

import (
	"net/http"
)

// handleAnalyze handles GET /api/analyze?id= and POST /api/analyze {"curveId"}
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	curveID := r.URL.Query().Get("id")
	if r.Method == http.MethodPost {
		var body struct {
			CurveID string `json:"curveId"`
		}
		if err := parseJSONBody(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		curveID = body.CurveID
	}
	if curveID == "" {
		respondError(w, http.StatusBadRequest, "Missing curveId", nil)
		return
	}

	report, err := s.deps.Analyzer.Analyze(r.Context(), curveID)
	if err != nil {
		s.respondServiceError(w, err, "Failed to analyze token")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
