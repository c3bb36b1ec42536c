package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"curve-trade-sim-go/internal/analysis"
	"curve-trade-sim-go/internal/launch"
	"curve-trade-sim-go/internal/ledger"
	"curve-trade-sim-go/internal/limitorder"
	"go.uber.org/zap"
)

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError sends {"error": message} merged with details.
func respondError(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	body := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		body[k] = v
	}
	body["error"] = message
	respondJSON(w, statusCode, body)
}

// respondServiceError maps domain errors to responses. Unknown errors are
// logged and reported as 500 with fallback as the message.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var insufficient *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		respondError(w, http.StatusBadRequest, "Insufficient balance", map[string]interface{}{
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, limitorder.ErrInvalidOrder),
		errors.Is(err, launch.ErrInvalidLaunch):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, limitorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found", nil)
	case errors.Is(err, analysis.ErrCurveNotFound):
		respondError(w, http.StatusNotFound, "Token not found", nil)
	default:
		s.logger.Error(fallback, zap.Error(err))
		respondError(w, http.StatusInternalServerError, fallback, nil)
	}
}

// parseJSONBody parses a JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// flexFloat accepts a JSON number or a numeric string. Strings that do not
// parse become NaN so validation rejects them by field.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = math.NaN()
		}
		*f = flexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON integer or an integer string. Anything else becomes zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// parseUserID parses a positive user id, returning 0 when absent or malformed.
func parseUserID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
