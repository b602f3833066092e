package server

import (
	"encoding/json"
	"net/http"

	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
	"flowmind-engine/internal/strategies"
)

// EvaluateRequest mirrors the facade input.
type EvaluateRequest struct {
	Strategy models.StrategyDefinition `json:"strategy"`
	Market   models.MarketContext      `json:"market"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, strategies.List())
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.evaluator.Evaluate(req.Strategy, req.Market)
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	if s.journal != nil {
		if _, err := s.journal.SaveEvaluation(r.Context(), result); err != nil {
			// The evaluation itself succeeded; journaling is best effort.
			s.logger.Warn().Err(err).Msg("Failed to journal evaluation")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// isValidationError reports whether err belongs to the engine's local
// validation taxonomy, which maps to a 400 rather than a 500.
func isValidationError(err error) bool {
	return apperrors.Is(err, apperrors.ErrInvalidInput) ||
		apperrors.Is(err, apperrors.ErrEmptyStrategy) ||
		apperrors.Is(err, apperrors.ErrDegenerateMarket)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
