package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/engine"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

const maxBodyBytes = 1 << 20

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response",
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_encode_failed"),
		)
	}
}

// writeError maps the error's sentinel marker onto an HTTP status and emits
// the uniform {"error": ...} envelope. Credit refusals carry the counts.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	body := api.ErrorResponse{Error: err.Error()}

	var credit *engine.InsufficientCreditError
	if errors.As(err, &credit) {
		body.Required = credit.Required
		body.Available = credit.Available
	}

	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_request_failed"),
		)
	} else {
		logger.Debug("request rejected",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeJSONError(w, status, body)
}

func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSONError(w, status, api.ErrorResponse{Error: message})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, body api.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode error response", logging.Error(err))
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientCredit):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded request body into target, classifying malformed
// payloads as validation failures.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrValidation, "request", "decode body", "invalid JSON payload", err)
	}
	return nil
}
