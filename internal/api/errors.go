package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, log zerolog.Logger, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// respondError sends an error response in JSON format
func respondError(w http.ResponseWriter, log zerolog.Logger, code int, message string) {
	respondJSON(w, log, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// respondBadRequest sends a 400 Bad Request error
func respondBadRequest(w http.ResponseWriter, log zerolog.Logger, message string) {
	respondError(w, log, http.StatusBadRequest, message)
}

// respondInternalError sends a 500 Internal Server Error
func respondInternalError(w http.ResponseWriter, log zerolog.Logger, message string) {
	respondError(w, log, http.StatusInternalServerError, message)
}

// respondSuccess sends a 200 OK with payload
func respondSuccess(w http.ResponseWriter, log zerolog.Logger, payload interface{}) {
	respondJSON(w, log, http.StatusOK, payload)
}
