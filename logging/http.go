package logging

import (
	"encoding/json"
	"net/http"
)

// HTTPError is the structured JSON error body returned by the API. Kind is a
// short machine-checkable token; Field names the offending field for
// validation errors.
type HTTPError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// WriteJSONError writes a structured JSON error response and logs it
func WriteJSONError(w http.ResponseWriter, logger *Logger, kind, field, message string, statusCode int) {
	logger.Error("HTTP error response", map[string]interface{}{
		"status_code": statusCode,
		"kind":        kind,
		"message":     message,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(HTTPError{Error: message, Kind: kind, Field: field}); err != nil {
		logger.Warn("Failed to encode error response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// WriteJSONSuccess writes a JSON success response
func WriteJSONSuccess(w http.ResponseWriter, logger *Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Warn("Failed to encode success response", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
