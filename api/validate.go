package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/probe"
)

// ValidateRequest is the request body for probing a source URL
type ValidateRequest struct {
	URL string `json:"url"`
}

// URLChecker defines the interface for bounded-time URL reachability checks
type URLChecker interface {
	Check(ctx context.Context, url string) probe.Result
}

// ValidateHandler handles the POST /api/validate/url endpoint. The probe
// only informs the caller; saving a configuration never depends on it.
type ValidateHandler struct {
	checker URLChecker
	logger  *logging.Logger
}

// NewValidateHandler creates a new handler for the URL validation API
func NewValidateHandler(checker URLChecker, logger *logging.Logger) *ValidateHandler {
	return &ValidateHandler{checker: checker, logger: logger}
}

// ServeHTTP handles the POST /api/validate/url request
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "", "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		logging.WriteJSONError(w, h.logger, KindValidation, "url", "url is required", http.StatusBadRequest)
		return
	}

	result := h.checker.Check(r.Context(), req.URL)
	logging.WriteJSONSuccess(w, h.logger, result)
}
