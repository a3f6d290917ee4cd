package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/instances"
	"github.com/alorle/chaos-stream-manager/logging"
)

// InstancesHandler handles lifecycle operations for remote chaos-proxy
// instances. It is a thin passthrough: CLI failures are forwarded verbatim.
type InstancesHandler struct {
	client instances.Interface
	logger *logging.Logger
}

// NewInstancesHandler creates a new handler for the instances API
func NewInstancesHandler(client instances.Interface, logger *logging.Logger) *InstancesHandler {
	return &InstancesHandler{client: client, logger: logger}
}

// CreateInstanceRequest is the request body for provisioning an instance
type CreateInstanceRequest struct {
	Name         string `json:"name"`
	StatefulMode bool   `json:"statefulMode"`
}

// ServeHTTP handles all instance-related requests
func (h *InstancesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/instances")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	name := path
	switch r.Method {
	case http.MethodGet:
		h.handleDescribe(w, r, name)
	case http.MethodDelete:
		h.handleDelete(w, r, name)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InstancesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.List(r.Context())
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindCollaborator, "", err.Error(), http.StatusBadGateway)
		return
	}
	if result == nil {
		result = []instances.Instance{}
	}
	logging.WriteJSONSuccess(w, h.logger, result)
}

func (h *InstancesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "", "invalid request body", http.StatusBadRequest)
		return
	}
	if !domain.IsValidConfigName(req.Name) {
		logging.WriteJSONError(w, h.logger, KindValidation, "name",
			"instance name must contain only letters, digits, underscores and hyphens", http.StatusBadRequest)
		return
	}

	instance, err := h.client.Create(r.Context(), req.Name, req.StatefulMode)
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindCollaborator, "", err.Error(), http.StatusBadGateway)
		return
	}
	logging.WriteJSONSuccess(w, h.logger, instance)
}

func (h *InstancesHandler) handleDescribe(w http.ResponseWriter, r *http.Request, name string) {
	instance, err := h.client.Describe(r.Context(), name)
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindCollaborator, "", err.Error(), http.StatusBadGateway)
		return
	}
	logging.WriteJSONSuccess(w, h.logger, instance)
}

func (h *InstancesHandler) handleDelete(w http.ResponseWriter, r *http.Request, name string) {
	if err := h.client.Delete(r.Context(), name); err != nil {
		logging.WriteJSONError(w, h.logger, KindCollaborator, "", err.Error(), http.StatusBadGateway)
		return
	}
	logging.WriteJSONSuccess(w, h.logger, map[string]interface{}{"name": name, "deleted": true})
}
