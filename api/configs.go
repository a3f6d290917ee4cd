package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alorle/chaos-stream-manager/baseurl"
	"github.com/alorle/chaos-stream-manager/corruption"
	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/encoder"
	"github.com/alorle/chaos-stream-manager/instances"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/store"
)

// ConfigsHandler handles CRUD operations for named configurations
type ConfigsHandler struct {
	store     store.Interface
	instances instances.Interface
	baseURL   string
	logger    *logging.Logger
}

// NewConfigsHandler creates a new handler for the configurations API.
// instanceClient may be nil when no chaos CLI is configured; stateful-mode
// gating of relative-sequence targeting is then skipped.
func NewConfigsHandler(st store.Interface, instanceClient instances.Interface, baseURL string, logger *logging.Logger) *ConfigsHandler {
	return &ConfigsHandler{
		store:     st,
		instances: instanceClient,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// ServeHTTP handles all configuration-related requests
func (h *ConfigsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Extract path after /api/configs
	path := strings.TrimPrefix(r.URL.Path, "/api/configs")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleSave(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/configs/:name/:protocol
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		logging.WriteJSONError(w, h.logger, KindNotFound, "", "expected /api/configs/{name}/{protocol}", http.StatusNotFound)
		return
	}
	name := parts[0]

	protocol, err := domain.ParseProtocol(parts[1])
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "protocol", err.Error(), http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, name, protocol)
	case http.MethodDelete:
		h.handleDelete(w, r, name, protocol)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SaveConfigRequest is the request body for saving a configuration. Either
// instanceName (resolved through the chaos CLI) or instanceUrl must be set.
type SaveConfigRequest struct {
	Name         string                  `json:"name"`
	Protocol     string                  `json:"protocol"`
	InstanceName string                  `json:"instanceName,omitempty"`
	InstanceURL  string                  `json:"instanceUrl,omitempty"`
	SourceURL    string                  `json:"sourceUrl"`
	StreamType   string                  `json:"streamType,omitempty"`
	Description  string                  `json:"description,omitempty"`
	Delays       []corruption.Delay      `json:"delays,omitempty"`
	StatusCodes  []corruption.StatusCode `json:"statusCodes,omitempty"`
	Timeouts     []corruption.Timeout    `json:"timeouts,omitempty"`
	Throttles    []corruption.Throttle   `json:"throttles,omitempty"`
}

// ConfigResponse is one stored configuration with its derived URLs. ProxyURL
// is recomputed on every read, never stored.
type ConfigResponse struct {
	store.StoredConfiguration
	ProxyURL    string `json:"proxyUrl,omitempty"`
	RedirectURL string `json:"redirectUrl"`
}

func (h *ConfigsHandler) response(cfg store.StoredConfiguration) ConfigResponse {
	resp := ConfigResponse{
		StoredConfiguration: cfg,
		RedirectURL:         baseurl.RedirectURL(h.baseURL, cfg.Name, cfg.Protocol),
	}
	if proxyURL, err := encoder.Encode(cfg.InstanceURL, cfg.Profile()); err == nil {
		resp.ProxyURL = proxyURL
	}
	return resp
}

// handleSave handles POST /api/configs
func (h *ConfigsHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "", "invalid request body", http.StatusBadRequest)
		return
	}

	protocol, err := domain.ParseProtocol(req.Protocol)
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "protocol", err.Error(), http.StatusBadRequest)
		return
	}

	streamType, err := domain.ParseStreamType(req.StreamType)
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindValidation, "streamType", err.Error(), http.StatusBadRequest)
		return
	}

	cfg := store.StoredConfiguration{
		Name:        req.Name,
		Protocol:    protocol,
		InstanceURL: req.InstanceURL,
		SourceURL:   req.SourceURL,
		StreamType:  streamType,
		Description: req.Description,
		Delays:      req.Delays,
		StatusCodes: req.StatusCodes,
		Timeouts:    req.Timeouts,
		Throttles:   req.Throttles,
	}

	// Resolve the target instance through the chaos CLI when named. This is
	// also where relative-sequence targeting is gated on stateful mode.
	if req.InstanceName != "" && h.instances != nil {
		instance, err := h.instances.Describe(r.Context(), req.InstanceName)
		if err != nil {
			logging.WriteJSONError(w, h.logger, KindCollaborator, "", err.Error(), http.StatusBadGateway)
			return
		}
		if cfg.InstanceURL == "" {
			cfg.InstanceURL = instance.URL
		}
		if cfg.Profile().UsesRelativeSequence() && !instance.StatefulMode {
			logging.WriteJSONError(w, h.logger, KindValidation, "target.mode",
				fmt.Sprintf("relative sequence targeting requires instance %q to run in stateful mode", req.InstanceName),
				http.StatusBadRequest)
			return
		}
	}

	// Validate before mutating the store so a rejected save changes nothing.
	if err := cfg.Validate(); err != nil {
		field := ""
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			field = fe.Field
		}
		logging.WriteJSONError(w, h.logger, KindValidation, field, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := h.store.Save(cfg)
	if err != nil {
		if errors.Is(err, store.ErrPersist) {
			logging.WriteJSONError(w, h.logger, KindPersistence, "", err.Error(), http.StatusInternalServerError)
			return
		}
		field := ""
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			field = fe.Field
		}
		logging.WriteJSONError(w, h.logger, KindValidation, field, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("Configuration saved", map[string]interface{}{
		"name":     saved.Name,
		"protocol": saved.Protocol,
	})
	logging.WriteJSONSuccess(w, h.logger, h.response(saved))
}

// handleList handles GET /api/configs
func (h *ConfigsHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	configs, err := h.store.List()
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindPersistence, "", err.Error(), http.StatusInternalServerError)
		return
	}

	responses := make([]ConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		responses = append(responses, h.response(cfg))
	}
	logging.WriteJSONSuccess(w, h.logger, responses)
}

// handleGet handles GET /api/configs/:name/:protocol
func (h *ConfigsHandler) handleGet(w http.ResponseWriter, _ *http.Request, name string, protocol domain.Protocol) {
	cfg, err := h.store.Get(name, protocol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logging.WriteJSONError(w, h.logger, KindNotFound, "",
				fmt.Sprintf("no configuration named %q for protocol %s", name, protocol), http.StatusNotFound)
			return
		}
		logging.WriteJSONError(w, h.logger, KindPersistence, "", err.Error(), http.StatusInternalServerError)
		return
	}
	logging.WriteJSONSuccess(w, h.logger, h.response(cfg))
}

// DeleteResponse confirms a removed configuration
type DeleteResponse struct {
	Name     string          `json:"name"`
	Protocol domain.Protocol `json:"protocol"`
	Deleted  bool            `json:"deleted"`
}

// handleDelete handles DELETE /api/configs/:name/:protocol
func (h *ConfigsHandler) handleDelete(w http.ResponseWriter, _ *http.Request, name string, protocol domain.Protocol) {
	existed, err := h.store.Delete(name, protocol)
	if err != nil {
		logging.WriteJSONError(w, h.logger, KindPersistence, "", err.Error(), http.StatusInternalServerError)
		return
	}
	if !existed {
		logging.WriteJSONError(w, h.logger, KindNotFound, "",
			fmt.Sprintf("no configuration named %q for protocol %s", name, protocol), http.StatusNotFound)
		return
	}

	h.logger.Info("Configuration deleted", map[string]interface{}{
		"name":     name,
		"protocol": protocol,
	})
	logging.WriteJSONSuccess(w, h.logger, DeleteResponse{Name: name, Protocol: protocol, Deleted: true})
}
