package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/chaos-stream-manager/api"
	"github.com/alorle/chaos-stream-manager/instances"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/store"
)

// Dependencies holds all the dependencies needed by the handlers
type Dependencies struct {
	Store     store.Interface
	Instances instances.Interface
	Checker   api.URLChecker
	Logger    *logging.Logger
}

// SetupRoutes configures all HTTP routes and handlers. baseURL is the
// externally reachable base URL resolved once at startup.
func SetupRoutes(baseURL string, deps Dependencies) http.Handler {
	handler := http.NewServeMux()

	handler.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.Logger.Warn("Error writing health response", map[string]interface{}{"error": err.Error()})
		}
	})

	// Prometheus metrics endpoint
	handler.Handle("/metrics", promhttp.Handler())

	// Player-facing redirect endpoint
	handler.HandleFunc("/redirect/", CreateRedirectHandler(deps.Store, deps.Logger))

	// API endpoints for configurations
	configsHandler := api.NewConfigsHandler(deps.Store, deps.Instances, baseURL, deps.Logger)
	handler.Handle("/api/configs", configsHandler)
	handler.Handle("/api/configs/", configsHandler)

	// API endpoints for chaos proxy instances
	if deps.Instances != nil {
		instancesHandler := api.NewInstancesHandler(deps.Instances, deps.Logger)
		handler.Handle("/api/instances", instancesHandler)
		handler.Handle("/api/instances/", instancesHandler)
	}

	// API endpoint for source URL validation
	if deps.Checker != nil {
		handler.Handle("/api/validate/url", api.NewValidateHandler(deps.Checker, deps.Logger))
	}

	// API description
	handler.Handle("/api/docs", NewDocumentationHandler(deps.Logger))

	return handler
}
