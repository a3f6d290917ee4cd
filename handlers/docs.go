package handlers

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/alorle/chaos-stream-manager/logging"
)

//go:embed openapi.yaml
var openapiSpec []byte

var (
	loadSpecOnce sync.Once
	loadedSpec   *openapi3.T
	loadSpecErr  error
)

func loadSpec() (*openapi3.T, error) {
	loadSpecOnce.Do(func() {
		loader := openapi3.NewLoader()
		loadedSpec, loadSpecErr = loader.LoadFromData(openapiSpec)
	})
	return loadedSpec, loadSpecErr
}

// NewDocumentationHandler serves the OpenAPI description of the API as JSON
func NewDocumentationHandler(logger *logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spec, err := loadSpec()
		if err != nil {
			logger.Error("Failed to load OpenAPI description", map[string]interface{}{"error": err.Error()})
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(spec); err != nil {
			logger.Warn("Failed to encode OpenAPI description", map[string]interface{}{"error": err.Error()})
		}
	})
}
