package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/encoder"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/metrics"
	"github.com/alorle/chaos-stream-manager/store"
)

// CreateRedirectHandler returns the handler for GET /redirect/{name}.{ext}.
// It resolves the short stable URL a player holds into the current proxy URL
// by re-reading the stored configuration and re-encoding on every request —
// nothing is cached, so edits take effect on the next redirect. Errors are
// plain text because the clients are video players, not JSON consumers.
func CreateRedirectHandler(st store.Interface, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		filename := strings.TrimPrefix(r.URL.Path, "/redirect/")
		if filename == "" || strings.Contains(filename, "/") {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		// The extension decides the protocol. Unrecognized extensions are
		// rejected before any store lookup.
		dot := strings.LastIndex(filename, ".")
		if dot < 0 {
			metrics.RedirectErrors.WithLabelValues(metrics.RedirectErrorBadExtension).Inc()
			http.Error(w, "Unsupported manifest extension (expected .m3u8 or .mpd)", http.StatusBadRequest)
			return
		}
		name, ext := filename[:dot], filename[dot:]

		protocol, ok := domain.ProtocolForExtension(ext)
		if !ok {
			metrics.RedirectErrors.WithLabelValues(metrics.RedirectErrorBadExtension).Inc()
			http.Error(w, fmt.Sprintf("Unsupported manifest extension %q (expected .m3u8 or .mpd)", ext), http.StatusBadRequest)
			return
		}

		cfg, err := st.Get(name, protocol)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.RedirectErrors.WithLabelValues(metrics.RedirectErrorNotFound).Inc()
				http.Error(w, fmt.Sprintf("No configuration named %q for protocol %s", name, protocol), http.StatusNotFound)
				return
			}
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		destination, err := encoder.Encode(cfg.InstanceURL, cfg.Profile())
		if err != nil {
			// A stored record without a usable source URL should have been
			// rejected at save time; never redirect to a malformed URL.
			metrics.RedirectErrors.WithLabelValues(metrics.RedirectErrorGeneration).Inc()
			logger.Error("Failed to generate proxy URL for stored configuration", map[string]interface{}{
				"name":     name,
				"protocol": protocol,
				"error":    err.Error(),
			})
			http.Error(w, "Failed to generate proxy URL", http.StatusInternalServerError)
			return
		}

		metrics.RedirectsServed.WithLabelValues(string(protocol)).Inc()
		logger.LogRedirectServed(name, string(protocol), destination)
		http.Redirect(w, r, destination, http.StatusFound)
	}
}
