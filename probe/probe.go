// Package probe performs bounded-time reachability checks on source URLs.
// The result only gates user confirmation; saving a configuration never
// requires a successful probe.
package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/alorle/chaos-stream-manager/metrics"
)

const defaultTimeout = 10 * time.Second

// Result reports the outcome of a reachability check
type Result struct {
	Reachable  bool `json:"reachable"`
	StatusCode int  `json:"statusCode,omitempty"`
}

// Checker probes URLs with a bounded-time HTTP request
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

// NewChecker creates a Checker. A zero timeout uses the 10 second default.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Checker{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Check performs one GET against the URL. A URL is reachable when the
// request completes at all; the status code is reported alongside so the
// caller can distinguish a 404 origin from a dead host.
func (c *Checker) Check(ctx context.Context, rawURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.RecordProbe(false)
		return Result{Reachable: false}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordProbe(false)
		return Result{Reachable: false}
	}
	defer resp.Body.Close()

	metrics.RecordProbe(true)
	return Result{Reachable: true, StatusCode: resp.StatusCode}
}
