package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alorle/chaos-stream-manager/instances"
	"github.com/alorle/chaos-stream-manager/probe"
)

type noopChecker struct{}

func (noopChecker) Check(_ context.Context, _ string) probe.Result {
	return probe.Result{Reachable: true, StatusCode: 200}
}

func fullDeps(t *testing.T) Dependencies {
	t.Helper()
	return Dependencies{
		Store:     newTestStore(t),
		Instances: &instances.MockClient{},
		Checker:   noopChecker{},
		Logger:    testLogger(),
	}
}

func TestSetupRoutes_Health(t *testing.T) {
	h := SetupRoutes("http://manager.example.com", fullDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestSetupRoutes_Metrics(t *testing.T) {
	h := SetupRoutes("http://manager.example.com", fullDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("metrics status = %d", w.Code)
	}
}

func TestSetupRoutes_RegisteredPaths(t *testing.T) {
	h := SetupRoutes("http://manager.example.com", fullDeps(t))

	paths := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/configs", http.StatusOK},
		{http.MethodGet, "/api/configs/ghost/hls", http.StatusNotFound},
		{http.MethodGet, "/api/instances", http.StatusOK},
		{http.MethodGet, "/redirect/ghost.m3u8", http.StatusNotFound},
		{http.MethodGet, "/api/docs", http.StatusOK},
	}
	for _, tt := range paths {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
	}
}

func TestSetupRoutes_OptionalHandlersNotRegistered(t *testing.T) {
	deps := Dependencies{
		Store:  newTestStore(t),
		Logger: testLogger(),
	}
	h := SetupRoutes("http://manager.example.com", deps)

	req := httptest.NewRequest(http.MethodGet, "/api/instances", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("instances route without a CLI client: status = %d, want 404", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/validate/url", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("validate route without a checker: status = %d, want 404", w.Code)
	}
}

func TestDocumentationHandler_ServesJSON(t *testing.T) {
	h := NewDocumentationHandler(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("openapi version = %v", doc["openapi"])
	}
	if _, ok := doc["paths"].(map[string]interface{})["/api/configs"]; !ok {
		t.Error("document should describe /api/configs")
	}
}
