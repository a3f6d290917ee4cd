package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alorle/chaos-stream-manager/probe"
)

type stubChecker struct {
	result  probe.Result
	gotURL  string
	visited bool
}

func (s *stubChecker) Check(_ context.Context, url string) probe.Result {
	s.visited = true
	s.gotURL = url
	return s.result
}

func TestValidateHandler_Reachable(t *testing.T) {
	checker := &stubChecker{result: probe.Result{Reachable: true, StatusCode: 200}}
	h := NewValidateHandler(checker, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/validate/url",
		strings.NewReader(`{"url": "https://origin.example.com/master.m3u8"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if checker.gotURL != "https://origin.example.com/master.m3u8" {
		t.Errorf("Check() called with %q", checker.gotURL)
	}

	var result probe.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Reachable || result.StatusCode != 200 {
		t.Errorf("result = %+v", result)
	}
}

func TestValidateHandler_MissingURL(t *testing.T) {
	checker := &stubChecker{}
	h := NewValidateHandler(checker, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/validate/url", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if checker.visited {
		t.Error("Check() should not run without a url")
	}
	if httpErr := decodeError(t, w); httpErr.Field != "url" {
		t.Errorf("field = %q, want url", httpErr.Field)
	}
}

func TestValidateHandler_MethodNotAllowed(t *testing.T) {
	h := NewValidateHandler(&stubChecker{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/validate/url", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
