package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alorle/chaos-stream-manager/corruption"
	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/store"
)

func testLogger() *logging.Logger {
	return logging.New(logging.ERROR, "[test]")
}

func newTestStore(t *testing.T) store.Interface {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "configs.yaml"), testLogger())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return st
}

func saveConfig(t *testing.T, st store.Interface, name string, protocol domain.Protocol, delayMS int64) {
	t.Helper()
	_, err := st.Save(store.StoredConfiguration{
		Name:        name,
		Protocol:    protocol,
		InstanceURL: "https://chaos.example.com",
		SourceURL:   "https://origin.example.com/master" + protocol.ManifestExtension(),
		StreamType:  domain.StreamTypeLive,
		Delays:      []corruption.Delay{{Target: corruption.AllSegments(), MS: delayMS}},
	})
	if err != nil {
		t.Fatalf("Save(%s) failed: %v", name, err)
	}
}

func getRedirect(h http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestRedirectHandler_Found(t *testing.T) {
	st := newTestStore(t)
	saveConfig(t, st, "demo", domain.ProtocolHLS, 1000)
	h := CreateRedirectHandler(st, testLogger())

	w := getRedirect(h, "/redirect/demo.m3u8")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	want := "https://chaos.example.com/api/v2/manifests/hls/proxied/master.m3u8" +
		"?url=https://origin.example.com/master.m3u8&delay=[{i:*,ms:1000}]"
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestRedirectHandler_DASHExtension(t *testing.T) {
	st := newTestStore(t)
	saveConfig(t, st, "demo", domain.ProtocolDASH, 1000)
	h := CreateRedirectHandler(st, testLogger())

	w := getRedirect(h, "/redirect/demo.mpd")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "/manifests/dash/proxied/manifest.mpd") {
		t.Errorf("Location = %q", loc)
	}
}

// A player holding the same redirect URL must pick up configuration edits on
// its next request: the proxy URL is regenerated from the store every time.
func TestRedirectHandler_ReflectsLatestSave(t *testing.T) {
	st := newTestStore(t)
	h := CreateRedirectHandler(st, testLogger())

	saveConfig(t, st, "demo", domain.ProtocolHLS, 1000)
	w := getRedirect(h, "/redirect/demo.m3u8")
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "ms:1000") {
		t.Fatalf("first redirect Location = %q", loc)
	}

	saveConfig(t, st, "demo", domain.ProtocolHLS, 2500)
	w = getRedirect(h, "/redirect/demo.m3u8")
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "ms:2500") {
		t.Errorf("redirect should reflect the re-saved delay, Location = %q", loc)
	}
}

func TestRedirectHandler_UnknownConfig(t *testing.T) {
	h := CreateRedirectHandler(newTestStore(t), testLogger())

	w := getRedirect(h, "/redirect/ghost.m3u8")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	// Errors on this endpoint are plain text for player clients.
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "ghost") || !strings.Contains(body, "hls") {
		t.Errorf("error should name both key parts, got %q", body)
	}
}

func TestRedirectHandler_BadExtensionRejectedBeforeLookup(t *testing.T) {
	lookedUp := false
	st := &store.MockStore{
		GetFunc: func(name string, protocol domain.Protocol) (store.StoredConfiguration, error) {
			lookedUp = true
			return store.StoredConfiguration{}, store.ErrNotFound
		},
	}
	h := CreateRedirectHandler(st, testLogger())

	for _, path := range []string{"/redirect/demo.ts", "/redirect/demo"} {
		w := getRedirect(h, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
	if lookedUp {
		t.Error("unrecognized extensions must be rejected before any store lookup")
	}
}

func TestRedirectHandler_GenerationFailure(t *testing.T) {
	// A record with no source URL cannot be encoded; the handler must fail
	// rather than redirect to a malformed URL.
	st := &store.MockStore{
		GetFunc: func(name string, protocol domain.Protocol) (store.StoredConfiguration, error) {
			return store.StoredConfiguration{
				Name:        name,
				Protocol:    protocol,
				InstanceURL: "https://chaos.example.com",
			}, nil
		},
	}
	h := CreateRedirectHandler(st, testLogger())

	w := getRedirect(h, "/redirect/demo.m3u8")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to generate proxy URL") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestRedirectHandler_MethodNotAllowed(t *testing.T) {
	h := CreateRedirectHandler(newTestStore(t), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/redirect/demo.m3u8", nil)
	w := httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRedirectHandler_NestedPathRejected(t *testing.T) {
	h := CreateRedirectHandler(newTestStore(t), testLogger())

	w := getRedirect(h, "/redirect/a/b.m3u8")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
