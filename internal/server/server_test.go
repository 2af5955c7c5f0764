package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rollcall/internal/config"
	"rollcall/internal/service/attendance"
	"rollcall/internal/service/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	svc, err := attendance.NewService(store.NewMemoryStore(), attendance.Options{Threshold: cfg.Quorum.Threshold})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return NewServer(cfg, svc, nil)
}

func TestServer_ServesIndexAndAPI(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/verified-list", http.StatusOK, "text/html"},
		{"/assets/app.js", http.StatusOK, "javascript"},
		{"/favicon.svg", http.StatusOK, "image/svg+xml"},
		{"/api/status", http.StatusOK, "application/json"},
		{"/api/unknown", http.StatusNotFound, "application/json"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.status {
			t.Fatalf("%s: status=%d, want %d", tc.path, w.Code, tc.status)
		}
		if !strings.Contains(w.Header().Get("Content-Type"), tc.contentType) {
			t.Fatalf("%s: content type %q", tc.path, w.Header().Get("Content-Type"))
		}
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/status", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}
