package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipebook/internal/handlers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{Database: openTestDatabase(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { handlers.Configure(nil) })
	return srv
}

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newTestServer(t).newRouter()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestNewRouterRoutes(t *testing.T) {
	router := newTestServer(t).newRouter()

	tests := []struct {
		path   string
		status int
	}{
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/schema/", http.StatusOK},
		{"/api/recipe/recipes", http.StatusOK},
		{"/api/recipe/recipes/", http.StatusOK},
		{"/api/recipe/recipes/1/", http.StatusNotFound},
		{"/api/recipe/ingredients/", http.StatusOK},
		{"/api/recipe/unknown/", http.StatusNotFound},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		router.ServeHTTP(rr, req)
		if rr.Code != tt.status {
			t.Fatalf("GET %s: expected %d, got %d", tt.path, tt.status, rr.Code)
		}
	}
}

func TestMetricsExposeRequestCounters(t *testing.T) {
	router := newTestServer(t).newRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipe/recipes/", nil))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "recipebook_http_requests_total") {
		t.Fatal("expected http request counter in metrics output")
	}
}
