package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	applog "recipebook/internal/log"
)

func testServer(limit rate.Limit, burst int) *Server {
	return &Server{
		config:      Config{RateLimit: float64(limit), RateLimitBurst: burst},
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

func TestRequestIDMiddlewareGeneratesNewID(t *testing.T) {
	s := testServer(100, 200)

	var captured string
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = applog.RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected valid UUID, got %q", captured)
	}
	if rec.Header().Get(requestIDHeader) != captured {
		t.Fatalf("expected header %q, got %q", captured, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDMiddlewareUsesProvidedID(t *testing.T) {
	s := testServer(100, 200)
	provided := uuid.New().String()

	var captured string
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = applog.RequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, provided)
	handler(httptest.NewRecorder(), req)

	if captured != provided {
		t.Fatalf("expected request ID %s, got %s", provided, captured)
	}
}

func TestRequestIDMiddlewareReplacesInvalidID(t *testing.T) {
	s := testServer(100, 200)

	var captured string
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = applog.RequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	handler(httptest.NewRecorder(), req)

	if captured == "not-a-uuid" {
		t.Fatal("expected invalid request id to be replaced")
	}
}

func TestRateLimitMiddlewareRejectsWhenExhausted(t *testing.T) {
	s := testServer(rate.Every(1e12), 1)
	handler := s.rateLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRecorder()
	handler(first, httptest.NewRequest(http.MethodGet, "/test", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler(second, httptest.NewRequest(http.MethodGet, "/test", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header, got %q", second.Header().Get("Retry-After"))
	}
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := testServer(100, 200)
	handler := s.panicRecoveryMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLoggingMiddlewarePassesStatusThrough(t *testing.T) {
	s := testServer(100, 200)
	handler := s.loggingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}

func TestRouteLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/api/recipe/recipes/":      "/api/recipe/recipes/",
		"/api/recipe/recipes/42/":   "/api/recipe/recipes/{id}/",
		"/api/recipe/ingredients/7": "/api/recipe/ingredients/{id}",
		"/api/recipe/recipes/abc/":  "/api/recipe/recipes/abc/",
	}
	for path, want := range tests {
		if got := routeLabel(path); got != want {
			t.Fatalf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
