package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipebook/internal/handlers"
	applog "recipebook/internal/log"
)

func (s *Server) newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	// Probes and metrics bypass the middleware chain so scrapes are never rate limited.
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/readyz", handlers.Ready)
	applog.Debug(context.Background(), "route registered", "path", "/readyz")
	mux.Handle("/metrics", promhttp.Handler())
	applog.Debug(context.Background(), "route registered", "path", "/metrics")

	mux.HandleFunc("/api/schema/", s.withMiddleware(handlers.Schema))
	applog.Debug(context.Background(), "route registered", "path", "/api/schema/")

	recipes := s.withMiddleware(handlers.RecipeResource)
	mux.HandleFunc(handlers.APIPrefix+"recipes", recipes)
	mux.HandleFunc(handlers.APIPrefix+"recipes/", recipes)
	applog.Debug(context.Background(), "route registered", "path", handlers.APIPrefix+"recipes/")

	ingredients := s.withMiddleware(handlers.IngredientResource)
	mux.HandleFunc(handlers.APIPrefix+"ingredients", ingredients)
	mux.HandleFunc(handlers.APIPrefix+"ingredients/", ingredients)
	applog.Debug(context.Background(), "route registered", "path", handlers.APIPrefix+"ingredients/")

	return mux
}
