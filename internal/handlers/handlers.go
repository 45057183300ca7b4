package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "recipebook/internal/log"
	"recipebook/internal/service"
	"recipebook/internal/store"
)

// APIPrefix roots the recipe and ingredient resources.
const APIPrefix = "/api/recipe/"

var (
	database *gorm.DB
	entities *store.Store
	recipes  *service.RecipeService
)

// Configure installs the database used by every handler. A nil db leaves the
// resources answering 503.
func Configure(db *gorm.DB) {
	database = db
	if db == nil {
		entities = nil
		recipes = nil
		return
	}
	entities = store.New(db)
	recipes = service.NewRecipeService(entities)
}

func available(w http.ResponseWriter, r *http.Request) bool {
	if entities == nil || recipes == nil {
		applog.Debug(r.Context(), "api request without database", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

// splitResource trims prefix from the request path and returns the member
// identifier, if any. ok is false for paths with more than one segment.
func splitResource(r *http.Request, prefix string) (member string, ok bool) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")
	if strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}

func parseID(value string) (uint, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSONError(w, http.StatusNotFound, "Not found.")
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSONError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
}

func writeValidationError(w http.ResponseWriter, verr *store.ValidationError) {
	writeJSON(w, http.StatusBadRequest, verr.Fields)
}

// writeStoreError maps store and service failures onto HTTP responses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Debug(r.Context(), "validation failed", "action", action, "error", err)
		writeValidationError(w, verr)
	case errors.Is(err, store.ErrNotFound):
		writeNotFound(w)
	default:
		applog.Error(r.Context(), "request failed", "action", action, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to "+action)
	}
}
