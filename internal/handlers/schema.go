package handlers

import (
	"net/http"
	"strings"

	"recipebook/internal/apidoc"
	applog "recipebook/internal/log"
)

// Schema serves the OpenAPI document as YAML, or JSON with ?format=json.
func Schema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	out, contentType, err := apidoc.Build(APIPrefix).Encode(format)
	if err != nil {
		applog.Debug(r.Context(), "schema format rejected", "format", format, "error", err)
		writeJSONError(w, http.StatusNotFound, "Not found.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		applog.Error(r.Context(), "failed to write schema", "error", err)
	}
}
