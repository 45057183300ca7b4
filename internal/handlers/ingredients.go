package handlers

import (
	"net/http"
	"strconv"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
)

const ingredientsPrefix = APIPrefix + "ingredients"

// IngredientResource serves the ingredient collection and its members.
// Ingredients are created through recipes, so there is no create or
// retrieve-by-id endpoint.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	member, ok := splitResource(r, ingredientsPrefix)
	if !ok {
		writeNotFound(w)
		return
	}

	if member == "" {
		if r.Method == http.MethodGet {
			listIngredients(w, r)
			return
		}
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	ingredientID, ok := parseID(member)
	if !ok {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", member)
		writeNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodPut:
		updateIngredient(w, r, ingredientID, false)
	case http.MethodPatch:
		updateIngredient(w, r, ingredientID, true)
	case http.MethodDelete:
		deleteIngredient(w, r, ingredientID)
	default:
		writeMethodNotAllowed(w, r, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	assignedOnly, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get("assigned_only")))
	results, err := entities.ListIngredients(r.Context(), store.IngredientFilter{AssignedOnly: assignedOnly})
	if err != nil {
		writeStoreError(w, r, err, "load ingredients")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredients(results))
}

func updateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint, partial bool) {
	ctx := r.Context()
	ingredient, err := entities.GetIngredient(ctx, ingredientID)
	if err != nil {
		writeStoreError(w, r, err, "load ingredient")
		return
	}

	object, err := decodeObject(r)
	if err != nil {
		applog.Debug(ctx, "invalid ingredient update payload", "error", err, "id", ingredientID)
		writeDecodeError(w, err)
		return
	}

	changes, err := decodeIngredientChanges(object, partial)
	if err != nil {
		applog.Debug(ctx, "ingredient update validation failed", "error", err, "id", ingredientID)
		writeDecodeError(w, err)
		return
	}

	if err := entities.UpdateIngredient(ctx, ingredient, changes); err != nil {
		writeStoreError(w, r, err, "update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*ingredient))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	if err := entities.DeleteIngredient(r.Context(), ingredientID); err != nil {
		writeStoreError(w, r, err, "delete ingredient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
