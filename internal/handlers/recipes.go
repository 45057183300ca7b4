package handlers

import (
	"net/http"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
)

const recipesPrefix = APIPrefix + "recipes"

// RecipeResource serves the recipe collection and its members.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if !available(w, r) {
		return
	}

	member, ok := splitResource(r, recipesPrefix)
	if !ok {
		writeNotFound(w)
		return
	}

	if member == "" {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			createRecipe(w, r)
		default:
			writeMethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}

	recipeID, ok := parseID(member)
	if !ok {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", member)
		writeNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, recipeID)
	case http.MethodPut:
		updateRecipe(w, r, recipeID, false)
	case http.MethodPatch:
		updateRecipe(w, r, recipeID, true)
	case http.MethodDelete:
		deleteRecipe(w, r, recipeID)
	default:
		writeMethodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	filter := store.RecipeFilter{Search: r.URL.Query().Get("search")}
	results, err := entities.ListRecipes(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err, "load recipes")
		return
	}

	responses := make([]recipeSummary, 0, len(results))
	for _, recipe := range results {
		responses = append(responses, projectRecipeSummary(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	recipe, err := entities.GetRecipe(r.Context(), recipeID)
	if err != nil {
		writeStoreError(w, r, err, "load recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipeDetail(*recipe))
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	object, err := decodeObject(r)
	if err != nil {
		applog.Debug(ctx, "invalid recipe create payload", "error", err)
		writeDecodeError(w, err)
		return
	}

	fields, err := decodeRecipeFields(object, false)
	if err != nil {
		applog.Debug(ctx, "recipe validation failed", "error", err)
		writeDecodeError(w, err)
		return
	}

	recipe, err := recipes.Create(ctx, fields)
	if err != nil {
		writeStoreError(w, r, err, "create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, projectRecipeDetail(*recipe))
}

func updateRecipe(w http.ResponseWriter, r *http.Request, recipeID uint, partial bool) {
	ctx := r.Context()
	if _, err := entities.GetRecipe(ctx, recipeID); err != nil {
		writeStoreError(w, r, err, "load recipe")
		return
	}

	object, err := decodeObject(r)
	if err != nil {
		applog.Debug(ctx, "invalid recipe update payload", "error", err, "id", recipeID)
		writeDecodeError(w, err)
		return
	}

	fields, err := decodeRecipeFields(object, partial)
	if err != nil {
		applog.Debug(ctx, "recipe update validation failed", "error", err, "id", recipeID)
		writeDecodeError(w, err)
		return
	}

	recipe, err := recipes.Update(ctx, recipeID, fields)
	if err != nil {
		writeStoreError(w, r, err, "update recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipeDetail(*recipe))
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	if err := entities.DeleteRecipe(r.Context(), recipeID); err != nil {
		writeStoreError(w, r, err, "delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
