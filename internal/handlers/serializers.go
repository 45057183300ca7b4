package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipebook/internal/service"
	"recipebook/internal/store"
	"recipebook/models"
)

const maxBodyBytes = 1 << 20

type ingredientResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeSummary struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Ingredients []ingredientResponse `json:"ingredients"`
}

type recipeDetail struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Ingredients []ingredientResponse `json:"ingredients"`
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{ID: ingredient.ID, Name: ingredient.Name}
}

func projectIngredients(ingredients []models.Ingredient) []ingredientResponse {
	out := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		out = append(out, projectIngredient(ingredient))
	}
	return out
}

func projectRecipeSummary(recipe models.Recipe) recipeSummary {
	return recipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Ingredients: projectIngredients(recipe.Ingredients),
	}
}

func projectRecipeDetail(recipe models.Recipe) recipeDetail {
	return recipeDetail{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: projectIngredients(recipe.Ingredients),
	}
}

// errMalformedBody marks request bodies that are not valid JSON.
var errMalformedBody = errors.New("JSON parse error")

// decodeObject reads a JSON object, keeping raw values so that omitted keys
// can be told apart from empty ones. An empty body decodes to an empty object.
func decodeObject(r *http.Request) (map[string]json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w - %v", errMalformedBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w - %v", errMalformedBody, err)
	}
	if _, ok := value.(map[string]any); !ok {
		verr := store.NewValidationError()
		verr.Add("non_field_errors", fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonKind(value)))
		return nil, verr
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, fmt.Errorf("%w - %v", errMalformedBody, err)
	}
	return object, nil
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "str"
	case bool:
		return "bool"
	case float64:
		return "number"
	default:
		return "object"
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringField reads an optional string member. present is false when the key
// is absent; messages are recorded against field on type errors.
func stringField(verr *store.ValidationError, object map[string]json.RawMessage, key, field string) (value string, present bool) {
	raw, ok := object[key]
	if !ok {
		return "", false
	}
	if isNull(raw) {
		verr.Add(field, store.MsgNull)
		return "", true
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		verr.Add(field, store.MsgString)
		return "", true
	}
	return strings.TrimSpace(value), true
}

// requiredName reads a short required text member such as title or name.
func requiredName(verr *store.ValidationError, object map[string]json.RawMessage, key, field string, partial bool) *string {
	before := len(verr.Fields[field])
	value, present := stringField(verr, object, key, field)
	if !present {
		if !partial {
			verr.Add(field, store.MsgRequired)
		}
		return nil
	}
	if len(verr.Fields[field]) > before {
		return nil
	}
	store.CheckName(verr, field, value)
	return &value
}

// decodeIngredientNames validates the nested ingredients list. Only names are
// read; nested ids are ignored because ingredients resolve by name.
func decodeIngredientNames(verr *store.ValidationError, raw json.RawMessage) []string {
	if isNull(raw) {
		verr.Add("ingredients", store.MsgNull)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		verr.Add("ingredients", store.MsgList)
		return nil
	}

	names := make([]string, 0, len(items))
	for i, item := range items {
		var object map[string]json.RawMessage
		if isNull(item) || json.Unmarshal(item, &object) != nil {
			verr.Add(fmt.Sprintf("ingredients[%d]", i), store.MsgObject)
			continue
		}
		if name := requiredName(verr, object, "name", fmt.Sprintf("ingredients[%d].name", i), false); name != nil {
			names = append(names, *name)
		}
	}
	return names
}

// decodeRecipeFields validates a recipe body. Partial bodies may omit any field.
func decodeRecipeFields(object map[string]json.RawMessage, partial bool) (service.RecipeFields, error) {
	verr := store.NewValidationError()
	fields := service.RecipeFields{}

	fields.Title = requiredName(verr, object, "title", "title", partial)

	before := len(verr.Fields["description"])
	if description, present := stringField(verr, object, "description", "description"); present && len(verr.Fields["description"]) == before {
		fields.Description = &description
	}

	if raw, ok := object["ingredients"]; ok {
		fields.Ingredients = decodeIngredientNames(verr, raw)
		fields.IngredientsSet = true
	}

	if err := verr.Err(); err != nil {
		return service.RecipeFields{}, err
	}
	return fields, nil
}

// decodeIngredientChanges validates an ingredient body.
func decodeIngredientChanges(object map[string]json.RawMessage, partial bool) (store.IngredientChanges, error) {
	verr := store.NewValidationError()
	changes := store.IngredientChanges{Name: requiredName(verr, object, "name", "name", partial)}
	if err := verr.Err(); err != nil {
		return store.IngredientChanges{}, err
	}
	return changes, nil
}

// writeDecodeError answers a request whose body could not be decoded or validated.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(w, verr)
		return
	}
	writeJSONError(w, http.StatusBadRequest, err.Error())
}
