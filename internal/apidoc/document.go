package apidoc

import "strings"

// Version of the API described by Build.
const Version = "1.0.0"

func ref(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func jsonContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{"application/json": {Schema: schema}}
}

func body(name string) *RequestBody {
	return &RequestBody{Required: true, Content: jsonContent(ref(name))}
}

func ok(description string, schema *Schema) *Response {
	return &Response{Description: description, Content: jsonContent(schema)}
}

var (
	idParam = Parameter{
		Name:        "id",
		In:          "path",
		Required:    true,
		Description: "A unique integer value identifying the record.",
		Schema:      &Schema{Type: "integer"},
	}
	validationFailed = &Response{Description: "Field-level validation errors.", Content: jsonContent(ref("ValidationError"))}
	notFound         = &Response{Description: "No record with this id.", Content: jsonContent(ref("Detail"))}
	noContent        = &Response{Description: "Deleted."}
)

func schemas() map[string]*Schema {
	name := &Schema{Type: "string", MinLength: 1, MaxLength: 255}
	ingredientList := &Schema{Type: "array", Items: ref("Ingredient")}

	return map[string]*Schema{
		"Ingredient": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*Schema{
				"id":   {Type: "integer", ReadOnly: true},
				"name": name,
			},
		},
		"PatchedIngredient": {
			Type: "object",
			Properties: map[string]*Schema{
				"id":   {Type: "integer", ReadOnly: true},
				"name": name,
			},
		},
		"Recipe": {
			Type:     "object",
			Required: []string{"title"},
			Properties: map[string]*Schema{
				"id":          {Type: "integer", ReadOnly: true},
				"title":       name,
				"ingredients": ingredientList,
			},
		},
		"RecipeDetail": {
			Type:     "object",
			Required: []string{"title"},
			Properties: map[string]*Schema{
				"id":          {Type: "integer", ReadOnly: true},
				"title":       name,
				"description": {Type: "string"},
				"ingredients": ingredientList,
			},
		},
		"PatchedRecipeDetail": {
			Type: "object",
			Properties: map[string]*Schema{
				"id":          {Type: "integer", ReadOnly: true},
				"title":       name,
				"description": {Type: "string"},
				"ingredients": ingredientList,
			},
		},
		"Detail": {
			Type:       "object",
			Properties: map[string]*Schema{"detail": {Type: "string"}},
		},
		"ValidationError": {
			Type: "object",
			Properties: map[string]*Schema{
				"<field>": {Type: "array", Items: &Schema{Type: "string"}},
			},
		},
	}
}

// Build describes the recipe and ingredient resources mounted under prefix,
// for example "/api/recipe/".
func Build(prefix string) *Document {
	prefix = "/" + strings.Trim(prefix, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}

	recipes := prefix + "recipes/"
	ingredients := prefix + "ingredients/"

	return &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Recipe API",
			Version:     Version,
			Description: "Manage recipes and the ingredients they share.",
		},
		Paths: map[string]*PathItem{
			recipes: {
				Get: &Operation{
					OperationID: "recipe_recipes_list",
					Tags:        []string{"recipe"},
					Parameters: []Parameter{{
						Name:        "search",
						In:          "query",
						Description: "Case-sensitive substring matched against the title.",
						Schema:      &Schema{Type: "string"},
					}},
					Responses: map[string]*Response{
						"200": ok("Recipes, newest first.", &Schema{Type: "array", Items: ref("Recipe")}),
					},
				},
				Post: &Operation{
					OperationID: "recipe_recipes_create",
					Tags:        []string{"recipe"},
					RequestBody: body("RecipeDetail"),
					Responses: map[string]*Response{
						"201": ok("Created.", ref("RecipeDetail")),
						"400": validationFailed,
					},
				},
			},
			recipes + "{id}/": {
				Parameters: []Parameter{idParam},
				Get: &Operation{
					OperationID: "recipe_recipes_retrieve",
					Tags:        []string{"recipe"},
					Responses: map[string]*Response{
						"200": ok("Recipe detail.", ref("RecipeDetail")),
						"404": notFound,
					},
				},
				Put: &Operation{
					OperationID: "recipe_recipes_update",
					Tags:        []string{"recipe"},
					RequestBody: body("RecipeDetail"),
					Responses: map[string]*Response{
						"200": ok("Updated.", ref("RecipeDetail")),
						"400": validationFailed,
						"404": notFound,
					},
				},
				Patch: &Operation{
					OperationID: "recipe_recipes_partial_update",
					Tags:        []string{"recipe"},
					RequestBody: body("PatchedRecipeDetail"),
					Responses: map[string]*Response{
						"200": ok("Updated.", ref("RecipeDetail")),
						"400": validationFailed,
						"404": notFound,
					},
				},
				Delete: &Operation{
					OperationID: "recipe_recipes_destroy",
					Tags:        []string{"recipe"},
					Responses: map[string]*Response{
						"204": noContent,
						"404": notFound,
					},
				},
			},
			ingredients: {
				Get: &Operation{
					OperationID: "recipe_ingredients_list",
					Tags:        []string{"recipe"},
					Parameters: []Parameter{{
						Name:        "assigned_only",
						In:          "query",
						Description: "When 1, only ingredients linked to a recipe are returned.",
						Schema:      &Schema{Type: "integer"},
					}},
					Responses: map[string]*Response{
						"200": ok("Ingredients ordered by name, descending.", &Schema{Type: "array", Items: ref("Ingredient")}),
					},
				},
			},
			ingredients + "{id}/": {
				Parameters: []Parameter{idParam},
				Put: &Operation{
					OperationID: "recipe_ingredients_update",
					Tags:        []string{"recipe"},
					RequestBody: body("Ingredient"),
					Responses: map[string]*Response{
						"200": ok("Updated.", ref("Ingredient")),
						"400": validationFailed,
						"404": notFound,
					},
				},
				Patch: &Operation{
					OperationID: "recipe_ingredients_partial_update",
					Tags:        []string{"recipe"},
					RequestBody: body("PatchedIngredient"),
					Responses: map[string]*Response{
						"200": ok("Updated.", ref("Ingredient")),
						"400": validationFailed,
						"404": notFound,
					},
				},
				Delete: &Operation{
					OperationID: "recipe_ingredients_destroy",
					Tags:        []string{"recipe"},
					Responses: map[string]*Response{
						"204": noContent,
						"404": notFound,
					},
				},
			},
		},
		Components: Components{Schemas: schemas()},
	}
}
