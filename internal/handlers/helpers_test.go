package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appdb "recipebook/internal/db"
	"recipebook/models"
)

func withTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	original := database
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:handlers-"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := appdb.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	Configure(db)
	t.Cleanup(func() {
		Configure(original)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func serve(t *testing.T, handler http.HandlerFunc, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		encoded, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func createRecipeRow(t *testing.T, db *gorm.DB, title string, ingredients ...string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{Title: title, Description: "Sample recipe description"}
	if err := db.Omit("Ingredients").Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for _, name := range ingredients {
		ingredient := models.Ingredient{Name: name}
		if err := db.Create(&ingredient).Error; err != nil {
			t.Fatalf("failed to create ingredient: %v", err)
		}
		link := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("failed to link ingredient: %v", err)
		}
	}
	return recipe
}

func linkedNames(t *testing.T, db *gorm.DB, recipeID uint) []string {
	t.Helper()
	var names []string
	err := db.Table("ingredients").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("ingredients.name").
		Pluck("ingredients.name", &names).Error
	if err != nil {
		t.Fatalf("failed to load linked ingredients: %v", err)
	}
	return names
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
