package mock

import (
	"context"
	"testing"

	"recipebook/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var recipes []models.Recipe
	if err := db.WithContext(ctx).Preload("Ingredients").Find(&recipes).Error; err != nil {
		t.Fatalf("query recipes: %v", err)
	}
	if len(recipes) != len(SampleRecipes) {
		t.Fatalf("expected %d seeded recipes, got %d", len(SampleRecipes), len(recipes))
	}
	for _, recipe := range recipes {
		if len(recipe.Ingredients) == 0 {
			t.Fatalf("expected recipe %q to have ingredients", recipe.Title)
		}
	}

	var prawns []models.Ingredient
	if err := db.WithContext(ctx).Where("name = ?", "Prawns").Find(&prawns).Error; err != nil {
		t.Fatalf("query ingredients: %v", err)
	}
	if len(prawns) != 1 {
		t.Fatalf("expected shared ingredient to be stored once, got %d", len(prawns))
	}

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	var count int64
	if err := db.WithContext(ctx).Model(&models.Recipe{}).Count(&count).Error; err != nil {
		t.Fatalf("count recipes: %v", err)
	}
	if count != int64(len(SampleRecipes)) {
		t.Fatalf("expected reseeding to be a no-op, got %d recipes", count)
	}
}
