//go:build integration
// +build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"recipebook/internal/config"
	appdb "recipebook/internal/db"
	"recipebook/internal/service"
	"recipebook/internal/store"
	"recipebook/models"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("recipebook"),
		postgres.WithUsername("recipebook"),
		postgres.WithPassword("recipebook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := appdb.Initialize(config.DatabaseConfig{URL: connStr, MaxOpenConns: 5})
	require.NoError(t, err)
	require.NoError(t, appdb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestPostgresRecipeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupPostgres(t)
	ctx := context.Background()
	entities := store.New(db)
	recipes := service.NewRecipeService(entities)

	title := "Thai prawn curry"
	curry, err := recipes.Create(ctx, service.RecipeFields{
		Title:          &title,
		Ingredients:    []string{"Prawns", "Sauce", "Prawns"},
		IngredientsSet: true,
	})
	require.NoError(t, err)
	assert.Len(t, curry.Ingredients, 2)

	other := "prawn toast"
	_, err = recipes.Create(ctx, service.RecipeFields{Title: &other, Ingredients: []string{"Prawns"}, IngredientsSet: true})
	require.NoError(t, err)

	t.Run("search is case sensitive", func(t *testing.T) {
		found, err := entities.ListRecipes(ctx, store.RecipeFilter{Search: "Prawn"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, curry.ID, found[0].ID)
	})

	t.Run("shared ingredient is stored once", func(t *testing.T) {
		count, err := entities.CountIngredients(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		assigned, err := entities.ListIngredients(ctx, store.IngredientFilter{AssignedOnly: true})
		require.NoError(t, err)
		require.Len(t, assigned, 2)
		assert.Equal(t, "Sauce", assigned[0].Name)
		assert.Equal(t, "Prawns", assigned[1].Name)
	})

	t.Run("associate twice is a no-op", func(t *testing.T) {
		prawns, err := entities.FindIngredientByName(ctx, "Prawns")
		require.NoError(t, err)
		require.NoError(t, entities.Associate(ctx, curry, prawns))

		var links int64
		require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", curry.ID).Count(&links).Error)
		assert.EqualValues(t, 2, links)
	})

	t.Run("failed update rolls back", func(t *testing.T) {
		_, err := recipes.Update(ctx, curry.ID, service.RecipeFields{Ingredients: []string{"Salt", ""}, IngredientsSet: true})
		require.Error(t, err)

		reloaded, err := entities.GetRecipe(ctx, curry.ID)
		require.NoError(t, err)
		assert.Len(t, reloaded.Ingredients, 2)
		_, err = entities.FindIngredientByName(ctx, "Salt")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete keeps ingredients", func(t *testing.T) {
		require.NoError(t, entities.DeleteRecipe(ctx, curry.ID))
		_, err := entities.GetRecipe(ctx, curry.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		count, err := entities.CountIngredients(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}
