package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

// RecipeFields is the validated, side-effect free form of a recipe write.
// Nil scalar fields are left unchanged on update.
type RecipeFields struct {
	Title       *string
	Description *string

	// Ingredients holds ingredient names and is only applied when
	// IngredientsSet is true. An empty set with IngredientsSet unlinks everything.
	Ingredients    []string
	IngredientsSet bool
}

// RecipeService writes recipes together with the ingredients they reference.
type RecipeService struct {
	store *store.Store
}

// NewRecipeService builds a RecipeService on top of s.
func NewRecipeService(s *store.Store) *RecipeService {
	return &RecipeService{store: s}
}

// Create inserts a recipe and links its ingredients, creating any ingredient
// whose name does not exist yet. Everything commits or nothing does.
func (svc *RecipeService) Create(ctx context.Context, fields RecipeFields) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	if fields.Title != nil {
		recipe.Title = *fields.Title
	}
	if fields.Description != nil {
		recipe.Description = *fields.Description
	}

	var created *models.Recipe
	err := svc.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		if err := svc.ReconcileIngredients(ctx, tx, recipe, fields.Ingredients); err != nil {
			return err
		}
		var err error
		created, err = tx.GetRecipe(ctx, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	recipeWrites.WithLabelValues("create").Inc()
	applog.Debug(ctx, "recipe created", "id", created.ID, "ingredients", len(created.Ingredients))
	return created, nil
}

// Update applies fields to the recipe with the given id. Ingredient links are
// replaced only when fields.IngredientsSet is true.
func (svc *RecipeService) Update(ctx context.Context, id uint, fields RecipeFields) (*models.Recipe, error) {
	var updated *models.Recipe
	err := svc.store.Transaction(ctx, func(tx *store.Store) error {
		recipe, err := tx.GetRecipe(ctx, id)
		if err != nil {
			return err
		}

		changes := store.RecipeChanges{Title: fields.Title, Description: fields.Description}
		if err := tx.UpdateRecipe(ctx, recipe, changes); err != nil {
			return err
		}

		if fields.IngredientsSet {
			if err := tx.ClearAssociations(ctx, recipe); err != nil {
				return err
			}
			if err := svc.ReconcileIngredients(ctx, tx, recipe, fields.Ingredients); err != nil {
				return err
			}
		}

		updated, err = tx.GetRecipe(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	recipeWrites.WithLabelValues("update").Inc()
	applog.Debug(ctx, "recipe updated", "id", id, "ingredientsReplaced", fields.IngredientsSet)
	return updated, nil
}

// ReconcileIngredients resolves each name to the oldest ingredient with that
// exact name, creating one when none exists, and links it to recipe. Repeated
// names resolve to the same ingredient. tx should be a transactional store so
// lookup and create share one unit of work.
func (svc *RecipeService) ReconcileIngredients(ctx context.Context, tx *store.Store, recipe *models.Recipe, names []string) error {
	for i, name := range names {
		ingredient, err := resolveIngredient(ctx, tx, strings.TrimSpace(name))
		if err != nil {
			var verr *store.ValidationError
			if errors.As(err, &verr) {
				nested := store.NewValidationError()
				for _, msg := range verr.Fields["name"] {
					nested.Add(fmt.Sprintf("ingredients[%d].name", i), msg)
				}
				return nested
			}
			return err
		}
		if err := tx.Associate(ctx, recipe, ingredient); err != nil {
			return err
		}
	}
	return nil
}

func resolveIngredient(ctx context.Context, tx *store.Store, name string) (*models.Ingredient, error) {
	existing, err := tx.FindIngredientByName(ctx, name)
	if err == nil {
		ingredientResolutions.WithLabelValues("reused").Inc()
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up ingredient %q: %w", name, err)
	}

	created := &models.Ingredient{Name: name}
	if err := tx.CreateIngredient(ctx, created); err != nil {
		return nil, err
	}
	ingredientResolutions.WithLabelValues("created").Inc()
	applog.Debug(ctx, "ingredient created from recipe", "id", created.ID, "name", created.Name)
	return created, nil
}
