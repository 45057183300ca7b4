package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebook/models"
)

// Store persists recipes, ingredients and the links between them.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm handle. The handle is expected to be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// RecipeFilter narrows ListRecipes.
type RecipeFilter struct {
	// Search keeps recipes whose title contains it, case-sensitively.
	Search string
}

// RecipeChanges lists the scalar recipe fields to overwrite. Nil fields are kept.
type RecipeChanges struct {
	Title       *string
	Description *string
}

// IngredientFilter narrows ListIngredients.
type IngredientFilter struct {
	// AssignedOnly keeps ingredients linked to at least one recipe.
	AssignedOnly bool
}

// IngredientChanges lists the ingredient fields to overwrite. Nil fields are kept.
type IngredientChanges struct {
	Name *string
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC").Order("id ASC")
}

// CreateRecipe inserts a recipe row. Linked ingredients are not written;
// use Associate for that.
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	verr := NewValidationError()
	CheckName(verr, "title", recipe.Title)
	if err := verr.Err(); err != nil {
		return err
	}

	recipe.Title = strings.TrimSpace(recipe.Title)
	recipe.Description = strings.TrimSpace(recipe.Description)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// GetRecipe loads a recipe with its ingredients.
func (s *Store) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		First(&recipe, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// FindRecipeByTitle returns the oldest recipe with exactly this title.
func (s *Store) FindRecipeByTitle(ctx context.Context, title string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("title = ?", title).
		Order("id ASC").
		First(&recipe).Error
	if err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// ListRecipes returns recipes newest first.
func (s *Store) ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Order("id DESC")

	if filter.Search != "" {
		query = query.Where(substringCondition(s.db, "title"), filter.Search)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe writes the non-nil changes onto recipe.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *models.Recipe, changes RecipeChanges) error {
	verr := NewValidationError()
	columns := make([]string, 0, 2)
	if changes.Title != nil {
		CheckName(verr, "title", *changes.Title)
		recipe.Title = strings.TrimSpace(*changes.Title)
		columns = append(columns, "title")
	}
	if changes.Description != nil {
		recipe.Description = strings.TrimSpace(*changes.Description)
		columns = append(columns, "description")
	}
	if err := verr.Err(); err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Select(columns).Updates(recipe).Error; err != nil {
		return fmt.Errorf("update recipe %d: %w", recipe.ID, err)
	}
	return nil
}

// DeleteRecipe removes a recipe and its links. Linked ingredients survive.
func (s *Store) DeleteRecipe(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var recipe models.Recipe
		if err := tx.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.ClearAssociations(ctx, &recipe); err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Delete(&recipe).Error; err != nil {
			return fmt.Errorf("delete recipe %d: %w", id, err)
		}
		return nil
	})
}

// CreateIngredient inserts an ingredient row.
func (s *Store) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	verr := NewValidationError()
	CheckName(verr, "name", ingredient.Name)
	if err := verr.Err(); err != nil {
		return err
	}

	ingredient.Name = strings.TrimSpace(ingredient.Name)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(ingredient).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	return nil
}

// GetIngredient loads an ingredient by id.
func (s *Store) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

// FindIngredientByName returns the oldest ingredient with exactly this name.
func (s *Store) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id ASC").
		First(&ingredient).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

// ListIngredients returns ingredients ordered by name, descending.
func (s *Store) ListIngredients(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Order("name DESC").
		Order("id DESC")

	if filter.AssignedOnly {
		linked := s.db.Model(&models.RecipeIngredient{}).Select("ingredient_id")
		query = query.Where("id IN (?)", linked)
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// UpdateIngredient writes the non-nil changes onto ingredient.
func (s *Store) UpdateIngredient(ctx context.Context, ingredient *models.Ingredient, changes IngredientChanges) error {
	if changes.Name == nil {
		return nil
	}

	verr := NewValidationError()
	CheckName(verr, "name", *changes.Name)
	if err := verr.Err(); err != nil {
		return err
	}

	ingredient.Name = strings.TrimSpace(*changes.Name)
	if err := s.db.WithContext(ctx).Select("name").Updates(ingredient).Error; err != nil {
		return fmt.Errorf("update ingredient %d: %w", ingredient.ID, err)
	}
	return nil
}

// DeleteIngredient removes an ingredient and detaches it from every recipe.
func (s *Store) DeleteIngredient(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var ingredient models.Ingredient
		if err := tx.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.db.WithContext(ctx).
			Where("ingredient_id = ?", ingredient.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("detach ingredient %d: %w", id, err)
		}
		if err := tx.db.WithContext(ctx).Delete(&ingredient).Error; err != nil {
			return fmt.Errorf("delete ingredient %d: %w", id, err)
		}
		return nil
	})
}

// CountIngredients returns the number of ingredient rows.
func (s *Store) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count ingredients: %w", err)
	}
	return count, nil
}

// Associate links an ingredient to a recipe. Linking an existing pair is a no-op.
func (s *Store) Associate(ctx context.Context, recipe *models.Recipe, ingredient *models.Ingredient) error {
	link := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	if err != nil {
		return fmt.Errorf("link ingredient %d to recipe %d: %w", ingredient.ID, recipe.ID, err)
	}
	return nil
}

// ClearAssociations unlinks every ingredient from recipe without deleting them.
func (s *Store) ClearAssociations(ctx context.Context, recipe *models.Recipe) error {
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipe.ID).
		Delete(&models.RecipeIngredient{}).Error
	if err != nil {
		return fmt.Errorf("clear ingredients of recipe %d: %w", recipe.ID, err)
	}
	recipe.Ingredients = nil
	return nil
}

// substringCondition builds a case-sensitive "column contains ?" predicate.
// LIKE is case-insensitive on sqlite, so position functions are used instead.
func substringCondition(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("strpos(%s, ?) > 0", column)
	}
	return fmt.Sprintf("instr(%s, ?) > 0", column)
}
