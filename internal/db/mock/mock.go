package mock

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appdb "recipebook/internal/db"
	applog "recipebook/internal/log"
	"recipebook/internal/service"
	"recipebook/internal/store"
)

// SampleRecipe is one entry of the demo data set.
type SampleRecipe struct {
	Title       string
	Description string
	Ingredients []string
}

// SampleRecipes share some ingredients so the get-or-create path is visible
// in the seeded data.
var SampleRecipes = []SampleRecipe{
	{
		Title:       "Thai prawn curry",
		Description: "Coconut curry with king prawns and fresh herbs.",
		Ingredients: []string{"Prawns", "Coconut milk", "Red curry paste", "Lime"},
	},
	{
		Title:       "Pongal",
		Description: "South Indian rice and lentil porridge tempered with ghee.",
		Ingredients: []string{"Rice", "Moong dal", "Ghee", "Black pepper"},
	},
	{
		Title:       "Prawn fried rice",
		Description: "",
		Ingredients: []string{"Rice", "Prawns", "Eggs", "Soy sauce"},
	},
	{
		Title:       "Chocolate cheesecake",
		Description: "Baked cheesecake on a biscuit base.",
		Ingredients: []string{"Cream cheese", "Dark chocolate", "Eggs", "Digestive biscuits"},
	},
}

// New returns an in-memory sqlite database seeded with sample recipes.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:recipebook-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// A shared in-memory database locks whole tables; one connection avoids
	// "database table is locked" between concurrent requests.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := appdb.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := Seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

// Seed writes SampleRecipes through the recipe service. Titles that already
// exist are skipped, so seeding twice is harmless.
func Seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding database", "recipes", len(SampleRecipes))

	entities := store.New(db)
	recipes := service.NewRecipeService(entities)

	for _, sample := range SampleRecipes {
		var existing int64
		if err := db.WithContext(ctx).Table("recipes").Where("title = ?", sample.Title).Count(&existing).Error; err != nil {
			return fmt.Errorf("check recipe %q: %w", sample.Title, err)
		}
		if existing > 0 {
			applog.Debug(ctx, "sample recipe already present", "title", sample.Title)
			continue
		}

		title, description := sample.Title, sample.Description
		fields := service.RecipeFields{
			Title:          &title,
			Description:    &description,
			Ingredients:    sample.Ingredients,
			IngredientsSet: true,
		}
		if _, err := recipes.Create(ctx, fields); err != nil {
			return fmt.Errorf("seed recipe %q: %w", sample.Title, err)
		}
	}
	return nil
}
