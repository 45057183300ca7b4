package models

// RecipeIngredient is the join row between a recipe and an ingredient. The
// composite primary key makes linking the same pair twice a no-op.
type RecipeIngredient struct {
	RecipeID     uint `gorm:"primaryKey"`
	IngredientID uint `gorm:"primaryKey"`
}

// TableNameRecipeIngredients is the junction table shared by both sides of the relation.
const TableNameRecipeIngredients = "recipe_ingredients"

func (RecipeIngredient) TableName() string {
	return TableNameRecipeIngredients
}
