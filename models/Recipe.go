package models

import "time"

// Recipe is a titled set of cooking instructions linked to any number of ingredients.
type Recipe struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;" json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (r Recipe) String() string {
	return r.Title
}
