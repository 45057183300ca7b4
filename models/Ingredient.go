package models

import "time"

// Ingredient is shared between recipes. Name is the lookup key used when
// recipes reference ingredients but it is deliberately not unique.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Recipes   []Recipe  `gorm:"many2many:recipe_ingredients;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i Ingredient) String() string {
	return i.Name
}
