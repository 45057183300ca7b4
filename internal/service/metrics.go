package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingredientResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebook_ingredient_resolutions_total",
			Help: "Ingredient names resolved while writing recipes, by outcome",
		},
		[]string{"result"},
	)

	recipeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebook_recipe_writes_total",
			Help: "Recipe create and update operations that committed",
		},
		[]string{"op"},
	)
)
