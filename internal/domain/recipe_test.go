package domain

import (
	"reflect"
	"testing"
)

func TestIngredientUniverse(t *testing.T) {
	tests := []struct {
		name   string
		recipe *Recipe
		want   []string
	}{
		{"nil recipe", nil, nil},
		{"empty", &Recipe{}, []string{}},
		{
			"union keeps first appearance",
			&Recipe{
				Ingredients:  []string{"Tomato", "Basil", "Tomato"},
				ShoppingList: []string{"Olive Oil", "Basil"},
			},
			[]string{"Tomato", "Basil", "Olive Oil"},
		},
		{
			"exact match only",
			&Recipe{
				Ingredients:  []string{"tomato"},
				ShoppingList: []string{"Tomato", "tomato "},
			},
			[]string{"tomato", "Tomato", "tomato "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.recipe.IngredientUniverse()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
