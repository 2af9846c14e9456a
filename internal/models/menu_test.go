package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMenuItem(t *testing.T) {
	valid := MenuItem{FoodID: "m1", Name: "Roti Canai", Price: 2, CookingTime: 8, PreparationTime: 3, Priority: PriorityHigh}
	assert.NoError(t, ValidateMenuItem(&valid))

	free := valid
	free.Price = 0
	free.CookingTime = 0
	assert.NoError(t, ValidateMenuItem(&free))

	tests := []struct {
		name string
		edit func(*MenuItem)
		want string
	}{
		{"blank food id", func(mi *MenuItem) { mi.FoodID = "  " }, "menu item foodId is required"},
		{"no name", func(mi *MenuItem) { mi.Name = "" }, "menu item name is required"},
		{"negative price", func(mi *MenuItem) { mi.Price = -0.5 }, "menu item price must not be negative"},
		{"negative cook time", func(mi *MenuItem) { mi.CookingTime = -1 }, "menu item timings must not be negative"},
		{"negative prep time", func(mi *MenuItem) { mi.PreparationTime = -1 }, "menu item timings must not be negative"},
		{"unknown priority", func(mi *MenuItem) { mi.Priority = "urgent" }, `menu item priority "urgent" is not one of low, medium, high`},
		{"missing priority", func(mi *MenuItem) { mi.Priority = "" }, `menu item priority "" is not one of low, medium, high`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.edit(&item)
			assert.EqualError(t, ValidateMenuItem(&item), tt.want)
		})
	}
}
