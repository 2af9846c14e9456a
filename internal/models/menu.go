package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Kitchen defaults applied when a dish has no menu entry or no timings
const (
	DefaultCookingTime     = 15
	DefaultPreparationTime = 5
	DefaultCategory        = "food"
)

// MenuItem represents a dish on the menu together with its kitchen timings
type MenuItem struct {
	ID              string      `json:"_id"`
	FoodID          string      `json:"foodId" validate:"notblank"`
	Name            string      `json:"name" validate:"required"`
	Category        string      `json:"category"`
	Price           float64     `json:"price" validate:"gte=0"`
	ImageURL        string      `json:"imageUrl"`
	CookingTime     int         `json:"cookingTime" validate:"gte=0"`
	PreparationTime int         `json:"preparationTime" validate:"gte=0"`
	Priority        Priority    `json:"priority" validate:"oneof=low medium high"`
	StockNeeds      []StockNeed `json:"stockNeeds"`
}

// StockNeed is the quantity of one stock item consumed by a single portion
type StockNeed struct {
	Name     string  `json:"name" bson:"name"`
	Unit     string  `json:"unit" bson:"unit"`
	Quantity float64 `json:"quantity" bson:"quantity"`
}

// Priority represents how urgently the kitchen should pick up a dish
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultMenuItem returns the timings used for dishes missing from the menu
func DefaultMenuItem(foodID string) MenuItem {
	return MenuItem{
		FoodID:          foodID,
		Category:        DefaultCategory,
		CookingTime:     DefaultCookingTime,
		PreparationTime: DefaultPreparationTime,
		Priority:        PriorityMedium,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	err := validate.Struct(item)
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}

	switch fe := failures[0]; fe.StructField() {
	case "FoodID":
		return fmt.Errorf("menu item foodId is required")
	case "Name":
		return fmt.Errorf("menu item name is required")
	case "Price":
		return fmt.Errorf("menu item price must not be negative")
	case "CookingTime", "PreparationTime":
		return fmt.Errorf("menu item timings must not be negative")
	case "Priority":
		return fmt.Errorf("menu item priority %q is not one of low, medium, high", item.Priority)
	default:
		return fmt.Errorf("menu item %s: %w", item.FoodID, fe)
	}
}

// TotalTime returns prep plus cooking minutes
func (mi *MenuItem) TotalTime() int {
	return mi.PreparationTime + mi.CookingTime
}

// MenuIndex maps food identifiers to menu entries
type MenuIndex map[string]MenuItem

// NewMenuIndex indexes items by food identifier. Later duplicates win.
func NewMenuIndex(items []MenuItem) MenuIndex {
	idx := make(MenuIndex, len(items))
	for _, item := range items {
		idx[item.FoodID] = item
	}
	return idx
}

// Lookup returns the menu entry for foodID, or the kitchen defaults
func (idx MenuIndex) Lookup(foodID string) MenuItem {
	if item, ok := idx[foodID]; ok {
		return item
	}
	return DefaultMenuItem(foodID)
}
