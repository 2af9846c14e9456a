package database

import (
	"fmt"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// seeder is implemented by the menu and stock repositories of every store
type seeder[T any] interface {
	count() (int, error)
	insert(items []T) error
}

// seedIfEmpty inserts items when the collection has no rows yet
func seedIfEmpty[T any](s seeder[T], items []T) (bool, error) {
	n, err := s.count()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.insert(items); err != nil {
		return false, err
	}
	return true, nil
}

// seedMenu validates every dish before anything is written
func seedMenu(s seeder[models.MenuItem], items []models.MenuItem) (bool, error) {
	for i := range items {
		if err := models.ValidateMenuItem(&items[i]); err != nil {
			return false, err
		}
	}
	return seedIfEmpty(s, items)
}

func dish(foodID, name, category string, price float64, cook, prep int, prio models.Priority, image string, needs ...models.StockNeed) models.MenuItem {
	return models.MenuItem{
		FoodID:          foodID,
		Name:            name,
		Category:        category,
		Price:           price,
		ImageURL:        image,
		CookingTime:     cook,
		PreparationTime: prep,
		Priority:        prio,
		StockNeeds:      needs,
	}
}

func need(name, unit string, qty float64) models.StockNeed {
	return models.StockNeed{Name: name, Unit: unit, Quantity: qty}
}

const unsplash = "https://images.unsplash.com/photo-%s?q=80&w=1200&auto=format&fit=crop"

// SeedMenu is the house menu loaded into an empty store
func SeedMenu() []models.MenuItem {
	img := func(id string) string { return fmt.Sprintf(unsplash, id) }
	return []models.MenuItem{
		dish("m1", "Roti Canai", "mains", 2.0, 8, 3, models.PriorityHigh, img("1615898292623-b2f2f20bfa3f"),
			need("Flour", "kg", 0.05), need("Ghee", "g", 10), need("Eggs", "pcs", 0)),
		dish("m2", "Nasi Lemak", "mains", 6.5, 10, 5, models.PriorityHigh, img("1604908554049-1b3dc9bd3454"),
			need("Rice", "kg", 0.12), need("Coconut milk", "ml", 80), need("Sambal", "g", 50), need("Anchovies", "g", 20)),
		dish("m3", "Mee Goreng", "mains", 6.0, 12, 5, models.PriorityMedium, img("1625944527554-3a0717eca21a"),
			need("Yellow noodles", "g", 180), need("Eggs", "pcs", 1), need("Vegetables mix", "g", 60)),
		dish("m4", "Maggi Goreng", "mains", 5.5, 10, 4, models.PriorityMedium, img("1617093727343-37452a7ed2fa"),
			need("Maggi noodles", "g", 150), need("Eggs", "pcs", 1), need("Vegetables mix", "g", 60)),
		dish("m5", "Roti Telur", "mains", 3.0, 10, 3, models.PriorityMedium, img("1604908176997-43162b98a9a3"),
			need("Flour", "kg", 0.05), need("Ghee", "g", 10), need("Eggs", "pcs", 1)),
		dish("d1", "Teh Tarik", "drinks", 2.2, 3, 2, models.PriorityLow, img("1604908812711-7402972a973e"),
			need("Tea", "g", 5), need("Condensed milk", "ml", 40), need("Water", "ml", 180)),
		dish("d2", "Milo Ais", "drinks", 3.0, 2, 2, models.PriorityLow, img("1544124499-45f5099137c1"),
			need("Milo powder", "g", 20), need("Condensed milk", "ml", 30), need("Water", "ml", 200)),
		dish("d3", "Sirap Bandung", "drinks", 2.8, 2, 2, models.PriorityLow, img("1613478223719-5e0b2c718376"),
			need("Rose syrup", "ml", 25), need("Evaporated milk", "ml", 80), need("Water", "ml", 180)),
	}
}

// SeedStock is the opening store room loaded into an empty store
func SeedStock() []models.StockItem {
	levels := []struct {
		name string
		unit string
		qty  float64
	}{
		{"Flour", "kg", 25},
		{"Ghee", "kg", 5},
		{"Eggs", "pcs", 360},
		{"Rice", "kg", 50},
		{"Coconut milk", "L", 15},
		{"Sambal", "kg", 8},
		{"Anchovies", "kg", 4},
		{"Yellow noodles", "kg", 20},
		{"Vegetables mix", "kg", 12},
		{"Maggi noodles", "kg", 10},
		{"Tea", "kg", 3},
		{"Condensed milk", "L", 20},
		{"Water", "L", 500},
		{"Milo powder", "kg", 6},
		{"Rose syrup", "L", 5},
		{"Evaporated milk", "L", 18},
	}

	items := make([]models.StockItem, 0, len(levels))
	for _, l := range levels {
		items = append(items, models.StockItem{
			Name:              l.name,
			Unit:              l.unit,
			QuantityAvailable: l.qty,
			MinimumThreshold:  models.DefaultMinimumThreshold,
			MaximumThreshold:  models.DefaultMaximumThreshold,
		})
	}
	return items
}
