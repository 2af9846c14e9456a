package scheduler

import (
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Build runs a full pass over the active orders at instant now.
// Orders are expected oldest first.
func Build(orders []models.Order, menu []models.MenuItem, now time.Time) Plan {
	candidates := Extract(orders, models.NewMenuIndex(menu))
	sequenced := Sequence(candidates, now)
	stations := Split(sequenced)

	return Plan{
		CookingSequence: sequenced,
		CookingStations: stations,
		EstimatedTimes:  Project(stations, now),
		TotalItems:      len(candidates),
		TotalOrders:     len(orders),
		GeneratedAt:     now,
	}
}

// FoodIDs returns the distinct dishes referenced by the orders, first seen first
func FoodIDs(orders []models.Order) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if seen[item.FoodID] {
				continue
			}
			seen[item.FoodID] = true
			ids = append(ids, item.FoodID)
		}
	}
	return ids
}
