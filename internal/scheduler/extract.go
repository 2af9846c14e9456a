package scheduler

import (
	"strings"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Extract flattens active orders into candidates, in order then line order.
// Only lines still waiting on the kitchen are returned. Dishes missing from
// the menu get the kitchen defaults.
func Extract(orders []models.Order, menu models.MenuIndex) []Candidate {
	candidates := make([]Candidate, 0)
	for _, order := range orders {
		if order.Status == models.OrderStatusCompleted {
			continue
		}
		for _, item := range order.Items {
			if !item.Status.AwaitsKitchen() {
				continue
			}

			dish := menu.Lookup(item.FoodID)
			candidates = append(candidates, Candidate{
				OrderItem:       item,
				OrderID:         order.ID,
				Table:           order.Table,
				Pax:             order.Pax,
				OrderCreatedAt:  order.CreatedAt,
				CookingTime:     dish.CookingTime,
				PreparationTime: dish.PreparationTime,
				Priority:        normalizePriority(dish.Priority),
				Category:        normalizeCategory(dish.Category),
				TotalTime:       dish.TotalTime(),
			})
		}
	}
	return candidates
}

func normalizePriority(p models.Priority) models.Priority {
	if p == "" {
		return models.PriorityMedium
	}
	return p
}

func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return models.DefaultCategory
	}
	return category
}
