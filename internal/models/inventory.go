package models

// StockItem represents an ingredient held in the kitchen store
type StockItem struct {
	ID                string  `json:"_id"`
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	QuantityAvailable float64 `json:"quantityAvailable"`
	CostPerUnit       float64 `json:"costPerUnit"`
	MinimumThreshold  float64 `json:"minimumThreshold"`
	MaximumThreshold  float64 `json:"maximumThreshold"`
}

// Stock thresholds used when an item is created without explicit levels
const (
	DefaultMinimumThreshold = 10
	DefaultMaximumThreshold = 100
)

// Restock adds quantity to the item and replaces the unit cost when cost is positive
func (s *StockItem) Restock(quantity, cost float64) {
	s.QuantityAvailable += quantity
	if cost > 0 {
		s.CostPerUnit = cost
	}
}

// BelowMinimum reports whether the item has dropped under its reorder level
func (s *StockItem) BelowMinimum() bool {
	return s.QuantityAvailable < s.MinimumThreshold
}
