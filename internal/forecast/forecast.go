// Package forecast predicts how stock levels will run down.
//
// Forecasts are advisory. Nothing in the cooking plan depends on them.
package forecast

import (
	"context"
)

// StockLevel is one item to forecast
type StockLevel struct {
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	Unit         string  `json:"unit"`
}

// Prediction is the forecast for one stock item
type Prediction struct {
	Name            string  `json:"name"`
	CurrentStock    float64 `json:"currentStock"`
	Predicted7Days  float64 `json:"predicted7days"`
	Predicted30Days float64 `json:"predicted30days"`
	Recommendation  string  `json:"recommendation"`
	Unit            string  `json:"unit"`
	Confidence      float64 `json:"confidence"`
	ModelUsed       string  `json:"modelUsed"`
}

// Recommendations
const (
	Restock = "Restock"
	Monitor = "Monitor"
	Good    = "Good"
)

// Forecaster predicts stock levels one week and one month out
type Forecaster interface {
	Forecast(ctx context.Context, levels []StockLevel) ([]Prediction, error)
}

// Recommend turns predicted levels into an action for the store room
func Recommend(predicted7Days, predicted30Days float64) string {
	switch {
	case predicted7Days <= 0:
		return Restock
	case predicted30Days <= 10:
		return Monitor
	default:
		return Good
	}
}
