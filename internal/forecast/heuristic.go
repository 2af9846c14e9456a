package forecast

import (
	"context"
	"math"
)

const (
	heuristicModel      = "heuristic"
	heuristicConfidence = 0.5

	weeklyUsage  = 5
	monthlyUsage = 20
)

// Heuristic assumes a flat usage rate for every item
type Heuristic struct{}

// Forecast never fails
func (h Heuristic) Forecast(_ context.Context, levels []StockLevel) ([]Prediction, error) {
	predictions := make([]Prediction, 0, len(levels))
	for _, level := range levels {
		predictions = append(predictions, h.predict(level))
	}
	return predictions, nil
}

func (Heuristic) predict(level StockLevel) Prediction {
	p7 := math.Max(0, level.CurrentStock-weeklyUsage)
	p30 := math.Max(0, level.CurrentStock-monthlyUsage)
	return Prediction{
		Name:            level.Name,
		CurrentStock:    level.CurrentStock,
		Predicted7Days:  p7,
		Predicted30Days: p30,
		Recommendation:  Recommend(p7, p30),
		Unit:            level.Unit,
		Confidence:      heuristicConfidence,
		ModelUsed:       heuristicModel,
	}
}
