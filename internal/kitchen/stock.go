package kitchen

import (
	"context"
	"fmt"

	"github.com/PinJun0711/Thunderbolts/internal/forecast"
	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Menu returns the menu sorted by category then name
func (s *Service) Menu(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.menu.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	return items, nil
}

// Stock returns the store room sorted by name
func (s *Service) Stock(ctx context.Context) ([]models.StockItem, error) {
	items, err := s.stock.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock: %w", err)
	}
	return items, nil
}

// RestockRequest adds quantity to a stock item
type RestockRequest struct {
	ItemID   string  `json:"itemId" validate:"notblank"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Cost     float64 `json:"cost"`
}

// Restock tops up a stock item and, when cost is positive, reprices it
func (s *Service) Restock(ctx context.Context, req RestockRequest) (*models.StockItem, error) {
	if err := s.check(req, restockRejections); err != nil {
		return nil, err
	}

	item, err := s.stock.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	item.Restock(req.Quantity, req.Cost)
	if err := s.stock.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save stock item %s: %w", item.ID, err)
	}

	if item.BelowMinimum() {
		s.log.Warn("stock still below minimum after restock", "item", item.Name, "available", item.QuantityAvailable)
	}
	return item, nil
}

// Forecast predicts stock run-down for the given levels
func (s *Service) Forecast(ctx context.Context, levels []forecast.StockLevel) ([]forecast.Prediction, error) {
	predictions, err := s.forecaster.Forecast(ctx, levels)
	if err != nil {
		return nil, fmt.Errorf("failed to generate forecast: %w", err)
	}
	return predictions, nil
}
