package kitchen

import (
	"context"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// OrderRepository persists orders. Lookups of unknown ids return ErrOrderNotFound.
type OrderRepository interface {
	// ListActive returns orders that are not completed, oldest first
	ListActive(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// Save overwrites the whole order
	Save(ctx context.Context, order *models.Order) error
	// Create assigns the id and timestamps
	Create(ctx context.Context, order *models.Order) error
	// ListRecent returns up to limit orders, newest first
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	// ActiveTables groups non-completed orders by table, sorted by table label
	ActiveTables(ctx context.Context) ([]models.ActiveTable, error)
	// Complete marks the order completed at the given instant and returns it
	Complete(ctx context.Context, id string, at time.Time) (*models.Order, error)
}

// MenuRepository reads the menu
type MenuRepository interface {
	// ListAll returns the menu sorted by category then name
	ListAll(ctx context.Context) ([]models.MenuItem, error)
	FindByFoodIDs(ctx context.Context, foodIDs []string) ([]models.MenuItem, error)
}

// StockRepository persists stock items. Lookups of unknown ids return ErrStockItemNotFound.
type StockRepository interface {
	// ListAll returns stock sorted by name
	ListAll(ctx context.Context) ([]models.StockItem, error)
	FindByID(ctx context.Context, id string) (*models.StockItem, error)
	Save(ctx context.Context, item *models.StockItem) error
}
