package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PinJun0711/Thunderbolts/internal/config"
	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Store bundles the kitchen repositories of one backend
type Store interface {
	Orders() kitchen.OrderRepository
	Menu() kitchen.MenuRepository
	Stock() kitchen.StockRepository
	Close() error
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// Open connects to the store named by cfg.Driver and seeds it when asked
func Open(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		store, err = OpenSQL(cfg.Driver, cfg.DatabaseURL, false)
	case config.DriverMongo:
		store, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info("connected to store", "driver", cfg.Driver)

	if cfg.Seed {
		if err := Seed(store, log); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

// Seed loads the house menu and store room into empty collections
func Seed(store Store, log *slog.Logger) error {
	menu, ok := store.Menu().(seeder[models.MenuItem])
	if !ok {
		return fmt.Errorf("store %T cannot be seeded", store)
	}
	stock, ok := store.Stock().(seeder[models.StockItem])
	if !ok {
		return fmt.Errorf("store %T cannot be seeded", store)
	}

	seeded, err := seedMenu(menu, SeedMenu())
	if err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	if seeded {
		log.Info("seeded menu", "items", len(SeedMenu()))
	}

	seeded, err = seedIfEmpty(stock, SeedStock())
	if err != nil {
		return fmt.Errorf("failed to seed stock: %w", err)
	}
	if seeded {
		log.Info("seeded stock", "items", len(SeedStock()))
	}
	return nil
}
