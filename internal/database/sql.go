package database

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// StockNeeds is stored as a JSON column
type StockNeeds []models.StockNeed

// Value converts the slice to a JSON string for storage
func (s StockNeeds) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan converts the database value back to a slice
func (s *StockNeeds) Scan(value interface{}) error {
	if value == nil {
		*s = StockNeeds{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StockNeeds")
	}
}

type orderRow struct {
	ID          string `gorm:"primary_key;type:varchar(36)"`
	TableLabel  string `gorm:"index"`
	Pax         int
	TotalAmount float64
	Status      string `gorm:"index"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	Items       []orderItemRow `gorm:"foreignkey:OrderID"`
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	ID          uint   `gorm:"primary_key"`
	OrderID     string `gorm:"index;type:varchar(36)"`
	Position    int
	FoodID      string
	FoodName    string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
	Spices      string
	Requirement string
	Status      string
}

func (orderItemRow) TableName() string { return "order_items" }

type menuItemRow struct {
	ID              string `gorm:"primary_key;type:varchar(36)"`
	FoodID          string `gorm:"unique_index"`
	Name            string
	Category        string
	Price           float64
	ImageURL        string
	CookingTime     int
	PreparationTime int
	Priority        string
	StockNeeds      StockNeeds `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (menuItemRow) TableName() string { return "menu_items" }

type stockItemRow struct {
	ID                string `gorm:"primary_key;type:varchar(36)"`
	Name              string `gorm:"unique_index"`
	Unit              string
	QuantityAvailable float64
	CostPerUnit       float64
	MinimumThreshold  float64
	MaximumThreshold  float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (stockItemRow) TableName() string { return "stock_items" }

// SQLStore keeps the kitchen in a relational database through gorm.
// jinzhu/gorm has no context support, so a done context is only
// honoured before a statement is issued.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQL connects to dialect ("sqlite3" or "postgres") and migrates the schema
func OpenSQL(dialect, dsn string, logMode bool) (*SQLStore, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	db.LogMode(logMode)

	if dialect == "sqlite3" {
		// one connection keeps :memory: databases shared and avoids SQLITE_BUSY
		db.DB().SetMaxOpenConns(1)
	} else {
		db.DB().SetMaxIdleConns(10)
		db.DB().SetMaxOpenConns(100)
		db.DB().SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&orderRow{}, &orderItemRow{}, &menuItemRow{}, &stockItemRow{}).Error; err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Orders returns the order repository
func (s *SQLStore) Orders() kitchen.OrderRepository { return sqlOrders{s.db} }

// Menu returns the menu repository
func (s *SQLStore) Menu() kitchen.MenuRepository { return sqlMenu{s.db} }

// Stock returns the stock repository
func (s *SQLStore) Stock() kitchen.StockRepository { return sqlStock{s.db} }

type sqlOrders struct{ db *gorm.DB }

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r sqlOrders) ListActive(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []orderRow
	err := r.db.Preload("Items", itemsByPosition).
		Where("status <> ?", string(models.OrderStatusCompleted)).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r sqlOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var row orderRow
	err := r.db.Preload("Items", itemsByPosition).Where("id = ?", id).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, kitchen.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	order := row.toModel()
	return &order, nil
}

// Save rewrites the order row and replaces its lines
func (r sqlOrders) Save(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := fromOrder(order)
	items := row.Items
	row.Items = nil

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", row.ID).Delete(&orderItemRow{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r sqlOrders) Create(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	order.ID = uuid.NewString()
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	row := fromOrder(order)
	return r.db.Create(&row).Error
}

func (r sqlOrders) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []orderRow
	err := r.db.Preload("Items", itemsByPosition).Order("created_at desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r sqlOrders) ActiveTables(ctx context.Context) ([]models.ActiveTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []struct {
		TableLabel   string
		ActiveOrders int
		Pax          int
	}
	err := r.db.Table("orders").
		Select("table_label, count(*) as active_orders, sum(pax) as pax").
		Where("status <> ?", string(models.OrderStatusCompleted)).
		Group("table_label").
		Order("table_label asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tables := make([]models.ActiveTable, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, models.ActiveTable{Table: row.TableLabel, ActiveOrders: row.ActiveOrders, Pax: row.Pax})
	}
	return tables, nil
}

func (r sqlOrders) Complete(ctx context.Context, id string, at time.Time) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := r.db.Model(&orderRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       string(models.OrderStatusCompleted),
		"completed_at": at,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, kitchen.ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}

type sqlMenu struct{ db *gorm.DB }

func (r sqlMenu) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []menuItemRow
	if err := r.db.Order("category asc, name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMenu(rows), nil
}

func (r sqlMenu) FindByFoodIDs(ctx context.Context, foodIDs []string) ([]models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(foodIDs) == 0 {
		return []models.MenuItem{}, nil
	}
	var rows []menuItemRow
	if err := r.db.Where("food_id IN (?)", foodIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMenu(rows), nil
}

func (r sqlMenu) count() (int, error) {
	var n int
	err := r.db.Model(&menuItemRow{}).Count(&n).Error
	return n, err
}

func (r sqlMenu) insert(items []models.MenuItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			row := fromMenuItem(item)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type sqlStock struct{ db *gorm.DB }

func (r sqlStock) ListAll(ctx context.Context) ([]models.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []stockItemRow
	if err := r.db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]models.StockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r sqlStock) FindByID(ctx context.Context, id string) (*models.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var row stockItemRow
	err := r.db.Where("id = ?", id).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, kitchen.ErrStockItemNotFound
	}
	if err != nil {
		return nil, err
	}
	item := row.toModel()
	return &item, nil
}

func (r sqlStock) Save(ctx context.Context, item *models.StockItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := fromStockItem(*item)
	var existing stockItemRow
	if err := r.db.Where("id = ?", row.ID).First(&existing).Error; err == nil {
		row.CreatedAt = existing.CreatedAt
	}
	return r.db.Save(&row).Error
}

func (r sqlStock) count() (int, error) {
	var n int
	err := r.db.Model(&stockItemRow{}).Count(&n).Error
	return n, err
}

func (r sqlStock) insert(items []models.StockItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			row := fromStockItem(item)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func fromOrder(o *models.Order) orderRow {
	row := orderRow{
		ID:          o.ID,
		TableLabel:  o.Table,
		Pax:         o.Pax,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CompletedAt: o.CompletedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       make([]orderItemRow, 0, len(o.Items)),
	}
	for i, item := range o.Items {
		row.Items = append(row.Items, orderItemRow{
			OrderID:     o.ID,
			Position:    i,
			FoodID:      item.FoodID,
			FoodName:    item.FoodName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Spices:      item.Spices,
			Requirement: item.Requirement,
			Status:      string(item.Status),
		})
	}
	return row
}

func (row orderRow) toModel() models.Order {
	order := models.Order{
		ID:          row.ID,
		Table:       row.TableLabel,
		Pax:         row.Pax,
		TotalAmount: row.TotalAmount,
		Status:      models.OrderStatus(row.Status),
		CompletedAt: row.CompletedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Items:       make([]models.OrderItem, 0, len(row.Items)),
	}
	for _, item := range row.Items {
		order.Items = append(order.Items, models.OrderItem{
			FoodID:      item.FoodID,
			FoodName:    item.FoodName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Spices:      item.Spices,
			Requirement: item.Requirement,
			Status:      models.ItemStatus(item.Status),
		})
	}
	return order
}

func toOrders(rows []orderRow) []models.Order {
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders
}

func fromMenuItem(item models.MenuItem) menuItemRow {
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}
	return menuItemRow{
		ID:              id,
		FoodID:          item.FoodID,
		Name:            item.Name,
		Category:        item.Category,
		Price:           item.Price,
		ImageURL:        item.ImageURL,
		CookingTime:     item.CookingTime,
		PreparationTime: item.PreparationTime,
		Priority:        string(item.Priority),
		StockNeeds:      StockNeeds(item.StockNeeds),
	}
}

func toMenu(rows []menuItemRow) []models.MenuItem {
	items := make([]models.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.MenuItem{
			ID:              row.ID,
			FoodID:          row.FoodID,
			Name:            row.Name,
			Category:        row.Category,
			Price:           row.Price,
			ImageURL:        row.ImageURL,
			CookingTime:     row.CookingTime,
			PreparationTime: row.PreparationTime,
			Priority:        models.Priority(row.Priority),
			StockNeeds:      []models.StockNeed(row.StockNeeds),
		})
	}
	return items
}

func fromStockItem(item models.StockItem) stockItemRow {
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}
	return stockItemRow{
		ID:                id,
		Name:              item.Name,
		Unit:              item.Unit,
		QuantityAvailable: item.QuantityAvailable,
		CostPerUnit:       item.CostPerUnit,
		MinimumThreshold:  item.MinimumThreshold,
		MaximumThreshold:  item.MaximumThreshold,
	}
}

func (row stockItemRow) toModel() models.StockItem {
	return models.StockItem{
		ID:                row.ID,
		Name:              row.Name,
		Unit:              row.Unit,
		QuantityAvailable: row.QuantityAvailable,
		CostPerUnit:       row.CostPerUnit,
		MinimumThreshold:  row.MinimumThreshold,
		MaximumThreshold:  row.MaximumThreshold,
	}
}
