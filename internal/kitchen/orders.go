package kitchen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"github.com/shopspring/decimal"
)

// RecentOrdersLimit caps the order history listing
const RecentOrdersLimit = 100

const maxTable = 10

// CreateOrderRequest is an order taken at a table
type CreateOrderRequest struct {
	Pax   int                `json:"pax" validate:"required,min=1"`
	Table string             `json:"table" validate:"notblank,table"`
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderLineRequest is one dish on a new order
type OrderLineRequest struct {
	FoodID      string `json:"foodId" validate:"notblank"`
	FoodName    string `json:"foodName"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	Spices      string `json:"spices"`
	Requirement string `json:"requirement"`
}

// CreateOrder prices the order from the menu and sends it to the kitchen
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if err := s.check(req, createOrderRejections); err != nil {
		return nil, err
	}
	table := strings.TrimSpace(req.Table)

	menu, err := s.menu.FindByFoodIDs(ctx, distinctFoodIDs(req.Items))
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	order := priceOrder(req, table, models.NewMenuIndex(menu))

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.recorder.RecordOrderCreated()
	s.publish(ctx, events.Event{
		Type:       events.OrderCreated,
		OrderID:    order.ID,
		Table:      order.Table,
		Order:      order,
		OccurredAt: order.CreatedAt,
	})
	return order, nil
}

func priceOrder(req CreateOrderRequest, table string, menu models.MenuIndex) *models.Order {
	order := &models.Order{
		Table:  table,
		Pax:    req.Pax,
		Status: models.OrderStatusSent,
		Items:  make([]models.OrderItem, 0, len(req.Items)),
	}

	total := decimal.Zero
	for _, line := range req.Items {
		dish, known := menu[line.FoodID]

		unitPrice := decimal.Zero
		if known {
			unitPrice = decimal.NewFromFloat(dish.Price).Round(2)
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(lineTotal)

		name := line.FoodName
		if name == "" && known {
			name = dish.Name
		}
		if name == "" {
			name = "Unknown"
		}

		order.Items = append(order.Items, models.OrderItem{
			FoodID:      line.FoodID,
			FoodName:    name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice.InexactFloat64(),
			LineTotal:   lineTotal.InexactFloat64(),
			Spices:      line.Spices,
			Requirement: line.Requirement,
			Status:      models.ItemStatusSent,
		})
	}
	order.TotalAmount = total.Round(2).InexactFloat64()
	return order
}

// table labels may be written as "3" or "3.0"
func validTable(label string) bool {
	n, err := strconv.ParseFloat(label, 64)
	if err != nil || n != float64(int(n)) {
		return false
	}
	return n >= 1 && n <= maxTable
}

func distinctFoodIDs(lines []OrderLineRequest) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if !seen[line.FoodID] {
			seen[line.FoodID] = true
			ids = append(ids, line.FoodID)
		}
	}
	return ids
}

// ListOrders returns the most recent orders, newest first
func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListRecent(ctx, RecentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ActiveTables summarises tables with open orders
func (s *Service) ActiveTables(ctx context.Context) ([]models.ActiveTable, error) {
	tables, err := s.orders.ActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tables: %w", err)
	}
	return tables, nil
}

// CompleteOrder closes an order regardless of its lines
func (s *Service) CompleteOrder(ctx context.Context, id string) (*models.Order, error) {
	now := s.now()
	order, err := s.orders.Complete(ctx, id, now)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.OrderCompleted,
		OrderID:    order.ID,
		Table:      order.Table,
		Order:      order,
		OccurredAt: now,
	})
	return order, nil
}
