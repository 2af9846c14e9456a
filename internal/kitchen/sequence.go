package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"github.com/PinJun0711/Thunderbolts/internal/scheduler"
)

// CookingSequence builds the current cooking plan from live orders.
// Any store failure aborts the pass.
func (s *Service) CookingSequence(ctx context.Context) (scheduler.Plan, error) {
	now := s.now()
	started := time.Now()

	orders, err := s.orders.ListActive(ctx)
	if err != nil {
		return scheduler.Plan{}, fmt.Errorf("failed to list active orders: %w", err)
	}

	var menu []models.MenuItem
	if ids := scheduler.FoodIDs(orders); len(ids) > 0 {
		menu, err = s.menu.FindByFoodIDs(ctx, ids)
		if err != nil {
			return scheduler.Plan{}, fmt.Errorf("failed to load menu: %w", err)
		}
	}

	plan := scheduler.Build(orders, menu, now)
	took := time.Since(started)
	s.recorder.RecordPass(plan, took)
	s.log.Debug("cooking sequence built",
		"orders", plan.TotalOrders,
		"items", plan.TotalItems,
		"took", took,
	)
	return plan, nil
}

// UpdateItemStatusRequest names one order line and its new status
type UpdateItemStatusRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	ItemID  string `json:"itemId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=pending preparing ready completed sent"`
}

// UpdateItemStatus sets the status of the first line of the order whose food
// id matches. An unmatched line is not an error and saves nothing.
// Completing the last open line completes the order.
func (s *Service) UpdateItemStatus(ctx context.Context, req UpdateItemStatusRequest) (*models.Order, error) {
	if err := s.check(req, updateItemStatusRejections); err != nil {
		return nil, err
	}
	status := models.ItemStatus(req.Status)

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	wasCompleted := order.Status == models.OrderStatusCompleted
	now := s.now()
	if !order.SetItemStatus(req.ItemID, status, now) {
		s.log.Info("no matching line for status update", "orderId", order.ID, "itemId", req.ItemID)
		return order, nil
	}

	order.UpdatedAt = now
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}

	s.recorder.RecordItemStatus(req.Status)
	s.publish(ctx, events.Event{
		Type:       events.ItemStatusChanged,
		OrderID:    order.ID,
		Table:      order.Table,
		FoodID:     req.ItemID,
		Status:     req.Status,
		OccurredAt: now,
	})
	if !wasCompleted && order.Status == models.OrderStatusCompleted {
		s.publish(ctx, events.Event{
			Type:       events.OrderCompleted,
			OrderID:    order.ID,
			Table:      order.Table,
			Order:      order,
			OccurredAt: now,
		})
	}
	return order, nil
}
