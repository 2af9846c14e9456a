package models

import (
	"time"
)

// Order represents a table's order as it moves through the kitchen
type Order struct {
	ID          string      `json:"_id"`
	Table       string      `json:"table"`
	Pax         int         `json:"pax"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CompletedAt *time.Time  `json:"completedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem represents one line of an order. It has no identity of its own.
type OrderItem struct {
	FoodID      string     `json:"foodId" bson:"foodId"`
	FoodName    string     `json:"foodName" bson:"foodName"`
	Quantity    int        `json:"quantity" bson:"quantity"`
	UnitPrice   float64    `json:"unitPrice" bson:"unitPrice"`
	LineTotal   float64    `json:"lineTotal" bson:"lineTotal"`
	Spices      string     `json:"spices" bson:"spices"`
	Requirement string     `json:"requirement" bson:"requirement"`
	Status      ItemStatus `json:"status" bson:"status"`
}

// OrderStatus represents the aggregate state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusCompleted OrderStatus = "completed"
)

// ItemStatus represents the state of a single order line
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPreparing ItemStatus = "preparing"
	ItemStatusReady     ItemStatus = "ready"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusSent      ItemStatus = "sent"
)

// Valid reports whether s is one of the known line item states
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusCompleted, ItemStatusSent:
		return true
	}
	return false
}

// AwaitsKitchen reports whether the line still needs to be scheduled.
// Lines already preparing, ready or completed are left alone.
func (s ItemStatus) AwaitsKitchen() bool {
	return s == ItemStatusPending || s == ItemStatusSent
}

// SetItemStatus sets the status of the first line matching foodID.
// When every line ends up completed the order is completed and stamped with now.
// It returns false when no line matches, in which case the order is untouched.
func (o *Order) SetItemStatus(foodID string, status ItemStatus, now time.Time) bool {
	idx := -1
	for i := range o.Items {
		if o.Items[i].FoodID == foodID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	o.Items[idx].Status = status
	if o.allItemsCompleted() {
		o.Complete(now)
	}
	return true
}

// Complete marks the order completed at the given instant
func (o *Order) Complete(now time.Time) {
	o.Status = OrderStatusCompleted
	completedAt := now
	o.CompletedAt = &completedAt
}

func (o *Order) allItemsCompleted() bool {
	for _, item := range o.Items {
		if item.Status != ItemStatusCompleted {
			return false
		}
	}
	return true
}

// ActiveTable summarises the open orders seated at one table
type ActiveTable struct {
	Table        string `json:"table"`
	ActiveOrders int    `json:"activeOrders"`
	Pax          int    `json:"pax"`
}
