package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func twoLineOrder() Order {
	return Order{
		ID:     "o1",
		Table:  "3",
		Status: OrderStatusSent,
		Items: []OrderItem{
			{FoodID: "m1", FoodName: "Roti Canai", Quantity: 1, Status: ItemStatusSent},
			{FoodID: "m1", FoodName: "Roti Canai", Quantity: 2, Status: ItemStatusSent},
		},
	}
}

func TestSetItemStatusTouchesFirstMatchOnly(t *testing.T) {
	o := twoLineOrder()

	require.True(t, o.SetItemStatus("m1", ItemStatusCompleted, now))
	assert.Equal(t, ItemStatusCompleted, o.Items[0].Status)
	assert.Equal(t, ItemStatusSent, o.Items[1].Status)
	assert.Equal(t, OrderStatusSent, o.Status)
	assert.Nil(t, o.CompletedAt)
}

func TestSetItemStatusCompletesOrder(t *testing.T) {
	o := twoLineOrder()
	o.Items[1].Status = ItemStatusCompleted

	require.True(t, o.SetItemStatus("m1", ItemStatusCompleted, now))
	assert.Equal(t, OrderStatusCompleted, o.Status)
	require.NotNil(t, o.CompletedAt)
	assert.True(t, o.CompletedAt.Equal(now))
}

func TestSetItemStatusUnknownLine(t *testing.T) {
	o := twoLineOrder()
	before := twoLineOrder()

	assert.False(t, o.SetItemStatus("zz", ItemStatusReady, now))
	assert.Equal(t, before, o)
}

func TestItemStatus(t *testing.T) {
	for _, s := range []ItemStatus{ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusCompleted, ItemStatusSent} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ItemStatus("burnt").Valid())

	assert.True(t, ItemStatusPending.AwaitsKitchen())
	assert.True(t, ItemStatusSent.AwaitsKitchen())
	assert.False(t, ItemStatusPreparing.AwaitsKitchen())
	assert.False(t, ItemStatusReady.AwaitsKitchen())
}

func TestMenuIndexLookup(t *testing.T) {
	idx := NewMenuIndex([]MenuItem{{FoodID: "d1", Name: "Teh Tarik", CookingTime: 3, PreparationTime: 2, Priority: PriorityLow}})

	item := idx.Lookup("d1")
	assert.Equal(t, 5, item.TotalTime())

	missing := idx.Lookup("x9")
	assert.Equal(t, DefaultCookingTime, missing.CookingTime)
	assert.Equal(t, DefaultPreparationTime, missing.PreparationTime)
	assert.Equal(t, PriorityMedium, missing.Priority)
	assert.Equal(t, DefaultCategory, missing.Category)
}

func TestStockItemRestock(t *testing.T) {
	item := StockItem{Name: "Tea", QuantityAvailable: 2, CostPerUnit: 8, MinimumThreshold: DefaultMinimumThreshold}
	assert.True(t, item.BelowMinimum())

	item.Restock(5, 0)
	assert.Equal(t, 7.0, item.QuantityAvailable)
	assert.Equal(t, 8.0, item.CostPerUnit)

	item.Restock(5, 9.5)
	assert.Equal(t, 12.0, item.QuantityAvailable)
	assert.Equal(t, 9.5, item.CostPerUnit)
	assert.False(t, item.BelowMinimum())
}
