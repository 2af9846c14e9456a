package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"github.com/PinJun0711/Thunderbolts/internal/scheduler"
)

type fakeOrders struct {
	mu      sync.Mutex
	orders  map[string]models.Order
	saves   int
	nextID  int
	listErr error
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{orders: make(map[string]models.Order)}
	for _, o := range orders {
		f.orders[o.ID] = cloneOrder(o)
	}
	return f
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func (f *fakeOrders) sorted() []models.Order {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeOrders) ListActive(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var active []models.Order
	for _, o := range f.sorted() {
		if o.Status != models.OrderStatusCompleted {
			active = append(active, o)
		}
	}
	return active, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (f *fakeOrders) Save(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = fmt.Sprintf("order-%d", f.nextID)
	order.CreatedAt = time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC)
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (f *fakeOrders) ListRecent(_ context.Context, limit int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted()
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeOrders) ActiveTables(ctx context.Context) ([]models.ActiveTable, error) {
	active, err := f.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byTable := map[string]*models.ActiveTable{}
	for _, o := range active {
		t, ok := byTable[o.Table]
		if !ok {
			t = &models.ActiveTable{Table: o.Table}
			byTable[o.Table] = t
		}
		t.ActiveOrders++
		t.Pax += o.Pax
	}
	out := make([]models.ActiveTable, 0, len(byTable))
	for _, t := range byTable {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out, nil
}

func (f *fakeOrders) Complete(_ context.Context, id string, at time.Time) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Complete(at)
	f.orders[id] = o
	o = cloneOrder(o)
	return &o, nil
}

type fakeMenu struct {
	items []models.MenuItem
	err   error
}

func (f *fakeMenu) ListAll(context.Context) ([]models.MenuItem, error) {
	return f.items, f.err
}

func (f *fakeMenu) FindByFoodIDs(_ context.Context, ids []string) ([]models.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.MenuItem
	for _, item := range f.items {
		if want[item.FoodID] {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeStock struct {
	items map[string]models.StockItem
	saves int
}

func (f *fakeStock) ListAll(context.Context) ([]models.StockItem, error) {
	out := make([]models.StockItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStock) FindByID(_ context.Context, id string) (*models.StockItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrStockItemNotFound
	}
	return &item, nil
}

func (f *fakeStock) Save(_ context.Context, item *models.StockItem) error {
	f.saves++
	f.items[item.ID] = *item
	return nil
}

type capturedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturedEvents) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capturedEvents) types() []events.Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Type, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker unreachable")
}

type countingRecorder struct {
	passes   int
	statuses []string
	created  int
}

func (r *countingRecorder) RecordPass(scheduler.Plan, time.Duration) { r.passes++ }
func (r *countingRecorder) RecordItemStatus(status string)           { r.statuses = append(r.statuses, status) }
func (r *countingRecorder) RecordOrderCreated()                      { r.created++ }
