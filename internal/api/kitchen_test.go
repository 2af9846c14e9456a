package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/database"
	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/logger"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"github.com/PinJun0711/Thunderbolts/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKitchen struct {
	api   *KitchenAPI
	store *database.SQLStore
	hub   *Hub
}

func newTestKitchen(t *testing.T, staticDir string) *testKitchen {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.OpenSQL("sqlite3", ":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logger.Discard()
	require.NoError(t, database.Seed(store, log))

	hub := NewHub(log)
	t.Cleanup(hub.Close)
	monitor := monitoring.NewMonitor(monitoring.NewMetricsCollector())
	svc := kitchen.NewService(store.Orders(), store.Menu(), store.Stock(),
		kitchen.WithPublisher(hub),
		kitchen.WithRecorder(monitor),
		kitchen.WithLogger(log),
	)

	return &testKitchen{
		api:   NewKitchenAPI(svc, monitor, hub, staticDir, log),
		store: store,
		hub:   hub,
	}
}

func (tk *testKitchen) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tk.api.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (tk *testKitchen) placeOrder(t *testing.T, table interface{}, items ...map[string]interface{}) models.Order {
	t.Helper()
	w := tk.do(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"pax":   2,
		"table": table,
		"items": items,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Order](t, w)
}

func line(foodID string, qty int) map[string]interface{} {
	return map[string]interface{}{"foodId": foodID, "quantity": qty}
}

func TestHealth(t *testing.T) {
	tk := newTestKitchen(t, "")

	w := tk.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, body, "uptimeSeconds")
}

func TestRequestIDIsEchoed(t *testing.T) {
	tk := newTestKitchen(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	tk.api.Router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCreateOrderAcceptsNumericTable(t *testing.T) {
	tk := newTestKitchen(t, "")

	order := tk.placeOrder(t, 3, line("m1", 2), line("d1", 1))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "3", order.Table)
	assert.Equal(t, models.OrderStatusSent, order.Status)
	assert.InDelta(t, 6.2, order.TotalAmount, 1e-9)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Roti Canai", order.Items[0].FoodName)

	order = tk.placeOrder(t, "7", line("m2", 1))
	assert.Equal(t, "7", order.Table)
}

func TestCreateOrderValidation(t *testing.T) {
	tk := newTestKitchen(t, "")

	cases := []struct {
		name string
		body interface{}
		want string
	}{
		{"missing items", map[string]interface{}{"pax": 2, "table": 1}, "pax and items are required"},
		{"missing table", map[string]interface{}{"pax": 2, "items": []interface{}{line("m1", 1)}}, "table is required"},
		{"table out of range", map[string]interface{}{"pax": 2, "table": 11, "items": []interface{}{line("m1", 1)}}, "table must be an integer 1-10"},
		{"fractional table", map[string]interface{}{"pax": 2, "table": 2.5, "items": []interface{}{line("m1", 1)}}, "table must be an integer 1-10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := tk.do(t, http.MethodPost, "/api/orders", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decode[map[string]string](t, w)["error"])
		})
	}

	malformed := []string{
		"{not json",
		`{"pax": "two", "table": 1, "items": [{"foodId": "m1", "quantity": 1}]}`,
		`{"pax": 2, "table": true, "items": [{"foodId": "m1", "quantity": 1}]}`,
		`{"pax": 2, "table": 1, "items": [{"foodId": "m1", "quantity": "one"}]}`,
	}
	for _, body := range malformed {
		w := tk.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid order payload", decode[map[string]string](t, w)["error"], body)
		assert.NotContains(t, w.Body.String(), "json:", body)
	}
}

func TestCookingSequenceEndpoint(t *testing.T) {
	tk := newTestKitchen(t, "")
	tk.placeOrder(t, 3, line("d1", 1), line("m1", 1))
	tk.placeOrder(t, 5, line("m3", 1))

	w := tk.do(t, http.MethodGet, "/api/cooking-sequence", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var plan struct {
		CookingSequence []struct {
			FoodID string  `json:"foodId"`
			Score  float64 `json:"score"`
		} `json:"cookingSequence"`
		CookingStations map[string][]json.RawMessage `json:"cookingStations"`
		EstimatedTimes  map[string]struct {
			TotalTime int `json:"totalTime"`
		} `json:"estimatedTimes"`
		TotalItems  int `json:"totalItems"`
		TotalOrders int `json:"totalOrders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))

	assert.Equal(t, 3, plan.TotalItems)
	assert.Equal(t, 2, plan.TotalOrders)
	require.Len(t, plan.CookingSequence, 3)
	for i := 1; i < len(plan.CookingSequence); i++ {
		assert.GreaterOrEqual(t, plan.CookingSequence[i-1].Score, plan.CookingSequence[i].Score)
	}

	assert.Len(t, plan.CookingStations["Cold Prep"], 1)
	assert.Len(t, plan.CookingStations["Grill Station"], 1)
	assert.Len(t, plan.CookingStations["Fry Station"], 1)
	assert.Empty(t, plan.CookingStations["Hot Kitchen"])
	assert.Equal(t, 11, plan.EstimatedTimes["Grill Station"].TotalTime)
	assert.Equal(t, 17, plan.EstimatedTimes["Fry Station"].TotalTime)
	assert.Equal(t, 0, plan.EstimatedTimes["Hot Kitchen"].TotalTime)
}

func TestCookingSequenceStoreFailure(t *testing.T) {
	tk := newTestKitchen(t, "")
	require.NoError(t, tk.store.Close())

	w := tk.do(t, http.MethodGet, "/api/cooking-sequence", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate cooking sequence", decode[map[string]string](t, w)["error"])
}

func TestUpdateItemStatusEndpoint(t *testing.T) {
	tk := newTestKitchen(t, "")
	order := tk.placeOrder(t, 2, line("m1", 1))

	w := tk.do(t, http.MethodPost, "/api/cooking-sequence", map[string]string{"orderId": order.ID, "itemId": "m1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "orderId, itemId, and status are required", decode[map[string]string](t, w)["error"])

	w = tk.do(t, http.MethodPost, "/api/cooking-sequence", map[string]string{"orderId": "missing", "itemId": "m1", "status": "ready"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode[map[string]string](t, w)["error"])

	w = tk.do(t, http.MethodPost, "/api/cooking-sequence", map[string]string{"orderId": order.ID, "itemId": "m1", "status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Item status updated to completed", body.Message)
	assert.Equal(t, models.OrderStatusCompleted, body.Order.Status)
	assert.NotNil(t, body.Order.CompletedAt)

	tables := decode[[]models.ActiveTable](t, tk.do(t, http.MethodGet, "/api/active-tables", nil))
	assert.Empty(t, tables)
}

func TestOrdersAndActiveTables(t *testing.T) {
	tk := newTestKitchen(t, "")
	first := tk.placeOrder(t, 4, line("m2", 1))
	tk.placeOrder(t, 4, line("d2", 2))

	orders := decode[[]models.Order](t, tk.do(t, http.MethodGet, "/api/orders", nil))
	assert.Len(t, orders, 2)

	tables := decode[[]models.ActiveTable](t, tk.do(t, http.MethodGet, "/api/active-tables", nil))
	assert.Equal(t, []models.ActiveTable{{Table: "4", ActiveOrders: 2, Pax: 4}}, tables)

	w := tk.do(t, http.MethodPost, "/api/orders/"+first.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusCompleted, decode[models.Order](t, w).Status)

	w = tk.do(t, http.MethodPost, "/api/orders/missing/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuStockAndRestock(t *testing.T) {
	tk := newTestKitchen(t, "")

	menu := decode[[]models.MenuItem](t, tk.do(t, http.MethodGet, "/api/menu", nil))
	require.Len(t, menu, 8)
	assert.Equal(t, "drinks", menu[0].Category)

	stock := decode[[]models.StockItem](t, tk.do(t, http.MethodGet, "/api/stock", nil))
	require.Len(t, stock, 16)
	target := stock[0]

	w := tk.do(t, http.MethodPost, "/api/stock/restock", map[string]interface{}{"itemId": target.ID, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid item ID or quantity", decode[map[string]string](t, w)["error"])

	w = tk.do(t, http.MethodPost, "/api/stock/restock", map[string]interface{}{"itemId": "missing", "quantity": 3})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found", decode[map[string]string](t, w)["error"])

	w = tk.do(t, http.MethodPost, "/api/stock/restock", map[string]interface{}{"itemId": target.ID, "quantity": 3, "cost": 4.5})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Item    struct {
			ID                string  `json:"_id"`
			QuantityAvailable float64 `json:"quantityAvailable"`
			CostPerUnit       float64 `json:"costPerUnit"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, target.ID, body.Item.ID)
	assert.Equal(t, target.QuantityAvailable+3, body.Item.QuantityAvailable)
	assert.Equal(t, 4.5, body.Item.CostPerUnit)
}

func TestMenuStoreFailure(t *testing.T) {
	tk := newTestKitchen(t, "")
	require.NoError(t, tk.store.Close())

	w := tk.do(t, http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch menu", decode[map[string]string](t, w)["error"])
}

func TestForecastEndpoint(t *testing.T) {
	tk := newTestKitchen(t, "")

	w := tk.do(t, http.MethodPost, "/api/forecast", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Items array is required", decode[map[string]string](t, w)["error"])

	w = tk.do(t, http.MethodPost, "/api/forecast", map[string]interface{}{
		"items": []map[string]interface{}{
			{"name": "Flour", "currentStock": 50, "unit": "kg"},
			{"name": "Tea", "currentStock": 3, "unit": "kg"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Predictions []struct {
			Name           string  `json:"name"`
			Predicted7     float64 `json:"predicted7days"`
			Recommendation string  `json:"recommendation"`
		} `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Predictions, 2)
	assert.Equal(t, 45.0, body.Predictions[0].Predicted7)
	assert.Equal(t, "Good", body.Predictions[0].Recommendation)
	assert.Equal(t, "Restock", body.Predictions[1].Recommendation)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>kitchen</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o644))
	tk := newTestKitchen(t, dir)

	w := tk.do(t, http.MethodGet, "/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = tk.do(t, http.MethodGet, "/tables/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kitchen")

	w = tk.do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	tk := newTestKitchen(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://tablet.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	tk.api.Router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestKitchenFeed(t *testing.T) {
	tk := newTestKitchen(t, "")
	srv := httptest.NewServer(tk.api.Router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/kitchen"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return tk.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	order := tk.placeOrder(t, 8, line("m4", 1))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event events.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, events.OrderCreated, event.Type)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "8", event.Table)
}

func TestHubDropsWhenNobodyListens(t *testing.T) {
	hub := NewHub(logger.Discard())
	assert.NoError(t, hub.Publish(context.Background(), events.Event{Type: events.OrderCompleted}))
	assert.Equal(t, 0, hub.Clients())
}
