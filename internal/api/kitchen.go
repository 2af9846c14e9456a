package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/forecast"
	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/monitoring"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// KitchenAPI represents the HTTP surface of the kitchen
type KitchenAPI struct {
	Router    *gin.Engine
	Hub       *Hub
	svc       *kitchen.Service
	monitor   *monitoring.Monitor
	staticDir string
	log       *slog.Logger
}

// NewKitchenAPI creates a new kitchen API instance. hub may be nil when no
// live feed is wanted.
func NewKitchenAPI(svc *kitchen.Service, monitor *monitoring.Monitor, hub *Hub, staticDir string, log *slog.Logger) *KitchenAPI {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log), AllowAnyOrigin())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}))

	api := &KitchenAPI{
		Router:    router,
		Hub:       hub,
		svc:       svc,
		monitor:   monitor,
		staticDir: staticDir,
		log:       log,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	api := k.Router.Group("/api")
	{
		api.GET("/health", k.Health)

		// Cooking sequence
		api.GET("/cooking-sequence", k.GetCookingSequence)
		api.POST("/cooking-sequence", k.UpdateItemStatus)

		// Orders
		api.POST("/orders", k.CreateOrder)
		api.GET("/orders", k.ListOrders)
		api.POST("/orders/:id/complete", k.CompleteOrder)
		api.GET("/active-tables", k.ActiveTables)

		// Menu and store room
		api.GET("/menu", k.GetMenu)
		api.GET("/stock", k.GetStock)
		api.POST("/stock/restock", k.Restock)
		api.POST("/forecast", k.Forecast)
	}

	if k.Hub != nil {
		k.Router.GET("/ws/kitchen", k.Hub.ServeWS)
	}

	k.Router.NoRoute(k.serveStatic)
}

// fail maps service errors onto status codes. Unexpected errors are logged
// and answered with msg only.
func (k *KitchenAPI) fail(c *gin.Context, err error, msg string) {
	var ve *kitchen.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, kitchen.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, kitchen.ErrStockItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	default:
		rid, _ := c.Get(ridKey)
		k.log.Error(msg, "rid", rid, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func (k *KitchenAPI) Health(c *gin.Context) {
	body := gin.H{"ok": true}
	if k.monitor != nil {
		snap := k.monitor.Snapshot()
		body["uptimeSeconds"] = snap.UptimeSeconds
		body["ordersCreated"] = snap.OrdersCreated
		body["statusUpdates"] = snap.StatusUpdates
		body["lastPass"] = snap.LastPass
	}
	c.JSON(http.StatusOK, body)
}

// Cooking sequence handlers

func (k *KitchenAPI) GetCookingSequence(c *gin.Context) {
	plan, err := k.svc.CookingSequence(c.Request.Context())
	if err != nil {
		k.fail(c, err, "Failed to generate cooking sequence")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (k *KitchenAPI) UpdateItemStatus(c *gin.Context) {
	var req kitchen.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId, itemId, and status are required"})
		return
	}

	order, err := k.svc.UpdateItemStatus(c.Request.Context(), req)
	if err != nil {
		k.fail(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Item status updated to %s", req.Status),
		"order":   order,
	})
}

// Order handlers

// tableLabel accepts a table given either as a JSON string or a number
type tableLabel string

func (t *tableLabel) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = tableLabel(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("table must be a string or a number")
	}
	*t = tableLabel(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

type createOrderBody struct {
	Pax   int                        `json:"pax"`
	Table tableLabel                 `json:"table"`
	Items []kitchen.OrderLineRequest `json:"items"`
}

func (k *KitchenAPI) CreateOrder(c *gin.Context) {
	var body createOrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	order, err := k.svc.CreateOrder(c.Request.Context(), kitchen.CreateOrderRequest{
		Pax:   body.Pax,
		Table: string(body.Table),
		Items: body.Items,
	})
	if err != nil {
		k.fail(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (k *KitchenAPI) ListOrders(c *gin.Context) {
	orders, err := k.svc.ListOrders(c.Request.Context())
	if err != nil {
		k.fail(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (k *KitchenAPI) ActiveTables(c *gin.Context) {
	tables, err := k.svc.ActiveTables(c.Request.Context())
	if err != nil {
		k.fail(c, err, "Failed to fetch active tables")
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (k *KitchenAPI) CompleteOrder(c *gin.Context) {
	order, err := k.svc.CompleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		k.fail(c, err, "Failed to complete order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// Menu and store room handlers

func (k *KitchenAPI) GetMenu(c *gin.Context) {
	items, err := k.svc.Menu(c.Request.Context())
	if err != nil {
		k.fail(c, err, "Failed to fetch menu")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (k *KitchenAPI) GetStock(c *gin.Context) {
	items, err := k.svc.Stock(c.Request.Context())
	if err != nil {
		k.fail(c, err, "Failed to fetch stock")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (k *KitchenAPI) Restock(c *gin.Context) {
	var req kitchen.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID or quantity"})
		return
	}

	item, err := k.svc.Restock(c.Request.Context(), req)
	if err != nil {
		k.fail(c, err, "Failed to restock item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item": gin.H{
			"_id":               item.ID,
			"name":              item.Name,
			"unit":              item.Unit,
			"quantityAvailable": item.QuantityAvailable,
			"costPerUnit":       item.CostPerUnit,
		},
	})
}

type forecastBody struct {
	Items []forecast.StockLevel `json:"items"`
}

func (k *KitchenAPI) Forecast(c *gin.Context) {
	var body forecastBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Items == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Items array is required"})
		return
	}

	predictions, err := k.svc.Forecast(c.Request.Context(), body.Items)
	if err != nil {
		k.fail(c, err, "Failed to generate forecast")
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

// serveStatic serves files from the static dir and falls back to index.html
// for client side routes. Unknown API paths get a JSON 404.
func (k *KitchenAPI) serveStatic(c *gin.Context) {
	path := c.Request.URL.Path
	if c.Request.Method != http.MethodGet || strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/") || k.staticDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	file := filepath.Join(k.staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}

	index := filepath.Join(k.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(index)
}
