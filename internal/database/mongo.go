package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ordersCollection = "orders"
	menuCollection   = "menuitems"
	stockCollection  = "stockitems"
)

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Pax         int                `bson:"pax"`
	Table       string             `bson:"table"`
	Items       []models.OrderItem `bson:"items"`
	TotalAmount float64            `bson:"totalAmount"`
	Status      string             `bson:"status"`
	CompletedAt *time.Time         `bson:"completedAt"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type menuDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	FoodID          string             `bson:"foodId"`
	Name            string             `bson:"name"`
	Category        string             `bson:"category"`
	Price           float64            `bson:"price"`
	ImageURL        string             `bson:"imageUrl"`
	CookingTime     int                `bson:"cookingTime"`
	PreparationTime int                `bson:"preparationTime"`
	Priority        string             `bson:"priority"`
	StockNeeds      []models.StockNeed `bson:"stockNeeds"`
}

type stockDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Unit              string             `bson:"unit"`
	QuantityAvailable float64            `bson:"quantityAvailable"`
	CostPerUnit       float64            `bson:"costPerUnit"`
	MinimumThreshold  float64            `bson:"minimumThreshold"`
	MaximumThreshold  float64            `bson:"maximumThreshold"`
}

type activeTableDoc struct {
	Table        string `bson:"table"`
	ActiveOrders int    `bson:"activeOrders"`
	Pax          int    `bson:"pax"`
}

// MongoStore keeps the kitchen in MongoDB. Every call is bounded by timeout.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// OpenMongo connects to uri and checks the server is reachable
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	_, err = db.Collection(menuCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "foodId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create menu index: %w", err)
	}

	return &MongoStore{client: client, db: db, timeout: timeout}, nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Orders returns the order repository
func (s *MongoStore) Orders() kitchen.OrderRepository {
	return mongoOrders{coll: s.db.Collection(ordersCollection), timeout: s.timeout}
}

// Menu returns the menu repository
func (s *MongoStore) Menu() kitchen.MenuRepository {
	return mongoMenu{coll: s.db.Collection(menuCollection), timeout: s.timeout}
}

// Stock returns the stock repository
func (s *MongoStore) Stock() kitchen.StockRepository {
	return mongoStock{coll: s.db.Collection(stockCollection), timeout: s.timeout}
}

type mongoOrders struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r mongoOrders) ListActive(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$ne": string(models.OrderStatusCompleted)}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r mongoOrders) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.toModel())
	}
	return orders, nil
}

func (r mongoOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, kitchen.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc orderDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, kitchen.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	order := doc.toModel()
	return &order, nil
}

func (r mongoOrders) Save(ctx context.Context, order *models.Order) error {
	oid, err := primitive.ObjectIDFromHex(order.ID)
	if err != nil {
		return kitchen.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	order.UpdatedAt = time.Now().UTC()
	doc := fromOrderModel(order)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return kitchen.ErrOrderNotFound
	}
	return nil
}

func (r mongoOrders) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	doc := fromOrderModel(order)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	order.ID = doc.ID.Hex()
	return nil
}

func (r mongoOrders) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r mongoOrders) ActiveTables(ctx context.Context) ([]models.ActiveTable, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": string(models.OrderStatusCompleted)}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$table",
			"activeOrders": bson.M{"$sum": 1},
			"pax":          bson.M{"$sum": "$pax"},
		}}},
		{{Key: "$project", Value: bson.M{"table": "$_id", "activeOrders": 1, "pax": 1, "_id": 0}}},
		{{Key: "$sort", Value: bson.M{"table": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []activeTableDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	tables := make([]models.ActiveTable, 0, len(docs))
	for _, doc := range docs {
		tables = append(tables, models.ActiveTable(doc))
	}
	return tables, nil
}

func (r mongoOrders) Complete(ctx context.Context, id string, at time.Time) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, kitchen.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(models.OrderStatusCompleted)},
		{Key: "completedAt", Value: at},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, kitchen.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	order := doc.toModel()
	return &order, nil
}

type mongoMenu struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r mongoMenu) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r mongoMenu) FindByFoodIDs(ctx context.Context, foodIDs []string) ([]models.MenuItem, error) {
	if len(foodIDs) == 0 {
		return []models.MenuItem{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.find(ctx, bson.M{"foodId": bson.M{"$in": foodIDs}}, options.Find())
}

func (r mongoMenu) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.MenuItem, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []menuDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.MenuItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func (r mongoMenu) count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	n, err := r.coll.EstimatedDocumentCount(ctx)
	return int(n), err
}

func (r mongoMenu) insert(items []models.MenuItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, fromMenuModel(item))
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

type mongoStock struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r mongoStock) ListAll(ctx context.Context) ([]models.StockItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []stockDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.StockItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func (r mongoStock) FindByID(ctx context.Context, id string) (*models.StockItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, kitchen.ErrStockItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc stockDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, kitchen.ErrStockItemNotFound
	}
	if err != nil {
		return nil, err
	}
	item := doc.toModel()
	return &item, nil
}

func (r mongoStock) Save(ctx context.Context, item *models.StockItem) error {
	oid, err := primitive.ObjectIDFromHex(item.ID)
	if err != nil {
		return kitchen.ErrStockItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := fromStockModel(*item)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return kitchen.ErrStockItemNotFound
	}
	return nil
}

func (r mongoStock) count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	n, err := r.coll.EstimatedDocumentCount(ctx)
	return int(n), err
}

func (r mongoStock) insert(items []models.StockItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, fromStockModel(item))
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

func fromOrderModel(o *models.Order) orderDoc {
	items := o.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return orderDoc{
		Pax:         o.Pax,
		Table:       o.Table,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CompletedAt: o.CompletedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (doc orderDoc) toModel() models.Order {
	items := doc.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return models.Order{
		ID:          doc.ID.Hex(),
		Table:       doc.Table,
		Pax:         doc.Pax,
		Items:       items,
		TotalAmount: doc.TotalAmount,
		Status:      models.OrderStatus(doc.Status),
		CompletedAt: doc.CompletedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func fromMenuModel(item models.MenuItem) menuDoc {
	return menuDoc{
		FoodID:          item.FoodID,
		Name:            item.Name,
		Category:        item.Category,
		Price:           item.Price,
		ImageURL:        item.ImageURL,
		CookingTime:     item.CookingTime,
		PreparationTime: item.PreparationTime,
		Priority:        string(item.Priority),
		StockNeeds:      item.StockNeeds,
	}
}

func (doc menuDoc) toModel() models.MenuItem {
	return models.MenuItem{
		ID:              doc.ID.Hex(),
		FoodID:          doc.FoodID,
		Name:            doc.Name,
		Category:        doc.Category,
		Price:           doc.Price,
		ImageURL:        doc.ImageURL,
		CookingTime:     doc.CookingTime,
		PreparationTime: doc.PreparationTime,
		Priority:        models.Priority(doc.Priority),
		StockNeeds:      doc.StockNeeds,
	}
}

func fromStockModel(item models.StockItem) stockDoc {
	return stockDoc{
		Name:              item.Name,
		Unit:              item.Unit,
		QuantityAvailable: item.QuantityAvailable,
		CostPerUnit:       item.CostPerUnit,
		MinimumThreshold:  item.MinimumThreshold,
		MaximumThreshold:  item.MaximumThreshold,
	}
}

func (doc stockDoc) toModel() models.StockItem {
	return models.StockItem{
		ID:                doc.ID.Hex(),
		Name:              doc.Name,
		Unit:              doc.Unit,
		QuantityAvailable: doc.QuantityAvailable,
		CostPerUnit:       doc.CostPerUnit,
		MinimumThreshold:  doc.MinimumThreshold,
		MaximumThreshold:  doc.MaximumThreshold,
	}
}
