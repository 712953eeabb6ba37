package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

// itemDoc stores the unit price as its exact decimal string.
type itemDoc struct {
	Tenant    string `bson:"tenant"`
	SKU       string `bson:"sku"`
	Name      string `bson:"name"`
	Spec      string `bson:"spec"`
	Quantity  int    `bson:"quantity"`
	UnitPrice string `bson:"unit_price"`
}

func toItemDoc(tenant string, it models.InventoryItem) itemDoc {
	return itemDoc{
		Tenant:    tenant,
		SKU:       it.SKU,
		Name:      it.Name,
		Spec:      it.Spec,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice.String(),
	}
}

func (d itemDoc) item() models.InventoryItem {
	price, err := decimal.NewFromString(d.UnitPrice)
	if err != nil {
		price = decimal.Zero
	}
	return models.InventoryItem{
		SKU:       d.SKU,
		Name:      d.Name,
		Spec:      d.Spec,
		Quantity:  d.Quantity,
		UnitPrice: price,
	}
}

type movementDoc struct {
	Tenant               string `bson:"tenant"`
	models.StockMovement `bson:",inline"`
}

// ListItems implements repository.InventoryStore. Items keep insertion order.
func (r *MongoDBRepository) ListItems(ctx context.Context, tenant string) ([]models.InventoryItem, error) {
	cur, err := r.db.Collection(inventoryColl).Find(ctx, bson.M{"tenant": tenant},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}

	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	out := make([]models.InventoryItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.item())
	}
	return out, nil
}

// GetItem implements repository.InventoryStore.
func (r *MongoDBRepository) GetItem(ctx context.Context, tenant, sku string) (models.InventoryItem, error) {
	var doc itemDoc
	err := r.db.Collection(inventoryColl).FindOne(ctx, bson.M{"tenant": tenant, "sku": sku}).Decode(&doc)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("get item %s: %w", sku, notFound(err))
	}
	return doc.item(), nil
}

// CreateItem implements repository.InventoryStore.
func (r *MongoDBRepository) CreateItem(ctx context.Context, tenant string, item models.InventoryItem) error {
	_, err := r.db.Collection(inventoryColl).InsertOne(ctx, toItemDoc(tenant, item))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert item %s: %w", item.SKU, models.ErrDuplicateSKU)
	}
	if err != nil {
		return fmt.Errorf("failed to insert item %s: %w", item.SKU, err)
	}
	return nil
}

// ApplyMovement implements repository.InventoryStore. The quantity guard is
// part of the update filter so concurrent adjustments cannot overdraw.
func (r *MongoDBRepository) ApplyMovement(ctx context.Context, tenant string, mv models.StockMovement) (models.InventoryItem, error) {
	filter := bson.M{"tenant": tenant, "sku": mv.SKU}
	if mv.Delta < 0 {
		filter["quantity"] = bson.M{"$gte": -mv.Delta}
	}

	var doc itemDoc
	err := r.db.Collection(inventoryColl).FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"quantity": mv.Delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetItem(ctx, tenant, mv.SKU)
		if getErr != nil {
			return models.InventoryItem{}, getErr
		}
		return current, fmt.Errorf("adjust %s by %d: %w", mv.SKU, mv.Delta, models.ErrInsufficientStock)
	}
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("adjust %s: %w", mv.SKU, err)
	}

	mv.ResultQty = doc.Quantity
	if _, err := r.db.Collection(movementsColl).InsertOne(ctx, movementDoc{Tenant: tenant, StockMovement: mv}); err != nil {
		// The quantity already changed; keep serving and surface the gap in logs.
		r.logger.Error("failed to record stock movement",
			zap.String("tenant", tenant),
			zap.String("sku", mv.SKU),
			zap.Int("delta", mv.Delta),
			zap.Error(err))
	}
	return doc.item(), nil
}

// ListMovements implements repository.InventoryStore.
func (r *MongoDBRepository) ListMovements(ctx context.Context, tenant, sku string) ([]models.StockMovement, error) {
	filter := bson.M{"tenant": tenant}
	if sku != "" {
		filter["sku"] = sku
	}

	cur, err := r.db.Collection(movementsColl).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}

	var docs []movementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	out := make([]models.StockMovement, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.StockMovement)
	}
	return out, nil
}
