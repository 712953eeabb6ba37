package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/repository"
)

const (
	tenantsColl     = "tenants"
	countersColl    = "counters"
	projectsColl    = "projects"
	inventoryColl   = "inventory_items"
	movementsColl   = "stock_movements"
	maintenanceColl = "maintenance_tasks"
	contactsColl    = "contacts"
)

// MongoDBRepository implements repository.Store with one collection per
// entity, every document carrying its tenant.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects, pings and ensures indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	unique := func(keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true)}
	}

	specs := map[string][]mongo.IndexModel{
		projectsColl:    {unique("tenant", "id")},
		inventoryColl:   {unique("tenant", "sku")},
		maintenanceColl: {unique("tenant", "id")},
		movementsColl: {{
			Keys: bson.D{{Key: "tenant", Value: 1}, {Key: "sku", Value: 1}, {Key: "created_at", Value: 1}},
		}},
	}

	for coll, idx := range specs {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type tenantDoc struct {
	ID        string    `bson:"_id"`
	Seed      string    `bson:"seed"`
	ClaimedAt time.Time `bson:"claimed_at"`
	CreatedAt time.Time `bson:"created_at"`
}

const (
	seedClaimed = "claimed"
	seedDone    = "done"

	// seedLease bounds how long a claim from a crashed process blocks others.
	seedLease = 5 * time.Minute
)

// ClaimSeed implements repository.TenantStore.
func (r *MongoDBRepository) ClaimSeed(ctx context.Context, tenant string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.db.Collection(tenantsColl).UpdateOne(ctx,
		bson.M{"_id": tenant, "$or": bson.A{
			bson.M{"seed": bson.M{"$exists": false}},
			bson.M{"seed": ""},
			bson.M{"seed": seedClaimed, "claimed_at": bson.M{"$lt": now.Add(-seedLease)}},
		}},
		bson.M{
			"$set":         bson.M{"seed": seedClaimed, "claimed_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// The upsert collides with a tenant that is seeded or being seeded.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("claim seed for %s: %w", tenant, err)
	}
	return res.ModifiedCount+res.UpsertedCount > 0, nil
}

// CommitSeed implements repository.TenantStore.
func (r *MongoDBRepository) CommitSeed(ctx context.Context, tenant string) error {
	_, err := r.db.Collection(tenantsColl).UpdateOne(ctx,
		bson.M{"_id": tenant},
		bson.M{"$set": bson.M{"seed": seedDone}},
	)
	if err != nil {
		return fmt.Errorf("commit seed for %s: %w", tenant, err)
	}
	return nil
}

// ReleaseSeed implements repository.TenantStore.
func (r *MongoDBRepository) ReleaseSeed(ctx context.Context, tenant string) error {
	_, err := r.db.Collection(tenantsColl).UpdateOne(ctx,
		bson.M{"_id": tenant, "seed": seedClaimed},
		bson.M{"$set": bson.M{"seed": ""}},
	)
	if err != nil {
		return fmt.Errorf("release seed for %s: %w", tenant, err)
	}
	return nil
}

// Tenants implements repository.TenantStore.
func (r *MongoDBRepository) Tenants(ctx context.Context) ([]string, error) {
	cur, err := r.db.Collection(tenantsColl).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	var docs []tenantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tenants: %w", err)
	}

	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out, nil
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// nextID increments and returns the tenant's counter for name.
func (r *MongoDBRepository) nextID(ctx context.Context, tenant, name string) (int, error) {
	var doc counterDoc
	err := r.db.Collection(countersColl).FindOneAndUpdate(ctx,
		bson.M{"_id": tenant + ":" + name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errNotFound
	}
	return err
}
