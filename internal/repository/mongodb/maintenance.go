package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

type taskDoc struct {
	Tenant                 string `bson:"tenant"`
	models.MaintenanceTask `bson:",inline"`
}

// ListTasks implements repository.MaintenanceStore.
func (r *MongoDBRepository) ListTasks(ctx context.Context, tenant string) ([]models.MaintenanceTask, error) {
	cur, err := r.db.Collection(maintenanceColl).Find(ctx, bson.M{"tenant": tenant},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find maintenance tasks: %w", err)
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode maintenance tasks: %w", err)
	}

	out := make([]models.MaintenanceTask, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.MaintenanceTask)
	}
	return out, nil
}

// GetTask implements repository.MaintenanceStore.
func (r *MongoDBRepository) GetTask(ctx context.Context, tenant string, id int) (models.MaintenanceTask, error) {
	var doc taskDoc
	err := r.db.Collection(maintenanceColl).FindOne(ctx, bson.M{"tenant": tenant, "id": id}).Decode(&doc)
	if err != nil {
		return models.MaintenanceTask{}, fmt.Errorf("get maintenance task %d: %w", id, notFound(err))
	}
	return doc.MaintenanceTask, nil
}

// CreateTask implements repository.MaintenanceStore.
func (r *MongoDBRepository) CreateTask(ctx context.Context, tenant string, t models.MaintenanceTask) (models.MaintenanceTask, error) {
	id, err := r.nextID(ctx, tenant, maintenanceColl)
	if err != nil {
		return models.MaintenanceTask{}, err
	}
	t.ID = id

	if _, err := r.db.Collection(maintenanceColl).InsertOne(ctx, taskDoc{Tenant: tenant, MaintenanceTask: t}); err != nil {
		return models.MaintenanceTask{}, fmt.Errorf("failed to insert maintenance task: %w", err)
	}
	return t, nil
}

// UpdateTask implements repository.MaintenanceStore.
func (r *MongoDBRepository) UpdateTask(ctx context.Context, tenant string, t models.MaintenanceTask) error {
	res, err := r.db.Collection(maintenanceColl).ReplaceOne(ctx,
		bson.M{"tenant": tenant, "id": t.ID},
		taskDoc{Tenant: tenant, MaintenanceTask: t})
	if err != nil {
		return fmt.Errorf("failed to update maintenance task %d: %w", t.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update maintenance task %d: %w", t.ID, errNotFound)
	}
	return nil
}
