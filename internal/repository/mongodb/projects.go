package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

var errNotFound = models.ErrNotFound

type projectDoc struct {
	Tenant         string `bson:"tenant"`
	models.Project `bson:",inline"`
}

// ListProjects implements repository.ProjectStore.
func (r *MongoDBRepository) ListProjects(ctx context.Context, tenant string) ([]models.Project, error) {
	cur, err := r.db.Collection(projectsColl).Find(ctx, bson.M{"tenant": tenant},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	out := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Project)
	}
	return out, nil
}

// GetProject implements repository.ProjectStore.
func (r *MongoDBRepository) GetProject(ctx context.Context, tenant string, id int) (models.Project, error) {
	var doc projectDoc
	err := r.db.Collection(projectsColl).FindOne(ctx, bson.M{"tenant": tenant, "id": id}).Decode(&doc)
	if err != nil {
		return models.Project{}, fmt.Errorf("get project %d: %w", id, notFound(err))
	}
	return doc.Project, nil
}

// CreateProject implements repository.ProjectStore.
func (r *MongoDBRepository) CreateProject(ctx context.Context, tenant string, p models.Project) (models.Project, error) {
	id, err := r.nextID(ctx, tenant, projectsColl)
	if err != nil {
		return models.Project{}, err
	}
	p.ID = id

	if _, err := r.db.Collection(projectsColl).InsertOne(ctx, projectDoc{Tenant: tenant, Project: p}); err != nil {
		return models.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}
	return p, nil
}

// UpdateProject implements repository.ProjectStore.
func (r *MongoDBRepository) UpdateProject(ctx context.Context, tenant string, p models.Project) error {
	res, err := r.db.Collection(projectsColl).ReplaceOne(ctx,
		bson.M{"tenant": tenant, "id": p.ID},
		projectDoc{Tenant: tenant, Project: p})
	if err != nil {
		return fmt.Errorf("failed to update project %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update project %d: %w", p.ID, errNotFound)
	}
	return nil
}
