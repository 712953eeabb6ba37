package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

type contactDoc struct {
	Tenant         string `bson:"tenant"`
	models.Contact `bson:",inline"`
}

// ListContacts implements repository.ContactStore.
func (r *MongoDBRepository) ListContacts(ctx context.Context, tenant string) ([]models.Contact, error) {
	cur, err := r.db.Collection(contactsColl).Find(ctx, bson.M{"tenant": tenant},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}

	var docs []contactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	out := make([]models.Contact, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Contact)
	}
	return out, nil
}

// CreateContact implements repository.ContactStore.
func (r *MongoDBRepository) CreateContact(ctx context.Context, tenant string, c models.Contact) error {
	if _, err := r.db.Collection(contactsColl).InsertOne(ctx, contactDoc{Tenant: tenant, Contact: c}); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}
