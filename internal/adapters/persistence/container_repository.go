package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/database"
)

// bulkBatchSize bounds a single bulk-write payload.
const bulkBatchSize = 1000

// MongoContainerRepository implements container.Repository on the containers
// collection.
type MongoContainerRepository struct {
	collection *mongo.Collection
}

// NewMongoContainerRepository creates a container repository over the given
// database.
func NewMongoContainerRepository(db *mongo.Database) *MongoContainerRepository {
	return &MongoContainerRepository{collection: db.Collection(database.CollectionContainers)}
}

// Upsert writes one container snapshot keyed by container_id.
func (r *MongoContainerRepository) Upsert(ctx context.Context, c *container.Container) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"container_id": c.Metadata.ContainerID},
		bson.M{"$set": NewContainerDocument(c)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert container %s: %w", c.Metadata.ContainerID, err)
	}
	return nil
}

// BulkUpsert writes container snapshots in unordered batches. Used at
// bootstrap for the whole population and by the scheduler after transitions.
func (r *MongoContainerRepository) BulkUpsert(ctx context.Context, containers []*container.Container) error {
	for start := 0; start < len(containers); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(containers) {
			end = len(containers)
		}

		models := make([]mongo.WriteModel, 0, end-start)
		for _, c := range containers[start:end] {
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"container_id": c.Metadata.ContainerID}).
				SetUpdate(bson.M{"$set": NewContainerDocument(c)}).
				SetUpsert(true))
		}

		_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return fmt.Errorf("container bulk upsert failed: %w", err)
		}
	}
	return nil
}
