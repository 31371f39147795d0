// File: database/repository/block/indexes.go
package blockRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the blocks collection.
func (r *mongoBlockRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "block_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_block_id"),
		},
		{
			Keys:    bson.D{{Key: "book_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("book_date_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create block indexes: %w", err)
	}
	return nil
}
