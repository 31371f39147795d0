// File: database/repository/block/block_mongo.go
package blockRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/models"
)

func (r *mongoBlockRepo) Create(ctx context.Context, block *models.ManualBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if block.BlockID == "" {
		block.BlockID = uuid.New().String()
	}
	block.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("failed to insert manual block: %w", err)
	}
	return nil
}

func (r *mongoBlockRepo) ListByDate(ctx context.Context, bookID, date string) ([]models.ManualBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"book_id": bookID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manual blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.ManualBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding manual blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoBlockRepo) ListInRange(ctx context.Context, bookID, from, to string) ([]models.ManualBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"book_id": bookID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manual blocks in range: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.ManualBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding manual blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoBlockRepo) Delete(ctx context.Context, bookID, blockID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"book_id": bookID, "block_id": blockID})
	if err != nil {
		return fmt.Errorf("failed to delete manual block: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
