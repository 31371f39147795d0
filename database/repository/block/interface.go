// File: database/repository/block/interface.go
package blockRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/database"
	"inkbook/models"
)

// Repository provides access to artist-created manual blocks.
type Repository interface {
	Create(ctx context.Context, block *models.ManualBlock) error
	ListByDate(ctx context.Context, bookID, date string) ([]models.ManualBlock, error)
	ListInRange(ctx context.Context, bookID, from, to string) ([]models.ManualBlock, error)
	Delete(ctx context.Context, bookID, blockID string) error
	EnsureIndexes() error
}

type mongoBlockRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockRepo constructs a new MongoDB block Repository.
func NewMongoBlockRepo() Repository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoBlockRepo{
		coll: db.Collection("blocks"),
	}
}
