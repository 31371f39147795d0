// File: database/repository/book/interface.go
package bookRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/database"
	"inkbook/models"
)

// Repository provides access to published books. GetByID returns (nil, nil)
// when no book exists for the id.
type Repository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, bookID string) (*models.Book, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, bookID string) error
	EnsureIndexes() error
}

type mongoBookRepo struct {
	coll *mongo.Collection
}

// NewMongoBookRepo constructs a new MongoDB book Repository.
func NewMongoBookRepo() Repository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoBookRepo{
		coll: db.Collection("books"),
	}
}
