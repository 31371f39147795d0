// File: database/repository/book/book_mongo.go
package bookRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/models"
)

func (r *mongoBookRepo) Create(ctx context.Context, book *models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, book); err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *mongoBookRepo) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var book models.Book
	err := r.coll.FindOne(ctx, bson.M{"id": bookID}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book %s: %w", bookID, err)
	}
	return &book, nil
}

func (r *mongoBookRepo) ListByArtist(ctx context.Context, artistID string) ([]models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"artist_id": artistID})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("error decoding books: %w", err)
	}
	return books, nil
}

func (r *mongoBookRepo) Update(ctx context.Context, book *models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	book.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": book.ID}, book)
	if err != nil {
		return fmt.Errorf("failed to update book %s: %w", book.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookRepo) Delete(ctx context.Context, bookID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": bookID})
	if err != nil {
		return fmt.Errorf("failed to delete book %s: %w", bookID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
