// File: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the schedules and
// exceptions collections.
func (r *mongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.templates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "book_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_book"),
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}

	// One exception per (book, date); the upsert path relies on this.
	_, err = r.exceptions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "book_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_book_date"),
	})
	if err != nil {
		return fmt.Errorf("failed to create exception indexes: %w", err)
	}
	return nil
}
