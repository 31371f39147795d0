// File: database/repository/reservation/indexes.go
package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the reservations collection.
func (r *mongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary admission/availability query pattern.
		{
			Keys:    bson.D{{Key: "book_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("book_date_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "book_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("book_date_start_end_idx"),
		},
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}},
			Options: options.Index().SetName("client_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
