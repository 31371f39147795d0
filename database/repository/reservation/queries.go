// File: database/repository/reservation/queries.go
package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkbook/models"
)

var occupyingStatuses = bson.A{models.ReservationPending, models.ReservationConfirmed}

func (r *mongoReservationRepo) GetByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"id": reservationID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", reservationID, err)
	}
	return &res, nil
}

func (r *mongoReservationRepo) ListOccupying(ctx context.Context, bookID, date string) ([]models.Reservation, error) {
	filter := bson.M{
		"book_id": bookID,
		"date":    date,
		"status":  bson.M{"$in": occupyingStatuses},
	}
	return r.list(ctx, filter)
}

func (r *mongoReservationRepo) ListOccupyingInRange(ctx context.Context, bookID, from, to string) ([]models.Reservation, error) {
	filter := bson.M{
		"book_id": bookID,
		"date":    bson.M{"$gte": from, "$lte": to},
		"status":  bson.M{"$in": occupyingStatuses},
	}
	return r.list(ctx, filter)
}

func (r *mongoReservationRepo) ListByBook(ctx context.Context, bookID, from, to string) ([]models.Reservation, error) {
	filter := bson.M{
		"book_id": bookID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	return r.list(ctx, filter)
}

func (r *mongoReservationRepo) ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	return r.list(ctx, bson.M{"client_id": clientID})
}

func (r *mongoReservationRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepo) UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": reservationID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s status: %w", reservationID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoReservationRepo) SetPaymentIntent(ctx context.Context, reservationID, paymentIntentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"payment_intent_id": paymentIntentID, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": reservationID}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment intent on reservation %s: %w", reservationID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
