// File: database/repository/reservation/transaction.go
package reservationRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/models"
)

// Admit commits a reservation as one atomic unit: re-validation, insert and
// the overlap backstop all run on the same mongo session, so two admissions
// for the same slot cannot both observe it free and both commit.
func (r *mongoReservationRepo) Admit(ctx context.Context, res *models.Reservation, recheck func(ctx context.Context) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := recheck(sc); err != nil {
			return err
		}

		if _, err := r.coll.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}

		// Backstop for the no-overlap invariant: count occupying rows that
		// intersect [start, end) besides the one just inserted.
		filter := bson.M{
			"book_id": res.BookID,
			"date":    res.Date,
			"status":  bson.M{"$in": occupyingStatuses},
			"start":   bson.M{"$lt": res.End},
			"end":     bson.M{"$gt": res.Start},
		}
		n, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap backstop count failed: %w", err)
		}
		if n > 1 {
			return ErrOverlap
		}
		return nil
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
