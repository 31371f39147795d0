// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"inkbook/database"
	"inkbook/models"
)

// ErrOverlap is returned by Admit when the store-level overlap backstop
// finds a second occupying reservation for the same book and date.
var ErrOverlap = errors.New("overlapping occupying reservation")

// Repository provides access to reservation records. GetByID returns
// (nil, nil) when no reservation exists for the id.
type Repository interface {
	GetByID(ctx context.Context, reservationID string) (*models.Reservation, error)
	// ListOccupying returns PENDING and CONFIRMED reservations for a book
	// on a date, sorted by start ascending.
	ListOccupying(ctx context.Context, bookID, date string) ([]models.Reservation, error)
	ListOccupyingInRange(ctx context.Context, bookID, from, to string) ([]models.Reservation, error)
	ListByBook(ctx context.Context, bookID, from, to string) ([]models.Reservation, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error
	SetPaymentIntent(ctx context.Context, reservationID, paymentIntentID string) error
	// Admit inserts the reservation inside one transaction. recheck runs
	// first with the transaction's session context so its reads are part of
	// the same unit of work; after the insert an overlap count guards the
	// no-overlap invariant and aborts with ErrOverlap if it trips.
	Admit(ctx context.Context, res *models.Reservation, recheck func(ctx context.Context) error) error
	EnsureIndexes() error
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new MongoDB reservation Repository.
func NewMongoReservationRepo() Repository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoReservationRepo{
		coll: db.Collection("reservations"),
	}
}
