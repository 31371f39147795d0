package notification

import (
	"context"

	"inkbook/models"
)

// Dispatcher fans reservation lifecycle events out to artists and clients.
// Dispatch happens off the admission critical path: implementations enqueue
// and return; delivery itself is a worker concern.
type Dispatcher interface {
	ReservationCreated(ctx context.Context, res models.Reservation) error
	ReservationConfirmed(ctx context.Context, res models.Reservation) error
	ReservationCancelled(ctx context.Context, res models.Reservation) error
}
