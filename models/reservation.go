package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Occupies reports whether a reservation in this status holds its time
// against new admissions. Cancelled reservations free their interval
// immediately; completed ones are history on past dates.
func (s ReservationStatus) Occupies() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// Reservation is a client's claim on [Start, End) of a book's day.
type Reservation struct {
	ID              string            `bson:"id" json:"id"`
	BookID          string            `bson:"book_id" json:"bookId"`
	ClientID        string            `bson:"client_id" json:"clientId"`
	Date            string            `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start           int               `bson:"start" json:"start"`
	End             int               `bson:"end" json:"end"`
	Status          ReservationStatus `bson:"status" json:"status"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentIntentID string            `bson:"payment_intent_id,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updatedAt"`
}

// CreateReservationRequest defines the payload for requesting a slot.
type CreateReservationRequest struct {
	Date  string `json:"date" binding:"required"`
	Start int    `json:"start"`
	End   int    `json:"end" binding:"required"`
	Notes string `json:"notes"`
}
