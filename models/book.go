package models

import "time"

// Book is a bookable offering published by an artist. Each book owns its
// weekly schedule, date exceptions and manual blocks, and is referenced by
// reservations.
type Book struct {
	ID              string    `bson:"id" json:"id"`
	ArtistID        string    `bson:"artist_id" json:"artistId"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes int       `bson:"duration_minutes" json:"durationMinutes"` // default service length
	DepositAmount   int64     `bson:"deposit_amount,omitempty" json:"depositAmount,omitempty"` // smallest currency unit
	Currency        string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// CreateBookRequest defines the payload for publishing a new book.
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,gt=0"`
	DepositAmount   int64  `json:"depositAmount"`
	Currency        string `json:"currency"`
}
