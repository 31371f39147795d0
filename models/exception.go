package models

import "time"

// ExceptionKind discriminates date overrides.
type ExceptionKind string

const (
	ExceptionUnavailable ExceptionKind = "UNAVAILABLE"
	ExceptionCustomHours ExceptionKind = "CUSTOM_HOURS"
)

// Exception is a date-specific override of a book's weekly template. An
// exception fully replaces the template for its date; it is never merged
// with it. At most one exception exists per (book, date).
type Exception struct {
	ID          string        `bson:"id" json:"id"`
	BookID      string        `bson:"book_id" json:"bookId"`
	Date        string        `bson:"date" json:"date"` // "YYYY-MM-DD"
	Kind        ExceptionKind `bson:"kind" json:"kind"`
	CustomStart *int          `bson:"custom_start,omitempty" json:"customStart,omitempty"`
	CustomEnd   *int          `bson:"custom_end,omitempty" json:"customEnd,omitempty"`
	Reason      string        `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
}

// UpsertExceptionRequest defines the payload for creating or replacing the
// exception on a date.
type UpsertExceptionRequest struct {
	Date        string        `json:"date" binding:"required"`
	Kind        ExceptionKind `json:"kind" binding:"required"`
	CustomStart *int          `json:"customStart"`
	CustomEnd   *int          `json:"customEnd"`
	Reason      string        `json:"reason"`
}
