package scheduling

import "fmt"

// Error is a caller-recoverable engine error. Handlers map codes to HTTP
// statuses; none of these should crash the process.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidRange reports malformed or inverted time bounds.
	ErrInvalidRange = &Error{Code: "invalidRange", Message: "invalid time range"}
	// ErrBookClosed reports that the book has no base interval on the date.
	ErrBookClosed = &Error{Code: "bookClosed", Message: "book is closed on this date"}
	// ErrSlotTaken reports that the requested slot is no longer available;
	// the client should re-fetch availability and retry.
	ErrSlotTaken = &Error{Code: "slotNoLongerAvailable", Message: "slot is no longer available"}
	// ErrNotFound reports an unknown book or reservation id.
	ErrNotFound = &Error{Code: "notFound", Message: "resource not found"}
	// ErrNotPending reports a status transition on a reservation that has
	// already left the PENDING state.
	ErrNotPending = &Error{Code: "reservationNotPending", Message: "reservation is not pending"}
	// ErrDataIntegrity reports overlapping occupying reservations in the
	// store. The no-overlap invariant was bypassed; this is not repaired.
	ErrDataIntegrity = &Error{Code: "dataIntegrity", Message: "reservation store returned overlapping occupying reservations"}
)
