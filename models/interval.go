package models

// FreeInterval represents a continuous time block open for booking on a
// given date. Derived on every query, never persisted.
type FreeInterval struct {
	Start int    `json:"start"` // minutes from midnight
	End   int    `json:"end"`   // minutes from midnight
	Label string `json:"label"` // e.g., "9:00 AM - 10:30 AM"
}
