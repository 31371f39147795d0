package models

import "time"

// ManualBlock is an artist-created closed interval layered on top of
// whatever the template or exception produced for a date (lunch, errand,
// walk-in). Blocks on the same date may overlap; the engine merges them.
type ManualBlock struct {
	BlockID   string    `bson:"block_id" json:"blockId"`
	BookID    string    `bson:"book_id" json:"bookId"`
	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start     int       `bson:"start" json:"start"`
	End       int       `bson:"end" json:"end"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// CreateBlockRequest defines the payload for adding a manual block.
type CreateBlockRequest struct {
	Date  string `json:"date" binding:"required"`
	Start int    `json:"start"`
	End   int    `json:"end" binding:"required"`
	Notes string `json:"notes"`
}
