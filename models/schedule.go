package models

import "time"

// DayHours is one weekday's working window, minutes from midnight (0-1439).
type DayHours struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// WeeklyTemplate holds a book's recurring working hours. Days is indexed by
// time.Weekday (0 = Sunday); a nil entry means the book is closed that day.
type WeeklyTemplate struct {
	BookID    string       `bson:"book_id" json:"bookId"`
	Days      [7]*DayHours `bson:"days" json:"days"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updatedAt"`
}

// HoursOn returns the template window for the given weekday, nil if closed.
func (t *WeeklyTemplate) HoursOn(w time.Weekday) *DayHours {
	if t == nil {
		return nil
	}
	return t.Days[int(w)]
}

// SetupScheduleRequest defines the payload for replacing a book's weekly
// template. Keys are weekday numbers 0 (Sunday) through 6 (Saturday);
// omitted weekdays are closed.
type SetupScheduleRequest struct {
	Days map[int]DayHours `json:"days" binding:"required"`
}
