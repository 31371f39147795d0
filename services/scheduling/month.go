package scheduling

import (
	"context"
	"time"

	"inkbook/models"
)

// MonthAvailability reduces every date of a calendar month to a boolean
// "has at least one bookable start". Schedule data for the whole month is
// fetched in bulk and each day stops at the first fitting start, so a
// 31-day calendar view stays a handful of queries rather than 31 of each.
func (e *DefaultEngine) MonthAvailability(ctx context.Context, bookID, month string, durationMinutes, granularityMinutes int) (map[string]bool, error) {
	first, err := time.Parse(MonthLayout, month)
	if err != nil || durationMinutes <= 0 || granularityMinutes <= 0 {
		return nil, ErrInvalidRange
	}
	if _, err := e.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	last := first.AddDate(0, 1, -1)
	from, to := first.Format(DateLayout), last.Format(DateLayout)

	template, err := e.Schedule.GetTemplate(ctx, bookID)
	if err != nil {
		return nil, err
	}
	exceptions, err := e.Schedule.ListExceptionsInRange(ctx, bookID, from, to)
	if err != nil {
		return nil, err
	}
	blocks, err := e.Blocks.ListInRange(ctx, bookID, from, to)
	if err != nil {
		return nil, err
	}
	reservations, err := e.Reservations.ListOccupyingInRange(ctx, bookID, from, to)
	if err != nil {
		return nil, err
	}

	excByDate := make(map[string]*models.Exception, len(exceptions))
	for i := range exceptions {
		excByDate[exceptions[i].Date] = &exceptions[i]
	}
	blocksByDate := make(map[string][]models.ManualBlock)
	for _, b := range blocks {
		blocksByDate[b.Date] = append(blocksByDate[b.Date], b)
	}
	resByDate := make(map[string][]models.Reservation)
	for _, r := range reservations {
		resByDate[r.Date] = append(resByDate[r.Date], r)
	}

	todayMidnight, nowMinute := e.today()

	result := make(map[string]bool)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		if day.Before(todayMidnight) {
			result[date] = false
			continue
		}
		notBefore := 0
		if day.Equal(todayMidnight) {
			notBefore = nowMinute
		}

		free, err := e.computeDayFree(template, excByDate[date], day.Weekday(), blocksByDate[date], resByDate[date])
		if err != nil {
			return nil, err
		}
		result[date] = hasGridStart(free, durationMinutes, granularityMinutes, notBefore)
	}
	return result, nil
}
