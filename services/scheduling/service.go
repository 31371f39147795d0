package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	blockRepo "inkbook/database/repository/block"
	bookRepo "inkbook/database/repository/book"
	reservationRepo "inkbook/database/repository/reservation"
	scheduleRepo "inkbook/database/repository/schedule"
	"inkbook/models"
	"inkbook/services/notification"
)

// DateLayout is the wire format for dates, MonthLayout for calendar months.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

const minutesPerDay = 24 * 60

// Engine computes availability and admits reservations. Availability is
// re-derived from the stores on every call; free intervals are never cached
// across requests.
type Engine interface {
	DayAvailability(ctx context.Context, bookID, date string, durationMinutes int) ([]models.FreeInterval, error)
	BookableStarts(ctx context.Context, bookID, date string, durationMinutes, granularityMinutes int) ([]int, error)
	MonthAvailability(ctx context.Context, bookID, month string, durationMinutes, granularityMinutes int) (map[string]bool, error)
	RequestReservation(ctx context.Context, bookID, clientID string, req models.CreateReservationRequest) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) error
	ConfirmReservation(ctx context.Context, reservationID, paymentIntentID string) (*models.Reservation, error)
}

// DefaultEngine is the production scheduling engine.
type DefaultEngine struct {
	Books        bookRepo.Repository
	Schedule     scheduleRepo.Repository
	Blocks       blockRepo.Repository
	Reservations reservationRepo.Repository
	Locks        Locker
	Clock        Clock
	Notifier     notification.Dispatcher
	LockWait     time.Duration
	Logger       *zap.Logger
}

func (e *DefaultEngine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.L()
	}
	return e.Logger
}

func (e *DefaultEngine) lockWait() time.Duration {
	if e.LockWait <= 0 {
		return 1500 * time.Millisecond
	}
	return e.LockWait
}

// baseWindow resolves the day's base interval: an exception strictly
// shadows the weekly template, never merges with it. nil means closed.
func baseWindow(template *models.WeeklyTemplate, exc *models.Exception, weekday time.Weekday) *span {
	if exc != nil {
		if exc.Kind == models.ExceptionCustomHours && exc.CustomStart != nil && exc.CustomEnd != nil {
			return &span{Start: *exc.CustomStart, End: *exc.CustomEnd}
		}
		return nil
	}
	if hours := template.HoursOn(weekday); hours != nil {
		return &span{Start: hours.Start, End: hours.End}
	}
	return nil
}

// computeDayFree derives the day's free spans from preloaded data. Returns
// ErrDataIntegrity if the store handed back overlapping occupying
// reservations; that invariant breach is reported, never silently repaired.
func (e *DefaultEngine) computeDayFree(
	template *models.WeeklyTemplate,
	exc *models.Exception,
	weekday time.Weekday,
	blocks []models.ManualBlock,
	reservations []models.Reservation,
) ([]span, error) {
	base := baseWindow(template, exc, weekday)
	if base == nil {
		return nil, nil
	}

	if bad := findOccupyingOverlap(reservations); bad != nil {
		e.logger().Error("scheduling: reservation store returned overlapping occupying reservations",
			zap.String("bookID", bad[0].BookID),
			zap.String("date", bad[0].Date),
			zap.String("firstID", bad[0].ID),
			zap.String("secondID", bad[1].ID),
		)
		return nil, ErrDataIntegrity
	}

	busy := make([]span, 0, len(blocks)+len(reservations))
	for _, b := range blocks {
		busy = append(busy, span{Start: b.Start, End: b.End})
	}
	for _, r := range reservations {
		busy = append(busy, span{Start: r.Start, End: r.End})
	}
	return subtractSpans(*base, busy), nil
}

// findOccupyingOverlap returns the first overlapping pair among occupying
// reservations, nil if none.
func findOccupyingOverlap(reservations []models.Reservation) *[2]models.Reservation {
	for i := range reservations {
		if !reservations[i].Status.Occupies() {
			continue
		}
		for j := i + 1; j < len(reservations); j++ {
			if !reservations[j].Status.Occupies() {
				continue
			}
			if reservations[i].Start < reservations[j].End && reservations[j].Start < reservations[i].End {
				return &[2]models.Reservation{reservations[i], reservations[j]}
			}
		}
	}
	return nil
}

// dayData bundles one day's schedule inputs.
type dayData struct {
	template     *models.WeeklyTemplate
	exception    *models.Exception
	blocks       []models.ManualBlock
	reservations []models.Reservation
}

// loadDay fetches one day's schedule inputs from the stores.
func (e *DefaultEngine) loadDay(ctx context.Context, bookID string, day time.Time) (*dayData, error) {
	date := day.Format(DateLayout)

	template, err := e.Schedule.GetTemplate(ctx, bookID)
	if err != nil {
		return nil, err
	}
	exc, err := e.Schedule.GetException(ctx, bookID, date)
	if err != nil {
		return nil, err
	}
	blocks, err := e.Blocks.ListByDate(ctx, bookID, date)
	if err != nil {
		return nil, err
	}
	reservations, err := e.Reservations.ListOccupying(ctx, bookID, date)
	if err != nil {
		return nil, err
	}
	return &dayData{template: template, exception: exc, blocks: blocks, reservations: reservations}, nil
}

// freeSpansFor loads the day's schedule data and derives its free spans.
func (e *DefaultEngine) freeSpansFor(ctx context.Context, bookID string, day time.Time) ([]span, error) {
	data, err := e.loadDay(ctx, bookID, day)
	if err != nil {
		return nil, err
	}
	return e.computeDayFree(data.template, data.exception, day.Weekday(), data.blocks, data.reservations)
}

func (e *DefaultEngine) requireBook(ctx context.Context, bookID string) (*models.Book, error) {
	book, err := e.Books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound
	}
	return book, nil
}

// today returns the clock's date truncated to midnight and the minute of
// day. Midnight is pinned to UTC so it compares cleanly against parsed
// wire dates.
func (e *DefaultEngine) today() (time.Time, int) {
	now := e.Clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight, now.Hour()*60 + now.Minute()
}

// DayAvailability returns the free intervals of a book on a date that can
// accommodate the requested duration. Past dates have no openings.
func (e *DefaultEngine) DayAvailability(ctx context.Context, bookID, date string, durationMinutes int) ([]models.FreeInterval, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil || durationMinutes < 0 {
		return nil, ErrInvalidRange
	}
	if _, err := e.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	todayMidnight, _ := e.today()
	if day.Before(todayMidnight) {
		return []models.FreeInterval{}, nil
	}

	free, err := e.freeSpansFor(ctx, bookID, day)
	if err != nil {
		return nil, err
	}

	intervals := make([]models.FreeInterval, 0, len(free))
	for _, f := range free {
		if f.End-f.Start < durationMinutes {
			continue
		}
		intervals = append(intervals, models.FreeInterval{
			Start: f.Start,
			End:   f.End,
			Label: formatMinute(f.Start) + " - " + formatMinute(f.End),
		})
	}
	return intervals, nil
}

// BookableStarts enumerates the start minutes on the granularity grid at
// which a booking of the given duration fits. Starts already in the past
// (relative to the injected clock) are excluded.
func (e *DefaultEngine) BookableStarts(ctx context.Context, bookID, date string, durationMinutes, granularityMinutes int) ([]int, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil || durationMinutes <= 0 || granularityMinutes <= 0 {
		return nil, ErrInvalidRange
	}
	if _, err := e.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	todayMidnight, nowMinute := e.today()
	if day.Before(todayMidnight) {
		return []int{}, nil
	}
	notBefore := 0
	if day.Equal(todayMidnight) {
		notBefore = nowMinute
	}

	free, err := e.freeSpansFor(ctx, bookID, day)
	if err != nil {
		return nil, err
	}
	starts := gridStarts(free, durationMinutes, granularityMinutes, notBefore)
	if starts == nil {
		starts = []int{}
	}
	return starts, nil
}
