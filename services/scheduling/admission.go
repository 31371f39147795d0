package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "inkbook/database/repository/reservation"
	"inkbook/models"
)

// admissionLockTTL bounds how long a crashed holder can keep a (book, date)
// locked.
const admissionLockTTL = 10 * time.Second

// RequestReservation validates and commits a new reservation as one atomic
// unit. Free intervals are re-derived inside the storage transaction, so a
// result computed from stale data can never be committed; the per-(book,
// date) lock keeps concurrent admissions serialized.
func (e *DefaultEngine) RequestReservation(ctx context.Context, bookID, clientID string, req models.CreateReservationRequest) (*models.Reservation, error) {
	if req.Start < 0 || req.End > minutesPerDay || req.Start >= req.End {
		return nil, ErrInvalidRange
	}
	day, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if _, err := e.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	todayMidnight, nowMinute := e.today()
	if day.Before(todayMidnight) {
		return nil, ErrSlotTaken
	}
	notBefore := 0
	if day.Equal(todayMidnight) {
		notBefore = nowMinute
	}

	// Lock contention means someone else is deciding this slot right now;
	// from the client's view that equals losing the race.
	release, err := e.Locks.Acquire(ctx, bookID+"|"+req.Date, e.lockWait(), admissionLockTTL)
	if err != nil {
		if errors.Is(err, errLockTimeout) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	defer release()

	now := e.Clock.Now()
	res := &models.Reservation{
		ID:        uuid.New().String(),
		BookID:    bookID,
		ClientID:  clientID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Status:    models.ReservationPending,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	recheck := func(ctx context.Context) error {
		data, err := e.loadDay(ctx, bookID, day)
		if err != nil {
			return err
		}
		if baseWindow(data.template, data.exception, day.Weekday()) == nil {
			return ErrBookClosed
		}
		free, err := e.computeDayFree(data.template, data.exception, day.Weekday(), data.blocks, data.reservations)
		if err != nil {
			return err
		}
		if req.Start < notBefore || !containsSpan(free, req.Start, req.End) {
			return ErrSlotTaken
		}
		return nil
	}

	if err := e.admitOnce(ctx, res, recheck); err != nil {
		var schedErr *Error
		if errors.As(err, &schedErr) {
			return nil, err
		}
		// Transient storage failure: retry once with fresh re-validation,
		// then surface as a lost race.
		e.logger().Warn("scheduling: admission transaction failed, retrying",
			zap.String("bookID", bookID), zap.String("date", req.Date), zap.Error(err))
		if err := e.admitOnce(ctx, res, recheck); err != nil {
			if errors.As(err, &schedErr) {
				return nil, err
			}
			e.logger().Warn("scheduling: admission retry failed",
				zap.String("bookID", bookID), zap.String("date", req.Date), zap.Error(err))
			return nil, ErrSlotTaken
		}
	}

	e.notify(func(ctx context.Context) error { return e.Notifier.ReservationCreated(ctx, *res) })
	return res, nil
}

func (e *DefaultEngine) admitOnce(ctx context.Context, res *models.Reservation, recheck func(ctx context.Context) error) error {
	err := e.Reservations.Admit(ctx, res, recheck)
	if errors.Is(err, reservationRepo.ErrOverlap) {
		return ErrSlotTaken
	}
	return err
}

// CancelReservation flips a reservation to CANCELLED. No interval
// re-validation happens; the freed time shows up in the next availability
// query. Cancelling twice is a no-op.
func (e *DefaultEngine) CancelReservation(ctx context.Context, reservationID string) error {
	res, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}
	if res.Status == models.ReservationCancelled {
		return nil
	}
	if err := e.Reservations.UpdateStatus(ctx, reservationID, models.ReservationCancelled); err != nil {
		return err
	}
	res.Status = models.ReservationCancelled
	e.notify(func(ctx context.Context) error { return e.Notifier.ReservationCancelled(ctx, *res) })
	return nil
}

// ConfirmReservation flips a PENDING reservation to CONFIRMED once the
// caller's payment collaborator is satisfied. The engine records the
// payment reference but never enforces payment itself.
func (e *DefaultEngine) ConfirmReservation(ctx context.Context, reservationID, paymentIntentID string) (*models.Reservation, error) {
	res, err := e.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	if res.Status != models.ReservationPending {
		return nil, ErrNotPending
	}
	if paymentIntentID != "" {
		if err := e.Reservations.SetPaymentIntent(ctx, reservationID, paymentIntentID); err != nil {
			return nil, err
		}
		res.PaymentIntentID = paymentIntentID
	}
	if err := e.Reservations.UpdateStatus(ctx, reservationID, models.ReservationConfirmed); err != nil {
		return nil, err
	}
	res.Status = models.ReservationConfirmed
	e.notify(func(ctx context.Context) error { return e.Notifier.ReservationConfirmed(ctx, *res) })
	return res, nil
}

// notify dispatches fire-and-forget, off the admission critical path. A
// failed enqueue is logged, never surfaced to the caller.
func (e *DefaultEngine) notify(fn func(ctx context.Context) error) {
	if e.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			e.logger().Warn("scheduling: notification dispatch failed", zap.Error(err))
		}
	}()
}
