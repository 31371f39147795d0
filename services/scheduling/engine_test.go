package scheduling

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservationRepo "inkbook/database/repository/reservation"
	"inkbook/models"
)

// fakeStore is a shared in-memory backend for the repository fakes. All
// access is serialized on mu; Admit serializes whole transactions on
// admitMu so recheck reads and the insert form one unit.
type fakeStore struct {
	mu           sync.Mutex
	admitMu      sync.Mutex
	books        map[string]models.Book
	templates    map[string]*models.WeeklyTemplate
	exceptions   map[string]models.Exception
	blocks       []models.ManualBlock
	reservations []models.Reservation
	failAdmits   int
}

func newFakeStore() *fakeStore {
	weekdays := models.DayHours{Start: 540, End: 1020}
	return &fakeStore{
		books: map[string]models.Book{
			"b1": {ID: "b1", ArtistID: "a1", Title: "Blackwork flash", DurationMinutes: 60, Active: true},
		},
		templates: map[string]*models.WeeklyTemplate{
			"b1": {
				BookID: "b1",
				Days:   [7]*models.DayHours{nil, &weekdays, &weekdays, &weekdays, &weekdays, &weekdays, nil},
			},
		},
		exceptions: map[string]models.Exception{},
	}
}

func (s *fakeStore) addReservation(res models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, res)
}

type fakeBooks struct{ s *fakeStore }

func (f *fakeBooks) Create(ctx context.Context, book *models.Book) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.books[book.ID] = *book
	return nil
}

func (f *fakeBooks) GetByID(ctx context.Context, bookID string) (*models.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	book, ok := f.s.books[bookID]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (f *fakeBooks) ListByArtist(ctx context.Context, artistID string) ([]models.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Book
	for _, b := range f.s.books {
		if b.ArtistID == artistID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBooks) Update(ctx context.Context, book *models.Book) error {
	return f.Create(ctx, book)
}

func (f *fakeBooks) Delete(ctx context.Context, bookID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.books, bookID)
	return nil
}

func (f *fakeBooks) EnsureIndexes() error { return nil }

type fakeSchedule struct{ s *fakeStore }

func (f *fakeSchedule) GetTemplate(ctx context.Context, bookID string) (*models.WeeklyTemplate, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.templates[bookID], nil
}

func (f *fakeSchedule) UpsertTemplate(ctx context.Context, template *models.WeeklyTemplate) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.templates[template.BookID] = template
	return nil
}

func (f *fakeSchedule) GetException(ctx context.Context, bookID, date string) (*models.Exception, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	exc, ok := f.s.exceptions[bookID+"|"+date]
	if !ok {
		return nil, nil
	}
	return &exc, nil
}

func (f *fakeSchedule) ListExceptionsInRange(ctx context.Context, bookID, from, to string) ([]models.Exception, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Exception
	for _, exc := range f.s.exceptions {
		if exc.BookID == bookID && exc.Date >= from && exc.Date <= to {
			out = append(out, exc)
		}
	}
	return out, nil
}

func (f *fakeSchedule) UpsertException(ctx context.Context, exc *models.Exception) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.exceptions[exc.BookID+"|"+exc.Date] = *exc
	return nil
}

func (f *fakeSchedule) DeleteException(ctx context.Context, bookID, date string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.exceptions, bookID+"|"+date)
	return nil
}

func (f *fakeSchedule) EnsureIndexes() error { return nil }

type fakeBlocks struct{ s *fakeStore }

func (f *fakeBlocks) Create(ctx context.Context, block *models.ManualBlock) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.blocks = append(f.s.blocks, *block)
	return nil
}

func (f *fakeBlocks) ListByDate(ctx context.Context, bookID, date string) ([]models.ManualBlock, error) {
	return f.ListInRange(ctx, bookID, date, date)
}

func (f *fakeBlocks) ListInRange(ctx context.Context, bookID, from, to string) ([]models.ManualBlock, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.ManualBlock
	for _, b := range f.s.blocks {
		if b.BookID == bookID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlocks) Delete(ctx context.Context, bookID, blockID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i, b := range f.s.blocks {
		if b.BookID == bookID && b.BlockID == blockID {
			f.s.blocks = append(f.s.blocks[:i], f.s.blocks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBlocks) EnsureIndexes() error { return nil }

type fakeReservations struct{ s *fakeStore }

func (f *fakeReservations) GetByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.reservations {
		if r.ID == reservationID {
			res := r
			return &res, nil
		}
	}
	return nil, nil
}

func (f *fakeReservations) ListOccupying(ctx context.Context, bookID, date string) ([]models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.s.reservations {
		if r.BookID == bookID && r.Date == date && r.Status.Occupies() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (f *fakeReservations) ListOccupyingInRange(ctx context.Context, bookID, from, to string) ([]models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.s.reservations {
		if r.BookID == bookID && r.Date >= from && r.Date <= to && r.Status.Occupies() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) ListByBook(ctx context.Context, bookID, from, to string) ([]models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.s.reservations {
		if r.BookID == bookID && r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.s.reservations {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) UpdateStatus(ctx context.Context, reservationID string, status models.ReservationStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := range f.s.reservations {
		if f.s.reservations[i].ID == reservationID {
			f.s.reservations[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeReservations) SetPaymentIntent(ctx context.Context, reservationID, paymentIntentID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i := range f.s.reservations {
		if f.s.reservations[i].ID == reservationID {
			f.s.reservations[i].PaymentIntentID = paymentIntentID
			return nil
		}
	}
	return nil
}

type transientError struct{}

func (transientError) Error() string { return "transient write conflict" }

func (f *fakeReservations) Admit(ctx context.Context, res *models.Reservation, recheck func(ctx context.Context) error) error {
	f.s.admitMu.Lock()
	defer f.s.admitMu.Unlock()

	f.s.mu.Lock()
	if f.s.failAdmits > 0 {
		f.s.failAdmits--
		f.s.mu.Unlock()
		return transientError{}
	}
	f.s.mu.Unlock()

	if err := recheck(ctx); err != nil {
		return err
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	overlapping := 1
	for _, r := range f.s.reservations {
		if r.BookID == res.BookID && r.Date == res.Date && r.Status.Occupies() &&
			r.Start < res.End && res.Start < r.End {
			overlapping++
		}
	}
	if overlapping > 1 {
		return reservationRepo.ErrOverlap
	}
	f.s.reservations = append(f.s.reservations, *res)
	return nil
}

func (f *fakeReservations) EnsureIndexes() error { return nil }

// fakeDispatcher records dispatched notification kinds on a channel.
type fakeDispatcher struct{ events chan string }

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{events: make(chan string, 16)}
}

func (d *fakeDispatcher) ReservationCreated(ctx context.Context, res models.Reservation) error {
	d.events <- "created"
	return nil
}

func (d *fakeDispatcher) ReservationConfirmed(ctx context.Context, res models.Reservation) error {
	d.events <- "confirmed"
	return nil
}

func (d *fakeDispatcher) ReservationCancelled(ctx context.Context, res models.Reservation) error {
	d.events <- "cancelled"
	return nil
}

func (d *fakeDispatcher) await(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-d.events:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %q notification", want)
	}
}

func newTestEngine(s *fakeStore, clk Clock) *DefaultEngine {
	return &DefaultEngine{
		Books:        &fakeBooks{s},
		Schedule:     &fakeSchedule{s},
		Blocks:       &fakeBlocks{s},
		Reservations: &fakeReservations{s},
		Locks:        NewMemoryLocker(),
		Clock:        clk,
	}
}

// Fixed clock: Sunday 2026-03-01 midnight UTC. 2026-03-02 is a Monday.
var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestDayAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("subtracts blocks and reservations from the base window", func(t *testing.T) {
		s := newFakeStore()
		s.blocks = append(s.blocks, models.ManualBlock{BlockID: "blk1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 660})
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 900, End: 930, Status: models.ReservationConfirmed})
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-02", 0)
		require.NoError(t, err)
		assert.Equal(t, []models.FreeInterval{
			{Start: 540, End: 600, Label: "9:00 AM - 10:00 AM"},
			{Start: 660, End: 900, Label: "11:00 AM - 3:00 PM"},
			{Start: 930, End: 1020, Label: "3:30 PM - 5:00 PM"},
		}, got)
	})

	t.Run("cancelled reservations free their interval", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 540, End: 1020, Status: models.ReservationCancelled})
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-02", 60)
		require.NoError(t, err)
		assert.Equal(t, []models.FreeInterval{{Start: 540, End: 1020, Label: "9:00 AM - 5:00 PM"}}, got)
	})

	t.Run("filters intervals shorter than the duration", func(t *testing.T) {
		s := newFakeStore()
		s.blocks = append(s.blocks, models.ManualBlock{BlockID: "blk1", BookID: "b1", Date: "2026-03-02", Start: 570, End: 960})
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-02", 60)
		require.NoError(t, err)
		// [540,570) is only 30 minutes; only [960,1020) fits an hour.
		assert.Equal(t, []models.FreeInterval{{Start: 960, End: 1020, Label: "4:00 PM - 5:00 PM"}}, got)
	})

	t.Run("closed weekday has no intervals", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		got, err := e.DayAvailability(ctx, "b1", "2026-03-08", 60) // Sunday
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("past date has no intervals", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		got, err := e.DayAvailability(ctx, "b1", "2026-02-23", 60)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("querying twice changes nothing", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 660, Status: models.ReservationPending})
		e := newTestEngine(s, FixedClock(testNow))

		first, err := e.DayAvailability(ctx, "b1", "2026-03-02", 30)
		require.NoError(t, err)
		second, err := e.DayAvailability(ctx, "b1", "2026-03-02", 30)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown book", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.DayAvailability(ctx, "nope", "2026-03-02", 60)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.DayAvailability(ctx, "b1", "03/02/2026", 60)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("overlapping occupying rows in the store are reported not repaired", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 700, Status: models.ReservationConfirmed})
		s.addReservation(models.Reservation{ID: "r2", BookID: "b1", Date: "2026-03-02", Start: 660, End: 720, Status: models.ReservationPending})
		e := newTestEngine(s, FixedClock(testNow))

		_, err := e.DayAvailability(ctx, "b1", "2026-03-02", 60)
		assert.ErrorIs(t, err, ErrDataIntegrity)
	})
}

func TestExceptionShadowing(t *testing.T) {
	ctx := context.Background()

	t.Run("UNAVAILABLE closes an open weekday", func(t *testing.T) {
		s := newFakeStore()
		s.exceptions["b1|2026-03-02"] = models.Exception{
			ID: "e1", BookID: "b1", Date: "2026-03-02", Kind: models.ExceptionUnavailable,
		}
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-02", 60)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("CUSTOM_HOURS opens a closed weekday", func(t *testing.T) {
		s := newFakeStore()
		s.exceptions["b1|2026-03-08"] = models.Exception{ // Sunday
			ID: "e1", BookID: "b1", Date: "2026-03-08", Kind: models.ExceptionCustomHours,
			CustomStart: intPtr(600), CustomEnd: intPtr(840),
		}
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-08", 60)
		require.NoError(t, err)
		assert.Equal(t, []models.FreeInterval{{Start: 600, End: 840, Label: "10:00 AM - 2:00 PM"}}, got)
	})

	t.Run("CUSTOM_HOURS replaces the template window entirely", func(t *testing.T) {
		s := newFakeStore()
		s.exceptions["b1|2026-03-02"] = models.Exception{
			ID: "e1", BookID: "b1", Date: "2026-03-02", Kind: models.ExceptionCustomHours,
			CustomStart: intPtr(720), CustomEnd: intPtr(780),
		}
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.DayAvailability(ctx, "b1", "2026-03-02", 0)
		require.NoError(t, err)
		// The template's 9-to-5 Monday does not leak around the override.
		assert.Equal(t, []models.FreeInterval{{Start: 720, End: 780, Label: "12:00 PM - 1:00 PM"}}, got)
	})
}

func TestBookableStarts(t *testing.T) {
	ctx := context.Background()

	t.Run("enumerates the granularity grid", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		got, err := e.BookableStarts(ctx, "b1", "2026-03-02", 90, 60)
		require.NoError(t, err)
		assert.Equal(t, []int{540, 600, 660, 720, 780, 840, 900}, got)
	})

	t.Run("excludes starts already past on the current day", func(t *testing.T) {
		// Monday 10:05 local to the clock.
		clk := FixedClock(time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC))
		e := newTestEngine(newFakeStore(), clk)

		got, err := e.BookableStarts(ctx, "b1", "2026-03-02", 60, 60)
		require.NoError(t, err)
		assert.Equal(t, []int{660, 720, 780, 840, 900, 960}, got)
	})

	t.Run("past date returns an empty slice", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		got, err := e.BookableStarts(ctx, "b1", "2026-02-23", 60, 60)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("rejects non-positive duration or granularity", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.BookableStarts(ctx, "b1", "2026-03-02", 0, 60)
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = e.BookableStarts(ctx, "b1", "2026-03-02", 60, 0)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestMonthAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("marks closed days false and open days true", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.MonthAvailability(ctx, "b1", "2026-03", 60, 60)
		require.NoError(t, err)
		assert.Len(t, got, 31)
		assert.False(t, got["2026-03-01"]) // Sunday
		assert.False(t, got["2026-03-07"]) // Saturday
		assert.True(t, got["2026-03-02"])
		assert.True(t, got["2026-03-31"])
	})

	t.Run("fully booked day flips to true after a cancellation", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-09", Start: 540, End: 1020, Status: models.ReservationConfirmed})
		e := newTestEngine(s, FixedClock(testNow))

		got, err := e.MonthAvailability(ctx, "b1", "2026-03", 60, 60)
		require.NoError(t, err)
		assert.False(t, got["2026-03-09"])
		assert.True(t, got["2026-03-10"])

		require.NoError(t, e.CancelReservation(ctx, "r1"))

		got, err = e.MonthAvailability(ctx, "b1", "2026-03", 60, 60)
		require.NoError(t, err)
		assert.True(t, got["2026-03-09"])
	})

	t.Run("past month is entirely false", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		got, err := e.MonthAvailability(ctx, "b1", "2026-02", 60, 60)
		require.NoError(t, err)
		assert.Len(t, got, 28)
		for date, ok := range got {
			assert.False(t, ok, "expected %s to be unavailable", date)
		}
	})

	t.Run("malformed month", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.MonthAvailability(ctx, "b1", "March 2026", 60, 60)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestRequestReservation(t *testing.T) {
	ctx := context.Background()
	req := func(start, end int) models.CreateReservationRequest {
		return models.CreateReservationRequest{Date: "2026-03-02", Start: start, End: end}
	}

	t.Run("admits a valid slot as PENDING", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))

		res, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, models.ReservationPending, res.Status)
		assert.Equal(t, "c1", res.ClientID)

		stored, err := e.Reservations.GetByID(ctx, res.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.ReservationPending, stored.Status)
	})

	t.Run("rejects a slot overlapping an occupying reservation", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 700, Status: models.ReservationPending})
		e := newTestEngine(s, FixedClock(testNow))

		_, err := e.RequestReservation(ctx, "b1", "c1", req(660, 720))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("rejects a slot overlapping a manual block", func(t *testing.T) {
		s := newFakeStore()
		s.blocks = append(s.blocks, models.ManualBlock{BlockID: "blk1", BookID: "b1", Date: "2026-03-02", Start: 720, End: 780})
		e := newTestEngine(s, FixedClock(testNow))

		_, err := e.RequestReservation(ctx, "b1", "c1", req(750, 810))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("closed day is reported as closed", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.RequestReservation(ctx, "b1", "c1", models.CreateReservationRequest{Date: "2026-03-08", Start: 600, End: 660})
		assert.ErrorIs(t, err, ErrBookClosed)
	})

	t.Run("rejects inverted or out-of-day bounds", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))

		_, err := e.RequestReservation(ctx, "b1", "c1", req(660, 600))
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = e.RequestReservation(ctx, "b1", "c1", req(600, 600))
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = e.RequestReservation(ctx, "b1", "c1", req(1400, 1500))
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = e.RequestReservation(ctx, "b1", "c1", models.CreateReservationRequest{Date: "bogus", Start: 600, End: 660})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("unknown book", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.RequestReservation(ctx, "nope", "c1", req(600, 660))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("past date reads as a lost slot", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.RequestReservation(ctx, "b1", "c1", models.CreateReservationRequest{Date: "2026-02-23", Start: 600, End: 660})
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("start already past on the current day reads as a lost slot", func(t *testing.T) {
		clk := FixedClock(time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC))
		e := newTestEngine(newFakeStore(), clk)
		_, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("retries once on a transient storage failure", func(t *testing.T) {
		s := newFakeStore()
		s.failAdmits = 1
		e := newTestEngine(s, FixedClock(testNow))

		res, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		require.NoError(t, err)
		assert.Equal(t, models.ReservationPending, res.Status)
	})

	t.Run("gives up after the retry and reports the slot lost", func(t *testing.T) {
		s := newFakeStore()
		s.failAdmits = 2
		e := newTestEngine(s, FixedClock(testNow))

		_, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("lock contention reads as a lost slot", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))
		e.LockWait = 10 * time.Millisecond

		release, err := e.Locks.Acquire(ctx, "b1|2026-03-02", time.Second, time.Minute)
		require.NoError(t, err)
		defer release()

		_, err = e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("exactly one of many concurrent requests wins the slot", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))

		const racers = 8
		errs := make(chan error, racers)
		var wg sync.WaitGroup
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var wins, lost int
		for err := range errs {
			switch {
			case err == nil:
				wins++
			default:
				assert.ErrorIs(t, err, ErrSlotTaken)
				lost++
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, racers-1, lost)

		occupying, err := e.Reservations.ListOccupying(ctx, "b1", "2026-03-02")
		require.NoError(t, err)
		assert.Len(t, occupying, 1)
	})

	t.Run("dispatches a created notification off the critical path", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))
		d := newFakeDispatcher()
		e.Notifier = d

		_, err := e.RequestReservation(ctx, "b1", "c1", req(600, 660))
		require.NoError(t, err)
		d.await(t, "created")
	})
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the interval for a new admission", func(t *testing.T) {
		s := newFakeStore()
		e := newTestEngine(s, FixedClock(testNow))

		res, err := e.RequestReservation(ctx, "b1", "c1", models.CreateReservationRequest{Date: "2026-03-02", Start: 600, End: 660})
		require.NoError(t, err)

		_, err = e.RequestReservation(ctx, "b1", "c2", models.CreateReservationRequest{Date: "2026-03-02", Start: 600, End: 660})
		assert.ErrorIs(t, err, ErrSlotTaken)

		require.NoError(t, e.CancelReservation(ctx, res.ID))

		retaken, err := e.RequestReservation(ctx, "b1", "c2", models.CreateReservationRequest{Date: "2026-03-02", Start: 600, End: 660})
		require.NoError(t, err)
		assert.Equal(t, models.ReservationPending, retaken.Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 660, Status: models.ReservationPending})
		e := newTestEngine(s, FixedClock(testNow))

		require.NoError(t, e.CancelReservation(ctx, "r1"))
		require.NoError(t, e.CancelReservation(ctx, "r1"))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		assert.ErrorIs(t, e.CancelReservation(ctx, "nope"), ErrNotFound)
	})
}

func TestConfirmReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("pending flips to confirmed with the payment reference", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 660, Status: models.ReservationPending})
		e := newTestEngine(s, FixedClock(testNow))

		res, err := e.ConfirmReservation(ctx, "r1", "pi_123")
		require.NoError(t, err)
		assert.Equal(t, models.ReservationConfirmed, res.Status)
		assert.Equal(t, "pi_123", res.PaymentIntentID)

		stored, err := e.Reservations.GetByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, models.ReservationConfirmed, stored.Status)
		assert.Equal(t, "pi_123", stored.PaymentIntentID)
	})

	t.Run("non-pending reservations cannot be confirmed", func(t *testing.T) {
		s := newFakeStore()
		s.addReservation(models.Reservation{ID: "r1", BookID: "b1", Date: "2026-03-02", Start: 600, End: 660, Status: models.ReservationCancelled})
		e := newTestEngine(s, FixedClock(testNow))

		_, err := e.ConfirmReservation(ctx, "r1", "")
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		e := newTestEngine(newFakeStore(), FixedClock(testNow))
		_, err := e.ConfirmReservation(ctx, "nope", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
