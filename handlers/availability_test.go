package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkbook/models"
	"inkbook/services/scheduling"
)

// stubEngine returns canned answers so handler tests exercise only the HTTP
// boundary.
type stubEngine struct {
	intervals []models.FreeInterval
	starts    []int
	days      map[string]bool
	err       error
}

func (s *stubEngine) DayAvailability(ctx context.Context, bookID, date string, durationMinutes int) ([]models.FreeInterval, error) {
	return s.intervals, s.err
}

func (s *stubEngine) BookableStarts(ctx context.Context, bookID, date string, durationMinutes, granularityMinutes int) ([]int, error) {
	return s.starts, s.err
}

func (s *stubEngine) MonthAvailability(ctx context.Context, bookID, month string, durationMinutes, granularityMinutes int) (map[string]bool, error) {
	return s.days, s.err
}

func (s *stubEngine) RequestReservation(ctx context.Context, bookID, clientID string, req models.CreateReservationRequest) (*models.Reservation, error) {
	return nil, s.err
}

func (s *stubEngine) CancelReservation(ctx context.Context, reservationID string) error {
	return s.err
}

func (s *stubEngine) ConfirmReservation(ctx context.Context, reservationID, paymentIntentID string) (*models.Reservation, error) {
	return nil, s.err
}

func availabilityRouter(engine scheduling.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAvailabilityHandler(engine)
	r.GET("/api/books/:id/availability", h.GetDayAvailability)
	r.GET("/api/books/:id/slots", h.GetBookableStarts)
	r.GET("/api/books/:id/calendar", h.GetMonthAvailability)
	return r
}

func TestGetDayAvailability(t *testing.T) {
	t.Run("returns the engine's intervals", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{
			intervals: []models.FreeInterval{{Start: 540, End: 600, Label: "9:00 AM - 10:00 AM"}},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/b1/availability?date=2026-03-02&duration=60", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			BookID    string                `json:"bookId"`
			Date      string                `json:"date"`
			Intervals []models.FreeInterval `json:"intervals"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "b1", body.BookID)
		assert.Equal(t, "2026-03-02", body.Date)
		assert.Len(t, body.Intervals, 1)
	})

	t.Run("maps unknown book to 404", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{err: scheduling.ErrNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/nope/availability?date=2026-03-02", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("maps invalid range to 400", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{err: scheduling.ErrInvalidRange})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/b1/availability?date=bogus", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps a data fault to 500", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{err: scheduling.ErrDataIntegrity})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/b1/availability?date=2026-03-02", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetBookableStarts(t *testing.T) {
	r := availabilityRouter(&stubEngine{starts: []int{540, 600, 660}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/b1/slots?date=2026-03-02&duration=60&granularity=60", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Starts []int `json:"starts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{540, 600, 660}, body.Starts)
}

func TestGetMonthAvailability(t *testing.T) {
	t.Run("returns the per-day map", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{days: map[string]bool{"2026-03-01": false, "2026-03-02": true}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/b1/calendar?month=2026-03&duration=60", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Days map[string]bool `json:"days"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Days["2026-03-01"])
		assert.True(t, body.Days["2026-03-02"])
	})

	t.Run("missing month is a 400", func(t *testing.T) {
		r := availabilityRouter(&stubEngine{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/books/b1/calendar", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
