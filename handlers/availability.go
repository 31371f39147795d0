package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkbook/config"
	"inkbook/services/scheduling"
	"inkbook/utils"
)

// AvailabilityHandler serves the read side of the scheduling engine.
type AvailabilityHandler struct {
	Engine scheduling.Engine
}

func NewAvailabilityHandler(engine scheduling.Engine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

func granularityOrDefault(c *gin.Context) int {
	fallback := config.AppConfig.SlotGranularityMinutes
	if fallback <= 0 {
		fallback = 15
	}
	return intQuery(c, "granularity", fallback)
}

// GetDayAvailability returns the free intervals of a book on a date.
// GET /api/books/:id/availability?date=YYYY-MM-DD&duration=60
func (h *AvailabilityHandler) GetDayAvailability(c *gin.Context) {
	bookID := c.Param("id")
	date := c.Query("date")
	duration := intQuery(c, "duration", 0)

	intervals, err := h.Engine.DayAvailability(c.Request.Context(), bookID, date, duration)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": bookID, "date": date, "intervals": intervals})
}

// GetBookableStarts returns the start minutes a booking of the given
// duration can begin at.
// GET /api/books/:id/slots?date=YYYY-MM-DD&duration=60&granularity=15
func (h *AvailabilityHandler) GetBookableStarts(c *gin.Context) {
	bookID := c.Param("id")
	date := c.Query("date")
	duration := intQuery(c, "duration", 0)
	granularity := granularityOrDefault(c)

	starts, err := h.Engine.BookableStarts(c.Request.Context(), bookID, date, duration, granularity)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": bookID, "date": date, "starts": starts})
}

// GetMonthAvailability returns, per date of the month, whether any bookable
// start exists.
// GET /api/books/:id/calendar?month=YYYY-MM&duration=60&granularity=15
func (h *AvailabilityHandler) GetMonthAvailability(c *gin.Context) {
	bookID := c.Param("id")
	month := c.Query("month")
	duration := intQuery(c, "duration", 0)
	granularity := granularityOrDefault(c)

	if month == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid month", "month query parameter is required (YYYY-MM)")
		return
	}

	days, err := h.Engine.MonthAvailability(c.Request.Context(), bookID, month, duration, granularity)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": bookID, "month": month, "days": days})
}
