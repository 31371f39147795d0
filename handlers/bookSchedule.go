package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	blockRepo "inkbook/database/repository/block"
	bookRepo "inkbook/database/repository/book"
	scheduleRepo "inkbook/database/repository/schedule"
	"inkbook/models"
	"inkbook/services/scheduling"
	"inkbook/utils"
)

// ScheduleHandler serves the artist-facing schedule management endpoints:
// weekly template, date exceptions and manual blocks.
type ScheduleHandler struct {
	Books    bookRepo.Repository
	Schedule scheduleRepo.Repository
	Blocks   blockRepo.Repository
}

func NewScheduleHandler(books bookRepo.Repository, schedule scheduleRepo.Repository, blocks blockRepo.Repository) *ScheduleHandler {
	return &ScheduleHandler{Books: books, Schedule: schedule, Blocks: blocks}
}

func validMinuteWindow(start, end int) bool {
	return start >= 0 && end <= 24*60 && start < end
}

func validDate(date string) bool {
	_, err := time.Parse(scheduling.DateLayout, date)
	return err == nil
}

func (h *ScheduleHandler) requireBook(c *gin.Context) (string, bool) {
	bookID := c.Param("id")
	book, err := h.Books.GetByID(c.Request.Context(), bookID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch book", err.Error())
		return "", false
	}
	if book == nil {
		utils.JSONError(c, http.StatusNotFound, "book not found", bookID)
		return "", false
	}
	return bookID, true
}

// SetupSchedule replaces a book's weekly template.
// PUT /api/artist/books/:id/schedule
func (h *ScheduleHandler) SetupSchedule(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}

	var req models.SetupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	template := &models.WeeklyTemplate{BookID: bookID}
	for weekday, hours := range req.Days {
		if weekday < 0 || weekday > 6 {
			utils.JSONError(c, http.StatusBadRequest, "invalid weekday", "weekdays run 0 (Sunday) through 6 (Saturday)")
			return
		}
		if !validMinuteWindow(hours.Start, hours.End) {
			utils.JSONError(c, http.StatusBadRequest, "invalid hours", "start must be before end, within 0-1440 minutes")
			return
		}
		day := hours
		template.Days[weekday] = &day
	}

	if err := h.Schedule.UpsertTemplate(c.Request.Context(), template); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": template})
}

// GetSchedule returns a book's weekly template.
// GET /api/artist/books/:id/schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}

	template, err := h.Schedule.GetTemplate(c.Request.Context(), bookID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch schedule", err.Error())
		return
	}
	if template == nil {
		template = &models.WeeklyTemplate{BookID: bookID}
	}
	c.JSON(http.StatusOK, gin.H{"schedule": template})
}

// UpsertException creates or replaces the override for a date. An
// UNAVAILABLE exception closes the day; CUSTOM_HOURS replaces the
// template's window entirely.
// PUT /api/artist/books/:id/exceptions
func (h *ScheduleHandler) UpsertException(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}

	var req models.UpsertExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !validDate(req.Date) {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	switch req.Kind {
	case models.ExceptionUnavailable:
		req.CustomStart, req.CustomEnd = nil, nil
	case models.ExceptionCustomHours:
		if req.CustomStart == nil || req.CustomEnd == nil || !validMinuteWindow(*req.CustomStart, *req.CustomEnd) {
			utils.JSONError(c, http.StatusBadRequest, "invalid custom hours", "CUSTOM_HOURS requires customStart < customEnd within 0-1440")
			return
		}
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalid kind", "kind must be UNAVAILABLE or CUSTOM_HOURS")
		return
	}

	exc := &models.Exception{
		BookID:      bookID,
		Date:        req.Date,
		Kind:        req.Kind,
		CustomStart: req.CustomStart,
		CustomEnd:   req.CustomEnd,
		Reason:      req.Reason,
	}
	if err := h.Schedule.UpsertException(c.Request.Context(), exc); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save exception", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"exception": exc})
}

// DeleteException removes the override for a date, letting the weekly
// template apply again.
// DELETE /api/artist/books/:id/exceptions/:date
func (h *ScheduleHandler) DeleteException(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}
	date := c.Param("date")
	if err := h.Schedule.DeleteException(c.Request.Context(), bookID, date); err != nil {
		utils.JSONError(c, http.StatusNotFound, "exception not found", date)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateBlock adds a manual closed interval on top of the day's hours.
// POST /api/artist/books/:id/blocks
func (h *ScheduleHandler) CreateBlock(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}

	var req models.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !validDate(req.Date) {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}
	if !validMinuteWindow(req.Start, req.End) {
		utils.JSONError(c, http.StatusBadRequest, "invalid block window", "start must be before end, within 0-1440 minutes")
		return
	}

	block := &models.ManualBlock{
		BookID: bookID,
		Date:   req.Date,
		Start:  req.Start,
		End:    req.End,
		Notes:  req.Notes,
	}
	if err := h.Blocks.Create(c.Request.Context(), block); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save block", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"block": block})
}

// ListBlocks returns a book's manual blocks in a date range.
// GET /api/artist/books/:id/blocks?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ScheduleHandler) ListBlocks(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if !validDate(from) || !validDate(to) {
		utils.JSONError(c, http.StatusBadRequest, "invalid range", "from and to query parameters are required (YYYY-MM-DD)")
		return
	}

	blocks, err := h.Blocks.ListInRange(c.Request.Context(), bookID, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list blocks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": bookID, "blocks": blocks})
}

// DeleteBlock removes a manual block.
// DELETE /api/artist/books/:id/blocks/:blockId
func (h *ScheduleHandler) DeleteBlock(c *gin.Context) {
	bookID, ok := h.requireBook(c)
	if !ok {
		return
	}
	blockID := c.Param("blockId")
	if err := h.Blocks.Delete(c.Request.Context(), bookID, blockID); err != nil {
		utils.JSONError(c, http.StatusNotFound, "block not found", blockID)
		return
	}
	c.Status(http.StatusNoContent)
}
